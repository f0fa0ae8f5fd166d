// Package money holds the rounding and formatting rules shared by the POS,
// payments and reporting code. All currency-like values are rounded to two
// decimals with ties away from zero; the same function must be used
// everywhere so totals agree across modules.
package money

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Round2 rounds to two decimal places, ties away from zero.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// ClampPaid caps a paid amount into [0, total]. The cap is silent: a paid
// amount above the total is not an error at the terminal, it is simply
// limited to the total.
func ClampPaid(paid, total float64) float64 {
	if paid < 0 {
		paid = 0
	}
	if paid > total {
		paid = total
	}
	return Round2(paid)
}

// Format renders an amount for receipts and ledgers with digit grouping.
func Format(amount float64) string {
	return printer.Sprintf("%.2f", Round2(amount))
}
