package pos

import "github.com/bookpost-erp/bookpost/internal/money"

// Totals is the billing summary of a cart. It is always recomputed from the
// full line list, never adjusted incrementally.
type Totals struct {
	Subtotal  float64 `json:"subtotal"`
	Total     float64 `json:"total"`
	Paid      float64 `json:"paid"`
	Balance   float64 `json:"balance"`
	ItemCount int     `json:"item_count"`
}

// ComputeTotals derives the billing summary. Each line amount is rounded
// before summing so drift cannot accumulate across many lines; the paid
// amount is silently capped into [0, total].
func ComputeTotals(lines []CartLine, paidAmount float64) Totals {
	var subtotal float64
	var count int
	for _, l := range lines {
		if !l.Include {
			continue
		}
		count++
		subtotal += money.Round2(l.Qty * l.UnitPrice)
	}
	subtotal = money.Round2(subtotal)
	total := money.Round2(subtotal)
	paid := money.ClampPaid(paidAmount, total)
	balance := money.Round2(total - paid)
	if balance < 0 {
		balance = 0
	}
	return Totals{
		Subtotal:  subtotal,
		Total:     total,
		Paid:      paid,
		Balance:   balance,
		ItemCount: count,
	}
}
