package payments

import (
	"fmt"

	"github.com/bookpost-erp/bookpost/internal/money"
	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

// Discount is the wire form of a discount entry. Nil fields were left blank
// by the operator.
type Discount struct {
	Percent *float64 `json:"discount_percent,omitempty"`
	Amount  *float64 `json:"discount_amount,omitempty"`
}

// ReconcileDiscount derives the missing half of a discount from the one the
// operator entered. Entering both at once is ambiguous and rejected before
// anything is written.
func ReconcileDiscount(amount float64, d Discount) (percent, discountAmount float64, err error) {
	if d.Percent != nil && d.Amount != nil {
		return 0, 0, fmt.Errorf("%w: enter either a discount percent or a fixed amount, not both", httpx.ErrValidation)
	}
	switch {
	case d.Percent != nil:
		percent = *d.Percent
		if percent < 0 || percent > 100 {
			return 0, 0, fmt.Errorf("%w: discount percent must be between 0 and 100", httpx.ErrValidation)
		}
		discountAmount = money.Round2(amount * percent / 100)
	case d.Amount != nil:
		discountAmount = *d.Amount
		if discountAmount < 0 || discountAmount > amount {
			return 0, 0, fmt.Errorf("%w: discount amount must be between 0 and the payment amount", httpx.ErrValidation)
		}
		if amount > 0 {
			percent = money.Round2(discountAmount / amount * 100)
		}
	}
	return percent, discountAmount, nil
}
