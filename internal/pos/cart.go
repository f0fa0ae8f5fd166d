package pos

import (
	"time"

	"github.com/bookpost-erp/bookpost/internal/money"
)

// Cart is a server-held terminal session. Generation increases on every
// successful save; a write carrying an older generation than the stored one
// lost a race and is discarded.
type Cart struct {
	ID         string     `json:"id"`
	SchoolID   int64      `json:"school_id,omitempty"`
	ClassID    int64      `json:"class_id,omitempty"`
	ClassName  string     `json:"class_name,omitempty"`
	BundleID   int64      `json:"bundle_id,omitempty"`
	Lines      []CartLine `json:"lines"`
	PaidAmount float64    `json:"paid_amount"`
	Generation int64      `json:"generation"`
	LoadedAt   time.Time  `json:"loaded_at,omitempty"`
}

// Totals recomputes the billing summary from current state.
func (c *Cart) Totals() Totals {
	return ComputeTotals(c.Lines, c.PaidAmount)
}

// LinePatch updates selected fields of one line. Nil fields stay untouched.
type LinePatch struct {
	Qty       *float64 `json:"qty,omitempty"`
	UnitPrice *float64 `json:"unit_price,omitempty"`
	Include   *bool    `json:"include,omitempty"`
	Title     *string  `json:"title,omitempty"`
}

func (c *Cart) findLine(key string) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].Key == key {
			return &c.Lines[i]
		}
	}
	return nil
}

// SetLine applies a patch to the line with the given key. An unknown key is
// a no-op, not an error.
func (c *Cart) SetLine(key string, patch LinePatch) {
	l := c.findLine(key)
	if l == nil {
		return
	}
	if patch.Qty != nil {
		q := *patch.Qty
		if q < 0 {
			q = 0
		}
		l.Qty = money.Round2(q)
	}
	if patch.UnitPrice != nil {
		p := *patch.UnitPrice
		if p < 0 {
			p = 0
		}
		l.UnitPrice = money.Round2(p)
	}
	if patch.Include != nil {
		l.Include = *patch.Include
	}
	if patch.Title != nil {
		l.Title = *patch.Title
	}
}

// IncQty bumps a line quantity by one.
func (c *Cart) IncQty(key string) {
	if l := c.findLine(key); l != nil {
		l.Qty = money.Round2(l.Qty + 1)
	}
}

// DecQty lowers a line quantity by one, floored at zero.
func (c *Cart) DecQty(key string) {
	if l := c.findLine(key); l != nil {
		q := l.Qty - 1
		if q < 0 {
			q = 0
		}
		l.Qty = money.Round2(q)
	}
}

// ToggleInclude flips whether a line bills. Excluded lines keep their qty
// and price and contribute zero.
func (c *Cart) ToggleInclude(key string) {
	if l := c.findLine(key); l != nil {
		l.Include = !l.Include
	}
}

// SetPaid records the operator-entered paid amount. Clamping happens at
// totals time so lowering the total later re-clamps naturally.
func (c *Cart) SetPaid(amount float64) {
	if amount < 0 {
		amount = 0
	}
	c.PaidAmount = money.Round2(amount)
}
