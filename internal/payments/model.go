package payments

import "time"

// Payment is one settlement towards a supplier. A discount reduces the
// payable alongside the paid amount; percent and fixed amount are two views
// of the same discount and are kept consistent at entry time.
type Payment struct {
	ID              int64     `json:"id"`
	SupplierID      int64     `json:"supplier_id"`
	Amount          float64   `json:"amount"`
	DiscountPercent float64   `json:"discount_percent"`
	DiscountAmount  float64   `json:"discount_amount"`
	Mode            string    `json:"mode,omitempty"`
	Ref             string    `json:"ref,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	PaidOn          time.Time `json:"paid_on"`
	CreatedAt       time.Time `json:"created_at"`
}

// Ledger entry kinds.
const (
	EntryInvoice = "INVOICE"
	EntryPayment = "PAYMENT"
)

// LedgerEntry is one statement line. Invoices debit the payable, payments
// and their discounts credit it; Balance is the running payable after the
// entry.
type LedgerEntry struct {
	Date    time.Time `json:"date"`
	Kind    string    `json:"kind"`
	Ref     string    `json:"ref"`
	Debit   float64   `json:"debit"`
	Credit  float64   `json:"credit"`
	Balance float64   `json:"balance"`
}

// Ledger is a supplier statement with the closing balance.
type Ledger struct {
	SupplierID int64         `json:"supplier_id"`
	Entries    []LedgerEntry `json:"entries"`
	Balance    float64       `json:"balance"`
}
