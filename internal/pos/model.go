package pos

import "time"

// Sold-to types. WALKIN sales carry no school reference.
const (
	SoldToSchool = "SCHOOL"
	SoldToWalkIn = "WALKIN"
)

// Payment modes stored on a sale.
const (
	PaymentCash    = "CASH"
	PaymentCredit  = "CREDIT"
	PaymentPartial = "PARTIAL"
)

// Sale is a completed checkout. Amounts are recomputed server-side at
// checkout time and stored as billed.
type Sale struct {
	ID          int64      `json:"id"`
	SoldToType  string     `json:"sold_to_type"`
	SoldToID    *int64     `json:"sold_to_id,omitempty"`
	BundleID    *int64     `json:"bundle_id,omitempty"`
	ClassName   string     `json:"class_name,omitempty"`
	PaymentMode string     `json:"payment_mode"`
	Subtotal    float64    `json:"subtotal"`
	Total       float64    `json:"total"`
	Paid        float64    `json:"paid"`
	Balance     float64    `json:"balance"`
	Notes       string     `json:"notes,omitempty"`
	SoldAt      time.Time  `json:"sold_at"`
	Items       []SaleItem `json:"items,omitempty"`
}

// SaleItem is one billed (or explicitly excluded) line of a sale. Excluded
// lines are stored for the record but carry a zero line total.
type SaleItem struct {
	ID        int64   `json:"id"`
	SaleID    int64   `json:"sale_id"`
	ProductID int64   `json:"product_id"`
	Title     string  `json:"title"`
	Qty       float64 `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
	Include   bool    `json:"include"`
}
