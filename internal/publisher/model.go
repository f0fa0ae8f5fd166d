package publisher

import "time"

// Order statuses. These strings are the contract consumed by terminals and
// reports; CANCELLED is terminal.
const (
	StatusDraft           = "DRAFT"
	StatusSent            = "SENT"
	StatusPartialReceived = "PARTIAL_RECEIVED"
	StatusCompleted       = "COMPLETED"
	StatusCancelled       = "CANCELLED"
)

// Receive directives. "auto" lets the service infer the status from the
// received quantities; "cancelled" closes the order for good.
const (
	DirectiveAuto      = "auto"
	DirectiveCancelled = "cancelled"
)

// Order is a consolidated purchase order towards one supplier, generated by
// aggregating bundle requirements for a session.
type Order struct {
	ID            int64       `json:"id"`
	SupplierID    int64       `json:"supplier_id"`
	SupplierName  string      `json:"supplier_name,omitempty"`
	SupplierEmail string      `json:"supplier_email,omitempty"`
	Session       string      `json:"session"`
	Status        string      `json:"status"`
	Notes         string      `json:"notes,omitempty"`
	SentAt        *time.Time  `json:"sent_at,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	Items         []OrderItem `json:"items,omitempty"`
}

// OrderItem tracks one product on an order. OrderedQty is fixed at
// generation time; ReceivedQty moves with each receive action.
type OrderItem struct {
	ID          int64  `json:"id"`
	OrderID     int64  `json:"order_id"`
	ProductID   int64  `json:"product_id"`
	Title       string `json:"title"`
	OrderedQty  int    `json:"ordered_qty"`
	ReceivedQty int    `json:"received_qty"`
	PendingQty  int    `json:"pending_qty"`
}

// Requirement is one aggregated line of demand for a supplier.
type Requirement struct {
	ProductID int64
	Title     string
	Qty       int
}
