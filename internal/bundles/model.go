package bundles

import "time"

// Bundle statuses are free text in the database; these are the values the
// rest of the system gives meaning to. A bundle in one of the preferred
// statuses is billable at the POS ahead of any other candidate.
const (
	StatusIssued   = "ISSUED"
	StatusReserved = "RESERVED"
	StatusPartial  = "PARTIAL"
)

// Bundle is a per-school/class/session template of sellable items (the
// "kit"). It prices POS sales and aggregates stock requirements for
// publisher orders.
type Bundle struct {
	ID        int64        `json:"id"`
	SchoolID  int64        `json:"school_id"`
	ClassID   *int64       `json:"class_id,omitempty"`
	ClassName string       `json:"class_name,omitempty"`
	Session   string       `json:"session"`
	Status    string       `json:"status"`
	IsActive  bool         `json:"is_active"`
	SortOrder int          `json:"sort_order"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Items     []BundleItem `json:"items,omitempty"`
}

// BundleItem is one template line of a bundle.
type BundleItem struct {
	ID         int64   `json:"id"`
	BundleID   int64   `json:"bundle_id"`
	ProductID  int64   `json:"product_id"`
	Qty        int     `json:"qty"`
	MRP        float64 `json:"mrp"`
	SalePrice  float64 `json:"sale_price"`
	IsOptional bool    `json:"is_optional"`
	SortOrder  int     `json:"sort_order"`
}

// LineRef distinguishes a persisted line (has a server id) from a pending
// one composed locally in the editor and not yet saved. The old front end
// encoded this as a negative timestamp id; the tag makes the distinction
// explicit so a legitimate server id can never be mistaken for a local row.
type LineRef struct {
	persisted bool
	id        int64
	clientKey string
}

// PersistedRef tags a line that exists on the server.
func PersistedRef(id int64) LineRef {
	return LineRef{persisted: true, id: id}
}

// PendingRef tags a line that exists only in the editor.
func PendingRef(clientKey string) LineRef {
	return LineRef{clientKey: clientKey}
}

// Persisted returns the server id when the line has one.
func (r LineRef) Persisted() (int64, bool) {
	return r.id, r.persisted
}

// ClientKey returns the editor-local key for pending lines.
func (r LineRef) ClientKey() string {
	return r.clientKey
}
