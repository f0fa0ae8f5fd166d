package dispatches

import "time"

// Dispatch statuses form a forward-only workflow. A dispatch is created as
// DISPATCHED and moves through PARTIALLY_DELIVERED to DELIVERED; skipping
// the partial stage is allowed, going backwards is not.
const (
	StatusDispatched         = "DISPATCHED"
	StatusPartiallyDelivered = "PARTIALLY_DELIVERED"
	StatusDelivered          = "DELIVERED"
)

// Dispatch records one shipment of bundle stock towards a school, carried by
// a transport and optionally routed through a distributor.
type Dispatch struct {
	ID            int64      `json:"id"`
	BundleID      int64      `json:"bundle_id"`
	SchoolID      int64      `json:"school_id"`
	DistributorID *int64     `json:"distributor_id,omitempty"`
	TransportID   *int64     `json:"transport_id,omitempty"`
	ChallanNo     string     `json:"challan_no"`
	VehicleNo     string     `json:"vehicle_no,omitempty"`
	Qty           int        `json:"qty"`
	Status        string     `json:"status"`
	DispatchedAt  time.Time  `json:"dispatched_at"`
	DeliveredAt   *time.Time `json:"delivered_at,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ChallanData carries the joined names the challan document prints.
type ChallanData struct {
	Dispatch        Dispatch
	SchoolName      string
	SchoolAddress   string
	DistributorName string
	TransportName   string
	BundleSession   string
	BundleClass     string
	Items           []ChallanItem
}

// ChallanItem is one printed line of the challan, resolved from the
// dispatched bundle's template.
type ChallanItem struct {
	Title string
	Qty   int
}

// CanTransition reports whether a dispatch may move from one status to
// another.
func CanTransition(from, to string) bool {
	switch from {
	case StatusDispatched:
		return to == StatusPartiallyDelivered || to == StatusDelivered
	case StatusPartiallyDelivered:
		return to == StatusDelivered
	default:
		return false
	}
}
