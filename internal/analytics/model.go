package analytics

import "time"

// Range bounds every analytics query. Zero values mean unbounded.
type Range struct {
	From     time.Time
	To       time.Time
	SchoolID *int64
}

// Summary is the headline KPI block of the dashboard.
type Summary struct {
	Revenue   float64 `json:"revenue"`
	Paid      float64 `json:"paid"`
	Balance   float64 `json:"balance"`
	SaleCount int     `json:"sale_count"`
}

// TrendPoint is one day of the sales trend chart.
type TrendPoint struct {
	Date      string  `json:"date"`
	Revenue   float64 `json:"revenue"`
	SaleCount int     `json:"sale_count"`
}

// TopBundle is one row of the best-selling bundle table.
type TopBundle struct {
	BundleID   int64   `json:"bundle_id"`
	SchoolName string  `json:"school_name"`
	ClassName  string  `json:"class_name"`
	Session    string  `json:"session"`
	SaleCount  int     `json:"sale_count"`
	Revenue    float64 `json:"revenue"`
}

// Dashboard bundles all sections loaded for the analytics page.
type Dashboard struct {
	Summary    Summary      `json:"summary"`
	Trend      []TrendPoint `json:"trend"`
	TopBundles []TopBundle  `json:"top_bundles"`
}
