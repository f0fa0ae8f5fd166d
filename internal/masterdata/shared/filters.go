// Package shared carries the list filtering, pagination and spreadsheet
// helpers common to all master-data resources.
package shared

import (
	"net/http"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10

	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListFilters represents standard list page filters.
type ListFilters struct {
	Page     int
	Limit    int
	Search   string
	SortBy   string
	SortDir  string
	IsActive *bool

	// Entity specific filters
	SchoolID *int64
	ClassID  *int64
}

// ParseFilters extracts the standard filters from the query string.
func ParseFilters(r *http.Request) ListFilters {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = DefaultPage
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = DefaultLimit
	}

	f := ListFilters{
		Page:    page,
		Limit:   limit,
		Search:  q.Get("q"),
		SortBy:  q.Get("sort"),
		SortDir: q.Get("dir"),
	}

	if v := q.Get("is_active"); v != "" {
		active := v == "true" || v == "1"
		f.IsActive = &active
	}
	if v := q.Get("school_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			f.SchoolID = &id
		}
	}
	if v := q.Get("class_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			f.ClassID = &id
		}
	}
	return f
}

// Offset returns the SQL offset for the current page.
func (f ListFilters) Offset() int {
	offset := (f.Page - 1) * f.Limit
	if offset < 0 {
		offset = 0
	}
	return offset
}
