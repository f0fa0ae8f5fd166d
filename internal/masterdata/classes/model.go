package classes

import "time"

// Class represents a grade/section within a school.
type Class struct {
	ID        int64     `json:"id"`
	SchoolID  int64     `json:"school_id"`
	Name      string    `json:"name"`
	Section   string    `json:"section"`
	SortOrder int       `json:"sort_order"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
