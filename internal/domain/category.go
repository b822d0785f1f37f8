package domain

import "time"

// Category groups complaints by subject area. ComplaintCount is a best-effort
// counter maintained on create/delete, not an authoritative tally.
type Category struct {
	ID             string
	Name           string
	Description    string
	Icon           string
	Color          string
	IsActive       bool
	ComplaintCount int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
