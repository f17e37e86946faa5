package models

import "time"

// Semester models an academic semester window. A semester is "current" when
// it is not soft-deleted and its date range contains the present moment.
type Semester struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	StartDate time.Time  `db:"start_date" json:"start_date"`
	EndDate   time.Time  `db:"end_date" json:"end_date"`
	CreatedBy *string    `db:"created_by" json:"created_by,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	IsDeleted bool       `db:"is_deleted" json:"-"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`
}

// Contains reports whether the semester window covers the given instant.
func (s Semester) Contains(now time.Time) bool {
	return !now.Before(s.StartDate) && !now.After(s.EndDate)
}

// SemesterFilter defines filters supported by semester list endpoints.
type SemesterFilter struct {
	Search         string
	IncludeDeleted bool
	Page           int
	PageSize       int
	SortBy         string
	SortOrder      string
}
