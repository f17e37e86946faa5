package models

import "time"

// CanceledClass suppresses a single occurrence of a schedule entry on one
// calendar date without touching the recurring pattern. Rows are created
// once and never mutated; at most one non-deleted row may exist per
// (entry, date) pair.
type CanceledClass struct {
	ID              string     `db:"id" json:"id"`
	ScheduleEntryID string     `db:"schedule_entry_id" json:"schedule_entry_id"`
	Date            time.Time  `db:"date" json:"date"`
	Reason          string     `db:"reason" json:"reason"`
	CreatedBy       *string    `db:"created_by" json:"created_by,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
	IsDeleted       bool       `db:"is_deleted" json:"-"`
	DeletedAt       *time.Time `db:"deleted_at" json:"-"`
}
