package models

import "time"

// Subject is a teachable unit belonging to a department.
type Subject struct {
	ID           string     `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Code         string     `db:"code" json:"code"`
	DepartmentID string     `db:"department_id" json:"department_id"`
	CreatedBy    *string    `db:"created_by" json:"created_by,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
	IsDeleted    bool       `db:"is_deleted" json:"-"`
	DeletedAt    *time.Time `db:"deleted_at" json:"-"`
}
