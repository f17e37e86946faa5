package models

import "time"

// Department is a reference-data entity owning subjects and courses.
type Department struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Code      string     `db:"code" json:"code"`
	CreatedBy *string    `db:"created_by" json:"created_by,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	IsDeleted bool       `db:"is_deleted" json:"-"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`
}
