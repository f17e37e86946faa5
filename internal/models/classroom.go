package models

import "time"

// Classroom is an independently managed room that schedules may reference.
type Classroom struct {
	ID        string     `db:"id" json:"id"`
	RoomName  string     `db:"room_name" json:"room_name"`
	Capacity  int        `db:"capacity" json:"capacity"`
	Location  string     `db:"location" json:"location"`
	CreatedBy *string    `db:"created_by" json:"created_by,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	IsDeleted bool       `db:"is_deleted" json:"-"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`
}

// ClassroomFilter defines filters supported by classroom list endpoints.
type ClassroomFilter struct {
	Search         string
	IncludeDeleted bool
	Page           int
	PageSize       int
	SortBy         string
	SortOrder      string
}
