package models

import "time"

// Notice is an announcement posted on the portal's board.
type Notice struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Body        string     `db:"body" json:"body"`
	PublishedAt time.Time  `db:"published_at" json:"published_at"`
	CreatedBy   *string    `db:"created_by" json:"created_by,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	IsDeleted   bool       `db:"is_deleted" json:"-"`
	DeletedAt   *time.Time `db:"deleted_at" json:"-"`
}

// NoticeFilter defines filters supported by notice list endpoints.
type NoticeFilter struct {
	Search   string
	Page     int
	PageSize int
}
