package models

import "time"

// Course is a subject offered by a department, taught by a teacher within a
// semester. A course may own at most one schedule per classroom binding.
type Course struct {
	ID           string     `db:"id" json:"id"`
	SubjectID    string     `db:"subject_id" json:"subject_id"`
	DepartmentID string     `db:"department_id" json:"department_id"`
	TeacherID    string     `db:"teacher_id" json:"teacher_id"`
	SemesterID   string     `db:"semester_id" json:"semester_id"`
	Credits      int        `db:"credits" json:"credits"`
	CreatedBy    *string    `db:"created_by" json:"created_by,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
	IsDeleted    bool       `db:"is_deleted" json:"-"`
	DeletedAt    *time.Time `db:"deleted_at" json:"-"`
}

// CourseFilter defines filters supported by course list endpoints.
type CourseFilter struct {
	SemesterID   string
	DepartmentID string
	TeacherID    string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
