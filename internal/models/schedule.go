package models

import "time"

// Schedule binds a course to a classroom and owns the weekly recurrence
// pattern expressed by its entries.
type Schedule struct {
	ID          string     `db:"id" json:"id"`
	CourseID    string     `db:"course_id" json:"course_id"`
	ClassroomID string     `db:"classroom_id" json:"classroom_id"`
	CreatedBy   *string    `db:"created_by" json:"created_by,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	IsDeleted   bool       `db:"is_deleted" json:"-"`
	DeletedAt   *time.Time `db:"deleted_at" json:"-"`

	Entries []ScheduleEntry `db:"-" json:"entries,omitempty"`
}

// ScheduleEntry is one weekly occurrence within a schedule: a weekday plus a
// half-open [start, end) wall-clock range. An end before the start means the
// interval wraps past midnight into the following weekday.
type ScheduleEntry struct {
	ID         string     `db:"id" json:"id"`
	ScheduleID string     `db:"schedule_id" json:"schedule_id"`
	DayOfWeek  int        `db:"day_of_week" json:"day_of_week"`
	StartTime  ClockTime  `db:"start_time" json:"start_time"`
	EndTime    ClockTime  `db:"end_time" json:"end_time"`
	CreatedBy  *string    `db:"created_by" json:"created_by,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
	IsDeleted  bool       `db:"is_deleted" json:"-"`
	DeletedAt  *time.Time `db:"deleted_at" json:"-"`
}

// Overnight reports whether the entry wraps past midnight.
func (e ScheduleEntry) Overnight() bool {
	return e.StartTime > e.EndTime
}

// OccupiedAt evaluates the entry's recurring interval against a weekday and
// wall-clock time. Pure; no state beyond the entry itself.
//
// Normal interval (start <= end): matches on the entry's own weekday for
// start <= t < end. Overnight interval (start > end): matches on the entry's
// weekday from start onward, and on the following weekday before end.
func (e ScheduleEntry) OccupiedAt(day int, t ClockTime) bool {
	if e.StartTime <= e.EndTime {
		return e.DayOfWeek == day && t >= e.StartTime && t < e.EndTime
	}
	if e.DayOfWeek == day {
		return t >= e.StartTime
	}
	return e.DayOfWeek == PrevWeekday(day) && t < e.EndTime
}

// ScheduleSummary is the joined listing shape used by schedule views and the
// timetable export.
type ScheduleSummary struct {
	ScheduleID    string `db:"schedule_id" json:"schedule_id"`
	CourseID      string `db:"course_id" json:"course_id"`
	SubjectName   string `db:"subject_name" json:"subject_name"`
	SubjectCode   string `db:"subject_code" json:"subject_code"`
	TeacherName   string `db:"teacher_name" json:"teacher_name"`
	SemesterName  string `db:"semester_name" json:"semester_name"`
	ClassroomID   string `db:"classroom_id" json:"classroom_id"`
	ClassroomName string `db:"classroom_name" json:"classroom_name"`

	Entries []ScheduleEntry `db:"-" json:"entries"`
}

// ScheduleFilter describes query params for listing schedules.
type ScheduleFilter struct {
	SemesterID string
	CourseID   string
	Search     string
	Page       int
	PageSize   int
}
