package models

import "time"

// OccupyingClass identifies the course currently holding a classroom.
type OccupyingClass struct {
	EntryID     string    `json:"entry_id"`
	ScheduleID  string    `json:"schedule_id"`
	CourseID    string    `json:"course_id"`
	SubjectName string    `json:"subject_name"`
	TeacherName string    `json:"teacher_name"`
	DayOfWeek   int       `json:"day_of_week"`
	StartTime   ClockTime `json:"start_time"`
	EndTime     ClockTime `json:"end_time"`
}

// ClassroomAvailability reports one classroom's occupancy at a given instant.
// Every classroom appears in the availability result, occupied or not. More
// than one occupant at the same instant means the data holds a double
// booking; all matches are surfaced and Conflict is raised so callers can
// detect it.
type ClassroomAvailability struct {
	ClassroomID string           `json:"classroom_id"`
	RoomName    string           `json:"room_name"`
	Location    string           `json:"location"`
	Capacity    int              `json:"capacity"`
	IsOccupied  bool             `json:"is_occupied"`
	Conflict    bool             `json:"conflict"`
	Occupants   []OccupyingClass `json:"occupants,omitempty"`
}

// AvailabilitySnapshot is the full availability answer for one instant.
type AvailabilitySnapshot struct {
	CheckedAt  time.Time               `json:"checked_at"`
	Weekday    int                     `json:"weekday"`
	Time       ClockTime               `json:"time"`
	SemesterID string                  `json:"semester_id,omitempty"`
	Classrooms []ClassroomAvailability `json:"classrooms"`
}

// AvailabilityEntryRow is the joined row shape loaded for occupancy
// evaluation: a candidate entry plus its classroom and course context.
type AvailabilityEntryRow struct {
	EntryID     string    `db:"entry_id"`
	ScheduleID  string    `db:"schedule_id"`
	DayOfWeek   int       `db:"day_of_week"`
	StartTime   ClockTime `db:"start_time"`
	EndTime     ClockTime `db:"end_time"`
	ClassroomID string    `db:"classroom_id"`
	CourseID    string    `db:"course_id"`
	SubjectName string    `db:"subject_name"`
	TeacherName string    `db:"teacher_name"`
}
