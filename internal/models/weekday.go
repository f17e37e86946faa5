package models

import "time"

// Weekdays are numbered 1..7 with Monday as 1, matching the stored
// day_of_week column. The platform's Sunday-based numbering is converted
// once at this boundary and never mixed with the stored convention.
const (
	WeekdayMin = 1
	WeekdayMax = 7
)

// WeekdayOf maps a timestamp's weekday onto the 1..7 Monday-first scheme.
func WeekdayOf(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// PrevWeekday returns the weekday preceding d, wrapping Monday back to Sunday.
func PrevWeekday(d int) int {
	if d == WeekdayMin {
		return WeekdayMax
	}
	return d - 1
}

// ValidWeekday reports whether d lies in the canonical 1..7 range.
func ValidWeekday(d int) bool {
	return d >= WeekdayMin && d <= WeekdayMax
}

var weekdayNames = map[int]string{
	1: "Monday",
	2: "Tuesday",
	3: "Wednesday",
	4: "Thursday",
	5: "Friday",
	6: "Saturday",
	7: "Sunday",
}

// WeekdayName returns the English name for a 1..7 weekday, or "" when out of range.
func WeekdayName(d int) string {
	return weekdayNames[d]
}
