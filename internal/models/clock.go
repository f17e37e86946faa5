package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ClockTime is a wall-clock time of day with minute precision and no date
// attached. It is stored as minutes since midnight, in [0, 1440).
type ClockTime int

const minutesPerDay = 24 * 60

// NewClockTime builds a ClockTime from an hour and minute pair.
func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// ParseClockTime parses "HH:MM" into a ClockTime.
func ParseClockTime(raw string) (ClockTime, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(raw, "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("parse clock time %q: %w", raw, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("clock time %q out of range", raw)
	}
	return NewClockTime(hour, minute), nil
}

// ClockTimeOf extracts the wall-clock component of a timestamp.
func ClockTimeOf(t time.Time) ClockTime {
	return NewClockTime(t.Hour(), t.Minute())
}

// Hour returns the hour component.
func (t ClockTime) Hour() int { return int(t) / 60 }

// Minute returns the minute component.
func (t ClockTime) Minute() int { return int(t) % 60 }

// Valid reports whether the value lies within a single day.
func (t ClockTime) Valid() bool { return t >= 0 && t < minutesPerDay }

// String renders the canonical "HH:MM" form.
func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// MarshalJSON encodes the time as its "HH:MM" string.
func (t ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes an "HH:MM" string.
func (t *ClockTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseClockTime(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer, persisting the "HH:MM" form.
func (t ClockTime) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("clock time %d out of range", int(t))
	}
	return t.String(), nil
}

// Scan implements sql.Scanner for TEXT and TIME columns.
func (t *ClockTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		parsed, err := ParseClockTime(v)
		if err != nil {
			return err
		}
		*t = parsed
	case []byte:
		parsed, err := ParseClockTime(string(v))
		if err != nil {
			return err
		}
		*t = parsed
	case time.Time:
		*t = ClockTimeOf(v)
	case nil:
		*t = 0
	default:
		return fmt.Errorf("cannot scan %T into ClockTime", src)
	}
	return nil
}
