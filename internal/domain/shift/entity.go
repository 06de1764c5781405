package shift

import (
	"time"
)

// Weekday enumerates the seven shift days. Days are stored and matched by
// this enum rather than by lowercased day-name strings.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = map[Weekday]string{
	Monday:    "monday",
	Tuesday:   "tuesday",
	Wednesday: "wednesday",
	Thursday:  "thursday",
	Friday:    "friday",
	Saturday:  "saturday",
	Sunday:    "sunday",
}

func (d Weekday) String() string {
	if name, ok := weekdayNames[d]; ok {
		return name
	}
	return "unknown"
}

func (d Weekday) Valid() bool {
	_, ok := weekdayNames[d]
	return ok
}

// ParseWeekday parses a lowercase day name into a Weekday.
func ParseWeekday(name string) (Weekday, bool) {
	for d, n := range weekdayNames {
		if n == name {
			return d, true
		}
	}
	return 0, false
}

// WeekdayOf maps a calendar date to its Weekday.
func WeekdayOf(t time.Time) Weekday {
	switch t.Weekday() {
	case time.Sunday:
		return Sunday
	default:
		return Weekday(int(t.Weekday()))
	}
}

// Yesterday returns the previous shift day, wrapping Monday to Sunday.
func (d Weekday) Yesterday() Weekday {
	if d == Monday {
		return Sunday
	}
	return d - 1
}

type Shift struct {
	ID        string
	CompanyID string
	Name      string
	// GraceSeconds is the tolerance applied to late-come and early-out
	// classification on both ends of the shift window.
	GraceSeconds int
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Days []ShiftDay
}

// ShiftDay holds the per-weekday window of a shift. Exactly one ShiftDay
// exists per (shift, weekday) pair; times are "HH:MM" time-of-day strings.
type ShiftDay struct {
	ID           string
	ShiftID      string
	Day          Weekday
	StartTime    string
	EndTime      string
	MinimumHours string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
