package shift

import (
	"fmt"
	"time"

	"github.com/sentra-hr/attendance-backend-go/internal/pkg/timeutil"
)

// NoonSeconds splits a night shift's noon-to-noon logical day.
const NoonSeconds = 43200

// DaySchedule is the resolved window of one shift day, in seconds since
// midnight. A night shift has StartSeconds > EndSeconds.
type DaySchedule struct {
	MinimumSeconds int
	StartSeconds   int
	EndSeconds     int
}

// IsNightShift reports whether the window crosses midnight.
func (s DaySchedule) IsNightShift() bool {
	return s.StartSeconds > s.EndSeconds
}

// Resolve returns the schedule window for the requested day of the shift.
// It fails with ErrScheduleNotConfigured when the shift carries no entry
// for that day.
func Resolve(s Shift, day Weekday) (DaySchedule, error) {
	if !day.Valid() {
		return DaySchedule{}, ErrInvalidWeekday
	}

	for _, sd := range s.Days {
		if sd.Day != day {
			continue
		}

		start, err := timeutil.ToSeconds(sd.StartTime)
		if err != nil {
			return DaySchedule{}, fmt.Errorf("%w: start time of %s: %v", ErrInvalidScheduleWindow, day, err)
		}
		end, err := timeutil.ToSeconds(sd.EndTime)
		if err != nil {
			return DaySchedule{}, fmt.Errorf("%w: end time of %s: %v", ErrInvalidScheduleWindow, day, err)
		}
		minimum, err := timeutil.ToSeconds(sd.MinimumHours)
		if err != nil {
			return DaySchedule{}, fmt.Errorf("%w: minimum hours of %s: %v", ErrInvalidScheduleWindow, day, err)
		}

		return DaySchedule{
			MinimumSeconds: minimum,
			StartSeconds:   start,
			EndSeconds:     end,
		}, nil
	}

	return DaySchedule{}, fmt.Errorf("%w: %s", ErrScheduleNotConfigured, day)
}

// ResolveAttendanceDate decides which calendar date a clock-in belongs to.
//
// Day shifts file under today. A night shift treats its logical day as
// noon-to-noon: a clock-in before noon still belongs to yesterday's shift
// day, so the window is re-resolved for yesterday and the attendance is
// filed under yesterday's date. A 22:00-06:00 shift therefore keeps one
// continuous session on a single attendance row even when the employee
// clocks in after midnight.
func ResolveAttendanceDate(s Shift, today time.Time, nowSeconds int) (time.Time, Weekday, DaySchedule, error) {
	day := WeekdayOf(today)
	schedule, err := Resolve(s, day)
	if err != nil {
		return time.Time{}, 0, DaySchedule{}, err
	}

	if !schedule.IsNightShift() || nowSeconds >= NoonSeconds {
		return today, day, schedule, nil
	}

	yesterday := today.AddDate(0, 0, -1)
	dayYesterday := day.Yesterday()
	schedule, err = Resolve(s, dayYesterday)
	if err != nil {
		return time.Time{}, 0, DaySchedule{}, err
	}
	return yesterday, dayYesterday, schedule, nil
}
