package shift

import "errors"

// Shift domain errors
var (
	ErrShiftNotFound          = errors.New("shift not found")
	ErrScheduleNotConfigured  = errors.New("no shift schedule configured for this day")
	ErrInvalidWeekday         = errors.New("invalid weekday")
	ErrInvalidScheduleWindow  = errors.New("shift day has an invalid time window")
	ErrShiftDayAlreadyDefined = errors.New("shift already has a schedule for this day")
)
