package attendance

import "errors"

// Attendance domain errors
var (
	// Clock event errors
	ErrNoOpenAttendance = errors.New("no open attendance to clock out of")
	ErrNoOpenActivity   = errors.New("no open attendance activity found")

	// General errors
	ErrAttendanceNotFound      = errors.New("attendance record not found")
	ErrOvertimeAccountNotFound = errors.New("overtime account not found")
	ErrLateEarlyNotFound       = errors.New("late come / early out record not found")

	// Request workflow errors
	ErrNoPendingRequest   = errors.New("attendance has no pending edit request")
	ErrPermissionDenied   = errors.New("you are not allowed to perform this action on this attendance")
	ErrRequestDataInvalid = errors.New("requested attendance data is malformed")
)
