package attendance

import (
	"time"

	"github.com/sentra-hr/attendance-backend-go/internal/domain/shift"
)

// RequestType classifies a pending edit request on an attendance row.
type RequestType string

const (
	RequestTypeNone   RequestType = ""
	RequestTypeCreate RequestType = "create_request"
	RequestTypeUpdate RequestType = "update_request"
)

// Attendance is one employee's attendance for one calendar date under one
// shift day. ClockOutAt is nil while the attendance is open.
type Attendance struct {
	ID         string
	EmployeeID string
	CompanyID  string
	ShiftID    string
	Date       time.Time
	Day        shift.Weekday
	ClockInAt  time.Time
	ClockOutAt *time.Time

	WorkedSeconds   int
	OvertimeSeconds int
	MinimumSeconds  int

	Validated        bool
	OvertimeApproved bool

	// Request workflow state
	PendingRequest     bool
	RequestApproved    bool
	RequestType        RequestType
	RequestedData      *string
	RequestDescription *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName *string
}

// IsOpen reports whether the employee is still clocked in on this row.
func (a Attendance) IsOpen() bool {
	return a.ClockOutAt == nil
}

// AttendanceActivity is one clock-in/clock-out pair. Several activities may
// belong to one attendance date when breaks are taken, but at most one is
// open per employee at any time.
type AttendanceActivity struct {
	ID             string
	EmployeeID     string
	CompanyID      string
	AttendanceDate time.Time
	ClockInAt      time.Time
	ClockOutAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DurationSeconds is the closed span of the activity; zero while open.
func (a AttendanceActivity) DurationSeconds() int {
	if a.ClockOutAt == nil {
		return 0
	}
	d := a.ClockOutAt.Sub(a.ClockInAt)
	if d < 0 {
		return 0
	}
	return int(d.Seconds())
}

// OvertimeAccount aggregates an employee's approved overtime per month.
// It is adjusted additively whenever an attendance's overtime is approved,
// recomputed, or removed; it is never overwritten wholesale.
type OvertimeAccount struct {
	ID              string
	EmployeeID      string
	CompanyID       string
	Year            int
	Month           time.Month
	OvertimeSeconds int
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO
	EmployeeName *string
}

// LateEarlyType classifies a late-come or early-out flag.
type LateEarlyType string

const (
	LateCome LateEarlyType = "late_come"
	EarlyOut LateEarlyType = "early_out"
)

// LateComeEarlyOut marks an attendance whose observed clock time fell
// outside the shift window by more than the grace tolerance.
type LateComeEarlyOut struct {
	ID           string
	AttendanceID string
	EmployeeID   string
	CompanyID    string
	Type         LateEarlyType
	CreatedAt    time.Time
}
