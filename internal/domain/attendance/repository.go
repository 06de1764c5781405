package attendance

import (
	"context"
	"time"

	"github.com/sentra-hr/attendance-backend-go/internal/domain/shift"
)

// AttendanceRepository defines data access methods for attendance rows.
// All methods include companyID to prevent cross-company data access.
type AttendanceRepository interface {
	// Create creates a new attendance record
	Create(ctx context.Context, att Attendance) (Attendance, error)

	// GetByID retrieves attendance by ID with company isolation
	GetByID(ctx context.Context, id string, companyID string) (Attendance, error)

	// GetByEmployeeDateDay retrieves the attendance filed under a specific
	// (date, shift day) pair, or nil when none exists
	GetByEmployeeDateDay(ctx context.Context, employeeID string, date time.Time, day shift.Weekday, companyID string) (*Attendance, error)

	// GetLatestByEmployee retrieves the employee's most recent attendance,
	// ordered by attendance date then id. Returns ErrNoOpenAttendance when
	// the employee has no attendance at all.
	GetLatestByEmployee(ctx context.Context, employeeID string, companyID string) (Attendance, error)

	// Update persists every mutable column, including setting clock_out
	// back to NULL when the attendance was reopened
	Update(ctx context.Context, att Attendance) error

	// Delete removes an attendance row; activities and late/early flags
	// cascade
	Delete(ctx context.Context, id string, companyID string) error

	// List retrieves attendance records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter, companyID string) ([]Attendance, int64, error)

	// ListRequests retrieves rows carrying a pending edit request
	ListRequests(ctx context.Context, filter RequestFilter, companyID string) ([]Attendance, int64, error)

	// ListStaleOpen retrieves open attendances across all companies whose
	// clock-in is older than the cutoff, for the sweep job
	ListStaleOpen(ctx context.Context, before time.Time) ([]Attendance, error)
}

// ActivityRepository defines data access for clock-in/clock-out activities.
type ActivityRepository interface {
	Create(ctx context.Context, activity AttendanceActivity) (AttendanceActivity, error)

	// GetOpenForUpdate locks and returns the employee's single open
	// activity. Within a transaction the row lock serializes concurrent
	// clock-outs for the same employee. Returns ErrNoOpenActivity when
	// the employee is not clocked in.
	GetOpenForUpdate(ctx context.Context, employeeID string, companyID string) (AttendanceActivity, error)

	Update(ctx context.Context, activity AttendanceActivity) error

	// ListByAttendance retrieves all activities filed under one attendance
	// date for the employee
	ListByAttendance(ctx context.Context, employeeID string, date time.Time, companyID string) ([]AttendanceActivity, error)

	// FindMatch locates the activity matching a previous attendance date
	// and clock-in, used to reconcile activities after an approved date
	// change. Returns nil when no such activity exists.
	FindMatch(ctx context.Context, employeeID string, date time.Time, clockInAt time.Time, companyID string) (*AttendanceActivity, error)
}

// OvertimeAccountRepository defines data access for monthly overtime
// aggregates.
type OvertimeAccountRepository interface {
	// GetForUpdate locks and returns the employee's account for a month,
	// or nil when none exists yet
	GetForUpdate(ctx context.Context, employeeID string, year int, month time.Month, companyID string) (*OvertimeAccount, error)

	// Upsert creates the month's account or replaces its totals
	Upsert(ctx context.Context, account OvertimeAccount) (OvertimeAccount, error)

	GetByID(ctx context.Context, id string, companyID string) (OvertimeAccount, error)

	List(ctx context.Context, filter OvertimeFilter, companyID string) ([]OvertimeAccount, int64, error)
}

// LateEarlyRepository defines data access for late-come/early-out flags.
type LateEarlyRepository interface {
	Create(ctx context.Context, record LateComeEarlyOut) (LateComeEarlyOut, error)

	// ExistsForAttendance reports whether the attendance already carries a
	// flag of the given type
	ExistsForAttendance(ctx context.Context, attendanceID string, kind LateEarlyType) (bool, error)

	List(ctx context.Context, companyID string) ([]LateComeEarlyOut, error)

	Delete(ctx context.Context, id string, companyID string) error
}
