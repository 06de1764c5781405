package attendance

import (
	"context"
)

// AttendanceService defines the clock event processing and request
// workflow operations.
type AttendanceService interface {
	// ClockIn records a clock-in, creating or extending the attendance
	// filed under the resolved shift day
	ClockIn(ctx context.Context, req ClockRequest) (ClockResponse, error)

	// ClockOut closes the open activity and recomputes worked/overtime
	// totals
	ClockOut(ctx context.Context, req ClockRequest) (ClockResponse, error)

	// SubmitRequest files a create or update request for manager review
	SubmitRequest(ctx context.Context, req SubmitRequestRequest) (AttendanceResponse, error)

	// ApproveRequest applies a pending request (manager capability)
	ApproveRequest(ctx context.Context, id string) error

	// CancelRequest withdraws a pending request; a cancelled create
	// request removes the attendance entirely
	CancelRequest(ctx context.Context, id string) error

	// Validate marks an attendance as manager-confirmed and notifies the
	// employee
	Validate(ctx context.Context, id string) error

	// ApproveOvertime flags the attendance's overtime as approved and
	// adds it to the employee's monthly account
	ApproveOvertime(ctx context.Context, id string) error

	// Delete removes an attendance, first deducting its approved overtime
	// from the monthly account
	Delete(ctx context.Context, id string) error

	Get(ctx context.Context, id string) (AttendanceResponse, error)
	List(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
	ListRequests(ctx context.Context, filter RequestFilter) (ListAttendanceResponse, error)
	ListOvertimeAccounts(ctx context.Context, filter OvertimeFilter) (ListOvertimeResponse, error)

	// ListLateEarly lists late-come/early-out flags; employees only see
	// their own
	ListLateEarly(ctx context.Context) ([]LateEarlyResponse, error)

	// DeleteLateEarly removes a flag (manager capability)
	DeleteLateEarly(ctx context.Context, id string) error
}
