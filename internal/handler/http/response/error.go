package response

import (
	"errors"
	"net/http"

	"github.com/sentra-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/sentra-hr/attendance-backend-go/internal/domain/employee"
	"github.com/sentra-hr/attendance-backend-go/internal/domain/notification"
	"github.com/sentra-hr/attendance-backend-go/internal/domain/reimbursement"
	"github.com/sentra-hr/attendance-backend-go/internal/domain/shift"
	"github.com/sentra-hr/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrNoOpenAttendance):
		BadRequest(w, "You are not clocked in", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrOvertimeAccountNotFound):
		NotFound(w, "Overtime account not found")
	case errors.Is(err, attendance.ErrLateEarlyNotFound):
		NotFound(w, "Late come / early out record not found")
	case errors.Is(err, attendance.ErrNoPendingRequest):
		Conflict(w, "Attendance has no pending edit request")
	case errors.Is(err, attendance.ErrPermissionDenied):
		Forbidden(w, err.Error())
	case errors.Is(err, attendance.ErrRequestDataInvalid):
		BadRequest(w, "Requested attendance data is malformed", nil)

	// Shift domain errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrScheduleNotConfigured):
		BadRequest(w, "No schedule is configured for this day", nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrNoWorkInformation):
		BadRequest(w, err.Error(), nil)

	// Reimbursement domain errors
	case errors.Is(err, reimbursement.ErrNotFound):
		NotFound(w, "Reimbursement request not found")
	case errors.Is(err, reimbursement.ErrAlreadyProcessed):
		Conflict(w, "Reimbursement request already processed")
	case errors.Is(err, reimbursement.ErrLeaveNotEncashable):
		BadRequest(w, "This leave type is not encashable", nil)
	case errors.Is(err, reimbursement.ErrInsufficientPoints):
		BadRequest(w, "Not enough bonus points to redeem", nil)
	case errors.Is(err, reimbursement.ErrBonusPointsNotFound):
		NotFound(w, "Employee has no bonus point account")
	case errors.Is(err, reimbursement.ErrPermissionDenied):
		Forbidden(w, err.Error())

	// Notification domain errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")
	case errors.Is(err, notification.ErrUnauthorized):
		Forbidden(w, "You cannot access this notification")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
