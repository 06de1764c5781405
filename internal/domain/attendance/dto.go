package attendance

import (
	"time"

	"github.com/sentra-hr/attendance-backend-go/internal/pkg/timeutil"
	"github.com/sentra-hr/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// CLOCK EVENT DTOs
// ========================================

// ClockRequest carries an optional override timestamp; when absent the
// server clock is used.
type ClockRequest struct {
	Timestamp *string `json:"timestamp,omitempty"`

	At *time.Time `json:"-"`
}

func (r *ClockRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Timestamp != nil && *r.Timestamp != "" {
		t, ok := validator.IsValidDateTime(*r.Timestamp)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "timestamp",
				Message: "timestamp must be a valid ISO8601 datetime",
			})
		} else {
			r.At = &t
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ClockResponse struct {
	Status string `json:"status"`
}

// ========================================
// REQUEST WORKFLOW DTOs
// ========================================

// SubmitRequestRequest submits a new attendance for review (AttendanceID
// nil) or proposes edits to an existing one.
type SubmitRequestRequest struct {
	AttendanceID *string `json:"attendance_id,omitempty"`
	EmployeeID   string  `json:"employee_id"`
	Date         string  `json:"attendance_date"`
	ClockInAt    string  `json:"attendance_clock_in"`
	ClockOutAt   *string `json:"attendance_clock_out,omitempty"`
	Description  string  `json:"request_description"`
}

func (r *SubmitRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_date",
			Message: "attendance_date must be in YYYY-MM-DD format",
		})
	}

	if _, err := time.Parse(dateTimeLayout, r.ClockInAt); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_clock_in",
			Message: "attendance_clock_in must be in YYYY-MM-DD HH:MM:SS format",
		})
	}

	if r.ClockOutAt != nil && *r.ClockOutAt != "" && *r.ClockOutAt != "None" {
		if _, err := time.Parse(dateTimeLayout, *r.ClockOutAt); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "attendance_clock_out",
				Message: "attendance_clock_out must be in YYYY-MM-DD HH:MM:SS format",
			})
		}
	}

	if validator.IsEmpty(r.Description) {
		errs = append(errs, validator.ValidationError{
			Field:   "request_description",
			Message: "request_description is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// RESPONSES
// ========================================

type AttendanceResponse struct {
	ID                 string  `json:"id"`
	EmployeeID         string  `json:"employee_id"`
	EmployeeName       string  `json:"employee_name,omitempty"`
	ShiftID            string  `json:"shift_id"`
	Date               string  `json:"attendance_date"`
	Day                string  `json:"shift_day"`
	ClockInAt          string  `json:"attendance_clock_in"`
	ClockOutAt         *string `json:"attendance_clock_out"`
	WorkedHours        string  `json:"attendance_worked_hour"`
	OvertimeHours      string  `json:"attendance_overtime"`
	MinimumHours       string  `json:"minimum_hour"`
	Validated          bool    `json:"attendance_validated"`
	OvertimeApproved   bool    `json:"attendance_overtime_approve"`
	PendingRequest     bool    `json:"is_validate_request"`
	RequestApproved    bool    `json:"is_validate_request_approved"`
	RequestType        string  `json:"request_type,omitempty"`
	RequestDescription *string `json:"request_description,omitempty"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

// ToResponse converts an Attendance entity to its API representation.
func ToResponse(att Attendance) AttendanceResponse {
	var employeeName string
	if att.EmployeeName != nil {
		employeeName = *att.EmployeeName
	}

	var clockOut *string
	if att.ClockOutAt != nil {
		v := att.ClockOutAt.Format(dateTimeLayout)
		clockOut = &v
	}

	return AttendanceResponse{
		ID:                 att.ID,
		EmployeeID:         att.EmployeeID,
		EmployeeName:       employeeName,
		ShiftID:            att.ShiftID,
		Date:               att.Date.Format(dateLayout),
		Day:                att.Day.String(),
		ClockInAt:          att.ClockInAt.Format(dateTimeLayout),
		ClockOutAt:         clockOut,
		WorkedHours:        timeutil.FormatDuration(att.WorkedSeconds),
		OvertimeHours:      timeutil.FormatDuration(att.OvertimeSeconds),
		MinimumHours:       timeutil.ToTimeString(att.MinimumSeconds),
		Validated:          att.Validated,
		OvertimeApproved:   att.OvertimeApproved,
		PendingRequest:     att.PendingRequest,
		RequestApproved:    att.RequestApproved,
		RequestType:        string(att.RequestType),
		RequestDescription: att.RequestDescription,
		CreatedAt:          att.CreatedAt.Format(dateTimeLayout),
		UpdatedAt:          att.UpdatedAt.Format(dateTimeLayout),
	}
}

type OvertimeAccountResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	Year         int    `json:"year"`
	Month        string `json:"month"`
	Overtime     string `json:"overtime"`
}

func ToOvertimeResponse(account OvertimeAccount) OvertimeAccountResponse {
	var employeeName string
	if account.EmployeeName != nil {
		employeeName = *account.EmployeeName
	}
	return OvertimeAccountResponse{
		ID:           account.ID,
		EmployeeID:   account.EmployeeID,
		EmployeeName: employeeName,
		Year:         account.Year,
		Month:        account.Month.String(),
		Overtime:     timeutil.FormatDuration(account.OvertimeSeconds),
	}
}

type LateEarlyResponse struct {
	ID           string `json:"id"`
	AttendanceID string `json:"attendance_id"`
	EmployeeID   string `json:"employee_id"`
	Type         string `json:"type"`
	CreatedAt    string `json:"created_at"`
}

func ToLateEarlyResponse(record LateComeEarlyOut) LateEarlyResponse {
	return LateEarlyResponse{
		ID:           record.ID,
		AttendanceID: record.AttendanceID,
		EmployeeID:   record.EmployeeID,
		Type:         string(record.Type),
		CreatedAt:    record.CreatedAt.Format(dateTimeLayout),
	}
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}

type ListOvertimeResponse struct {
	TotalCount int64                     `json:"total_count"`
	Page       int                       `json:"page"`
	Limit      int                       `json:"limit"`
	TotalPages int                       `json:"total_pages"`
	Accounts   []OvertimeAccountResponse `json:"accounts"`
}

// ========================================
// FILTERS
// ========================================

// AttendanceFilter narrows attendance listings. Type mirrors the listing
// views of the administration UI: "validated", "non-validated" and "ot"
// (validated rows whose overtime reaches the approval threshold).
type AttendanceFilter struct {
	Type       string
	EmployeeID *string
	StartDate  *string
	EndDate    *string
	Page       int
	Limit      int

	// MinOvertimeSeconds is set by the service for Type "ot"
	MinOvertimeSeconds int
}

var attendanceFilterTypes = []string{"", "ot", "validated", "non-validated"}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(f.Type, attendanceFilterTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: ot, validated, non-validated",
		})
	}
	if f.StartDate != nil && *f.StartDate != "" {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RequestFilter struct {
	EmployeeID *string
	Page       int
	Limit      int
}

type OvertimeFilter struct {
	EmployeeID *string
	Year       *int
	Page       int
	Limit      int
}
