package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/sentra-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/sentra-hr/attendance-backend-go/internal/domain/employee"
	"github.com/sentra-hr/attendance-backend-go/internal/domain/notification"
	"github.com/sentra-hr/attendance-backend-go/internal/domain/shift"
	"github.com/sentra-hr/attendance-backend-go/internal/domain/user"
	"github.com/sentra-hr/attendance-backend-go/internal/pkg/database"
)

type AttendanceServiceImpl struct {
	AttendanceRepository attendance.AttendanceRepository
	ActivityRepository   attendance.ActivityRepository
	OvertimeRepository   attendance.OvertimeAccountRepository
	LateEarlyRepository  attendance.LateEarlyRepository
	ShiftRepository      shift.ShiftRepository
	EmployeeRepository   employee.EmployeeRepository
	NotificationService  notification.Service
	InTx                 database.TxRunner

	// MinOvertimeSeconds is the threshold applied to the "ot" listing view
	MinOvertimeSeconds int
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	activityRepo attendance.ActivityRepository,
	overtimeRepo attendance.OvertimeAccountRepository,
	lateEarlyRepo attendance.LateEarlyRepository,
	shiftRepo shift.ShiftRepository,
	employeeRepo employee.EmployeeRepository,
	notificationSvc notification.Service,
	inTx database.TxRunner,
	minOvertimeSeconds int,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		ActivityRepository:   activityRepo,
		OvertimeRepository:   overtimeRepo,
		LateEarlyRepository:  lateEarlyRepo,
		ShiftRepository:      shiftRepo,
		EmployeeRepository:   employeeRepo,
		NotificationService:  notificationSvc,
		InTx:                 inTx,
		MinOvertimeSeconds:   minOvertimeSeconds,
	}
}

type actor struct {
	EmployeeID string
	CompanyID  string
	UserID     string
	Role       user.Role
}

func actorFromContext(ctx context.Context) (actor, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return actor{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return actor{}, fmt.Errorf("company_id claim is missing or invalid")
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return actor{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	roleStr, _ := claims["role"].(string)
	role, ok := user.ParseRole(roleStr)
	if !ok {
		return actor{}, fmt.Errorf("role claim is missing or invalid")
	}

	userID, _ := claims["user_id"].(string)

	return actor{
		EmployeeID: employeeID,
		CompanyID:  companyID,
		UserID:     userID,
		Role:       role,
	}, nil
}

func secondsOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ClockIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockRequest) (attendance.ClockResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ClockResponse{}, err
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return attendance.ClockResponse{}, err
	}

	at := time.Now().UTC()
	if req.At != nil {
		at = req.At.UTC()
	}

	workInfo, err := s.EmployeeRepository.GetActiveWorkInfo(ctx, act.EmployeeID, act.CompanyID)
	if err != nil {
		return attendance.ClockResponse{}, err
	}

	empShift, err := s.ShiftRepository.GetByID(ctx, workInfo.ShiftID, act.CompanyID)
	if err != nil {
		return attendance.ClockResponse{}, err
	}

	date, day, sched, err := shift.ResolveAttendanceDate(empShift, dateOf(at), secondsOfDay(at))
	if err != nil {
		return attendance.ClockResponse{}, err
	}

	err = s.InTx(ctx, func(txCtx context.Context) error {
		att, err := s.AttendanceRepository.GetByEmployeeDateDay(txCtx, act.EmployeeID, date, day, act.CompanyID)
		if err != nil {
			return err
		}

		if att == nil {
			created, err := s.AttendanceRepository.Create(txCtx, attendance.Attendance{
				EmployeeID:     act.EmployeeID,
				CompanyID:      act.CompanyID,
				ShiftID:        empShift.ID,
				Date:           date,
				Day:            day,
				ClockInAt:      at,
				MinimumSeconds: sched.MinimumSeconds,
			})
			if err != nil {
				return err
			}
			att = &created

			// Late-come is judged once, against the first clock-in of the day
			if secondsOfDay(at) > sched.StartSeconds+empShift.GraceSeconds {
				_, err := s.LateEarlyRepository.Create(txCtx, attendance.LateComeEarlyOut{
					AttendanceID: att.ID,
					EmployeeID:   act.EmployeeID,
					CompanyID:    act.CompanyID,
					Type:         attendance.LateCome,
				})
				if err != nil {
					return err
				}
			}
		} else if att.ClockOutAt != nil {
			// Re-opening after a break: the row is open again, so its
			// clock-out must read null until the next clock-out
			att.ClockOutAt = nil
			if err := s.AttendanceRepository.Update(txCtx, *att); err != nil {
				return err
			}
		}

		_, err = s.ActivityRepository.Create(txCtx, attendance.AttendanceActivity{
			EmployeeID:     act.EmployeeID,
			CompanyID:      act.CompanyID,
			AttendanceDate: att.Date,
			ClockInAt:      at,
		})
		return err
	})
	if err != nil {
		return attendance.ClockResponse{}, fmt.Errorf("failed to clock in: %w", err)
	}

	return attendance.ClockResponse{Status: "clocked-in"}, nil
}

// ClockOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockRequest) (attendance.ClockResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ClockResponse{}, err
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return attendance.ClockResponse{}, err
	}

	at := time.Now().UTC()
	if req.At != nil {
		at = req.At.UTC()
	}

	err = s.InTx(ctx, func(txCtx context.Context) error {
		att, err := s.AttendanceRepository.GetLatestByEmployee(txCtx, act.EmployeeID, act.CompanyID)
		if err != nil {
			return err
		}

		empShift, err := s.ShiftRepository.GetByID(txCtx, att.ShiftID, act.CompanyID)
		if err != nil {
			return err
		}

		// The window of the day the clock-in was filed under, not today's
		sched, err := shift.Resolve(empShift, att.Day)
		if err != nil {
			return err
		}

		if secondsOfDay(at) < sched.EndSeconds-empShift.GraceSeconds {
			exists, err := s.LateEarlyRepository.ExistsForAttendance(txCtx, att.ID, attendance.EarlyOut)
			if err != nil {
				return err
			}
			if !exists {
				_, err := s.LateEarlyRepository.Create(txCtx, attendance.LateComeEarlyOut{
					AttendanceID: att.ID,
					EmployeeID:   act.EmployeeID,
					CompanyID:    act.CompanyID,
					Type:         attendance.EarlyOut,
				})
				if err != nil {
					return err
				}
			}
		}

		activity, err := s.ActivityRepository.GetOpenForUpdate(txCtx, act.EmployeeID, act.CompanyID)
		if err != nil {
			if err == attendance.ErrNoOpenActivity {
				return attendance.ErrNoOpenAttendance
			}
			return err
		}

		out := at
		activity.ClockOutAt = &out
		if err := s.ActivityRepository.Update(txCtx, activity); err != nil {
			return err
		}

		activities, err := s.ActivityRepository.ListByAttendance(txCtx, act.EmployeeID, att.Date, act.CompanyID)
		if err != nil {
			return err
		}

		worked := 0
		for _, a := range activities {
			worked += a.DurationSeconds()
		}

		overtime := worked - att.MinimumSeconds
		if overtime < 0 {
			overtime = 0
		}
		delta := overtime - att.OvertimeSeconds

		att.ClockOutAt = &out
		att.WorkedSeconds = worked
		att.OvertimeSeconds = overtime

		if err := s.AttendanceRepository.Update(txCtx, att); err != nil {
			return err
		}

		// The monthly account only tracks approved overtime, so a
		// recomputation adjusts it only when approval already happened
		if att.OvertimeApproved && delta != 0 {
			return s.adjustOvertimeAccount(txCtx, att, delta)
		}
		return nil
	})
	if err != nil {
		if err == attendance.ErrNoOpenAttendance {
			return attendance.ClockResponse{}, err
		}
		return attendance.ClockResponse{}, fmt.Errorf("failed to clock out: %w", err)
	}

	return attendance.ClockResponse{Status: "clocked-out"}, nil
}

// adjustOvertimeAccount applies a signed delta to the monthly aggregate of
// the attendance's month, clamping the total at zero.
func (s *AttendanceServiceImpl) adjustOvertimeAccount(ctx context.Context, att attendance.Attendance, delta int) error {
	year, month := att.Date.Year(), att.Date.Month()

	account, err := s.OvertimeRepository.GetForUpdate(ctx, att.EmployeeID, year, month, att.CompanyID)
	if err != nil {
		return err
	}
	if account == nil {
		account = &attendance.OvertimeAccount{
			EmployeeID: att.EmployeeID,
			CompanyID:  att.CompanyID,
			Year:       year,
			Month:      month,
		}
	}

	account.OvertimeSeconds += delta
	if account.OvertimeSeconds < 0 {
		account.OvertimeSeconds = 0
	}

	_, err = s.OvertimeRepository.Upsert(ctx, *account)
	return err
}

// SubmitRequest implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) SubmitRequest(ctx context.Context, req attendance.SubmitRequestRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	targetEmployeeID := act.EmployeeID
	if req.EmployeeID != "" {
		targetEmployeeID = req.EmployeeID
	}

	if targetEmployeeID != act.EmployeeID {
		allowed, err := s.canActOnEmployee(ctx, act, targetEmployeeID, user.CapabilityAttendanceAdd)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		if !allowed {
			return attendance.AttendanceResponse{}, attendance.ErrPermissionDenied
		}
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return attendance.AttendanceResponse{}, attendance.ErrRequestDataInvalid
	}
	clockIn, err := time.Parse("2006-01-02 15:04:05", req.ClockInAt)
	if err != nil {
		return attendance.AttendanceResponse{}, attendance.ErrRequestDataInvalid
	}
	var clockOut *time.Time
	if req.ClockOutAt != nil && *req.ClockOutAt != "" && *req.ClockOutAt != "None" {
		t, err := time.Parse("2006-01-02 15:04:05", *req.ClockOutAt)
		if err != nil {
			return attendance.AttendanceResponse{}, attendance.ErrRequestDataInvalid
		}
		clockOut = &t
	}

	var result attendance.Attendance
	err = s.InTx(ctx, func(txCtx context.Context) error {
		if req.AttendanceID == nil || *req.AttendanceID == "" {
			created, err := s.createRequest(txCtx, act, targetEmployeeID, date, clockIn, clockOut, req.Description)
			if err != nil {
				return err
			}
			result = created
			return nil
		}

		updated, err := s.updateRequest(txCtx, act, *req.AttendanceID, date, clockIn, req.ClockOutAt, req.Description)
		if err != nil {
			return err
		}
		result = updated
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return attendance.ToResponse(result), nil
}

// createRequest files a brand-new attendance pending manager review.
func (s *AttendanceServiceImpl) createRequest(ctx context.Context, act actor, employeeID string, date time.Time, clockIn time.Time, clockOut *time.Time, description string) (attendance.Attendance, error) {
	workInfo, err := s.EmployeeRepository.GetActiveWorkInfo(ctx, employeeID, act.CompanyID)
	if err != nil {
		return attendance.Attendance{}, err
	}

	empShift, err := s.ShiftRepository.GetByID(ctx, workInfo.ShiftID, act.CompanyID)
	if err != nil {
		return attendance.Attendance{}, err
	}

	day := shift.WeekdayOf(date)
	sched, err := shift.Resolve(empShift, day)
	if err != nil {
		return attendance.Attendance{}, err
	}

	worked := 0
	if clockOut != nil {
		if d := clockOut.Sub(clockIn); d > 0 {
			worked = int(d.Seconds())
		}
	}
	overtime := worked - sched.MinimumSeconds
	if overtime < 0 {
		overtime = 0
	}

	desc := description
	return s.AttendanceRepository.Create(ctx, attendance.Attendance{
		EmployeeID:         employeeID,
		CompanyID:          act.CompanyID,
		ShiftID:            empShift.ID,
		Date:               date,
		Day:                day,
		ClockInAt:          clockIn,
		ClockOutAt:         clockOut,
		WorkedSeconds:      worked,
		OvertimeSeconds:    overtime,
		MinimumSeconds:     sched.MinimumSeconds,
		PendingRequest:     true,
		RequestType:        attendance.RequestTypeCreate,
		RequestDescription: &desc,
	})
}

// updateRequest snapshots the proposed state onto an existing attendance
// without touching its live values.
func (s *AttendanceServiceImpl) updateRequest(ctx context.Context, act actor, attendanceID string, date time.Time, clockIn time.Time, clockOutRaw *string, description string) (attendance.Attendance, error) {
	att, err := s.AttendanceRepository.GetByID(ctx, attendanceID, act.CompanyID)
	if err != nil {
		return attendance.Attendance{}, err
	}

	if att.EmployeeID != act.EmployeeID {
		allowed, err := s.canActOnEmployee(ctx, act, att.EmployeeID, user.CapabilityAttendanceChange)
		if err != nil {
			return attendance.Attendance{}, err
		}
		if !allowed {
			return attendance.Attendance{}, attendance.ErrPermissionDenied
		}
	}

	dateStr := date.Format("2006-01-02")
	dayStr := shift.WeekdayOf(date).String()
	clockInStr := clockIn.Format("2006-01-02 15:04:05")
	change := attendance.PendingChange{
		Date:       &dateStr,
		Day:        &dayStr,
		ClockInAt:  &clockInStr,
		ClockOutAt: clockOutRaw,
	}
	encoded, err := change.Encode()
	if err != nil {
		return attendance.Attendance{}, err
	}

	desc := description
	att.RequestedData = &encoded
	att.RequestDescription = &desc
	att.PendingRequest = true
	att.RequestApproved = false
	att.RequestType = attendance.RequestTypeUpdate

	if err := s.AttendanceRepository.Update(ctx, att); err != nil {
		return attendance.Attendance{}, err
	}
	return att, nil
}

// ApproveRequest implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ApproveRequest(ctx context.Context, id string) error {
	act, err := actorFromContext(ctx)
	if err != nil {
		return err
	}
	if !user.HasCapability(act.Role, user.CapabilityAttendanceChange) {
		return attendance.ErrPermissionDenied
	}

	var approved attendance.Attendance
	err = s.InTx(ctx, func(txCtx context.Context) error {
		att, err := s.AttendanceRepository.GetByID(txCtx, id, act.CompanyID)
		if err != nil {
			return err
		}
		if !att.PendingRequest {
			return attendance.ErrNoPendingRequest
		}

		// Pre-approval identity of the activity this row's clock-in created
		prevDate := att.Date
		prevClockIn := att.ClockInAt

		att.Validated = true
		att.RequestApproved = true
		att.PendingRequest = false
		att.RequestDescription = nil

		if att.RequestedData != nil {
			change, err := attendance.DecodePendingChange(*att.RequestedData)
			if err != nil {
				return err
			}
			if err := change.Apply(&att); err != nil {
				return err
			}
			att.RequestedData = nil

			worked := 0
			if att.ClockOutAt != nil {
				if d := att.ClockOutAt.Sub(att.ClockInAt); d > 0 {
					worked = int(d.Seconds())
				}
			}
			overtime := worked - att.MinimumSeconds
			if overtime < 0 {
				overtime = 0
			}
			delta := overtime - att.OvertimeSeconds
			att.WorkedSeconds = worked
			att.OvertimeSeconds = overtime

			if att.OvertimeApproved && delta != 0 {
				if err := s.adjustOvertimeAccount(txCtx, att, delta); err != nil {
					return err
				}
			}
		}

		if err := s.AttendanceRepository.Update(txCtx, att); err != nil {
			return err
		}

		// A still-open row needs its activity moved along with the approved
		// date change, or a fresh one when none matches
		if att.ClockOutAt == nil {
			match, err := s.ActivityRepository.FindMatch(txCtx, att.EmployeeID, prevDate, prevClockIn, act.CompanyID)
			if err != nil {
				return err
			}
			if match != nil {
				match.AttendanceDate = att.Date
				match.ClockInAt = att.ClockInAt
				if err := s.ActivityRepository.Update(txCtx, *match); err != nil {
					return err
				}
			} else {
				_, err := s.ActivityRepository.Create(txCtx, attendance.AttendanceActivity{
					EmployeeID:     att.EmployeeID,
					CompanyID:      att.CompanyID,
					AttendanceDate: att.Date,
					ClockInAt:      att.ClockInAt,
				})
				if err != nil {
					return err
				}
			}
		}

		approved = att
		return nil
	})
	if err != nil {
		return err
	}

	s.notifyEmployee(ctx, approved, notification.TypeRequestApproved, requestApprovedMessages(approved.Date))
	return nil
}

// CancelRequest implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CancelRequest(ctx context.Context, id string) error {
	act, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	var cancelled attendance.Attendance
	err = s.InTx(ctx, func(txCtx context.Context) error {
		att, err := s.AttendanceRepository.GetByID(txCtx, id, act.CompanyID)
		if err != nil {
			return err
		}

		if att.EmployeeID != act.EmployeeID {
			allowed, err := s.canActOnEmployee(txCtx, act, att.EmployeeID, user.CapabilityAttendanceChange)
			if err != nil {
				return err
			}
			if !allowed {
				return attendance.ErrPermissionDenied
			}
		}

		wasCreate := att.RequestType == attendance.RequestTypeCreate

		att.PendingRequest = false
		att.RequestApproved = false
		att.RequestedData = nil
		att.RequestDescription = nil
		att.RequestType = attendance.RequestTypeNone

		// A cancelled create request leaves no trace
		if wasCreate {
			if err := s.AttendanceRepository.Delete(txCtx, att.ID, act.CompanyID); err != nil {
				return err
			}
		} else {
			if err := s.AttendanceRepository.Update(txCtx, att); err != nil {
				return err
			}
		}

		cancelled = att
		return nil
	})
	if err != nil {
		return err
	}

	s.notifyEmployee(ctx, cancelled, notification.TypeRequestCancelled, requestCancelledMessages(cancelled.Date))
	return nil
}

// Validate implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Validate(ctx context.Context, id string) error {
	act, err := actorFromContext(ctx)
	if err != nil {
		return err
	}
	if !user.HasCapability(act.Role, user.CapabilityAttendanceChange) {
		return attendance.ErrPermissionDenied
	}

	att, err := s.AttendanceRepository.GetByID(ctx, id, act.CompanyID)
	if err != nil {
		return err
	}

	att.Validated = true
	if err := s.AttendanceRepository.Update(ctx, att); err != nil {
		return err
	}

	s.notifyEmployee(ctx, att, notification.TypeAttendanceValidated, validatedMessages(att.Date))
	return nil
}

// ApproveOvertime implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ApproveOvertime(ctx context.Context, id string) error {
	act, err := actorFromContext(ctx)
	if err != nil {
		return err
	}
	if !user.HasCapability(act.Role, user.CapabilityAttendanceChange) {
		return attendance.ErrPermissionDenied
	}

	var approved attendance.Attendance
	err = s.InTx(ctx, func(txCtx context.Context) error {
		att, err := s.AttendanceRepository.GetByID(txCtx, id, act.CompanyID)
		if err != nil {
			return err
		}
		if att.OvertimeApproved {
			approved = att
			return nil
		}

		att.OvertimeApproved = true
		if err := s.AttendanceRepository.Update(txCtx, att); err != nil {
			return err
		}

		if att.OvertimeSeconds > 0 {
			if err := s.adjustOvertimeAccount(txCtx, att, att.OvertimeSeconds); err != nil {
				return err
			}
		}

		approved = att
		return nil
	})
	if err != nil {
		return err
	}

	s.notifyEmployee(ctx, approved, notification.TypeOvertimeApproved, overtimeApprovedMessages(approved.Date))
	return nil
}

// Delete implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Delete(ctx context.Context, id string) error {
	act, err := actorFromContext(ctx)
	if err != nil {
		return err
	}
	if !user.HasCapability(act.Role, user.CapabilityAttendanceDelete) {
		return attendance.ErrPermissionDenied
	}

	return s.InTx(ctx, func(txCtx context.Context) error {
		att, err := s.AttendanceRepository.GetByID(txCtx, id, act.CompanyID)
		if err != nil {
			return err
		}

		// Remove this attendance's contribution before the row disappears
		if att.OvertimeApproved && att.OvertimeSeconds > 0 {
			if err := s.adjustOvertimeAccount(txCtx, att, -att.OvertimeSeconds); err != nil {
				return err
			}
		}

		return s.AttendanceRepository.Delete(txCtx, att.ID, act.CompanyID)
	})
}

// Get implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Get(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	att, err := s.AttendanceRepository.GetByID(ctx, id, act.CompanyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if att.EmployeeID != act.EmployeeID && !user.HasCapability(act.Role, user.CapabilityAttendanceView) {
		return attendance.AttendanceResponse{}, attendance.ErrPermissionDenied
	}

	return attendance.ToResponse(att), nil
}

// List implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) List(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	// Without the view capability an employee only sees their own records
	if !user.HasCapability(act.Role, user.CapabilityAttendanceView) {
		own := act.EmployeeID
		filter.EmployeeID = &own
	}
	if filter.Type == "ot" {
		filter.MinOvertimeSeconds = s.MinOvertimeSeconds
	}

	attendances, total, err := s.AttendanceRepository.List(ctx, filter, act.CompanyID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	return buildListResponse(attendances, total, filter.Page, filter.Limit), nil
}

// ListRequests implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListRequests(ctx context.Context, filter attendance.RequestFilter) (attendance.ListAttendanceResponse, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	if !user.HasCapability(act.Role, user.CapabilityAttendanceView) {
		own := act.EmployeeID
		filter.EmployeeID = &own
	}

	attendances, total, err := s.AttendanceRepository.ListRequests(ctx, filter, act.CompanyID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance requests: %w", err)
	}

	return buildListResponse(attendances, total, filter.Page, filter.Limit), nil
}

// ListOvertimeAccounts implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListOvertimeAccounts(ctx context.Context, filter attendance.OvertimeFilter) (attendance.ListOvertimeResponse, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return attendance.ListOvertimeResponse{}, err
	}

	if !user.HasCapability(act.Role, user.CapabilityOvertimeView) {
		own := act.EmployeeID
		filter.EmployeeID = &own
	}

	accounts, total, err := s.OvertimeRepository.List(ctx, filter, act.CompanyID)
	if err != nil {
		return attendance.ListOvertimeResponse{}, fmt.Errorf("failed to list overtime accounts: %w", err)
	}

	page := filter.Page
	limit := filter.Limit
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = 10
	}

	responses := make([]attendance.OvertimeAccountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, attendance.ToOvertimeResponse(account))
	}

	return attendance.ListOvertimeResponse{
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
		Accounts:   responses,
	}, nil
}

// ListLateEarly implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListLateEarly(ctx context.Context) ([]attendance.LateEarlyResponse, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.LateEarlyRepository.List(ctx, act.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list late/early records: %w", err)
	}

	ownOnly := !user.HasCapability(act.Role, user.CapabilityAttendanceView)

	responses := make([]attendance.LateEarlyResponse, 0, len(records))
	for _, record := range records {
		if ownOnly && record.EmployeeID != act.EmployeeID {
			continue
		}
		responses = append(responses, attendance.ToLateEarlyResponse(record))
	}
	return responses, nil
}

// DeleteLateEarly implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteLateEarly(ctx context.Context, id string) error {
	act, err := actorFromContext(ctx)
	if err != nil {
		return err
	}
	if !user.HasCapability(act.Role, user.CapabilityAttendanceChange) {
		return attendance.ErrPermissionDenied
	}

	return s.LateEarlyRepository.Delete(ctx, id, act.CompanyID)
}

// canActOnEmployee reports whether the actor may perform a mutating
// operation on another employee's attendance: either through a capability
// or by being that employee's reporting manager.
func (s *AttendanceServiceImpl) canActOnEmployee(ctx context.Context, act actor, employeeID string, capability user.Capability) (bool, error) {
	if user.HasCapability(act.Role, capability) {
		return true, nil
	}
	return s.EmployeeRepository.IsReportingManagerOf(ctx, act.EmployeeID, employeeID, act.CompanyID)
}

func buildListResponse(attendances []attendance.Attendance, total int64, page, limit int) attendance.ListAttendanceResponse {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = 10
	}

	responses := make([]attendance.AttendanceResponse, 0, len(attendances))
	for _, att := range attendances {
		responses = append(responses, attendance.ToResponse(att))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages(total, limit),
		Attendances: responses,
	}
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}
