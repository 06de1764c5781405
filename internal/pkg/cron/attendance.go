package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sentra-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/sentra-hr/attendance-backend-go/internal/domain/employee"
	"github.com/sentra-hr/attendance-backend-go/internal/domain/notification"
	"github.com/sentra-hr/attendance-backend-go/internal/domain/shift"
)

// AttendanceJobs sweeps attendances that were never clocked out, closing
// them at the scheduled end of their shift day.
type AttendanceJobs struct {
	attendanceRepo  attendance.AttendanceRepository
	activityRepo    attendance.ActivityRepository
	shiftRepo       shift.ShiftRepository
	employeeRepo    employee.EmployeeRepository
	notificationSvc notification.Service
	staleAfterHours int
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	activityRepo attendance.ActivityRepository,
	shiftRepo shift.ShiftRepository,
	employeeRepo employee.EmployeeRepository,
	notificationSvc notification.Service,
	staleAfterHours int,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo:  attendanceRepo,
		activityRepo:    activityRepo,
		shiftRepo:       shiftRepo,
		employeeRepo:    employeeRepo,
		notificationSvc: notificationSvc,
		staleAfterHours: staleAfterHours,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("sweep_stale_open_attendances", 1*time.Hour, j.SweepStaleOpenAttendances)
}

// SweepStaleOpenAttendances closes attendances whose clock-in is older
// than the configured threshold. The clock-out is backfilled with the
// scheduled end of the shift day, never with the sweep time, so a
// forgotten clock-out does not inflate worked hours.
func (j *AttendanceJobs) SweepStaleOpenAttendances(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-time.Duration(j.staleAfterHours) * time.Hour)

	stale, err := j.attendanceRepo.ListStaleOpen(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to list stale open attendances: %w", err)
	}

	if len(stale) == 0 {
		return nil
	}

	closedCount := 0
	for _, att := range stale {
		if err := j.closeAttendance(ctx, att); err != nil {
			slog.Error("Cron: Failed to close stale attendance",
				"attendance_id", att.ID,
				"employee_id", att.EmployeeID,
				"error", err)
			continue
		}
		closedCount++
	}

	slog.Info("Cron: Closed stale open attendances", "count", closedCount)
	return nil
}

func (j *AttendanceJobs) closeAttendance(ctx context.Context, att attendance.Attendance) error {
	s, err := j.shiftRepo.GetByID(ctx, att.ShiftID, att.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to load shift: %w", err)
	}

	sched, err := shift.Resolve(s, att.Day)
	if err != nil {
		return fmt.Errorf("failed to resolve schedule: %w", err)
	}

	endAt := time.Date(att.Date.Year(), att.Date.Month(), att.Date.Day(), 0, 0, 0, 0, time.UTC).
		Add(time.Duration(sched.EndSeconds) * time.Second)
	if sched.IsNightShift() {
		endAt = endAt.Add(24 * time.Hour)
	}
	// A clock-in after the scheduled end yields a zero-length close
	if endAt.Before(att.ClockInAt) {
		endAt = att.ClockInAt
	}

	activities, err := j.activityRepo.ListByAttendance(ctx, att.EmployeeID, att.Date, att.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to list activities: %w", err)
	}

	worked := 0
	for _, act := range activities {
		if act.ClockOutAt == nil {
			out := endAt
			act.ClockOutAt = &out
			if err := j.activityRepo.Update(ctx, act); err != nil {
				return fmt.Errorf("failed to close activity: %w", err)
			}
		}
		worked += act.DurationSeconds()
	}

	att.ClockOutAt = &endAt
	att.WorkedSeconds = worked
	overtime := worked - att.MinimumSeconds
	if overtime < 0 {
		overtime = 0
	}
	att.OvertimeSeconds = overtime

	if err := j.attendanceRepo.Update(ctx, att); err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}

	if j.notificationSvc != nil {
		emp, err := j.employeeRepo.GetByID(ctx, att.EmployeeID, att.CompanyID)
		if err == nil && emp.UserID != nil {
			j.notificationSvc.Notify(ctx, notification.Notice{
				CompanyID:   att.CompanyID,
				RecipientID: *emp.UserID,
				Type:        notification.TypeAttendanceSwept,
				Message:     fmt.Sprintf("Your attendance for %s was closed automatically because no clock-out was recorded", att.Date.Format("2006-01-02")),
				Redirect:    "/attendance/" + att.ID,
				EmailTo:     emp.Email,
			})
		}
	}

	return nil
}
