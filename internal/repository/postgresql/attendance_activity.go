package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sentra-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/sentra-hr/attendance-backend-go/internal/pkg/database"
)

type activityRepository struct {
	db *database.DB
}

func NewActivityRepository(db *database.DB) attendance.ActivityRepository {
	return &activityRepository{db: db}
}

// Create implements attendance.ActivityRepository.
func (r *activityRepository) Create(ctx context.Context, activity attendance.AttendanceActivity) (attendance.AttendanceActivity, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_activities (
			employee_id, company_id, attendance_date, clock_in_at, clock_out_at
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		activity.EmployeeID,
		activity.CompanyID,
		activity.AttendanceDate,
		activity.ClockInAt,
		activity.ClockOutAt,
	).Scan(&activity.ID, &activity.CreatedAt, &activity.UpdatedAt)

	if err != nil {
		return attendance.AttendanceActivity{}, fmt.Errorf("failed to create activity: %w", err)
	}

	return activity, nil
}

// GetOpenForUpdate implements attendance.ActivityRepository. The FOR UPDATE
// lock serializes concurrent clock-outs on the same employee when called
// inside a transaction.
func (r *activityRepository) GetOpenForUpdate(ctx context.Context, employeeID string, companyID string) (attendance.AttendanceActivity, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, company_id, attendance_date, clock_in_at, clock_out_at, created_at, updated_at
		FROM attendance_activities
		WHERE employee_id = $1 AND company_id = $2 AND clock_out_at IS NULL
		ORDER BY clock_in_at DESC
		LIMIT 1
		FOR UPDATE
	`

	var activity attendance.AttendanceActivity
	err := q.QueryRow(ctx, query, employeeID, companyID).Scan(
		&activity.ID, &activity.EmployeeID, &activity.CompanyID, &activity.AttendanceDate,
		&activity.ClockInAt, &activity.ClockOutAt, &activity.CreatedAt, &activity.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceActivity{}, attendance.ErrNoOpenActivity
		}
		return attendance.AttendanceActivity{}, fmt.Errorf("failed to get open activity: %w", err)
	}

	return activity, nil
}

// Update implements attendance.ActivityRepository.
func (r *activityRepository) Update(ctx context.Context, activity attendance.AttendanceActivity) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_activities SET
			attendance_date = $1,
			clock_in_at = $2,
			clock_out_at = $3,
			updated_at = NOW()
		WHERE id = $4 AND company_id = $5
	`

	tag, err := q.Exec(ctx, query,
		activity.AttendanceDate,
		activity.ClockInAt,
		activity.ClockOutAt,
		activity.ID,
		activity.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrNoOpenActivity
	}

	return nil
}

// ListByAttendance implements attendance.ActivityRepository.
func (r *activityRepository) ListByAttendance(ctx context.Context, employeeID string, date time.Time, companyID string) ([]attendance.AttendanceActivity, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, company_id, attendance_date, clock_in_at, clock_out_at, created_at, updated_at
		FROM attendance_activities
		WHERE employee_id = $1 AND attendance_date = $2 AND company_id = $3
		ORDER BY clock_in_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID, date, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []attendance.AttendanceActivity
	for rows.Next() {
		var activity attendance.AttendanceActivity
		err := rows.Scan(
			&activity.ID, &activity.EmployeeID, &activity.CompanyID, &activity.AttendanceDate,
			&activity.ClockInAt, &activity.ClockOutAt, &activity.CreatedAt, &activity.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return activities, nil
}

// FindMatch implements attendance.ActivityRepository.
func (r *activityRepository) FindMatch(ctx context.Context, employeeID string, date time.Time, clockInAt time.Time, companyID string) (*attendance.AttendanceActivity, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, company_id, attendance_date, clock_in_at, clock_out_at, created_at, updated_at
		FROM attendance_activities
		WHERE employee_id = $1 AND attendance_date = $2 AND clock_in_at = $3 AND company_id = $4
		LIMIT 1
	`

	var activity attendance.AttendanceActivity
	err := q.QueryRow(ctx, query, employeeID, date, clockInAt, companyID).Scan(
		&activity.ID, &activity.EmployeeID, &activity.CompanyID, &activity.AttendanceDate,
		&activity.ClockInAt, &activity.ClockOutAt, &activity.CreatedAt, &activity.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find matching activity: %w", err)
	}

	return &activity, nil
}
