package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sentra-hr/attendance-backend-go/internal/domain/shift"
	"github.com/sentra-hr/attendance-backend-go/internal/pkg/database"
)

type shiftRepository struct {
	db *database.DB

	// defaultGraceSeconds fills in for shifts whose grace_seconds column
	// is NULL.
	defaultGraceSeconds int
}

func NewShiftRepository(db *database.DB, defaultGraceSeconds int) shift.ShiftRepository {
	return &shiftRepository{db: db, defaultGraceSeconds: defaultGraceSeconds}
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepository) GetByID(ctx context.Context, id string, companyID string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, grace_seconds, created_at, updated_at
		FROM shifts
		WHERE id = $1 AND company_id = $2
	`

	var s shift.Shift
	var grace *int
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&s.ID, &s.CompanyID, &s.Name, &grace, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}
	s.GraceSeconds = r.graceOrDefault(grace)

	days, err := r.loadDays(ctx, q, s.ID)
	if err != nil {
		return shift.Shift{}, err
	}
	s.Days = days

	return s, nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepository) List(ctx context.Context, companyID string) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, grace_seconds, created_at, updated_at
		FROM shifts
		WHERE company_id = $1
		ORDER BY name ASC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	var shifts []shift.Shift
	for rows.Next() {
		var s shift.Shift
		var grace *int
		err := rows.Scan(&s.ID, &s.CompanyID, &s.Name, &grace, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		s.GraceSeconds = r.graceOrDefault(grace)
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range shifts {
		days, err := r.loadDays(ctx, q, shifts[i].ID)
		if err != nil {
			return nil, err
		}
		shifts[i].Days = days
	}

	return shifts, nil
}

// Create implements shift.ShiftRepository.
func (r *shiftRepository) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shifts (company_id, name, grace_seconds)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, s.CompanyID, s.Name, s.GraceSeconds).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}

	for i := range s.Days {
		s.Days[i].ShiftID = s.ID
		day, err := r.UpsertDay(ctx, s.Days[i])
		if err != nil {
			return shift.Shift{}, err
		}
		s.Days[i] = day
	}

	return s, nil
}

// UpsertDay implements shift.ShiftRepository.
func (r *shiftRepository) UpsertDay(ctx context.Context, day shift.ShiftDay) (shift.ShiftDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_days (shift_id, day, start_time, end_time, minimum_hours)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (shift_id, day)
		DO UPDATE SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time,
			minimum_hours = EXCLUDED.minimum_hours, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		day.ShiftID,
		int(day.Day),
		day.StartTime,
		day.EndTime,
		day.MinimumHours,
	).Scan(&day.ID, &day.CreatedAt, &day.UpdatedAt)

	if err != nil {
		return shift.ShiftDay{}, fmt.Errorf("failed to upsert shift day: %w", err)
	}

	return day, nil
}

func (r *shiftRepository) graceOrDefault(grace *int) int {
	if grace == nil {
		return r.defaultGraceSeconds
	}
	return *grace
}

func (r *shiftRepository) loadDays(ctx context.Context, q database.Querier, shiftID string) ([]shift.ShiftDay, error) {
	query := `
		SELECT id, shift_id, day, start_time, end_time, minimum_hours, created_at, updated_at
		FROM shift_days
		WHERE shift_id = $1
		ORDER BY day ASC
	`

	rows, err := q.Query(ctx, query, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift days: %w", err)
	}
	defer rows.Close()

	var days []shift.ShiftDay
	for rows.Next() {
		var day shift.ShiftDay
		var dayInt int
		err := rows.Scan(&day.ID, &day.ShiftID, &dayInt, &day.StartTime, &day.EndTime, &day.MinimumHours, &day.CreatedAt, &day.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift day: %w", err)
		}
		day.Day = shift.Weekday(dayInt)
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return days, nil
}
