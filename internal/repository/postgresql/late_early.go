package postgresql

import (
	"context"
	"fmt"

	"github.com/sentra-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/sentra-hr/attendance-backend-go/internal/pkg/database"
)

type lateEarlyRepository struct {
	db *database.DB
}

func NewLateEarlyRepository(db *database.DB) attendance.LateEarlyRepository {
	return &lateEarlyRepository{db: db}
}

// Create implements attendance.LateEarlyRepository.
func (r *lateEarlyRepository) Create(ctx context.Context, record attendance.LateComeEarlyOut) (attendance.LateComeEarlyOut, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO late_come_early_outs (attendance_id, employee_id, company_id, type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		record.AttendanceID,
		record.EmployeeID,
		record.CompanyID,
		string(record.Type),
	).Scan(&record.ID, &record.CreatedAt)

	if err != nil {
		return attendance.LateComeEarlyOut{}, fmt.Errorf("failed to create late/early record: %w", err)
	}

	return record, nil
}

// ExistsForAttendance implements attendance.LateEarlyRepository.
func (r *lateEarlyRepository) ExistsForAttendance(ctx context.Context, attendanceID string, kind attendance.LateEarlyType) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM late_come_early_outs WHERE attendance_id = $1 AND type = $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, attendanceID, string(kind)).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check late/early record: %w", err)
	}

	return exists, nil
}

// List implements attendance.LateEarlyRepository.
func (r *lateEarlyRepository) List(ctx context.Context, companyID string) ([]attendance.LateComeEarlyOut, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, attendance_id, employee_id, company_id, type, created_at
		FROM late_come_early_outs
		WHERE company_id = $1
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list late/early records: %w", err)
	}
	defer rows.Close()

	var records []attendance.LateComeEarlyOut
	for rows.Next() {
		var record attendance.LateComeEarlyOut
		var kind string
		err := rows.Scan(&record.ID, &record.AttendanceID, &record.EmployeeID, &record.CompanyID, &kind, &record.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan late/early record: %w", err)
		}
		record.Type = attendance.LateEarlyType(kind)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Delete implements attendance.LateEarlyRepository.
func (r *lateEarlyRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM late_come_early_outs WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete late/early record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrLateEarlyNotFound
	}

	return nil
}
