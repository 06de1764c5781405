package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sentra-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/sentra-hr/attendance-backend-go/internal/domain/shift"
	"github.com/sentra-hr/attendance-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	a.id, a.employee_id, a.company_id, a.shift_id, a.attendance_date, a.shift_day,
	a.clock_in_at, a.clock_out_at,
	a.worked_seconds, a.overtime_seconds, a.minimum_seconds,
	a.validated, a.overtime_approved,
	a.pending_request, a.request_approved, a.request_type, a.requested_data, a.request_description,
	a.created_at, a.updated_at,
	e.full_name AS employee_name`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	var day int
	var requestType string

	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.CompanyID, &att.ShiftID, &att.Date, &day,
		&att.ClockInAt, &att.ClockOutAt,
		&att.WorkedSeconds, &att.OvertimeSeconds, &att.MinimumSeconds,
		&att.Validated, &att.OvertimeApproved,
		&att.PendingRequest, &att.RequestApproved, &requestType, &att.RequestedData, &att.RequestDescription,
		&att.CreatedAt, &att.UpdatedAt,
		&att.EmployeeName,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}

	att.Day = shift.Weekday(day)
	att.RequestType = attendance.RequestType(requestType)
	return att, nil
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (
			employee_id, company_id, shift_id, attendance_date, shift_day,
			clock_in_at, clock_out_at,
			worked_seconds, overtime_seconds, minimum_seconds,
			validated, overtime_approved,
			pending_request, request_approved, request_type, requested_data, request_description
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.EmployeeID,
		att.CompanyID,
		att.ShiftID,
		att.Date,
		int(att.Day),
		att.ClockInAt,
		att.ClockOutAt,
		att.WorkedSeconds,
		att.OvertimeSeconds,
		att.MinimumSeconds,
		att.Validated,
		att.OvertimeApproved,
		att.PendingRequest,
		att.RequestApproved,
		string(att.RequestType),
		att.RequestedData,
		att.RequestDescription,
	).Scan(&att.ID, &att.CreatedAt, &att.UpdatedAt)

	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return att, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendances a
		JOIN employees e ON a.employee_id = e.id
		WHERE a.id = $1 AND a.company_id = $2
	`, attendanceColumns)

	att, err := scanAttendance(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	return att, nil
}

// GetByEmployeeDateDay implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByEmployeeDateDay(ctx context.Context, employeeID string, date time.Time, day shift.Weekday, companyID string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendances a
		JOIN employees e ON a.employee_id = e.id
		WHERE a.employee_id = $1 AND a.attendance_date = $2 AND a.shift_day = $3 AND a.company_id = $4
		LIMIT 1
	`, attendanceColumns)

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date, int(day), companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by date: %w", err)
	}

	return &att, nil
}

// GetLatestByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetLatestByEmployee(ctx context.Context, employeeID string, companyID string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendances a
		JOIN employees e ON a.employee_id = e.id
		WHERE a.employee_id = $1 AND a.company_id = $2
		ORDER BY a.attendance_date DESC, a.id DESC
		LIMIT 1
	`, attendanceColumns)

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrNoOpenAttendance
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get latest attendance: %w", err)
	}

	return att, nil
}

// Update implements attendance.AttendanceRepository. Every mutable column
// is written, so a reopened row gets its clock_out_at set back to NULL.
func (r *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances SET
			shift_id = $1,
			attendance_date = $2,
			shift_day = $3,
			clock_in_at = $4,
			clock_out_at = $5,
			worked_seconds = $6,
			overtime_seconds = $7,
			minimum_seconds = $8,
			validated = $9,
			overtime_approved = $10,
			pending_request = $11,
			request_approved = $12,
			request_type = $13,
			requested_data = $14,
			request_description = $15,
			updated_at = NOW()
		WHERE id = $16 AND company_id = $17
	`

	tag, err := q.Exec(ctx, query,
		att.ShiftID,
		att.Date,
		int(att.Day),
		att.ClockInAt,
		att.ClockOutAt,
		att.WorkedSeconds,
		att.OvertimeSeconds,
		att.MinimumSeconds,
		att.Validated,
		att.OvertimeApproved,
		att.PendingRequest,
		att.RequestApproved,
		string(att.RequestType),
		att.RequestedData,
		att.RequestDescription,
		att.ID,
		att.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendances WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter, companyID string) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "WHERE a.company_id = $1"
	args := []interface{}{companyID}
	argIndex := 2

	switch filter.Type {
	case "validated":
		whereClause += " AND a.validated = TRUE"
	case "non-validated":
		whereClause += " AND a.validated = FALSE"
	case "ot":
		whereClause += fmt.Sprintf(" AND a.validated = TRUE AND a.overtime_seconds >= $%d", argIndex)
		args = append(args, filter.MinOvertimeSeconds)
		argIndex++
	}

	if filter.EmployeeID != nil {
		whereClause += fmt.Sprintf(" AND a.employee_id = $%d", argIndex)
		args = append(args, *filter.EmployeeID)
		argIndex++
	}

	if filter.StartDate != nil && *filter.StartDate != "" {
		whereClause += fmt.Sprintf(" AND a.attendance_date >= $%d", argIndex)
		args = append(args, *filter.StartDate)
		argIndex++
	}

	if filter.EndDate != nil && *filter.EndDate != "" {
		whereClause += fmt.Sprintf(" AND a.attendance_date <= $%d", argIndex)
		args = append(args, *filter.EndDate)
		argIndex++
	}

	return r.listWithWhere(ctx, q, whereClause, args, argIndex, filter.Page, filter.Limit)
}

// ListRequests implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListRequests(ctx context.Context, filter attendance.RequestFilter, companyID string) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "WHERE a.company_id = $1 AND a.pending_request = TRUE"
	args := []interface{}{companyID}
	argIndex := 2

	if filter.EmployeeID != nil {
		whereClause += fmt.Sprintf(" AND a.employee_id = $%d", argIndex)
		args = append(args, *filter.EmployeeID)
		argIndex++
	}

	return r.listWithWhere(ctx, q, whereClause, args, argIndex, filter.Page, filter.Limit)
}

func (r *attendanceRepository) listWithWhere(ctx context.Context, q database.Querier, whereClause string, args []interface{}, argIndex, page, limit int) ([]attendance.Attendance, int64, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM attendances a %s`, whereClause)

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendances a
		JOIN employees e ON a.employee_id = e.id
		%s
		ORDER BY a.attendance_date DESC, a.id DESC
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, whereClause, argIndex, argIndex+1)

	args = append(args, limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return attendances, total, nil
}

// ListStaleOpen implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListStaleOpen(ctx context.Context, before time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendances a
		JOIN employees e ON a.employee_id = e.id
		WHERE a.clock_out_at IS NULL AND a.clock_in_at < $1
		ORDER BY a.clock_in_at ASC
	`, attendanceColumns)

	rows, err := q.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale open attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return attendances, nil
}
