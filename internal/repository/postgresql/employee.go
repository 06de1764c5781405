package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sentra-hr/attendance-backend-go/internal/domain/employee"
	"github.com/sentra-hr/attendance-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, company_id, employee_code, full_name, email, position,
			   is_active, created_at, updated_at, deleted_at
		FROM employees
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`

	var emp employee.Employee
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&emp.ID, &emp.UserID, &emp.CompanyID, &emp.EmployeeCode, &emp.FullName, &emp.Email,
		&emp.Position, &emp.IsActive, &emp.CreatedAt, &emp.UpdatedAt, &emp.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return emp, nil
}

// GetActiveWorkInfo implements employee.EmployeeRepository.
func (r *employeeRepository) GetActiveWorkInfo(ctx context.Context, employeeID string, companyID string) (employee.WorkInfo, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT w.id, w.employee_id, w.shift_id, w.reporting_manager_id, w.location,
			   w.start_date, w.end_date, w.created_at, w.updated_at
		FROM work_information w
		JOIN employees e ON w.employee_id = e.id
		WHERE w.employee_id = $1 AND e.company_id = $2
		  AND (w.end_date IS NULL OR w.end_date >= NOW())
		ORDER BY w.start_date DESC
		LIMIT 1
	`

	var info employee.WorkInfo
	err := q.QueryRow(ctx, query, employeeID, companyID).Scan(
		&info.ID, &info.EmployeeID, &info.ShiftID, &info.ReportingManagerID, &info.Location,
		&info.StartDate, &info.EndDate, &info.CreatedAt, &info.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.WorkInfo{}, employee.ErrNoWorkInformation
		}
		return employee.WorkInfo{}, fmt.Errorf("failed to get work information: %w", err)
	}

	return info, nil
}

// IsReportingManagerOf implements employee.EmployeeRepository.
func (r *employeeRepository) IsReportingManagerOf(ctx context.Context, managerEmployeeID, employeeID string, companyID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM work_information w
			JOIN employees e ON w.employee_id = e.id
			WHERE w.employee_id = $1 AND w.reporting_manager_id = $2 AND e.company_id = $3
			  AND (w.end_date IS NULL OR w.end_date >= NOW())
		)
	`

	var isManager bool
	if err := q.QueryRow(ctx, query, employeeID, managerEmployeeID, companyID).Scan(&isManager); err != nil {
		return false, fmt.Errorf("failed to check reporting manager: %w", err)
	}

	return isManager, nil
}
