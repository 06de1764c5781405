package employee

import (
	"context"
)

// EmployeeRepository defines data access methods for employees and their
// work assignments. All methods include companyID to prevent cross-company
// data access.
type EmployeeRepository interface {
	// GetByID retrieves an employee by ID with company isolation
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)

	// GetActiveWorkInfo retrieves the employee's current work assignment.
	// Returns ErrNoWorkInformation when the employee has none.
	GetActiveWorkInfo(ctx context.Context, employeeID string, companyID string) (WorkInfo, error)

	// IsReportingManagerOf reports whether managerEmployeeID is the
	// reporting manager of employeeID
	IsReportingManagerOf(ctx context.Context, managerEmployeeID, employeeID string, companyID string) (bool, error)
}
