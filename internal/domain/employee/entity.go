package employee

import (
	"time"
)

type Employee struct {
	ID           string
	UserID       *string
	CompanyID    string
	EmployeeCode string
	FullName     string
	Email        string
	Position     *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// WorkInfo is an employee's active work assignment. Clock events are
// rejected for employees without one.
type WorkInfo struct {
	ID                 string
	EmployeeID         string
	ShiftID            string
	ReportingManagerID *string
	Location           *string
	StartDate          time.Time
	EndDate            *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
