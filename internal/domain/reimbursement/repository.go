package reimbursement

import (
	"context"
)

// Repository defines data access for reimbursement requests and the
// balances their validation depends on.
type Repository interface {
	Create(ctx context.Context, r Reimbursement) (Reimbursement, error)
	GetByID(ctx context.Context, id string, companyID string) (Reimbursement, error)
	Update(ctx context.Context, r Reimbursement) error
	List(ctx context.Context, filter Filter, companyID string) ([]Reimbursement, int64, error)

	// GetBonusPoints returns the employee's redeemable bonus point
	// balance. Returns ErrBonusPointsNotFound when no account exists.
	GetBonusPoints(ctx context.Context, employeeID string, companyID string) (int, error)

	// DeductBonusPoints subtracts redeemed points inside the approval
	// transaction
	DeductBonusPoints(ctx context.Context, employeeID string, points int, companyID string) error

	// IsLeaveTypeEncashable reports whether the leave type is encashable
	// and the employee holds at least one day of it
	IsLeaveTypeEncashable(ctx context.Context, leaveTypeID string, employeeID string, companyID string) (bool, error)
}

// Service defines the reimbursement workflow operations.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (Response, error)
	Approve(ctx context.Context, id string) (Response, error)
	Reject(ctx context.Context, id string) (Response, error)
	Get(ctx context.Context, id string) (Response, error)
	List(ctx context.Context, filter Filter) (ListResponse, error)
}
