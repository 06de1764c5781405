package reimbursement

import "errors"

// Reimbursement domain errors
var (
	ErrNotFound            = errors.New("reimbursement request not found")
	ErrAlreadyProcessed    = errors.New("reimbursement request has already been approved or rejected")
	ErrLeaveNotEncashable  = errors.New("this leave type is not encashable")
	ErrInsufficientPoints  = errors.New("not enough bonus points to redeem")
	ErrBonusPointsNotFound = errors.New("employee has no bonus point account")
	ErrPermissionDenied    = errors.New("you are not allowed to perform this action on this request")
)
