package reimbursement

import (
	"github.com/sentra-hr/attendance-backend-go/internal/pkg/validator"
)

// CreateRequest submits a new request. Exactly one detail block must be
// present and it must match Kind; validation is variant-specific instead of
// presence checks on a shared shape.
type CreateRequest struct {
	EmployeeID  string `json:"employee_id"`
	Title       string `json:"title"`
	Kind        Kind   `json:"type"`
	Description string `json:"description"`

	Reimbursement   *ReimbursementDetails   `json:"reimbursement,omitempty"`
	LeaveEncashment *LeaveEncashmentDetails `json:"leave_encashment,omitempty"`
	BonusEncashment *BonusEncashmentDetails `json:"bonus_encashment,omitempty"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{Field: "title", Message: "title is required"})
	}
	if !validator.IsInSlice(string(r.Kind), KindValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: reimbursement, leave_encashment, bonus_encashment",
		})
		return errs
	}

	details := 0
	for _, present := range []bool{r.Reimbursement != nil, r.LeaveEncashment != nil, r.BonusEncashment != nil} {
		if present {
			details++
		}
	}
	if details != 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "exactly one detail block matching the request type must be provided",
		})
		return errs
	}

	switch r.Kind {
	case KindReimbursement:
		if r.Reimbursement == nil {
			errs = append(errs, validator.ValidationError{Field: "reimbursement", Message: "reimbursement details are required for this type"})
		} else if r.Reimbursement.Amount <= 0 {
			errs = append(errs, validator.ValidationError{Field: "reimbursement.amount", Message: "amount must be greater than zero"})
		}
	case KindLeaveEncashment:
		if r.LeaveEncashment == nil {
			errs = append(errs, validator.ValidationError{Field: "leave_encashment", Message: "leave encashment details are required for this type"})
		} else {
			if validator.IsEmpty(r.LeaveEncashment.LeaveTypeID) {
				errs = append(errs, validator.ValidationError{Field: "leave_encashment.leave_type_id", Message: "leave_type_id is required"})
			}
			if r.LeaveEncashment.CFDToEncash < 0 || r.LeaveEncashment.ADToEncash < 0 {
				errs = append(errs, validator.ValidationError{Field: "leave_encashment", Message: "days to encash must not be negative"})
			}
			if r.LeaveEncashment.CFDToEncash == 0 && r.LeaveEncashment.ADToEncash == 0 {
				errs = append(errs, validator.ValidationError{Field: "leave_encashment", Message: "at least one day must be encashed"})
			}
		}
	case KindBonusEncashment:
		if r.BonusEncashment == nil {
			errs = append(errs, validator.ValidationError{Field: "bonus_encashment", Message: "bonus encashment details are required for this type"})
		} else if r.BonusEncashment.BonusToEncash <= 0 {
			errs = append(errs, validator.ValidationError{Field: "bonus_encashment.bonus_to_encash", Message: "points must be greater than zero to redeem"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type Response struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name,omitempty"`
	Title        string  `json:"title"`
	Kind         Kind    `json:"type"`
	Status       Status  `json:"status"`
	Description  string  `json:"description,omitempty"`
	ApprovedBy   *string `json:"approved_by,omitempty"`

	Reimbursement   *ReimbursementDetails   `json:"reimbursement,omitempty"`
	LeaveEncashment *LeaveEncashmentDetails `json:"leave_encashment,omitempty"`
	BonusEncashment *BonusEncashmentDetails `json:"bonus_encashment,omitempty"`
}

func ToResponse(r Reimbursement) Response {
	var employeeName string
	if r.EmployeeName != nil {
		employeeName = *r.EmployeeName
	}
	return Response{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    employeeName,
		Title:           r.Title,
		Kind:            r.Kind,
		Status:          r.Status,
		Description:     r.Description,
		ApprovedBy:      r.ApprovedBy,
		Reimbursement:   r.Reimbursement,
		LeaveEncashment: r.LeaveEncashment,
		BonusEncashment: r.BonusEncashment,
	}
}

type ListResponse struct {
	TotalCount int64      `json:"total_count"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	Requests   []Response `json:"requests"`
}

type Filter struct {
	EmployeeID *string
	Kind       *Kind
	Status     *Status
	Page       int
	Limit      int
}
