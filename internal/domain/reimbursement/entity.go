package reimbursement

import (
	"time"
)

// Kind selects which variant of an encashment request this is. Each kind
// carries only its own fields; there is no shared shape with optional
// everything.
type Kind string

const (
	KindReimbursement   Kind = "reimbursement"
	KindLeaveEncashment Kind = "leave_encashment"
	KindBonusEncashment Kind = "bonus_encashment"
)

var KindValues = []string{
	string(KindReimbursement),
	string(KindLeaveEncashment),
	string(KindBonusEncashment),
}

type Status string

const (
	StatusRequested Status = "requested"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// ReimbursementDetails is the expense-refund variant.
type ReimbursementDetails struct {
	Amount        float64 `json:"amount"`
	AttachmentURL *string `json:"attachment_url,omitempty"`
}

// LeaveEncashmentDetails encashes carry-forward and available leave days of
// an encashable leave type.
type LeaveEncashmentDetails struct {
	LeaveTypeID string  `json:"leave_type_id"`
	CFDToEncash float64 `json:"cfd_to_encash"`
	ADToEncash  float64 `json:"ad_to_encash"`
}

// BonusEncashmentDetails redeems accumulated bonus points.
type BonusEncashmentDetails struct {
	BonusToEncash int `json:"bonus_to_encash"`
}

// Reimbursement is one request of any kind. Exactly one of the detail
// fields is set, matching Kind.
type Reimbursement struct {
	ID          string
	EmployeeID  string
	CompanyID   string
	Title       string
	Kind        Kind
	Status      Status
	Description string

	Reimbursement   *ReimbursementDetails
	LeaveEncashment *LeaveEncashmentDetails
	BonusEncashment *BonusEncashmentDetails

	ApprovedBy *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// DTO
	EmployeeName *string
}
