package reimbursement

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-chi/jwtauth/v5"

	"github.com/sentra-hr/attendance-backend-go/internal/domain/employee"
	"github.com/sentra-hr/attendance-backend-go/internal/domain/notification"
	"github.com/sentra-hr/attendance-backend-go/internal/domain/reimbursement"
	"github.com/sentra-hr/attendance-backend-go/internal/domain/user"
	"github.com/sentra-hr/attendance-backend-go/internal/pkg/database"
)

type ReimbursementServiceImpl struct {
	Repository          reimbursement.Repository
	EmployeeRepository  employee.EmployeeRepository
	NotificationService notification.Service
	InTx                database.TxRunner
}

func NewReimbursementService(
	repo reimbursement.Repository,
	employeeRepo employee.EmployeeRepository,
	notificationSvc notification.Service,
	inTx database.TxRunner,
) reimbursement.Service {
	return &ReimbursementServiceImpl{
		Repository:          repo,
		EmployeeRepository:  employeeRepo,
		NotificationService: notificationSvc,
		InTx:                inTx,
	}
}

type actor struct {
	EmployeeID string
	CompanyID  string
	UserID     string
	Role       user.Role
}

func actorFromContext(ctx context.Context) (actor, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return actor{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return actor{}, fmt.Errorf("company_id claim is missing or invalid")
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return actor{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	roleStr, _ := claims["role"].(string)
	role, ok := user.ParseRole(roleStr)
	if !ok {
		return actor{}, fmt.Errorf("role claim is missing or invalid")
	}

	userID, _ := claims["user_id"].(string)

	return actor{
		EmployeeID: employeeID,
		CompanyID:  companyID,
		UserID:     userID,
		Role:       role,
	}, nil
}

// Create implements reimbursement.Service.
func (s *ReimbursementServiceImpl) Create(ctx context.Context, req reimbursement.CreateRequest) (reimbursement.Response, error) {
	if err := req.Validate(); err != nil {
		return reimbursement.Response{}, err
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return reimbursement.Response{}, err
	}
	if !user.HasCapability(act.Role, user.CapabilityReimbursementAdd) {
		return reimbursement.Response{}, reimbursement.ErrPermissionDenied
	}

	targetEmployeeID := act.EmployeeID
	if req.EmployeeID != "" {
		targetEmployeeID = req.EmployeeID
	}
	// Filing on behalf of someone else needs the approval capability
	if targetEmployeeID != act.EmployeeID && !user.HasCapability(act.Role, user.CapabilityReimbursementApprove) {
		return reimbursement.Response{}, reimbursement.ErrPermissionDenied
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, targetEmployeeID, act.CompanyID); err != nil {
		return reimbursement.Response{}, err
	}

	// Balance checks happen at submission so obviously invalid requests
	// never enter the review queue
	switch req.Kind {
	case reimbursement.KindLeaveEncashment:
		encashable, err := s.Repository.IsLeaveTypeEncashable(ctx, req.LeaveEncashment.LeaveTypeID, targetEmployeeID, act.CompanyID)
		if err != nil {
			return reimbursement.Response{}, err
		}
		if !encashable {
			return reimbursement.Response{}, reimbursement.ErrLeaveNotEncashable
		}
	case reimbursement.KindBonusEncashment:
		points, err := s.Repository.GetBonusPoints(ctx, targetEmployeeID, act.CompanyID)
		if err != nil {
			return reimbursement.Response{}, err
		}
		if points < req.BonusEncashment.BonusToEncash {
			return reimbursement.Response{}, reimbursement.ErrInsufficientPoints
		}
	}

	created, err := s.Repository.Create(ctx, reimbursement.Reimbursement{
		EmployeeID:      targetEmployeeID,
		CompanyID:       act.CompanyID,
		Title:           req.Title,
		Kind:            req.Kind,
		Status:          reimbursement.StatusRequested,
		Description:     req.Description,
		Reimbursement:   req.Reimbursement,
		LeaveEncashment: req.LeaveEncashment,
		BonusEncashment: req.BonusEncashment,
	})
	if err != nil {
		return reimbursement.Response{}, fmt.Errorf("failed to create reimbursement request: %w", err)
	}

	return reimbursement.ToResponse(created), nil
}

// Approve implements reimbursement.Service.
func (s *ReimbursementServiceImpl) Approve(ctx context.Context, id string) (reimbursement.Response, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return reimbursement.Response{}, err
	}
	if !user.HasCapability(act.Role, user.CapabilityReimbursementApprove) {
		return reimbursement.Response{}, reimbursement.ErrPermissionDenied
	}

	var approved reimbursement.Reimbursement
	err = s.InTx(ctx, func(txCtx context.Context) error {
		r, err := s.Repository.GetByID(txCtx, id, act.CompanyID)
		if err != nil {
			return err
		}
		if r.Status != reimbursement.StatusRequested {
			return reimbursement.ErrAlreadyProcessed
		}

		switch r.Kind {
		case reimbursement.KindBonusEncashment:
			// Points are deducted under the same lock the balance check took
			if err := s.Repository.DeductBonusPoints(txCtx, r.EmployeeID, r.BonusEncashment.BonusToEncash, act.CompanyID); err != nil {
				return err
			}
		case reimbursement.KindLeaveEncashment:
			encashable, err := s.Repository.IsLeaveTypeEncashable(txCtx, r.LeaveEncashment.LeaveTypeID, r.EmployeeID, act.CompanyID)
			if err != nil {
				return err
			}
			if !encashable {
				return reimbursement.ErrLeaveNotEncashable
			}
		}

		r.Status = reimbursement.StatusApproved
		r.ApprovedBy = &act.EmployeeID
		if err := s.Repository.Update(txCtx, r); err != nil {
			return err
		}

		approved = r
		return nil
	})
	if err != nil {
		return reimbursement.Response{}, err
	}

	s.notifyEmployee(ctx, approved)
	return reimbursement.ToResponse(approved), nil
}

// Reject implements reimbursement.Service.
func (s *ReimbursementServiceImpl) Reject(ctx context.Context, id string) (reimbursement.Response, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return reimbursement.Response{}, err
	}
	if !user.HasCapability(act.Role, user.CapabilityReimbursementApprove) {
		return reimbursement.Response{}, reimbursement.ErrPermissionDenied
	}

	r, err := s.Repository.GetByID(ctx, id, act.CompanyID)
	if err != nil {
		return reimbursement.Response{}, err
	}
	if r.Status != reimbursement.StatusRequested {
		return reimbursement.Response{}, reimbursement.ErrAlreadyProcessed
	}

	r.Status = reimbursement.StatusRejected
	r.ApprovedBy = &act.EmployeeID
	if err := s.Repository.Update(ctx, r); err != nil {
		return reimbursement.Response{}, err
	}

	s.notifyEmployee(ctx, r)
	return reimbursement.ToResponse(r), nil
}

// Get implements reimbursement.Service.
func (s *ReimbursementServiceImpl) Get(ctx context.Context, id string) (reimbursement.Response, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return reimbursement.Response{}, err
	}

	r, err := s.Repository.GetByID(ctx, id, act.CompanyID)
	if err != nil {
		return reimbursement.Response{}, err
	}

	if r.EmployeeID != act.EmployeeID && !user.HasCapability(act.Role, user.CapabilityReimbursementApprove) {
		return reimbursement.Response{}, reimbursement.ErrPermissionDenied
	}

	return reimbursement.ToResponse(r), nil
}

// List implements reimbursement.Service.
func (s *ReimbursementServiceImpl) List(ctx context.Context, filter reimbursement.Filter) (reimbursement.ListResponse, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return reimbursement.ListResponse{}, err
	}

	// Without the approval capability an employee only sees their own
	if !user.HasCapability(act.Role, user.CapabilityReimbursementApprove) {
		own := act.EmployeeID
		filter.EmployeeID = &own
	}

	requests, total, err := s.Repository.List(ctx, filter, act.CompanyID)
	if err != nil {
		return reimbursement.ListResponse{}, fmt.Errorf("failed to list reimbursement requests: %w", err)
	}

	page := filter.Page
	limit := filter.Limit
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = 10
	}

	responses := make([]reimbursement.Response, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, reimbursement.ToResponse(r))
	}

	return reimbursement.ListResponse{
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		Requests:   responses,
	}, nil
}

// notifyEmployee tells the requester their request was processed. Best
// effort only.
func (s *ReimbursementServiceImpl) notifyEmployee(ctx context.Context, r reimbursement.Reimbursement) {
	if s.NotificationService == nil {
		return
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		slog.Warn("skipping reimbursement notification", "error", err)
		return
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, r.EmployeeID, r.CompanyID)
	if err != nil || emp.UserID == nil {
		slog.Warn("skipping reimbursement notification, recipient unresolved", "employee_id", r.EmployeeID, "error", err)
		return
	}

	message := fmt.Sprintf("Your %s request %q has been %s", r.Kind, r.Title, r.Status)
	sender := act.UserID
	s.NotificationService.Notify(ctx, notification.Notice{
		CompanyID:   r.CompanyID,
		RecipientID: *emp.UserID,
		SenderID:    &sender,
		Type:        notification.TypeReimbursementClosed,
		Message:     message,
		Redirect:    "/reimbursement/" + r.ID,
		EmailTo:     emp.Email,
	})
}
