package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sentra-hr/attendance-backend-go/internal/domain/reimbursement"
	"github.com/sentra-hr/attendance-backend-go/internal/pkg/database"
)

type reimbursementRepository struct {
	db *database.DB
}

func NewReimbursementRepository(db *database.DB) reimbursement.Repository {
	return &reimbursementRepository{db: db}
}

func marshalDetails(r reimbursement.Reimbursement) ([]byte, error) {
	switch r.Kind {
	case reimbursement.KindReimbursement:
		return json.Marshal(r.Reimbursement)
	case reimbursement.KindLeaveEncashment:
		return json.Marshal(r.LeaveEncashment)
	case reimbursement.KindBonusEncashment:
		return json.Marshal(r.BonusEncashment)
	}
	return nil, fmt.Errorf("unknown reimbursement kind: %s", r.Kind)
}

func unmarshalDetails(r *reimbursement.Reimbursement, data []byte) error {
	switch r.Kind {
	case reimbursement.KindReimbursement:
		r.Reimbursement = &reimbursement.ReimbursementDetails{}
		return json.Unmarshal(data, r.Reimbursement)
	case reimbursement.KindLeaveEncashment:
		r.LeaveEncashment = &reimbursement.LeaveEncashmentDetails{}
		return json.Unmarshal(data, r.LeaveEncashment)
	case reimbursement.KindBonusEncashment:
		r.BonusEncashment = &reimbursement.BonusEncashmentDetails{}
		return json.Unmarshal(data, r.BonusEncashment)
	}
	return fmt.Errorf("unknown reimbursement kind: %s", r.Kind)
}

func scanReimbursement(row pgx.Row) (reimbursement.Reimbursement, error) {
	var r reimbursement.Reimbursement
	var kind, status string
	var detailsJSON []byte

	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.CompanyID, &r.Title, &kind, &status, &r.Description,
		&detailsJSON, &r.ApprovedBy, &r.CreatedAt, &r.UpdatedAt, &r.EmployeeName,
	)
	if err != nil {
		return reimbursement.Reimbursement{}, err
	}

	r.Kind = reimbursement.Kind(kind)
	r.Status = reimbursement.Status(status)
	if err := unmarshalDetails(&r, detailsJSON); err != nil {
		return reimbursement.Reimbursement{}, fmt.Errorf("failed to unmarshal reimbursement details: %w", err)
	}

	return r, nil
}

// Create implements reimbursement.Repository.
func (repo *reimbursementRepository) Create(ctx context.Context, r reimbursement.Reimbursement) (reimbursement.Reimbursement, error) {
	q := GetQuerier(ctx, repo.db)

	detailsJSON, err := marshalDetails(r)
	if err != nil {
		return reimbursement.Reimbursement{}, err
	}

	query := `
		INSERT INTO reimbursements (employee_id, company_id, title, kind, status, description, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		r.EmployeeID,
		r.CompanyID,
		r.Title,
		string(r.Kind),
		string(r.Status),
		r.Description,
		detailsJSON,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)

	if err != nil {
		return reimbursement.Reimbursement{}, fmt.Errorf("failed to create reimbursement: %w", err)
	}

	return r, nil
}

// GetByID implements reimbursement.Repository.
func (repo *reimbursementRepository) GetByID(ctx context.Context, id string, companyID string) (reimbursement.Reimbursement, error) {
	q := GetQuerier(ctx, repo.db)

	query := `
		SELECT r.id, r.employee_id, r.company_id, r.title, r.kind, r.status, r.description,
			   r.details, r.approved_by, r.created_at, r.updated_at, e.full_name AS employee_name
		FROM reimbursements r
		JOIN employees e ON r.employee_id = e.id
		WHERE r.id = $1 AND r.company_id = $2
	`

	r, err := scanReimbursement(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return reimbursement.Reimbursement{}, reimbursement.ErrNotFound
		}
		return reimbursement.Reimbursement{}, fmt.Errorf("failed to get reimbursement: %w", err)
	}

	return r, nil
}

// Update implements reimbursement.Repository.
func (repo *reimbursementRepository) Update(ctx context.Context, r reimbursement.Reimbursement) error {
	q := GetQuerier(ctx, repo.db)

	query := `
		UPDATE reimbursements SET
			status = $1,
			approved_by = $2,
			updated_at = NOW()
		WHERE id = $3 AND company_id = $4
	`

	tag, err := q.Exec(ctx, query, string(r.Status), r.ApprovedBy, r.ID, r.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to update reimbursement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return reimbursement.ErrNotFound
	}

	return nil
}

// List implements reimbursement.Repository.
func (repo *reimbursementRepository) List(ctx context.Context, filter reimbursement.Filter, companyID string) ([]reimbursement.Reimbursement, int64, error) {
	q := GetQuerier(ctx, repo.db)

	whereClause := "WHERE r.company_id = $1"
	args := []interface{}{companyID}
	argIndex := 2

	if filter.EmployeeID != nil {
		whereClause += fmt.Sprintf(" AND r.employee_id = $%d", argIndex)
		args = append(args, *filter.EmployeeID)
		argIndex++
	}

	if filter.Kind != nil {
		whereClause += fmt.Sprintf(" AND r.kind = $%d", argIndex)
		args = append(args, string(*filter.Kind))
		argIndex++
	}

	if filter.Status != nil {
		whereClause += fmt.Sprintf(" AND r.status = $%d", argIndex)
		args = append(args, string(*filter.Status))
		argIndex++
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM reimbursements r %s`, whereClause)

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reimbursements: %w", err)
	}

	page := filter.Page
	limit := filter.Limit
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf(`
		SELECT r.id, r.employee_id, r.company_id, r.title, r.kind, r.status, r.description,
			   r.details, r.approved_by, r.created_at, r.updated_at, e.full_name AS employee_name
		FROM reimbursements r
		JOIN employees e ON r.employee_id = e.id
		%s
		ORDER BY r.created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIndex, argIndex+1)

	args = append(args, limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reimbursements: %w", err)
	}
	defer rows.Close()

	var reimbursements []reimbursement.Reimbursement
	for rows.Next() {
		r, err := scanReimbursement(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan reimbursement: %w", err)
		}
		reimbursements = append(reimbursements, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return reimbursements, total, nil
}

// GetBonusPoints implements reimbursement.Repository.
func (repo *reimbursementRepository) GetBonusPoints(ctx context.Context, employeeID string, companyID string) (int, error) {
	q := GetQuerier(ctx, repo.db)

	query := `
		SELECT points
		FROM bonus_point_accounts
		WHERE employee_id = $1 AND company_id = $2
		FOR UPDATE
	`

	var points int
	err := q.QueryRow(ctx, query, employeeID, companyID).Scan(&points)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, reimbursement.ErrBonusPointsNotFound
		}
		return 0, fmt.Errorf("failed to get bonus points: %w", err)
	}

	return points, nil
}

// DeductBonusPoints implements reimbursement.Repository.
func (repo *reimbursementRepository) DeductBonusPoints(ctx context.Context, employeeID string, points int, companyID string) error {
	q := GetQuerier(ctx, repo.db)

	query := `
		UPDATE bonus_point_accounts
		SET points = points - $1, updated_at = NOW()
		WHERE employee_id = $2 AND company_id = $3 AND points >= $1
	`

	tag, err := q.Exec(ctx, query, points, employeeID, companyID)
	if err != nil {
		return fmt.Errorf("failed to deduct bonus points: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return reimbursement.ErrInsufficientPoints
	}

	return nil
}

// IsLeaveTypeEncashable implements reimbursement.Repository.
func (repo *reimbursementRepository) IsLeaveTypeEncashable(ctx context.Context, leaveTypeID string, employeeID string, companyID string) (bool, error) {
	q := GetQuerier(ctx, repo.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM leave_balances lb
			JOIN leave_types lt ON lb.leave_type_id = lt.id
			WHERE lb.leave_type_id = $1 AND lb.employee_id = $2 AND lt.company_id = $3
			  AND lt.is_encashable = TRUE
			  AND (lb.available_days > 0 OR lb.carryforward_days > 0)
		)
	`

	var encashable bool
	if err := q.QueryRow(ctx, query, leaveTypeID, employeeID, companyID).Scan(&encashable); err != nil {
		return false, fmt.Errorf("failed to check leave encashability: %w", err)
	}

	return encashable, nil
}
