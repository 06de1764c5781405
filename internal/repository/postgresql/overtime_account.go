package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sentra-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/sentra-hr/attendance-backend-go/internal/pkg/database"
)

type overtimeAccountRepository struct {
	db *database.DB
}

func NewOvertimeAccountRepository(db *database.DB) attendance.OvertimeAccountRepository {
	return &overtimeAccountRepository{db: db}
}

// GetForUpdate implements attendance.OvertimeAccountRepository. The FOR
// UPDATE lock serializes concurrent adjustments to the same month when
// called inside a transaction.
func (r *overtimeAccountRepository) GetForUpdate(ctx context.Context, employeeID string, year int, month time.Month, companyID string) (*attendance.OvertimeAccount, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, company_id, year, month, overtime_seconds, created_at, updated_at
		FROM overtime_accounts
		WHERE employee_id = $1 AND year = $2 AND month = $3 AND company_id = $4
		FOR UPDATE
	`

	var account attendance.OvertimeAccount
	var monthInt int
	err := q.QueryRow(ctx, query, employeeID, year, int(month), companyID).Scan(
		&account.ID, &account.EmployeeID, &account.CompanyID, &account.Year, &monthInt,
		&account.OvertimeSeconds, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get overtime account: %w", err)
	}

	account.Month = time.Month(monthInt)
	return &account, nil
}

// Upsert implements attendance.OvertimeAccountRepository.
func (r *overtimeAccountRepository) Upsert(ctx context.Context, account attendance.OvertimeAccount) (attendance.OvertimeAccount, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO overtime_accounts (employee_id, company_id, year, month, overtime_seconds)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, company_id, year, month)
		DO UPDATE SET overtime_seconds = EXCLUDED.overtime_seconds, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		account.EmployeeID,
		account.CompanyID,
		account.Year,
		int(account.Month),
		account.OvertimeSeconds,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		return attendance.OvertimeAccount{}, fmt.Errorf("failed to upsert overtime account: %w", err)
	}

	return account, nil
}

// GetByID implements attendance.OvertimeAccountRepository.
func (r *overtimeAccountRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.OvertimeAccount, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT o.id, o.employee_id, o.company_id, o.year, o.month, o.overtime_seconds,
			   o.created_at, o.updated_at, e.full_name AS employee_name
		FROM overtime_accounts o
		JOIN employees e ON o.employee_id = e.id
		WHERE o.id = $1 AND o.company_id = $2
	`

	var account attendance.OvertimeAccount
	var monthInt int
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&account.ID, &account.EmployeeID, &account.CompanyID, &account.Year, &monthInt,
		&account.OvertimeSeconds, &account.CreatedAt, &account.UpdatedAt, &account.EmployeeName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.OvertimeAccount{}, attendance.ErrOvertimeAccountNotFound
		}
		return attendance.OvertimeAccount{}, fmt.Errorf("failed to get overtime account: %w", err)
	}

	account.Month = time.Month(monthInt)
	return account, nil
}

// List implements attendance.OvertimeAccountRepository.
func (r *overtimeAccountRepository) List(ctx context.Context, filter attendance.OvertimeFilter, companyID string) ([]attendance.OvertimeAccount, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "WHERE o.company_id = $1"
	args := []interface{}{companyID}
	argIndex := 2

	if filter.EmployeeID != nil {
		whereClause += fmt.Sprintf(" AND o.employee_id = $%d", argIndex)
		args = append(args, *filter.EmployeeID)
		argIndex++
	}

	if filter.Year != nil {
		whereClause += fmt.Sprintf(" AND o.year = $%d", argIndex)
		args = append(args, *filter.Year)
		argIndex++
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM overtime_accounts o %s`, whereClause)

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count overtime accounts: %w", err)
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
		SELECT o.id, o.employee_id, o.company_id, o.year, o.month, o.overtime_seconds,
			   o.created_at, o.updated_at, e.full_name AS employee_name
		FROM overtime_accounts o
		JOIN employees e ON o.employee_id = e.id
		%s
		ORDER BY o.year DESC, o.month DESC, e.full_name ASC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIndex, argIndex+1)

	args = append(args, limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list overtime accounts: %w", err)
	}
	defer rows.Close()

	var accounts []attendance.OvertimeAccount
	for rows.Next() {
		var account attendance.OvertimeAccount
		var monthInt int
		err := rows.Scan(
			&account.ID, &account.EmployeeID, &account.CompanyID, &account.Year, &monthInt,
			&account.OvertimeSeconds, &account.CreatedAt, &account.UpdatedAt, &account.EmployeeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan overtime account: %w", err)
		}
		account.Month = time.Month(monthInt)
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}
