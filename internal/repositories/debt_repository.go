package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"premium-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DebtRepository struct {
	DB *pgxpool.Pool
}

func NewDebtRepository(db *pgxpool.Pool) *DebtRepository {
	return &DebtRepository{DB: db}
}

func (r *DebtRepository) Get(ctx context.Context, id int) (*models.Debt, error) {
	debt, err := scanDebt(r.DB.QueryRow(ctx,
		`SELECT `+debtColumns+` FROM debts WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return debt, err
}

// GetAll returns debts matching the filter
func (r *DebtRepository) GetAll(ctx context.Context, filter *models.DebtFilter) ([]*models.Debt, error) {
	var conditions []string
	var args []interface{}
	argNum := 1

	if filter.CustomerID > 0 {
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", argNum))
		args = append(args, filter.CustomerID)
		argNum++
	}
	if filter.ReceiptNumber != "" {
		conditions = append(conditions, fmt.Sprintf("receipt_number = $%d", argNum))
		args = append(args, filter.ReceiptNumber)
		argNum++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argNum))
		args = append(args, filter.Status)
		argNum++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}

	query := fmt.Sprintf(`
		SELECT %s FROM debts
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, debtColumns, whereClause, argNum, argNum+1)
	args = append(args, limit, filter.Offset)

	return r.list(ctx, query, args...)
}

// ListOpenByCustomer returns a customer's open debts in payment order
func (r *DebtRepository) ListOpenByCustomer(ctx context.Context, customerID int) ([]*models.Debt, error) {
	return r.list(ctx,
		`SELECT `+debtColumns+` FROM debts
		 WHERE customer_id = $1 AND status <> 'PAID'
		 ORDER BY due_date ASC NULLS LAST, created_at ASC, id ASC`, customerID)
}

// ListOpenByReceipt returns a receipt's open debts in line order
func (r *DebtRepository) ListOpenByReceipt(ctx context.Context, receiptNumber string) ([]*models.Debt, error) {
	return r.list(ctx,
		`SELECT `+debtColumns+` FROM debts
		 WHERE receipt_number = $1 AND status <> 'PAID'
		 ORDER BY created_at ASC, id ASC`, receiptNumber)
}

// ListOverdue returns open debts whose due date has passed
func (r *DebtRepository) ListOverdue(ctx context.Context, now time.Time) ([]*models.Debt, error) {
	return r.list(ctx,
		`SELECT `+debtColumns+` FROM debts
		 WHERE status <> 'PAID' AND due_date IS NOT NULL AND due_date < $1
		 ORDER BY due_date ASC, id ASC`, now)
}

func (r *DebtRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Debt, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var debts []*models.Debt
	for rows.Next() {
		debt, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		debts = append(debts, debt)
	}
	return debts, rows.Err()
}

// PromoteOverdue persists the OVERDUE label on open debts whose due date has
// passed. A display concern only: the status column is the single thing it
// writes, amounts are never touched.
func (r *DebtRepository) PromoteOverdue(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE debts SET status = 'OVERDUE'
		 WHERE status IN ('OUTSTANDING', 'PARTIAL')
		   AND due_date IS NOT NULL AND due_date < $1`, now)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// GetDebtorSummaries groups open debt by customer for the debtors dashboard.
// A projection over canonical debt rows, recomputed on every call.
func (r *DebtRepository) GetDebtorSummaries(ctx context.Context, now time.Time) ([]models.CustomerDebtSummary, error) {
	query := `
		SELECT d.customer_id,
			MAX(c.name) as customer_name,
			MAX(c.phone) as customer_phone,
			COUNT(*) as open_debts,
			COALESCE(SUM(d.total_amount), 0) as total_amount,
			COALESCE(SUM(d.amount_paid), 0) as total_paid,
			COALESCE(SUM(d.amount_due), 0) as total_due,
			COUNT(*) FILTER (WHERE d.due_date IS NOT NULL AND d.due_date < $1) as overdue_count,
			MIN(d.due_date) as oldest_due_date,
			MAX(c.reliability_score) as reliability_score
		FROM debts d
		JOIN customers c ON c.id = d.customer_id
		WHERE d.status <> 'PAID'
		GROUP BY d.customer_id
		ORDER BY total_due DESC
	`

	rows, err := r.DB.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []models.CustomerDebtSummary
	for rows.Next() {
		var s models.CustomerDebtSummary
		err := rows.Scan(&s.CustomerID, &s.CustomerName, &s.CustomerPhone, &s.OpenDebts,
			&s.TotalAmount, &s.TotalPaid, &s.TotalDue, &s.OverdueCount,
			&s.OldestDueDate, &s.ReliabilityScore)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// GetReceiptSummaries groups open debt by receipt, the other read model
// over the same canonical rows
func (r *DebtRepository) GetReceiptSummaries(ctx context.Context) ([]models.ReceiptDebtSummary, error) {
	query := `
		SELECT d.receipt_number,
			MAX(d.customer_id) as customer_id,
			MAX(c.name) as customer_name,
			COUNT(*) as products,
			COALESCE(SUM(d.total_amount), 0) as total_amount,
			COALESCE(SUM(d.amount_paid), 0) as total_paid,
			COALESCE(SUM(d.amount_due), 0) as total_due,
			MIN(d.created_at) as created_at
		FROM debts d
		JOIN customers c ON c.id = d.customer_id
		WHERE d.status <> 'PAID'
		GROUP BY d.receipt_number
		ORDER BY created_at DESC
	`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []models.ReceiptDebtSummary
	for rows.Next() {
		var s models.ReceiptDebtSummary
		err := rows.Scan(&s.ReceiptNumber, &s.CustomerID, &s.CustomerName, &s.Products,
			&s.TotalAmount, &s.TotalPaid, &s.TotalDue, &s.CreatedAt)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
