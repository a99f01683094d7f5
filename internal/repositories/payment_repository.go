package repositories

import (
	"context"
	"fmt"
	"strings"

	"premium-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

const paymentColumns = `p.id, p.debt_id, p.customer_id, p.amount, p.method, p.payment_date,
	COALESCE(p.reference, ''), COALESCE(p.notes, ''), p.received_by_user_id,
	COALESCE(u.name, ''), p.created_at`

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var p models.Payment
	err := row.Scan(&p.ID, &p.DebtID, &p.CustomerID, &p.Amount, &p.Method, &p.PaymentDate,
		&p.Reference, &p.Notes, &p.ReceivedByUserID, &p.ReceivedByName, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) Get(ctx context.Context, id int) (*models.Payment, error) {
	payment, err := scanPayment(r.DB.QueryRow(ctx, `
		SELECT `+paymentColumns+`
		FROM payments p
		LEFT JOIN users u ON u.id = p.received_by_user_id
		WHERE p.id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return payment, err
}

// GetByReference returns every split of one payment operation, oldest first
func (r *PaymentRepository) GetByReference(ctx context.Context, reference string) ([]*models.Payment, error) {
	return r.list(ctx, `
		SELECT `+paymentColumns+`
		FROM payments p
		LEFT JOIN users u ON u.id = p.received_by_user_id
		WHERE p.reference = $1 OR p.reference LIKE $1 || '/%'
		ORDER BY p.id ASC`, reference)
}

// GetAll returns payments matching the filter, newest first
func (r *PaymentRepository) GetAll(ctx context.Context, filter *models.PaymentFilter) ([]*models.Payment, error) {
	var conditions []string
	var args []interface{}
	argNum := 1

	if filter.CustomerID > 0 {
		conditions = append(conditions, fmt.Sprintf("p.customer_id = $%d", argNum))
		args = append(args, filter.CustomerID)
		argNum++
	}
	if filter.DebtID > 0 {
		conditions = append(conditions, fmt.Sprintf("p.debt_id = $%d", argNum))
		args = append(args, filter.DebtID)
		argNum++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("p.payment_date >= $%d", argNum))
		args = append(args, *filter.StartDate)
		argNum++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("p.payment_date <= $%d", argNum))
		args = append(args, *filter.EndDate)
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
		SELECT %s
		FROM payments p
		LEFT JOIN users u ON u.id = p.received_by_user_id
		%s
		ORDER BY p.payment_date DESC, p.id DESC
		LIMIT $%d OFFSET $%d
	`, paymentColumns, whereClause, argNum, argNum+1)
	args = append(args, limit, filter.Offset)

	return r.list(ctx, query, args...)
}

func (r *PaymentRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Payment, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}
