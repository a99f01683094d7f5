package repositories

import (
	"context"
	"fmt"
	"strings"

	"premium-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CashLedgerRepository struct {
	DB *pgxpool.Pool
}

func NewCashLedgerRepository(db *pgxpool.Pool) *CashLedgerRepository {
	return &CashLedgerRepository{DB: db}
}

const cashEntryColumns = `e.id, e.entry_type, e.amount, e.description, COALESCE(e.reference, ''),
	e.customer_id, COALESCE(c.name, ''), e.recorded_by_user_id, COALESCE(u.name, ''), e.created_at`

func scanCashEntry(row pgx.Row) (*models.CashLedgerEntry, error) {
	var e models.CashLedgerEntry
	err := row.Scan(&e.ID, &e.EntryType, &e.Amount, &e.Description, &e.Reference,
		&e.CustomerID, &e.CustomerName, &e.RecordedByUserID, &e.RecordedByName, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *CashLedgerRepository) Get(ctx context.Context, id int) (*models.CashLedgerEntry, error) {
	entry, err := scanCashEntry(r.DB.QueryRow(ctx, `
		SELECT `+cashEntryColumns+`
		FROM cash_ledger_entries e
		LEFT JOIN customers c ON c.id = e.customer_id
		LEFT JOIN users u ON u.id = e.recorded_by_user_id
		WHERE e.id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return entry, err
}

// Create records a manual entry outside the payment path, for expenses and
// other cash movement not tied to a debt
func (r *CashLedgerRepository) Create(ctx context.Context, entry *models.CashLedgerEntry) error {
	return r.DB.QueryRow(ctx, `
		INSERT INTO cash_ledger_entries (entry_type, amount, description, reference, customer_id, recorded_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		entry.EntryType, entry.Amount, entry.Description, entry.Reference,
		entry.CustomerID, entry.RecordedByUserID,
	).Scan(&entry.ID, &entry.CreatedAt)
}

// GetAll returns cash entries matching the filter, newest first
func (r *CashLedgerRepository) GetAll(ctx context.Context, filter *models.CashLedgerFilter) ([]*models.CashLedgerEntry, error) {
	conditions, args, argNum := r.filterConditions(filter)

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
		FROM cash_ledger_entries e
		LEFT JOIN customers c ON c.id = e.customer_id
		LEFT JOIN users u ON u.id = e.recorded_by_user_id
		%s
		ORDER BY e.created_at DESC, e.id DESC
		LIMIT $%d OFFSET $%d
	`, cashEntryColumns, whereClause, argNum, argNum+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.CashLedgerEntry
	for rows.Next() {
		entry, err := scanCashEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// GetSummary totals cash movement over the filtered period
func (r *CashLedgerRepository) GetSummary(ctx context.Context, filter *models.CashLedgerFilter) (*models.CashLedgerSummary, error) {
	conditions, args, _ := r.filterConditions(filter)

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT
			COALESCE(SUM(e.amount) FILTER (WHERE e.entry_type = 'INFLOW'), 0),
			COALESCE(SUM(e.amount) FILTER (WHERE e.entry_type = 'OUTFLOW'), 0),
			COUNT(*)
		FROM cash_ledger_entries e
		%s
	`, whereClause)

	var s models.CashLedgerSummary
	err := r.DB.QueryRow(ctx, query, args...).Scan(&s.TotalInflow, &s.TotalOutflow, &s.EntryCount)
	if err != nil {
		return nil, err
	}
	s.Net = s.TotalInflow - s.TotalOutflow
	return &s, nil
}

func (r *CashLedgerRepository) filterConditions(filter *models.CashLedgerFilter) ([]string, []interface{}, int) {
	var conditions []string
	var args []interface{}
	argNum := 1

	if filter.EntryType != "" {
		conditions = append(conditions, fmt.Sprintf("e.entry_type = $%d", argNum))
		args = append(args, filter.EntryType)
		argNum++
	}
	if filter.CustomerID > 0 {
		conditions = append(conditions, fmt.Sprintf("e.customer_id = $%d", argNum))
		args = append(args, filter.CustomerID)
		argNum++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("e.created_at >= $%d", argNum))
		args = append(args, *filter.StartDate)
		argNum++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("e.created_at <= $%d", argNum))
		args = append(args, *filter.EndDate)
		argNum++
	}
	return conditions, args, argNum
}
