package repositories

import (
	"context"
	"errors"
	"strconv"
	"time"

	"premium-backend/internal/ledger"
	"premium-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerStore is the pgx implementation of the ledger's unit-of-work. Every
// *ForUpdate fetch takes row locks, so two operators paying against the same
// debt or customer serialize instead of interleaving.
type LedgerStore struct {
	DB *pgxpool.Pool
}

func NewLedgerStore(db *pgxpool.Pool) *LedgerStore {
	return &LedgerStore{DB: db}
}

func (s *LedgerStore) WithinTx(ctx context.Context, fn func(tx ledger.Tx) error) error {
	pgtx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer pgtx.Rollback(ctx)

	if err := fn(&ledgerTx{tx: pgtx}); err != nil {
		return mapConflict(err)
	}
	if err := pgtx.Commit(ctx); err != nil {
		return mapConflict(err)
	}
	return nil
}

// mapConflict translates serialization and deadlock SQLSTATEs into the
// ledger's conflict error so the engine's bounded retry kicks in
func mapConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return &ledger.ConcurrentModificationError{}
		}
	}
	return err
}

type ledgerTx struct {
	tx pgx.Tx
}

const debtColumns = `id, customer_id, sale_id, receipt_number, total_amount, amount_paid, amount_due,
	due_date, status, created_at, updated_at`

func scanDebt(row pgx.Row) (*models.Debt, error) {
	var d models.Debt
	err := row.Scan(
		&d.ID, &d.CustomerID, &d.SaleID, &d.ReceiptNumber, &d.TotalAmount, &d.AmountPaid, &d.AmountDue,
		&d.DueDate, &d.Status, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (t *ledgerTx) GetDebtForUpdate(ctx context.Context, debtID int) (*models.Debt, error) {
	row := t.tx.QueryRow(ctx,
		`SELECT `+debtColumns+` FROM debts WHERE id = $1 FOR UPDATE`, debtID)
	debt, err := scanDebt(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return debt, err
}

func (t *ledgerTx) listOpenDebtsForUpdate(ctx context.Context, where string, arg interface{}) ([]*models.Debt, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT `+debtColumns+` FROM debts
		 WHERE `+where+` AND status <> 'PAID'
		 ORDER BY due_date ASC NULLS LAST, created_at ASC, id ASC
		 FOR UPDATE`, arg)
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

func (t *ledgerTx) ListOpenDebtsByReceiptForUpdate(ctx context.Context, receiptNumber string) ([]*models.Debt, error) {
	return t.listOpenDebtsForUpdate(ctx, "receipt_number = $1", receiptNumber)
}

func (t *ledgerTx) ListOpenDebtsByCustomerForUpdate(ctx context.Context, customerID int) ([]*models.Debt, error) {
	return t.listOpenDebtsForUpdate(ctx, "customer_id = $1", customerID)
}

func (t *ledgerTx) GetCustomerForUpdate(ctx context.Context, customerID int) (*models.Customer, error) {
	var c models.Customer
	err := t.tx.QueryRow(ctx,
		`SELECT id, name, phone, COALESCE(address, ''), outstanding_debt, reliability_score,
		 last_payment_date, created_at, updated_at
		 FROM customers WHERE id = $1 FOR UPDATE`, customerID,
	).Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.OutstandingDebt, &c.ReliabilityScore,
		&c.LastPaymentDate, &c.CreatedAt, &c.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (t *ledgerTx) UpdateDebt(ctx context.Context, debt *models.Debt) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE debts
		 SET amount_paid = $2, amount_due = $3, status = $4, updated_at = NOW()
		 WHERE id = $1`,
		debt.ID, debt.AmountPaid, debt.AmountDue, debt.Status)
	return err
}

func (t *ledgerTx) UpdateSalePaymentStatus(ctx context.Context, saleID int, status models.SalePaymentStatus) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE sales SET payment_status = $2 WHERE id = $1`, saleID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &ledger.NotFoundError{Kind: "sale", ID: strconv.Itoa(saleID)}
	}
	return nil
}

func (t *ledgerTx) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return t.tx.QueryRow(ctx,
		`INSERT INTO payments (debt_id, customer_id, amount, method, payment_date, reference, notes, received_by_user_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		payment.DebtID, payment.CustomerID, payment.Amount, payment.Method, payment.PaymentDate,
		payment.Reference, payment.Notes, payment.ReceivedByUserID,
	).Scan(&payment.ID, &payment.CreatedAt)
}

func (t *ledgerTx) CreateCashEntry(ctx context.Context, entry *models.CashLedgerEntry) error {
	return t.tx.QueryRow(ctx,
		`INSERT INTO cash_ledger_entries (entry_type, amount, description, reference, customer_id, recorded_by_user_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		entry.EntryType, entry.Amount, entry.Description, entry.Reference, entry.CustomerID, entry.RecordedByUserID,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (t *ledgerTx) SumOpenDebt(ctx context.Context, customerID int) (float64, error) {
	var sum float64
	err := t.tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount_due), 0) FROM debts
		 WHERE customer_id = $1 AND status <> 'PAID'`, customerID,
	).Scan(&sum)
	return sum, err
}

func (t *ledgerTx) PaymentStats(ctx context.Context, customerID int) (int, int, error) {
	var total, late int
	err := t.tx.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE d.due_date IS NOT NULL AND p.payment_date > d.due_date)
		 FROM payments p
		 JOIN debts d ON d.id = p.debt_id
		 WHERE p.customer_id = $1`, customerID,
	).Scan(&total, &late)
	return total, late, err
}

func (t *ledgerTx) UpdateCustomerStats(ctx context.Context, customerID int, outstanding, score float64, lastPayment time.Time) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE customers
		 SET outstanding_debt = $2, reliability_score = $3, last_payment_date = $4, updated_at = NOW()
		 WHERE id = $1`,
		customerID, outstanding, score, lastPayment)
	return err
}
