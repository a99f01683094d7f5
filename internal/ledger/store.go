package ledger

import (
	"context"
	"time"

	"premium-backend/internal/models"
)

// Store is the transactional unit-of-work the ledger runs on. It is injected
// at construction; the ledger holds no connection state of its own. The
// production implementation wraps a pgx transaction with row locking, tests
// run an in-memory implementation of the same contract.
type Store interface {
	// WithinTx runs fn inside one transaction. If fn returns an error the
	// transaction is rolled back and nothing fn did is visible.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx exposes the row primitives the ledger needs. All *ForUpdate fetches
// must lock the returned rows for the remainder of the transaction.
// Lookups return (nil, nil) when the id does not resolve.
type Tx interface {
	GetDebtForUpdate(ctx context.Context, debtID int) (*models.Debt, error)
	ListOpenDebtsByReceiptForUpdate(ctx context.Context, receiptNumber string) ([]*models.Debt, error)
	ListOpenDebtsByCustomerForUpdate(ctx context.Context, customerID int) ([]*models.Debt, error)
	GetCustomerForUpdate(ctx context.Context, customerID int) (*models.Customer, error)

	UpdateDebt(ctx context.Context, debt *models.Debt) error
	UpdateSalePaymentStatus(ctx context.Context, saleID int, status models.SalePaymentStatus) error
	CreatePayment(ctx context.Context, payment *models.Payment) error
	CreateCashEntry(ctx context.Context, entry *models.CashLedgerEntry) error

	// SumOpenDebt returns the sum of amount_due over a customer's non-PAID debts
	SumOpenDebt(ctx context.Context, customerID int) (float64, error)
	// PaymentStats returns a customer's payment count and how many of those
	// payments landed after their debt's due date
	PaymentStats(ctx context.Context, customerID int) (total int, late int, err error)
	UpdateCustomerStats(ctx context.Context, customerID int, outstanding, score float64, lastPayment time.Time) error
}
