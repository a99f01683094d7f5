package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"premium-backend/internal/models"
	"premium-backend/internal/timeutil"
)

// maxAttempts bounds the internal retry on lock conflicts before the
// conflict is surfaced to the caller
const maxAttempts = 3

// PaymentDetails carries the caller-supplied parts of a payment operation
type PaymentDetails struct {
	Amount     float64
	Method     models.PaymentMethod
	Date       time.Time
	Reference  string
	Notes      string
	OperatorID int
}

// Result is everything one payment operation produced: a Payment per touched
// debt, the updated debts, and the single cash ledger entry for the whole
// movement. Callers can report a per-line breakdown alongside the aggregate.
type Result struct {
	Payments  []*models.Payment       `json:"payments"`
	Debts     []*models.Debt          `json:"debts"`
	CashEntry *models.CashLedgerEntry `json:"cash_entry"`
}

// DebtLedger owns the state of every outstanding obligation. It applies
// payments against one or more debts in deterministic order, derives each
// debt's status, and keeps the side effects (sale mirror, cash ledger entry,
// customer stats) consistent within one store transaction.
type DebtLedger struct {
	store Store
}

func New(store Store) *DebtLedger {
	return &DebtLedger{store: store}
}

// Apply dispatches a payment intent to the path matching its target kind
func (l *DebtLedger) Apply(ctx context.Context, intent *models.PaymentIntent) (*Result, error) {
	details := PaymentDetails{
		Amount:     intent.Amount,
		Method:     intent.Method,
		Date:       intent.Date,
		Reference:  intent.Reference,
		Notes:      intent.Notes,
		OperatorID: intent.OperatorID,
	}

	switch intent.TargetKind {
	case models.PaymentTargetDebt:
		id, err := strconv.Atoi(intent.TargetID)
		if err != nil {
			return nil, &NotFoundError{Kind: "debt", ID: intent.TargetID}
		}
		return l.ApplyToDebt(ctx, id, details)
	case models.PaymentTargetReceipt:
		return l.ApplyToReceipt(ctx, intent.TargetID, details)
	case models.PaymentTargetCustomer:
		id, err := strconv.Atoi(intent.TargetID)
		if err != nil {
			return nil, &NotFoundError{Kind: "customer", ID: intent.TargetID}
		}
		return l.ApplyToCustomer(ctx, id, details)
	default:
		return nil, fmt.Errorf("unknown payment target kind %q", intent.TargetKind)
	}
}

// ApplyToDebt applies a payment against a single debt. The amount must not
// exceed the debt's amount due; the ledger rejects rather than clamps.
func (l *DebtLedger) ApplyToDebt(ctx context.Context, debtID int, p PaymentDetails) (*Result, error) {
	amount := Round(p.Amount)
	if amount <= 0 {
		return nil, &InvalidAmountError{Amount: amount}
	}
	date := paymentDate(p)

	var result *Result
	err := l.withRetry(ctx, func(tx Tx) error {
		debt, err := tx.GetDebtForUpdate(ctx, debtID)
		if err != nil {
			return err
		}
		if debt == nil {
			return &NotFoundError{Kind: "debt", ID: strconv.Itoa(debtID)}
		}
		if amount > debt.AmountDue {
			return &OverpaymentError{Requested: amount, Outstanding: debt.AmountDue}
		}

		customer, err := tx.GetCustomerForUpdate(ctx, debt.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return &NotFoundError{Kind: "customer", ID: strconv.Itoa(debt.CustomerID)}
		}

		opRef := operationReference(p.Reference, date)
		payment := &models.Payment{
			DebtID:           debt.ID,
			CustomerID:       debt.CustomerID,
			Amount:           amount,
			Method:           p.Method,
			PaymentDate:      date,
			Reference:        opRef,
			Notes:            p.Notes,
			ReceivedByUserID: p.OperatorID,
		}
		if err := l.applyAllocation(ctx, tx, debt, payment); err != nil {
			return err
		}

		cash := &models.CashLedgerEntry{
			EntryType:        models.CashEntryTypeInflow,
			Amount:           amount,
			Description:      fmt.Sprintf("Payment from %s against receipt %s", customer.Name, debt.ReceiptNumber),
			Reference:        opRef,
			CustomerID:       &customer.ID,
			RecordedByUserID: p.OperatorID,
		}
		if err := tx.CreateCashEntry(ctx, cash); err != nil {
			return err
		}

		if err := l.refreshCustomerStats(ctx, tx, customer.ID, date); err != nil {
			return err
		}

		result = &Result{
			Payments:  []*models.Payment{payment},
			Debts:     []*models.Debt{debt},
			CashEntry: cash,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[Ledger] Applied %.2f to debt %d (receipt %s)", amount, debtID, result.Debts[0].ReceiptNumber)
	return result, nil
}

// ApplyToReceipt distributes one payment across all open debts sharing a
// receipt number, oldest line first
func (l *DebtLedger) ApplyToReceipt(ctx context.Context, receiptNumber string, p PaymentDetails) (*Result, error) {
	return l.applyAcross(ctx, p,
		func(ctx context.Context, tx Tx) ([]*models.Debt, error) {
			debts, err := tx.ListOpenDebtsByReceiptForUpdate(ctx, receiptNumber)
			if err != nil {
				return nil, err
			}
			if len(debts) == 0 {
				return nil, &NotFoundError{Kind: "receipt", ID: receiptNumber}
			}
			sortReceiptDebts(debts)
			return debts, nil
		},
		func(customer *models.Customer, allocated int) string {
			return fmt.Sprintf("Payment from %s for receipt %s (%d products)", customer.Name, receiptNumber, allocated)
		},
	)
}

// ApplyToCustomer distributes one payment across all of a customer's open
// debts, oldest obligation first
func (l *DebtLedger) ApplyToCustomer(ctx context.Context, customerID int, p PaymentDetails) (*Result, error) {
	return l.applyAcross(ctx, p,
		func(ctx context.Context, tx Tx) ([]*models.Debt, error) {
			debts, err := tx.ListOpenDebtsByCustomerForUpdate(ctx, customerID)
			if err != nil {
				return nil, err
			}
			if len(debts) == 0 {
				return nil, &NotFoundError{Kind: "customer", ID: strconv.Itoa(customerID)}
			}
			sortCustomerDebts(debts)
			return debts, nil
		},
		func(customer *models.Customer, allocated int) string {
			return fmt.Sprintf("Payment from %s across %d debts", customer.Name, allocated)
		},
	)
}

// applyAcross is the shared multi-debt path: fetch and order the debt set,
// plan the FIFO split, write one Payment per touched debt and exactly one
// cash ledger entry for the whole movement, then refresh the customer's
// cached stats once using post-allocation state.
func (l *DebtLedger) applyAcross(
	ctx context.Context,
	p PaymentDetails,
	fetch func(ctx context.Context, tx Tx) ([]*models.Debt, error),
	describe func(customer *models.Customer, allocated int) string,
) (*Result, error) {
	amount := Round(p.Amount)
	if amount <= 0 {
		return nil, &InvalidAmountError{Amount: amount}
	}
	date := paymentDate(p)

	var result *Result
	err := l.withRetry(ctx, func(tx Tx) error {
		debts, err := fetch(ctx, tx)
		if err != nil {
			return err
		}

		allocations, err := planAllocations(debts, amount)
		if err != nil {
			return err
		}

		customer, err := tx.GetCustomerForUpdate(ctx, debts[0].CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return &NotFoundError{Kind: "customer", ID: strconv.Itoa(debts[0].CustomerID)}
		}

		opRef := operationReference(p.Reference, date)

		payments := make([]*models.Payment, 0, len(allocations))
		updated := make([]*models.Debt, 0, len(allocations))
		for i, alloc := range allocations {
			payment := &models.Payment{
				DebtID:           alloc.Debt.ID,
				CustomerID:       alloc.Debt.CustomerID,
				Amount:           alloc.Amount,
				Method:           p.Method,
				PaymentDate:      date,
				Reference:        fmt.Sprintf("%s/%d", opRef, i+1),
				Notes:            p.Notes,
				ReceivedByUserID: p.OperatorID,
			}
			if err := l.applyAllocation(ctx, tx, alloc.Debt, payment); err != nil {
				return err
			}
			payments = append(payments, payment)
			updated = append(updated, alloc.Debt)
		}

		cash := &models.CashLedgerEntry{
			EntryType:        models.CashEntryTypeInflow,
			Amount:           amount,
			Description:      describe(customer, len(allocations)),
			Reference:        opRef,
			CustomerID:       &customer.ID,
			RecordedByUserID: p.OperatorID,
		}
		if err := tx.CreateCashEntry(ctx, cash); err != nil {
			return err
		}

		if err := l.refreshCustomerStats(ctx, tx, customer.ID, date); err != nil {
			return err
		}

		result = &Result{Payments: payments, Debts: updated, CashEntry: cash}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[Ledger] Applied %.2f across %d debts (%s)", amount, len(result.Payments), result.CashEntry.Reference)
	return result, nil
}

// applyAllocation records one payment against one debt and keeps the debt's
// amounts, status and owning sale's mirror consistent
func (l *DebtLedger) applyAllocation(ctx context.Context, tx Tx, debt *models.Debt, payment *models.Payment) error {
	if err := tx.CreatePayment(ctx, payment); err != nil {
		return err
	}

	debt.AmountPaid = Round(debt.AmountPaid + payment.Amount)
	debt.AmountDue = Round(debt.TotalAmount - debt.AmountPaid)
	if debt.AmountDue <= 0 {
		debt.AmountDue = 0
		debt.Status = models.DebtStatusPaid
	} else {
		debt.Status = models.DebtStatusPartial
	}
	if err := tx.UpdateDebt(ctx, debt); err != nil {
		return err
	}

	return tx.UpdateSalePaymentStatus(ctx, debt.SaleID, MirrorSaleStatus(debt))
}

// refreshCustomerStats recomputes the customer's cached outstanding debt and
// reliability score from post-allocation state. Called once per operation,
// never once per touched debt.
func (l *DebtLedger) refreshCustomerStats(ctx context.Context, tx Tx, customerID int, lastPayment time.Time) error {
	outstanding, err := tx.SumOpenDebt(ctx, customerID)
	if err != nil {
		return err
	}
	total, late, err := tx.PaymentStats(ctx, customerID)
	if err != nil {
		return err
	}
	return tx.UpdateCustomerStats(ctx, customerID, Round(outstanding), ReliabilityScore(total, late), lastPayment)
}

// withRetry runs fn in a store transaction, retrying a bounded number of
// times when the store reports a lock conflict
func (l *DebtLedger) withRetry(ctx context.Context, fn func(tx Tx) error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = l.store.WithinTx(ctx, fn)
		var conflict *ConcurrentModificationError
		if !errors.As(err, &conflict) {
			return err
		}
		log.Printf("[Ledger] Lock conflict, attempt %d/%d", attempt, maxAttempts)
		time.Sleep(time.Duration(attempt) * 25 * time.Millisecond)
	}
	return &ConcurrentModificationError{Attempts: maxAttempts}
}

// MirrorSaleStatus derives the sale payment status from its debt: settled
// debts read PAID, anything that has received money reads PARTIAL, and an
// untouched obligation stays CREDIT.
func MirrorSaleStatus(debt *models.Debt) models.SalePaymentStatus {
	switch {
	case debt.AmountDue <= 0:
		return models.SalePaymentStatusPaid
	case debt.AmountPaid > 0:
		return models.SalePaymentStatusPartial
	default:
		return models.SalePaymentStatusCredit
	}
}

// operationReference falls back to a date-derived reference when the caller
// supplied none, so sub-payment references always have a base
func operationReference(ref string, date time.Time) string {
	if ref != "" {
		return ref
	}
	return "PMT-" + timeutil.ToWAT(date).Format("20060102-150405")
}

func paymentDate(p PaymentDetails) time.Time {
	if p.Date.IsZero() {
		return timeutil.Now()
	}
	return p.Date
}
