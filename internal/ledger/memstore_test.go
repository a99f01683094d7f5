package ledger

import (
	"context"
	"testing"
	"time"

	"premium-backend/internal/models"
)

// memStore is an in-memory Store used by the ledger tests. WithinTx runs fn
// against a scratch copy of the state and only commits it when fn succeeds,
// matching the rollback semantics of the pgx store.
type memStore struct {
	state *memState
	// conflictsLeft makes the next N transactions fail with a lock conflict
	conflictsLeft int
}

type memState struct {
	debts     map[int]*models.Debt
	sales     map[int]*models.Sale
	customers map[int]*models.Customer
	payments  []*models.Payment
	cash      []*models.CashLedgerEntry

	nextDebtID    int
	nextSaleID    int
	nextPaymentID int
	nextCashID    int
}

func newMemStore() *memStore {
	return &memStore{state: &memState{
		debts:         make(map[int]*models.Debt),
		sales:         make(map[int]*models.Sale),
		customers:     make(map[int]*models.Customer),
		nextDebtID:    1,
		nextSaleID:    1,
		nextPaymentID: 1,
		nextCashID:    1,
	}}
}

func (s *memState) clone() *memState {
	next := &memState{
		debts:         make(map[int]*models.Debt, len(s.debts)),
		sales:         make(map[int]*models.Sale, len(s.sales)),
		customers:     make(map[int]*models.Customer, len(s.customers)),
		nextDebtID:    s.nextDebtID,
		nextSaleID:    s.nextSaleID,
		nextPaymentID: s.nextPaymentID,
		nextCashID:    s.nextCashID,
	}
	for id, d := range s.debts {
		copied := *d
		next.debts[id] = &copied
	}
	for id, sl := range s.sales {
		copied := *sl
		next.sales[id] = &copied
	}
	for id, c := range s.customers {
		copied := *c
		next.customers[id] = &copied
	}
	next.payments = append(next.payments, s.payments...)
	next.cash = append(next.cash, s.cash...)
	return next
}

func (s *memStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	if s.conflictsLeft > 0 {
		s.conflictsLeft--
		return &ConcurrentModificationError{}
	}
	scratch := s.state.clone()
	if err := fn(&memTx{state: scratch}); err != nil {
		return err
	}
	s.state = scratch
	return nil
}

type memTx struct {
	state *memState
}

func (t *memTx) GetDebtForUpdate(ctx context.Context, debtID int) (*models.Debt, error) {
	return t.state.debts[debtID], nil
}

func (t *memTx) ListOpenDebtsByReceiptForUpdate(ctx context.Context, receiptNumber string) ([]*models.Debt, error) {
	var debts []*models.Debt
	for _, d := range t.state.debts {
		if d.ReceiptNumber == receiptNumber && d.Open() {
			debts = append(debts, d)
		}
	}
	return debts, nil
}

func (t *memTx) ListOpenDebtsByCustomerForUpdate(ctx context.Context, customerID int) ([]*models.Debt, error) {
	var debts []*models.Debt
	for _, d := range t.state.debts {
		if d.CustomerID == customerID && d.Open() {
			debts = append(debts, d)
		}
	}
	return debts, nil
}

func (t *memTx) GetCustomerForUpdate(ctx context.Context, customerID int) (*models.Customer, error) {
	return t.state.customers[customerID], nil
}

func (t *memTx) UpdateDebt(ctx context.Context, debt *models.Debt) error {
	copied := *debt
	t.state.debts[debt.ID] = &copied
	return nil
}

func (t *memTx) UpdateSalePaymentStatus(ctx context.Context, saleID int, status models.SalePaymentStatus) error {
	sale, ok := t.state.sales[saleID]
	if !ok {
		return &NotFoundError{Kind: "sale", ID: "unknown"}
	}
	sale.PaymentStatus = status
	return nil
}

func (t *memTx) CreatePayment(ctx context.Context, payment *models.Payment) error {
	payment.ID = t.state.nextPaymentID
	t.state.nextPaymentID++
	payment.CreatedAt = payment.PaymentDate
	copied := *payment
	t.state.payments = append(t.state.payments, &copied)
	return nil
}

func (t *memTx) CreateCashEntry(ctx context.Context, entry *models.CashLedgerEntry) error {
	entry.ID = t.state.nextCashID
	t.state.nextCashID++
	copied := *entry
	t.state.cash = append(t.state.cash, &copied)
	return nil
}

func (t *memTx) SumOpenDebt(ctx context.Context, customerID int) (float64, error) {
	var sum float64
	for _, d := range t.state.debts {
		if d.CustomerID == customerID && d.Open() {
			sum += d.AmountDue
		}
	}
	return sum, nil
}

func (t *memTx) PaymentStats(ctx context.Context, customerID int) (int, int, error) {
	total, late := 0, 0
	for _, p := range t.state.payments {
		if p.CustomerID != customerID {
			continue
		}
		total++
		debt, ok := t.state.debts[p.DebtID]
		if ok && debt.DueDate != nil && p.PaymentDate.After(*debt.DueDate) {
			late++
		}
	}
	return total, late, nil
}

func (t *memTx) UpdateCustomerStats(ctx context.Context, customerID int, outstanding, score float64, lastPayment time.Time) error {
	customer, ok := t.state.customers[customerID]
	if !ok {
		return &NotFoundError{Kind: "customer", ID: "unknown"}
	}
	customer.OutstandingDebt = outstanding
	customer.ReliabilityScore = score
	paid := lastPayment
	customer.LastPaymentDate = &paid
	return nil
}

// seedCustomer registers a customer and returns its id
func seedCustomer(t *testing.T, s *memStore, name string) int {
	t.Helper()
	id := len(s.state.customers) + 1
	s.state.customers[id] = &models.Customer{
		ID:               id,
		Name:             name,
		ReliabilityScore: 100,
	}
	return id
}

// seedCreditSale creates a CREDIT sale plus its OUTSTANDING debt
func seedCreditSale(t *testing.T, s *memStore, customerID int, receipt, product string, total float64, dueDate *time.Time, createdAt time.Time) *models.Debt {
	t.Helper()

	saleID := s.state.nextSaleID
	s.state.nextSaleID++
	s.state.sales[saleID] = &models.Sale{
		ID:            saleID,
		ReceiptNumber: receipt,
		CustomerID:    customerID,
		ProductName:   product,
		TotalAmount:   total,
		PaymentStatus: models.SalePaymentStatusCredit,
		CreatedAt:     createdAt,
	}

	debtID := s.state.nextDebtID
	s.state.nextDebtID++
	debt := &models.Debt{
		ID:            debtID,
		CustomerID:    customerID,
		SaleID:        saleID,
		ReceiptNumber: receipt,
		TotalAmount:   total,
		AmountDue:     total,
		DueDate:       dueDate,
		Status:        models.DebtStatusOutstanding,
		CreatedAt:     createdAt,
	}
	s.state.debts[debtID] = debt

	cust := s.state.customers[customerID]
	cust.OutstandingDebt += total
	return debt
}

func datePtr(t time.Time) *time.Time {
	return &t
}
