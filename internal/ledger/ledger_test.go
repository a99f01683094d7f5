package ledger

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"premium-backend/internal/models"
)

var testDate = time.Date(2025, 4, 10, 11, 30, 0, 0, time.UTC)

func details(amount float64) PaymentDetails {
	return PaymentDetails{
		Amount:     amount,
		Method:     models.PaymentMethodCash,
		Date:       testDate,
		Reference:  "REF-77",
		Notes:      "counter payment",
		OperatorID: 9,
	}
}

func TestApplyToDebtFullSettlement(t *testing.T) {
	s := newMemStore()
	custID := seedCustomer(t, s, "Chinedu Okafor")
	debt := seedCreditSale(t, s, custID, "RCP-000001", "50kg rice", 1500, nil, testDate.AddDate(0, 0, -3))

	l := New(s)
	result, err := l.ApplyToDebt(context.Background(), debt.ID, details(1500))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated := s.state.debts[debt.ID]
	if updated.Status != models.DebtStatusPaid {
		t.Fatalf("expected PAID, got %s", updated.Status)
	}
	if updated.AmountPaid != 1500 || updated.AmountDue != 0 {
		t.Fatalf("amounts: paid %.2f due %.2f", updated.AmountPaid, updated.AmountDue)
	}
	if got := updated.TotalAmount - updated.AmountPaid; Round(got) != updated.AmountDue {
		t.Fatalf("amountDue invariant broken: %.2f vs %.2f", got, updated.AmountDue)
	}

	// Sale mirrors the debt status
	if s.state.sales[debt.SaleID].PaymentStatus != models.SalePaymentStatusPaid {
		t.Fatalf("sale should read PAID, got %s", s.state.sales[debt.SaleID].PaymentStatus)
	}

	// Exactly one payment and one cash entry
	if len(s.state.payments) != 1 || len(s.state.cash) != 1 {
		t.Fatalf("expected 1 payment and 1 cash entry, got %d/%d", len(s.state.payments), len(s.state.cash))
	}
	if result.CashEntry.Amount != 1500 || result.CashEntry.EntryType != models.CashEntryTypeInflow {
		t.Fatalf("cash entry: %.2f %s", result.CashEntry.Amount, result.CashEntry.EntryType)
	}
	if !strings.Contains(result.CashEntry.Description, "Chinedu Okafor") {
		t.Fatalf("cash description should name the counterparty: %q", result.CashEntry.Description)
	}

	// Customer stats recomputed
	cust := s.state.customers[custID]
	if cust.OutstandingDebt != 0 {
		t.Fatalf("outstanding should be 0, got %.2f", cust.OutstandingDebt)
	}
	if cust.LastPaymentDate == nil || !cust.LastPaymentDate.Equal(testDate) {
		t.Fatalf("last payment date not updated: %v", cust.LastPaymentDate)
	}
}

func TestApplyToDebtPartial(t *testing.T) {
	s := newMemStore()
	custID := seedCustomer(t, s, "Amina Bello")
	debt := seedCreditSale(t, s, custID, "RCP-000002", "cement", 2000, nil, testDate.AddDate(0, 0, -1))

	l := New(s)
	if _, err := l.ApplyToDebt(context.Background(), debt.ID, details(750)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated := s.state.debts[debt.ID]
	if updated.Status != models.DebtStatusPartial {
		t.Fatalf("expected PARTIAL, got %s", updated.Status)
	}
	if updated.AmountPaid != 750 || updated.AmountDue != 1250 {
		t.Fatalf("amounts: paid %.2f due %.2f", updated.AmountPaid, updated.AmountDue)
	}
	if s.state.sales[debt.SaleID].PaymentStatus != models.SalePaymentStatusPartial {
		t.Fatalf("sale should read PARTIAL once money landed")
	}
	if s.state.customers[custID].OutstandingDebt != 1250 {
		t.Fatalf("outstanding: %.2f", s.state.customers[custID].OutstandingDebt)
	}
}

func TestApplyToDebtOverpaymentRejected(t *testing.T) {
	s := newMemStore()
	custID := seedCustomer(t, s, "Tunde")
	debt := seedCreditSale(t, s, custID, "RCP-000003", "flour", 900, nil, testDate)

	l := New(s)
	_, err := l.ApplyToDebt(context.Background(), debt.ID, details(900.01))

	var overpay *OverpaymentError
	if !errors.As(err, &overpay) {
		t.Fatalf("expected OverpaymentError, got %v", err)
	}
	if overpay.Outstanding != 900 {
		t.Fatalf("error should carry the valid amount: got %.2f", overpay.Outstanding)
	}

	// Full rollback: no payment, no cash entry, debt untouched
	if len(s.state.payments) != 0 || len(s.state.cash) != 0 {
		t.Fatalf("rejected operation must not write rows: %d payments, %d cash", len(s.state.payments), len(s.state.cash))
	}
	if s.state.debts[debt.ID].AmountPaid != 0 || s.state.debts[debt.ID].Status != models.DebtStatusOutstanding {
		t.Fatal("debt mutated by rejected payment")
	}
}

func TestApplyToDebtInvalidAmount(t *testing.T) {
	s := newMemStore()
	custID := seedCustomer(t, s, "Ngozi")
	debt := seedCreditSale(t, s, custID, "RCP-000004", "sugar", 500, nil, testDate)

	l := New(s)
	_, err := l.ApplyToDebt(context.Background(), debt.ID, details(0))
	var invalid *InvalidAmountError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidAmountError, got %v", err)
	}
}

func TestApplyToDebtNotFound(t *testing.T) {
	s := newMemStore()
	seedCustomer(t, s, "Ngozi")

	l := New(s)
	_, err := l.ApplyToDebt(context.Background(), 404, details(100))
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.Kind != "debt" {
		t.Fatalf("expected debt not found, got %s", notFound.Kind)
	}
}

func TestApplyToReceiptSplits(t *testing.T) {
	s := newMemStore()
	custID := seedCustomer(t, s, "Emeka")
	d1 := seedCreditSale(t, s, custID, "RCP-000010", "beans", 800, nil, testDate.Add(-2*time.Hour))
	d2 := seedCreditSale(t, s, custID, "RCP-000010", "garri", 1000, nil, testDate.Add(-2*time.Hour+time.Second))

	l := New(s)
	result, err := l.ApplyToReceipt(context.Background(), "RCP-000010", details(1800))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Exactly two payments, exactly one cash entry of the full amount
	if len(result.Payments) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(result.Payments))
	}
	if result.Payments[0].Amount != 800 || result.Payments[1].Amount != 1000 {
		t.Fatalf("payment split %.2f/%.2f, want 800/1000", result.Payments[0].Amount, result.Payments[1].Amount)
	}
	if len(s.state.cash) != 1 || s.state.cash[0].Amount != 1800 {
		t.Fatalf("expected one cash entry of 1800, got %d entries", len(s.state.cash))
	}
	if !strings.Contains(s.state.cash[0].Description, "RCP-000010") || !strings.Contains(s.state.cash[0].Description, "2 products") {
		t.Fatalf("receipt cash description: %q", s.state.cash[0].Description)
	}

	// Per-debt references stay traceable under the operation reference
	if result.Payments[0].Reference != "REF-77/1" || result.Payments[1].Reference != "REF-77/2" {
		t.Fatalf("sub references %q/%q", result.Payments[0].Reference, result.Payments[1].Reference)
	}

	for _, d := range []*models.Debt{d1, d2} {
		if s.state.debts[d.ID].Status != models.DebtStatusPaid {
			t.Fatalf("debt %d should be PAID", d.ID)
		}
		if s.state.sales[d.SaleID].PaymentStatus != models.SalePaymentStatusPaid {
			t.Fatalf("sale %d should mirror PAID", d.SaleID)
		}
	}
}

func TestApplyToCustomerFIFO(t *testing.T) {
	s := newMemStore()
	custID := seedCustomer(t, s, "Halima")
	base := testDate.AddDate(0, -2, 0)
	d1 := seedCreditSale(t, s, custID, "RCP-000020", "maize", 1000, datePtr(base.AddDate(0, 0, 10)), base)
	d2 := seedCreditSale(t, s, custID, "RCP-000021", "millet", 2000, datePtr(base.AddDate(0, 0, 20)), base.Add(time.Hour))
	d3 := seedCreditSale(t, s, custID, "RCP-000022", "sorghum", 3000, datePtr(base.AddDate(0, 0, 30)), base.Add(2*time.Hour))

	l := New(s)
	result, err := l.ApplyToCustomer(context.Background(), custID, details(2500))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Oldest due date settled first, next partially, last untouched
	if got := s.state.debts[d1.ID]; got.Status != models.DebtStatusPaid || got.AmountDue != 0 {
		t.Fatalf("d1: %s due %.2f, want PAID/0", got.Status, got.AmountDue)
	}
	if got := s.state.debts[d2.ID]; got.Status != models.DebtStatusPartial || got.AmountPaid != 1500 || got.AmountDue != 500 {
		t.Fatalf("d2: %s paid %.2f due %.2f, want PARTIAL/1500/500", got.Status, got.AmountPaid, got.AmountDue)
	}
	if got := s.state.debts[d3.ID]; got.Status != models.DebtStatusOutstanding || got.AmountPaid != 0 {
		t.Fatalf("d3 must be untouched: %s paid %.2f", got.Status, got.AmountPaid)
	}

	// Untouched debt gets no payment row and its sale stays CREDIT
	if len(result.Payments) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(result.Payments))
	}
	if s.state.sales[d3.SaleID].PaymentStatus != models.SalePaymentStatusCredit {
		t.Fatalf("untouched sale should stay CREDIT, got %s", s.state.sales[d3.SaleID].PaymentStatus)
	}

	// Distributed total equals the requested amount
	var sum float64
	for _, p := range result.Payments {
		sum += p.Amount
	}
	if Round(sum) != 2500 {
		t.Fatalf("distributed %.2f, want 2500", sum)
	}

	if len(s.state.cash) != 1 || !strings.Contains(s.state.cash[0].Description, "2 debts") {
		t.Fatalf("customer cash description: %q", s.state.cash[0].Description)
	}

	// Stats recomputed once with post-allocation state
	if s.state.customers[custID].OutstandingDebt != 3500 {
		t.Fatalf("outstanding %.2f, want 3500", s.state.customers[custID].OutstandingDebt)
	}
}

func TestApplyToCustomerOverpaymentRollback(t *testing.T) {
	s := newMemStore()
	custID := seedCustomer(t, s, "Halima")
	base := testDate.AddDate(0, -1, 0)
	seedCreditSale(t, s, custID, "RCP-000030", "maize", 1000, nil, base)
	seedCreditSale(t, s, custID, "RCP-000031", "millet", 2000, nil, base.Add(time.Hour))

	l := New(s)
	_, err := l.ApplyToCustomer(context.Background(), custID, details(3000.50))

	var overpay *OverpaymentError
	if !errors.As(err, &overpay) {
		t.Fatalf("expected OverpaymentError, got %v", err)
	}
	if overpay.Outstanding != 3000 {
		t.Fatalf("outstanding in error: %.2f, want 3000", overpay.Outstanding)
	}
	if len(s.state.payments) != 0 || len(s.state.cash) != 0 {
		t.Fatal("rejected multi-debt payment must write nothing")
	}
}

func TestApplyGeneratedOperationReference(t *testing.T) {
	s := newMemStore()
	custID := seedCustomer(t, s, "Bola")
	seedCreditSale(t, s, custID, "RCP-000040", "salt", 400, nil, testDate)
	seedCreditSale(t, s, custID, "RCP-000040", "pepper", 600, nil, testDate.Add(time.Second))

	p := details(1000)
	p.Reference = ""

	l := New(s)
	result, err := l.ApplyToReceipt(context.Background(), "RCP-000040", p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(result.CashEntry.Reference, "PMT-") {
		t.Fatalf("expected generated operation reference, got %q", result.CashEntry.Reference)
	}
	if !strings.HasPrefix(result.Payments[0].Reference, result.CashEntry.Reference+"/") {
		t.Fatalf("sub reference %q should derive from %q", result.Payments[0].Reference, result.CashEntry.Reference)
	}
}

func TestApplyIntentDispatch(t *testing.T) {
	s := newMemStore()
	custID := seedCustomer(t, s, "Uche")
	debt := seedCreditSale(t, s, custID, "RCP-000050", "oil", 1200, nil, testDate)

	l := New(s)
	result, err := l.Apply(context.Background(), &models.PaymentIntent{
		TargetKind: models.PaymentTargetDebt,
		TargetID:   "1",
		Amount:     1200,
		Method:     models.PaymentMethodTransfer,
		Date:       testDate,
		OperatorID: 3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Debts[0].ID != debt.ID || result.Debts[0].Status != models.DebtStatusPaid {
		t.Fatal("intent did not reach the single-debt path")
	}

	_, err = l.Apply(context.Background(), &models.PaymentIntent{
		TargetKind: models.PaymentTargetCustomer,
		TargetID:   "not-a-number",
		Amount:     10,
	})
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("unparseable target id should not resolve: %v", err)
	}
}

func TestLatePaymentLowersScore(t *testing.T) {
	s := newMemStore()
	custID := seedCustomer(t, s, "Sani")
	overdueDate := testDate.AddDate(0, 0, -14)
	seedCreditSale(t, s, custID, "RCP-000060", "yam", 1000, datePtr(overdueDate), testDate.AddDate(0, -1, 0))

	l := New(s)
	// Payment lands two weeks after the due date
	if _, err := l.ApplyToCustomer(context.Background(), custID, details(1000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score := s.state.customers[custID].ReliabilityScore; score != 0 {
		t.Fatalf("1 payment, 1 late: score %.2f, want 0", score)
	}
}

func TestOnTimePaymentKeepsScore(t *testing.T) {
	s := newMemStore()
	custID := seedCustomer(t, s, "Sani")
	seedCreditSale(t, s, custID, "RCP-000061", "yam", 1000, datePtr(testDate.AddDate(0, 0, 7)), testDate.AddDate(0, 0, -1))

	l := New(s)
	if _, err := l.ApplyToCustomer(context.Background(), custID, details(1000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score := s.state.customers[custID].ReliabilityScore; score != 100 {
		t.Fatalf("on-time payment: score %.2f, want 100", score)
	}
}

func TestConflictRetrySucceeds(t *testing.T) {
	s := newMemStore()
	custID := seedCustomer(t, s, "Ify")
	debt := seedCreditSale(t, s, custID, "RCP-000070", "soap", 300, nil, testDate)
	s.conflictsLeft = 2 // first two attempts collide, third is clean

	l := New(s)
	if _, err := l.ApplyToDebt(context.Background(), debt.ID, details(300)); err != nil {
		t.Fatalf("retry should absorb transient conflicts: %v", err)
	}
	if s.state.debts[debt.ID].Status != models.DebtStatusPaid {
		t.Fatal("payment not applied after retries")
	}
}

func TestConflictRetryExhausted(t *testing.T) {
	s := newMemStore()
	custID := seedCustomer(t, s, "Ify")
	debt := seedCreditSale(t, s, custID, "RCP-000071", "soap", 300, nil, testDate)
	s.conflictsLeft = maxAttempts

	l := New(s)
	_, err := l.ApplyToDebt(context.Background(), debt.ID, details(300))
	var conflict *ConcurrentModificationError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConcurrentModificationError, got %v", err)
	}
	if conflict.Attempts != maxAttempts {
		t.Fatalf("attempts: %d, want %d", conflict.Attempts, maxAttempts)
	}
	if len(s.state.payments) != 0 {
		t.Fatal("exhausted retry must leave no rows")
	}
}

func TestOverdueClassificationIsReadOnly(t *testing.T) {
	now := testDate
	debt := &models.Debt{
		TotalAmount: 1000,
		AmountPaid:  200,
		AmountDue:   800,
		DueDate:     datePtr(now.AddDate(0, 0, -5)),
		Status:      models.DebtStatusPartial,
	}

	for i := 0; i < 3; i++ {
		if got := debt.EffectiveStatus(now); got != models.DebtStatusOverdue {
			t.Fatalf("pass %d: got %s, want OVERDUE", i, got)
		}
	}
	// Reclassification never touches the amounts
	if debt.AmountPaid != 200 || debt.AmountDue != 800 {
		t.Fatal("overdue classification mutated amounts")
	}

	// Settled debts never read OVERDUE
	debt.AmountPaid, debt.AmountDue, debt.Status = 1000, 0, models.DebtStatusPaid
	if got := debt.EffectiveStatus(now); got != models.DebtStatusPaid {
		t.Fatalf("paid debt classified %s", got)
	}
}

func TestMirrorSaleStatus(t *testing.T) {
	cases := []struct {
		name string
		paid float64
		due  float64
		want models.SalePaymentStatus
	}{
		{"settled", 1000, 0, models.SalePaymentStatusPaid},
		{"partly paid", 400, 600, models.SalePaymentStatusPartial},
		{"untouched", 0, 1000, models.SalePaymentStatusCredit},
	}
	for _, tc := range cases {
		debt := &models.Debt{TotalAmount: 1000, AmountPaid: tc.paid, AmountDue: tc.due}
		if got := MirrorSaleStatus(debt); got != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}
