package ledger

import (
	"errors"
	"testing"
	"time"

	"premium-backend/internal/models"
)

func openDebt(id int, due float64, dueDate *time.Time, createdAt time.Time) *models.Debt {
	return &models.Debt{
		ID:          id,
		TotalAmount: due,
		AmountDue:   due,
		DueDate:     dueDate,
		Status:      models.DebtStatusOutstanding,
		CreatedAt:   createdAt,
	}
}

func TestPlanAllocationsFIFO(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	debts := []*models.Debt{
		openDebt(1, 1000, nil, base),
		openDebt(2, 2000, nil, base.Add(time.Minute)),
		openDebt(3, 3000, nil, base.Add(2*time.Minute)),
	}

	allocations, err := planAllocations(debts, 2500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(allocations) != 2 {
		t.Fatalf("expected 2 allocations, got %d", len(allocations))
	}
	if allocations[0].Debt.ID != 1 || allocations[0].Amount != 1000 {
		t.Fatalf("first allocation: got debt %d amount %.2f", allocations[0].Debt.ID, allocations[0].Amount)
	}
	if allocations[1].Debt.ID != 2 || allocations[1].Amount != 1500 {
		t.Fatalf("second allocation: got debt %d amount %.2f", allocations[1].Debt.ID, allocations[1].Amount)
	}

	// Splits must sum to exactly the requested amount
	var sum float64
	for _, a := range allocations {
		sum += a.Amount
	}
	if Round(sum) != 2500 {
		t.Fatalf("allocations sum to %.2f, want 2500.00", sum)
	}
}

func TestPlanAllocationsExactTotal(t *testing.T) {
	base := time.Now()
	debts := []*models.Debt{
		openDebt(1, 800, nil, base),
		openDebt(2, 1000, nil, base.Add(time.Second)),
	}

	allocations, err := planAllocations(debts, 1800)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(allocations) != 2 {
		t.Fatalf("expected 2 allocations, got %d", len(allocations))
	}
	if allocations[0].Amount != 800 || allocations[1].Amount != 1000 {
		t.Fatalf("got amounts %.2f/%.2f, want 800.00/1000.00", allocations[0].Amount, allocations[1].Amount)
	}
}

func TestPlanAllocationsFractionalAmounts(t *testing.T) {
	base := time.Now()
	debts := []*models.Debt{
		openDebt(1, 33.35, nil, base),
		openDebt(2, 66.65, nil, base.Add(time.Second)),
	}

	allocations, err := planAllocations(debts, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sum float64
	for _, a := range allocations {
		sum += a.Amount
	}
	if Round(sum) != 100 {
		t.Fatalf("fractional splits leaked: sum %.4f, want 100", sum)
	}
}

func TestPlanAllocationsOverpayment(t *testing.T) {
	debts := []*models.Debt{openDebt(1, 1000, nil, time.Now())}

	_, err := planAllocations(debts, 1000.01)
	var overpay *OverpaymentError
	if !errors.As(err, &overpay) {
		t.Fatalf("expected OverpaymentError, got %v", err)
	}
	if overpay.Outstanding != 1000 {
		t.Fatalf("expected outstanding 1000.00 in error, got %.2f", overpay.Outstanding)
	}
	if overpay.Requested != 1000.01 {
		t.Fatalf("expected requested 1000.01 in error, got %.2f", overpay.Requested)
	}
}

func TestPlanAllocationsInvalidAmount(t *testing.T) {
	debts := []*models.Debt{openDebt(1, 1000, nil, time.Now())}

	for _, amount := range []float64{0, -1, -0.004} {
		_, err := planAllocations(debts, amount)
		var invalid *InvalidAmountError
		if !errors.As(err, &invalid) {
			t.Fatalf("amount %.3f: expected InvalidAmountError, got %v", amount, err)
		}
	}
}

func TestSortCustomerDebtsDueDateNullsLast(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	d1 := openDebt(1, 100, nil, base)                             // no due date, created first
	d2 := openDebt(2, 100, datePtr(base.AddDate(0, 0, 20)), base) // later due date
	d3 := openDebt(3, 100, datePtr(base.AddDate(0, 0, 5)), base)  // earliest due date

	debts := []*models.Debt{d1, d2, d3}
	sortCustomerDebts(debts)

	want := []int{3, 2, 1}
	for i, id := range want {
		if debts[i].ID != id {
			t.Fatalf("position %d: got debt %d, want %d", i, debts[i].ID, id)
		}
	}
}

func TestSortCustomerDebtsCreatedAtTieBreak(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	due := datePtr(base.AddDate(0, 0, 10))
	d1 := openDebt(1, 100, due, base.Add(time.Hour))
	d2 := openDebt(2, 100, due, base)

	debts := []*models.Debt{d1, d2}
	sortCustomerDebts(debts)

	if debts[0].ID != 2 || debts[1].ID != 1 {
		t.Fatalf("equal due dates should order by creation: got %d,%d", debts[0].ID, debts[1].ID)
	}
}

func TestSortReceiptDebtsByCreation(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	d1 := openDebt(5, 100, nil, base.Add(2*time.Second))
	d2 := openDebt(3, 100, nil, base)
	d3 := openDebt(4, 100, nil, base.Add(time.Second))

	debts := []*models.Debt{d1, d2, d3}
	sortReceiptDebts(debts)

	want := []int{3, 4, 5}
	for i, id := range want {
		if debts[i].ID != id {
			t.Fatalf("position %d: got debt %d, want %d", i, debts[i].ID, id)
		}
	}
}
