package ledger

import (
	"math"
	"sort"

	"premium-backend/internal/models"
)

// Allocation is one slice of a payment assigned to one debt
type Allocation struct {
	Debt   *models.Debt
	Amount float64
}

// planAllocations walks an already-ordered debt set and greedily assigns
// min(remaining, amountDue) to each debt until the payment is spent. Debts
// reached after remaining hits zero get no allocation and are left alone.
// The walk only ever subtracts, so the allocated amounts sum to exactly the
// requested amount.
func planAllocations(debts []*models.Debt, amount float64) ([]Allocation, error) {
	amount = Round(amount)
	if amount <= 0 {
		return nil, &InvalidAmountError{Amount: amount}
	}

	var total float64
	for _, d := range debts {
		total += d.AmountDue
	}
	total = Round(total)
	if amount > total {
		return nil, &OverpaymentError{Requested: amount, Outstanding: total}
	}

	var allocations []Allocation
	remaining := amount
	for _, d := range debts {
		if remaining <= 0 {
			break
		}
		alloc := Round(math.Min(remaining, d.AmountDue))
		if alloc <= 0 {
			continue
		}
		allocations = append(allocations, Allocation{Debt: d, Amount: alloc})
		remaining = Round(remaining - alloc)
	}

	return allocations, nil
}

// sortCustomerDebts orders a customer's debts oldest obligation first:
// due date ascending with NULLs last, then creation time, then id.
func sortCustomerDebts(debts []*models.Debt) {
	sort.SliceStable(debts, func(i, j int) bool {
		a, b := debts[i], debts[j]
		switch {
		case a.DueDate != nil && b.DueDate != nil:
			if !a.DueDate.Equal(*b.DueDate) {
				return a.DueDate.Before(*b.DueDate)
			}
		case a.DueDate != nil:
			return true
		case b.DueDate != nil:
			return false
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// sortReceiptDebts orders the debts of one receipt by creation time. All of
// them share a checkout moment, so insertion order doubles as the order the
// line items were entered in.
func sortReceiptDebts(debts []*models.Debt) {
	sort.SliceStable(debts, func(i, j int) bool {
		a, b := debts[i], debts[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
