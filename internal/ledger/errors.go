package ledger

import "fmt"

// InvalidAmountError is returned when a payment amount is zero or negative
type InvalidAmountError struct {
	Amount float64
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid payment amount %.2f: amount must be greater than zero", e.Amount)
}

// OverpaymentError is returned when the requested amount exceeds the
// addressable outstanding balance. The ledger rejects instead of clamping;
// Outstanding tells the caller the amount that would have been accepted.
type OverpaymentError struct {
	Requested   float64
	Outstanding float64
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment of %.2f exceeds outstanding balance of %.2f", e.Requested, e.Outstanding)
}

// NotFoundError is returned when a debt, receipt, sale or customer id does
// not resolve. Raised before any mutation.
type NotFoundError struct {
	Kind string // "debt", "receipt", "customer", "sale"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// ConcurrentModificationError is returned when the backing store reports a
// lock conflict and the bounded internal retry is exhausted
type ConcurrentModificationError struct {
	Attempts int
}

func (e *ConcurrentModificationError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("concurrent modification conflict after %d attempts", e.Attempts)
	}
	return "concurrent modification conflict"
}
