package models

import "time"

// DebtStatus is the lifecycle state of an obligation.
// OVERDUE never lives in the amounts state machine: it is a read-time
// classification of OUTSTANDING/PARTIAL debts whose due date has passed,
// persisted only by the lazy promotion pass for display parity.
type DebtStatus string

const (
	DebtStatusOutstanding DebtStatus = "OUTSTANDING"
	DebtStatusPartial     DebtStatus = "PARTIAL"
	DebtStatusOverdue     DebtStatus = "OVERDUE"
	DebtStatusPaid        DebtStatus = "PAID"
)

// Debt is the obligation created when a sale is not fully paid at checkout.
// Invariant: AmountDue = TotalAmount - AmountPaid, never negative.
type Debt struct {
	ID            int        `json:"id"`
	CustomerID    int        `json:"customer_id"`
	SaleID        int        `json:"sale_id"`
	ReceiptNumber string     `json:"receipt_number"`
	TotalAmount   float64    `json:"total_amount"`
	AmountPaid    float64    `json:"amount_paid"`
	AmountDue     float64    `json:"amount_due"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	Status        DebtStatus `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Open reports whether the debt still has money owing
func (d *Debt) Open() bool {
	return d.Status != DebtStatusPaid
}

// EffectiveStatus returns the status with the read-time OVERDUE
// classification applied. Amounts are never consulted beyond AmountDue.
func (d *Debt) EffectiveStatus(now time.Time) DebtStatus {
	if d.Status == DebtStatusPaid {
		return DebtStatusPaid
	}
	if d.AmountDue > 0 && d.DueDate != nil && d.DueDate.Before(now) {
		return DebtStatusOverdue
	}
	return d.Status
}

// DebtFilter is used for filtering debt listings
type DebtFilter struct {
	CustomerID    int        `json:"customer_id"`
	ReceiptNumber string     `json:"receipt_number"`
	Status        DebtStatus `json:"status"`
	Limit         int        `json:"limit"`
	Offset        int        `json:"offset"`
}

// CustomerDebtSummary groups a customer's open debts for the debtors dashboard
type CustomerDebtSummary struct {
	CustomerID       int        `json:"customer_id"`
	CustomerName     string     `json:"customer_name"`
	CustomerPhone    string     `json:"customer_phone"`
	OpenDebts        int        `json:"open_debts"`
	TotalAmount      float64    `json:"total_amount"`
	TotalPaid        float64    `json:"total_paid"`
	TotalDue         float64    `json:"total_due"`
	OverdueCount     int        `json:"overdue_count"`
	OldestDueDate    *time.Time `json:"oldest_due_date,omitempty"`
	ReliabilityScore float64    `json:"reliability_score"`
}

// ReceiptDebtSummary groups the open debts of one receipt
type ReceiptDebtSummary struct {
	ReceiptNumber string    `json:"receipt_number"`
	CustomerID    int       `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	Products      int       `json:"products"`
	TotalAmount   float64   `json:"total_amount"`
	TotalPaid     float64   `json:"total_paid"`
	TotalDue      float64   `json:"total_due"`
	CreatedAt     time.Time `json:"created_at"`
}
