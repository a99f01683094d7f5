package models

import "time"

// Payment is an immutable record of money applied to exactly one debt.
// A multi-debt operation writes one Payment per touched debt; the shared
// operation reference plus a per-debt ordinal keeps every split traceable.
type Payment struct {
	ID               int           `json:"id"`
	DebtID           int           `json:"debt_id"`
	CustomerID       int           `json:"customer_id"`
	Amount           float64       `json:"amount"`
	Method           PaymentMethod `json:"method"`
	PaymentDate      time.Time     `json:"payment_date"`
	Reference        string        `json:"reference"`
	Notes            string        `json:"notes"`
	ReceivedByUserID int           `json:"received_by_user_id"`
	ReceivedByName   string        `json:"received_by_name,omitempty"` // Joined from users table
	CreatedAt        time.Time     `json:"created_at"`
}

// PaymentTargetKind selects which debt set an intent addresses
type PaymentTargetKind string

const (
	PaymentTargetDebt     PaymentTargetKind = "DEBT"
	PaymentTargetReceipt  PaymentTargetKind = "RECEIPT"
	PaymentTargetCustomer PaymentTargetKind = "CUSTOMER"
)

// PaymentIntent is the inbound contract from the request layer: one payment
// to be applied against a debt, a whole receipt, or a whole customer.
// TargetID is a debt id, receipt number, or customer id depending on kind.
type PaymentIntent struct {
	TargetKind PaymentTargetKind `json:"target_kind"`
	TargetID   string            `json:"target_id"`
	Amount     float64           `json:"amount"`
	Method     PaymentMethod     `json:"method"`
	Date       time.Time         `json:"date"`
	Reference  string            `json:"reference"`
	Notes      string            `json:"notes"`
	OperatorID int               `json:"operator_id"`
}

// PaymentFilter is used for filtering payment listings
type PaymentFilter struct {
	CustomerID int        `json:"customer_id"`
	DebtID     int        `json:"debt_id"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	Limit      int        `json:"limit"`
	Offset     int        `json:"offset"`
}
