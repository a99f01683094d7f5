package models

import "time"

type Customer struct {
	ID               int        `json:"id"`
	Name             string     `json:"name"`
	Phone            string     `json:"phone"`
	Address          string     `json:"address"`
	OutstandingDebt  float64    `json:"outstanding_debt"`  // Cached sum of amount_due over open debts
	ReliabilityScore float64    `json:"reliability_score"` // 0-100, derived from payment history
	LastPaymentDate  *time.Time `json:"last_payment_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// CreateCustomerRequest represents the request body for creating a customer
type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UpdateCustomerRequest represents the request body for updating a customer
type UpdateCustomerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}
