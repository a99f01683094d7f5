package models

import "time"

// CashEntryType represents the direction of a cash ledger entry
type CashEntryType string

const (
	CashEntryTypeInflow  CashEntryType = "INFLOW"
	CashEntryTypeOutflow CashEntryType = "OUTFLOW"
)

// CashLedgerEntry is an immutable record of one physical money movement,
// used for external reconciliation. A payment operation that splits across
// several debts still produces exactly one entry, so the cash ledger matches
// the cash drawer and bank statement rather than internal allocation detail.
type CashLedgerEntry struct {
	ID               int           `json:"id"`
	EntryType        CashEntryType `json:"entry_type"`
	Amount           float64       `json:"amount"`
	Description      string        `json:"description"`
	Reference        string        `json:"reference"`
	CustomerID       *int          `json:"customer_id,omitempty"`
	CustomerName     string        `json:"customer_name,omitempty"`
	RecordedByUserID int           `json:"recorded_by_user_id"`
	RecordedByName   string        `json:"recorded_by_name,omitempty"` // Joined from users table
	CreatedAt        time.Time     `json:"created_at"`
}

// CashLedgerFilter is used for filtering cash ledger listings
type CashLedgerFilter struct {
	EntryType  CashEntryType `json:"entry_type"`
	CustomerID int           `json:"customer_id"`
	StartDate  *time.Time    `json:"start_date"`
	EndDate    *time.Time    `json:"end_date"`
	Limit      int           `json:"limit"`
	Offset     int           `json:"offset"`
}

// CashLedgerSummary totals cash movement over a period
type CashLedgerSummary struct {
	TotalInflow  float64 `json:"total_inflow"`
	TotalOutflow float64 `json:"total_outflow"`
	Net          float64 `json:"net"`
	EntryCount   int     `json:"entry_count"`
}
