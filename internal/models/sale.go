package models

import "time"

// SalePaymentStatus mirrors the status of the debt backing a credit sale.
// It is only ever written by the debt ledger.
type SalePaymentStatus string

const (
	SalePaymentStatusPaid    SalePaymentStatus = "PAID"
	SalePaymentStatusPartial SalePaymentStatus = "PARTIAL"
	SalePaymentStatusCredit  SalePaymentStatus = "CREDIT"
)

// PaymentMethod is how money physically moved
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodPOS      PaymentMethod = "POS"
	PaymentMethodCheque   PaymentMethod = "CHEQUE"
)

// ValidPaymentMethod reports whether m is one of the known methods
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodPOS, PaymentMethodCheque:
		return true
	}
	return false
}

// Sale is an immutable line of a checkout. All sales checked out together
// share a receipt number. payment_status is the only mutable column.
type Sale struct {
	ID            int               `json:"id"`
	ReceiptNumber string            `json:"receipt_number"`
	CustomerID    int               `json:"customer_id"`
	CustomerName  string            `json:"customer_name,omitempty"` // Joined from customers table
	ProductName   string            `json:"product_name"`
	Quantity      int               `json:"quantity"`
	UnitPrice     float64           `json:"unit_price"`
	TotalAmount   float64           `json:"total_amount"`
	PaymentMethod PaymentMethod     `json:"payment_method"`
	PaymentStatus SalePaymentStatus `json:"payment_status"`
	SoldByUserID  int               `json:"sold_by_user_id"`
	CreatedAt     time.Time         `json:"created_at"`
}

// CheckoutItem is one product line in a checkout request
type CheckoutItem struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// CheckoutRequest creates the sales of one receipt. AmountPaid is the money
// handed over at the counter; anything short of the receipt total becomes debt.
type CheckoutRequest struct {
	CustomerID    int            `json:"customer_id"`
	Items         []CheckoutItem `json:"items"`
	AmountPaid    float64        `json:"amount_paid"`
	PaymentMethod PaymentMethod  `json:"payment_method"`
	DueDate       *time.Time     `json:"due_date,omitempty"` // Due date for any debt created
	Notes         string         `json:"notes"`
}

// CheckoutResult is returned to the counter after a checkout
type CheckoutResult struct {
	ReceiptNumber string  `json:"receipt_number"`
	Sales         []*Sale `json:"sales"`
	Debts         []*Debt `json:"debts"`
	TotalAmount   float64 `json:"total_amount"`
	AmountPaid    float64 `json:"amount_paid"`
	Outstanding   float64 `json:"outstanding"`
}
