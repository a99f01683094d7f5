package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"premium-backend/internal/cache"
	"premium-backend/internal/ledger"
	"premium-backend/internal/models"
	"premium-backend/internal/repositories"
)

// CheckoutService turns a cart into the sales of one receipt. Every line
// starts life as a CREDIT sale backed by an OUTSTANDING debt; money handed
// over at the counter is then pushed through the debt ledger's receipt path,
// so an up-front payment leaves the same audit trail as a later one.
type CheckoutService struct {
	SaleRepo     *repositories.SaleRepository
	CustomerRepo *repositories.CustomerRepository
	Ledger       *ledger.DebtLedger
}

func NewCheckoutService(
	saleRepo *repositories.SaleRepository,
	customerRepo *repositories.CustomerRepository,
	debtLedger *ledger.DebtLedger,
) *CheckoutService {
	return &CheckoutService{
		SaleRepo:     saleRepo,
		CustomerRepo: customerRepo,
		Ledger:       debtLedger,
	}
}

// Checkout records the sales of one receipt for a customer, creating debt
// for the unpaid portion. AmountPaid must not exceed the receipt total.
func (s *CheckoutService) Checkout(ctx context.Context, req *models.CheckoutRequest, operatorID int) (*models.CheckoutResult, error) {
	if len(req.Items) == 0 {
		return nil, errors.New("at least one item is required")
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return nil, fmt.Errorf("unknown payment method %q", req.PaymentMethod)
	}
	for _, item := range req.Items {
		if item.ProductName == "" {
			return nil, errors.New("product name is required")
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("invalid quantity %d for %s", item.Quantity, item.ProductName)
		}
		if item.UnitPrice < 0 {
			return nil, fmt.Errorf("invalid unit price %.2f for %s", item.UnitPrice, item.ProductName)
		}
	}

	customer, err := s.CustomerRepo.Get(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, &ledger.NotFoundError{Kind: "customer", ID: strconv.Itoa(req.CustomerID)}
	}

	total := 0.0
	for _, item := range req.Items {
		total = ledger.Round(total + ledger.Round(float64(item.Quantity)*item.UnitPrice))
	}
	amountPaid := ledger.Round(req.AmountPaid)
	if amountPaid < 0 {
		return nil, &ledger.InvalidAmountError{Amount: amountPaid}
	}
	if amountPaid > total {
		return nil, &ledger.OverpaymentError{Requested: amountPaid, Outstanding: total}
	}

	receiptNumber, err := s.SaleRepo.GenerateReceiptNumber(ctx)
	if err != nil {
		return nil, err
	}

	sales := make([]*models.Sale, 0, len(req.Items))
	debts := make([]*models.Debt, 0, len(req.Items))
	for i, item := range req.Items {
		lineTotal := ledger.Round(float64(item.Quantity) * item.UnitPrice)
		sales = append(sales, &models.Sale{
			ReceiptNumber: receiptNumber,
			CustomerID:    customer.ID,
			ProductName:   item.ProductName,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			TotalAmount:   lineTotal,
			PaymentMethod: req.PaymentMethod,
			PaymentStatus: models.SalePaymentStatusCredit,
			SoldByUserID:  operatorID,
		})
		// SaleID holds the item's position until CreateReceipt assigns real ids
		debts = append(debts, &models.Debt{
			CustomerID:    customer.ID,
			SaleID:        i,
			ReceiptNumber: receiptNumber,
			TotalAmount:   lineTotal,
			AmountPaid:    0,
			AmountDue:     lineTotal,
			DueDate:       req.DueDate,
			Status:        models.DebtStatusOutstanding,
		})
	}

	if err := s.SaleRepo.CreateReceipt(ctx, sales, debts); err != nil {
		return nil, err
	}

	result := &models.CheckoutResult{
		ReceiptNumber: receiptNumber,
		Sales:         sales,
		Debts:         debts,
		TotalAmount:   total,
		AmountPaid:    amountPaid,
		Outstanding:   total,
	}

	if amountPaid > 0 {
		ledgerResult, err := s.Ledger.ApplyToReceipt(ctx, receiptNumber, ledger.PaymentDetails{
			Amount:     amountPaid,
			Method:     req.PaymentMethod,
			Reference:  receiptNumber,
			Notes:      req.Notes,
			OperatorID: operatorID,
		})
		if err != nil {
			// The receipt stands; the counter retries the payment separately
			log.Printf("[Checkout] Receipt %s created but payment failed: %v", receiptNumber, err)
			return nil, err
		}
		result.Debts = mergeDebts(debts, ledgerResult.Debts)
		result.Outstanding = ledger.Round(total - amountPaid)
		// Re-read the sales so the result carries the mirrored payment status
		if refreshed, err := s.SaleRepo.ListByReceipt(ctx, receiptNumber); err == nil {
			result.Sales = refreshed
		}
	} else {
		if err := s.CustomerRepo.RecalculateOutstanding(ctx, customer.ID); err != nil {
			return nil, err
		}
	}

	cache.InvalidateDebtData(ctx, customer.ID)
	log.Printf("[Checkout] Receipt %s: %d items, total %.2f, paid %.2f", receiptNumber, len(sales), total, amountPaid)
	return result, nil
}

// mergeDebts overlays ledger-updated debt rows onto the created set
func mergeDebts(created, updated []*models.Debt) []*models.Debt {
	byID := make(map[int]*models.Debt, len(updated))
	for _, d := range updated {
		byID[d.ID] = d
	}
	merged := make([]*models.Debt, 0, len(created))
	for _, d := range created {
		if u, ok := byID[d.ID]; ok {
			merged = append(merged, u)
		} else {
			merged = append(merged, d)
		}
	}
	return merged
}
