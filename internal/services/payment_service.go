package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"premium-backend/internal/cache"
	"premium-backend/internal/ledger"
	"premium-backend/internal/metrics"
	"premium-backend/internal/models"
	"premium-backend/internal/repositories"
)

// PaymentService fronts the debt ledger for the request layer: it validates
// intents, applies them, and keeps the cached read models and metrics current.
type PaymentService struct {
	Ledger      *ledger.DebtLedger
	PaymentRepo *repositories.PaymentRepository
}

func NewPaymentService(debtLedger *ledger.DebtLedger, paymentRepo *repositories.PaymentRepository) *PaymentService {
	return &PaymentService{Ledger: debtLedger, PaymentRepo: paymentRepo}
}

// ApplyIntent validates and applies one payment intent through the ledger
func (s *PaymentService) ApplyIntent(ctx context.Context, intent *models.PaymentIntent) (*ledger.Result, error) {
	if intent.TargetID == "" {
		return nil, errors.New("target_id is required")
	}
	if !models.ValidPaymentMethod(intent.Method) {
		return nil, fmt.Errorf("unknown payment method %q", intent.Method)
	}
	switch intent.TargetKind {
	case models.PaymentTargetDebt, models.PaymentTargetReceipt, models.PaymentTargetCustomer:
	default:
		return nil, fmt.Errorf("unknown payment target kind %q", intent.TargetKind)
	}

	result, err := s.Ledger.Apply(ctx, intent)
	if err != nil {
		var overpay *ledger.OverpaymentError
		if errors.As(err, &overpay) {
			metrics.OverpaymentsRejectedTotal.Inc()
		}
		return nil, err
	}

	metrics.PaymentsAppliedTotal.WithLabelValues(string(intent.TargetKind)).Inc()
	metrics.PaymentAmountTotal.Add(result.CashEntry.Amount)
	if result.CashEntry.CustomerID != nil {
		cache.InvalidateDebtData(ctx, *result.CashEntry.CustomerID)
	}
	return result, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, id int) (*models.Payment, error) {
	return s.PaymentRepo.Get(ctx, id)
}

// GetOperation returns every split written under one operation reference
func (s *PaymentService) GetOperation(ctx context.Context, reference string) ([]*models.Payment, error) {
	if reference == "" {
		return nil, errors.New("reference is required")
	}
	return s.PaymentRepo.GetByReference(ctx, reference)
}

func (s *PaymentService) ListPayments(ctx context.Context, filter *models.PaymentFilter) ([]*models.Payment, error) {
	return s.PaymentRepo.GetAll(ctx, filter)
}

// ListCustomerPayments is a convenience wrapper for the customer detail page
func (s *PaymentService) ListCustomerPayments(ctx context.Context, customerID int, limit int) ([]*models.Payment, error) {
	if customerID <= 0 {
		return nil, &ledger.NotFoundError{Kind: "customer", ID: strconv.Itoa(customerID)}
	}
	return s.PaymentRepo.GetAll(ctx, &models.PaymentFilter{CustomerID: customerID, Limit: limit})
}
