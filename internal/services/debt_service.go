package services

import (
	"context"
	"encoding/json"
	"log"
	"strconv"

	"premium-backend/internal/cache"
	"premium-backend/internal/ledger"
	"premium-backend/internal/models"
	"premium-backend/internal/repositories"
	"premium-backend/internal/timeutil"
)

// DebtService serves the debt read models. Listings carry the read-time
// OVERDUE classification; the promotion pass persists the label for
// anything that reads the table directly.
type DebtService struct {
	DebtRepo *repositories.DebtRepository
}

func NewDebtService(debtRepo *repositories.DebtRepository) *DebtService {
	return &DebtService{DebtRepo: debtRepo}
}

func (s *DebtService) GetDebt(ctx context.Context, id int) (*models.Debt, error) {
	debt, err := s.DebtRepo.Get(ctx, id)
	if err != nil || debt == nil {
		return debt, err
	}
	debt.Status = debt.EffectiveStatus(timeutil.Now())
	return debt, nil
}

func (s *DebtService) ListDebts(ctx context.Context, filter *models.DebtFilter) ([]*models.Debt, error) {
	debts, err := s.DebtRepo.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return classify(debts), nil
}

func (s *DebtService) ListCustomerDebts(ctx context.Context, customerID int) ([]*models.Debt, error) {
	if customerID <= 0 {
		return nil, &ledger.NotFoundError{Kind: "customer", ID: strconv.Itoa(customerID)}
	}
	debts, err := s.DebtRepo.ListOpenByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return classify(debts), nil
}

func (s *DebtService) ListReceiptDebts(ctx context.Context, receiptNumber string) ([]*models.Debt, error) {
	if receiptNumber == "" {
		return nil, &ledger.NotFoundError{Kind: "receipt", ID: receiptNumber}
	}
	debts, err := s.DebtRepo.ListOpenByReceipt(ctx, receiptNumber)
	if err != nil {
		return nil, err
	}
	return classify(debts), nil
}

func (s *DebtService) ListOverdue(ctx context.Context) ([]*models.Debt, error) {
	debts, err := s.DebtRepo.ListOverdue(ctx, timeutil.Now())
	if err != nil {
		return nil, err
	}
	return classify(debts), nil
}

// PromoteOverdue persists the OVERDUE label on lapsed open debts
func (s *DebtService) PromoteOverdue(ctx context.Context) (int, error) {
	promoted, err := s.DebtRepo.PromoteOverdue(ctx, timeutil.Now())
	if err != nil {
		return 0, err
	}
	if promoted > 0 {
		log.Printf("[Debts] Promoted %d debts to OVERDUE", promoted)
	}
	return promoted, nil
}

// GetDebtorSummaries returns the per-customer debt dashboard, cached briefly
// because it aggregates the whole debts table
func (s *DebtService) GetDebtorSummaries(ctx context.Context) ([]models.CustomerDebtSummary, error) {
	if data, ok := cache.Get(ctx, cache.DebtorSummariesKey); ok {
		var summaries []models.CustomerDebtSummary
		if err := json.Unmarshal(data, &summaries); err == nil {
			return summaries, nil
		}
	}

	summaries, err := s.DebtRepo.GetDebtorSummaries(ctx, timeutil.Now())
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(summaries); err == nil {
		cache.Set(ctx, cache.DebtorSummariesKey, data)
	}
	return summaries, nil
}

// GetReceiptSummaries returns the per-receipt debt dashboard
func (s *DebtService) GetReceiptSummaries(ctx context.Context) ([]models.ReceiptDebtSummary, error) {
	if data, ok := cache.Get(ctx, cache.ReceiptSummariesKey); ok {
		var summaries []models.ReceiptDebtSummary
		if err := json.Unmarshal(data, &summaries); err == nil {
			return summaries, nil
		}
	}

	summaries, err := s.DebtRepo.GetReceiptSummaries(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(summaries); err == nil {
		cache.Set(ctx, cache.ReceiptSummariesKey, data)
	}
	return summaries, nil
}

func classify(debts []*models.Debt) []*models.Debt {
	now := timeutil.Now()
	for _, d := range debts {
		d.Status = d.EffectiveStatus(now)
	}
	return debts
}
