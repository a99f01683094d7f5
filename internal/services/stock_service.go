package services

import (
	"context"
	"errors"
	"fmt"

	"premium-backend/internal/ledger"
	"premium-backend/internal/models"
	"premium-backend/internal/repositories"
	"premium-backend/internal/timeutil"
)

type StockService struct {
	Repo *repositories.StockRepository
}

func NewStockService(repo *repositories.StockRepository) *StockService {
	return &StockService{Repo: repo}
}

func (s *StockService) RecordBatch(ctx context.Context, req *models.CreateStockBatchRequest, operatorID int) (*models.StockBatch, error) {
	if req.ProductName == "" {
		return nil, errors.New("product name is required")
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("invalid quantity %d", req.Quantity)
	}
	if req.UnitCost < 0 {
		return nil, fmt.Errorf("invalid unit cost %.2f", req.UnitCost)
	}

	receivedAt := timeutil.Now()
	if req.ReceivedAt != nil {
		receivedAt = *req.ReceivedAt
	}

	batch := &models.StockBatch{
		ProductName:      req.ProductName,
		Quantity:         req.Quantity,
		UnitCost:         ledger.Round(req.UnitCost),
		Supplier:         req.Supplier,
		ReceivedAt:       receivedAt,
		RecordedByUserID: operatorID,
	}
	if err := s.Repo.Create(ctx, batch); err != nil {
		return nil, err
	}
	return batch, nil
}

func (s *StockService) ListBatches(ctx context.Context) ([]*models.StockBatch, error) {
	return s.Repo.GetAll(ctx)
}

func (s *StockService) ListProductBatches(ctx context.Context, productName string) ([]*models.StockBatch, error) {
	if productName == "" {
		return nil, errors.New("product name is required")
	}
	return s.Repo.ListByProduct(ctx, productName)
}

// GetValuations returns the weighted average cost view per product
func (s *StockService) GetValuations(ctx context.Context) ([]models.ProductValuation, error) {
	valuations, err := s.Repo.GetValuations(ctx)
	if err != nil {
		return nil, err
	}
	for i := range valuations {
		valuations[i].TotalCost = ledger.Round(valuations[i].TotalCost)
		valuations[i].WeightedAvgCost = ledger.Round(valuations[i].WeightedAvgCost)
	}
	return valuations, nil
}

// WeightedAverageCost computes the valuation of one product from its batches
func WeightedAverageCost(batches []*models.StockBatch) models.ProductValuation {
	var v models.ProductValuation
	if len(batches) == 0 {
		return v
	}
	v.ProductName = batches[0].ProductName
	for _, b := range batches {
		v.TotalQuantity += b.Quantity
		v.TotalCost += float64(b.Quantity) * b.UnitCost
	}
	v.TotalCost = ledger.Round(v.TotalCost)
	v.BatchCount = len(batches)
	if v.TotalQuantity > 0 {
		v.WeightedAvgCost = ledger.Round(v.TotalCost / float64(v.TotalQuantity))
	}
	return v
}
