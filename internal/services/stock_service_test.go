package services

import (
	"testing"
	"time"

	"premium-backend/internal/models"
)

func batch(product string, qty int, cost float64) *models.StockBatch {
	return &models.StockBatch{
		ProductName: product,
		Quantity:    qty,
		UnitCost:    cost,
		ReceivedAt:  time.Now(),
	}
}

func TestWeightedAverageCost(t *testing.T) {
	v := WeightedAverageCost([]*models.StockBatch{
		batch("Rice 50kg", 100, 20000),
		batch("Rice 50kg", 50, 23000),
	})

	if v.TotalQuantity != 150 {
		t.Errorf("TotalQuantity = %d, want 150", v.TotalQuantity)
	}
	if v.TotalCost != 3150000 {
		t.Errorf("TotalCost = %.2f, want 3150000", v.TotalCost)
	}
	if v.WeightedAvgCost != 21000 {
		t.Errorf("WeightedAvgCost = %.2f, want 21000", v.WeightedAvgCost)
	}
	if v.BatchCount != 2 {
		t.Errorf("BatchCount = %d, want 2", v.BatchCount)
	}
}

func TestWeightedAverageCostRounds(t *testing.T) {
	v := WeightedAverageCost([]*models.StockBatch{
		batch("Sugar 1kg", 3, 100),
		batch("Sugar 1kg", 4, 150),
	})

	// 900 / 7 = 128.571..., rounded to kobo
	if v.WeightedAvgCost != 128.57 {
		t.Errorf("WeightedAvgCost = %.2f, want 128.57", v.WeightedAvgCost)
	}
}

func TestWeightedAverageCostEmpty(t *testing.T) {
	v := WeightedAverageCost(nil)
	if v.TotalQuantity != 0 || v.WeightedAvgCost != 0 || v.BatchCount != 0 {
		t.Errorf("empty batch list should produce a zero valuation, got %+v", v)
	}
}
