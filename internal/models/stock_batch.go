package models

import "time"

// StockBatch is one inventory purchase lot. Valuation runs a weighted
// average cost across the batches of a product.
type StockBatch struct {
	ID               int       `json:"id"`
	ProductName      string    `json:"product_name"`
	Quantity         int       `json:"quantity"`
	UnitCost         float64   `json:"unit_cost"`
	Supplier         string    `json:"supplier"`
	ReceivedAt       time.Time `json:"received_at"`
	RecordedByUserID int       `json:"recorded_by_user_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// CreateStockBatchRequest represents the request body for recording a batch
type CreateStockBatchRequest struct {
	ProductName string     `json:"product_name"`
	Quantity    int        `json:"quantity"`
	UnitCost    float64    `json:"unit_cost"`
	Supplier    string     `json:"supplier"`
	ReceivedAt  *time.Time `json:"received_at,omitempty"`
}

// ProductValuation is the weighted-average cost view of one product
type ProductValuation struct {
	ProductName     string  `json:"product_name"`
	TotalQuantity   int     `json:"total_quantity"`
	TotalCost       float64 `json:"total_cost"`
	WeightedAvgCost float64 `json:"weighted_avg_cost"`
	BatchCount      int     `json:"batch_count"`
}
