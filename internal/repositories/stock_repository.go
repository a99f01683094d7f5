package repositories

import (
	"context"

	"premium-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StockRepository struct {
	DB *pgxpool.Pool
}

func NewStockRepository(db *pgxpool.Pool) *StockRepository {
	return &StockRepository{DB: db}
}

const stockBatchColumns = `id, product_name, quantity, unit_cost, COALESCE(supplier, ''),
	received_at, recorded_by_user_id, created_at`

func scanStockBatch(row pgx.Row) (*models.StockBatch, error) {
	var b models.StockBatch
	err := row.Scan(&b.ID, &b.ProductName, &b.Quantity, &b.UnitCost, &b.Supplier,
		&b.ReceivedAt, &b.RecordedByUserID, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *StockRepository) Create(ctx context.Context, batch *models.StockBatch) error {
	return r.DB.QueryRow(ctx, `
		INSERT INTO stock_batches (product_name, quantity, unit_cost, supplier, received_at, recorded_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		batch.ProductName, batch.Quantity, batch.UnitCost, batch.Supplier,
		batch.ReceivedAt, batch.RecordedByUserID,
	).Scan(&batch.ID, &batch.CreatedAt)
}

func (r *StockRepository) Get(ctx context.Context, id int) (*models.StockBatch, error) {
	batch, err := scanStockBatch(r.DB.QueryRow(ctx,
		`SELECT `+stockBatchColumns+` FROM stock_batches WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return batch, err
}

func (r *StockRepository) ListByProduct(ctx context.Context, productName string) ([]*models.StockBatch, error) {
	return r.list(ctx,
		`SELECT `+stockBatchColumns+` FROM stock_batches
		 WHERE product_name = $1 ORDER BY received_at ASC, id ASC`, productName)
}

func (r *StockRepository) GetAll(ctx context.Context) ([]*models.StockBatch, error) {
	return r.list(ctx,
		`SELECT `+stockBatchColumns+` FROM stock_batches ORDER BY received_at DESC, id DESC`)
}

func (r *StockRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.StockBatch, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []*models.StockBatch
	for rows.Next() {
		batch, err := scanStockBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	return batches, rows.Err()
}

// GetValuations computes weighted average cost per product across its batches
func (r *StockRepository) GetValuations(ctx context.Context) ([]models.ProductValuation, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT product_name,
			COALESCE(SUM(quantity), 0) as total_quantity,
			COALESCE(SUM(quantity * unit_cost), 0) as total_cost,
			COUNT(*) as batch_count
		FROM stock_batches
		GROUP BY product_name
		ORDER BY product_name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var valuations []models.ProductValuation
	for rows.Next() {
		var v models.ProductValuation
		if err := rows.Scan(&v.ProductName, &v.TotalQuantity, &v.TotalCost, &v.BatchCount); err != nil {
			return nil, err
		}
		if v.TotalQuantity > 0 {
			v.WeightedAvgCost = v.TotalCost / float64(v.TotalQuantity)
		}
		valuations = append(valuations, v)
	}
	return valuations, rows.Err()
}
