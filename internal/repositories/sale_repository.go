package repositories

import (
	"context"
	"fmt"

	"premium-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SaleRepository struct {
	DB *pgxpool.Pool
}

func NewSaleRepository(db *pgxpool.Pool) *SaleRepository {
	return &SaleRepository{DB: db}
}

// GenerateReceiptNumber draws the next receipt number from a database
// sequence so concurrent checkouts never collide
func (r *SaleRepository) GenerateReceiptNumber(ctx context.Context) (string, error) {
	var nextNum int
	err := r.DB.QueryRow(ctx, "SELECT nextval('receipt_number_sequence')").Scan(&nextNum)
	if err != nil {
		return "", fmt.Errorf("failed to get next receipt number: %w", err)
	}
	return fmt.Sprintf("RCP-%06d", nextNum), nil
}

// CreateReceipt writes the sales of one checkout plus the debts for any
// unpaid portion in a single transaction
func (r *SaleRepository) CreateReceipt(ctx context.Context, sales []*models.Sale, debts []*models.Debt) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	debtsBySale := make(map[int]*models.Debt, len(debts))
	for _, d := range debts {
		debtsBySale[d.SaleID] = d
	}

	for i, sale := range sales {
		err = tx.QueryRow(ctx,
			`INSERT INTO sales (receipt_number, customer_id, product_name, quantity, unit_price,
			                    total_amount, payment_method, payment_status, sold_by_user_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 RETURNING id, created_at`,
			sale.ReceiptNumber, sale.CustomerID, sale.ProductName, sale.Quantity, sale.UnitPrice,
			sale.TotalAmount, sale.PaymentMethod, sale.PaymentStatus, sale.SoldByUserID,
		).Scan(&sale.ID, &sale.CreatedAt)
		if err != nil {
			return err
		}

		// SaleID was the item's position before insert; rewire to the real id
		if debt, ok := debtsBySale[i]; ok {
			debt.SaleID = sale.ID
			err = tx.QueryRow(ctx,
				`INSERT INTO debts (customer_id, sale_id, receipt_number, total_amount, amount_paid,
				                    amount_due, due_date, status)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				 RETURNING id, created_at, updated_at`,
				debt.CustomerID, debt.SaleID, debt.ReceiptNumber, debt.TotalAmount, debt.AmountPaid,
				debt.AmountDue, debt.DueDate, debt.Status,
			).Scan(&debt.ID, &debt.CreatedAt, &debt.UpdatedAt)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

const saleColumns = `s.id, s.receipt_number, s.customer_id, COALESCE(c.name, ''), s.product_name,
	s.quantity, s.unit_price, s.total_amount, s.payment_method, s.payment_status,
	s.sold_by_user_id, s.created_at`

func scanSale(row pgx.Row) (*models.Sale, error) {
	var s models.Sale
	err := row.Scan(&s.ID, &s.ReceiptNumber, &s.CustomerID, &s.CustomerName, &s.ProductName,
		&s.Quantity, &s.UnitPrice, &s.TotalAmount, &s.PaymentMethod, &s.PaymentStatus,
		&s.SoldByUserID, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SaleRepository) Get(ctx context.Context, id int) (*models.Sale, error) {
	sale, err := scanSale(r.DB.QueryRow(ctx,
		`SELECT `+saleColumns+`
		 FROM sales s LEFT JOIN customers c ON s.customer_id = c.id
		 WHERE s.id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return sale, err
}

func (r *SaleRepository) ListByReceipt(ctx context.Context, receiptNumber string) ([]*models.Sale, error) {
	return r.list(ctx,
		`SELECT `+saleColumns+`
		 FROM sales s LEFT JOIN customers c ON s.customer_id = c.id
		 WHERE s.receipt_number = $1
		 ORDER BY s.created_at ASC, s.id ASC`, receiptNumber)
}

func (r *SaleRepository) ListByCustomer(ctx context.Context, customerID int, limit, offset int) ([]*models.Sale, error) {
	if limit <= 0 {
		limit = 100
	}
	return r.list(ctx,
		`SELECT `+saleColumns+`
		 FROM sales s LEFT JOIN customers c ON s.customer_id = c.id
		 WHERE s.customer_id = $1
		 ORDER BY s.created_at DESC, s.id DESC
		 LIMIT $2 OFFSET $3`, customerID, limit, offset)
}

func (r *SaleRepository) List(ctx context.Context, limit, offset int) ([]*models.Sale, error) {
	if limit <= 0 {
		limit = 100
	}
	return r.list(ctx,
		`SELECT `+saleColumns+`
		 FROM sales s LEFT JOIN customers c ON s.customer_id = c.id
		 ORDER BY s.created_at DESC, s.id DESC
		 LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *SaleRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Sale, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []*models.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}
