package repositories

import (
	"context"

	"premium-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository struct {
	DB *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

const customerColumns = `id, name, phone, COALESCE(address, ''), outstanding_debt, reliability_score,
	last_payment_date, created_at, updated_at`

func scanCustomer(row pgx.Row) (*models.Customer, error) {
	var c models.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.OutstandingDebt, &c.ReliabilityScore,
		&c.LastPaymentDate, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	// New customers start with a clean slate: nothing owed, full score
	return r.DB.QueryRow(ctx,
		`INSERT INTO customers (name, phone, address, outstanding_debt, reliability_score)
		 VALUES ($1, $2, $3, 0, 100)
		 RETURNING id, outstanding_debt, reliability_score, created_at, updated_at`,
		c.Name, c.Phone, c.Address,
	).Scan(&c.ID, &c.OutstandingDebt, &c.ReliabilityScore, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CustomerRepository) Get(ctx context.Context, id int) (*models.Customer, error) {
	customer, err := scanCustomer(r.DB.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return customer, err
}

func (r *CustomerRepository) GetByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	customer, err := scanCustomer(r.DB.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE phone = $1`, phone))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return customer, err
}

func (r *CustomerRepository) List(ctx context.Context) ([]*models.Customer, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *CustomerRepository) Update(ctx context.Context, c *models.Customer) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE customers SET name = $2, phone = $3, address = $4, updated_at = NOW()
		 WHERE id = $1`,
		c.ID, c.Name, c.Phone, c.Address)
	return err
}

// RecalculateOutstanding rebuilds the cached outstanding_debt from open debt
// rows. Used after a checkout that created debt without an up-front payment.
func (r *CustomerRepository) RecalculateOutstanding(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE customers
		 SET outstanding_debt = (
			SELECT COALESCE(SUM(amount_due), 0) FROM debts
			WHERE customer_id = $1 AND status <> 'PAID'
		 ), updated_at = NOW()
		 WHERE id = $1`, id)
	return err
}

// HasOpenDebts reports whether any non-PAID debt still references the customer.
// Customers are never removed while debts point at them.
func (r *CustomerRepository) HasOpenDebts(ctx context.Context, id int) (bool, error) {
	var count int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM debts WHERE customer_id = $1 AND status <> 'PAID'`, id,
	).Scan(&count)
	return count > 0, err
}

func (r *CustomerRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	return err
}
