package repository

import (
	"context"
	"database/sql"
	"fmt"

	"qr-ordering/internal/domain"
)

type CustomersRepositoryInterface interface {
	Upsert(ctx context.Context, customer domain.Customer) error
	List(ctx context.Context, restaurantID string, limit, offset int) ([]domain.Customer, error)
}

type CustomersRepository struct {
	db *sql.DB
}

func NewCustomersRepository(db *sql.DB) *CustomersRepository {
	return &CustomersRepository{db: db}
}

// Upsert records the customer on every order, keyed by phone within one
// restaurant, and counts their orders.
func (r *CustomersRepository) Upsert(ctx context.Context, customer domain.Customer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, restaurant_id, name, phone, orders_count, created_at)
		VALUES ($1, $2, $3, $4, 1, NOW())
		ON CONFLICT (restaurant_id, phone)
		DO UPDATE SET name = EXCLUDED.name, orders_count = customers.orders_count + 1, last_order_at = NOW()
	`, customer.ID, customer.RestaurantID, customer.Name, customer.Phone)
	if err != nil {
		return fmt.Errorf("failed to upsert customer: %w", err)
	}
	return nil
}

func (r *CustomersRepository) List(ctx context.Context, restaurantID string, limit, offset int) ([]domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, restaurant_id, name, phone, orders_count, created_at
		FROM customers
		WHERE restaurant_id = $1
		ORDER BY orders_count DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`, restaurantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.RestaurantID, &c.Name, &c.Phone, &c.OrdersCount, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}
