package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"qr-ordering/internal/domain"
)

type OrdersRepositoryInterface interface {
	Create(ctx context.Context, order domain.Order) (domain.Order, error)
	GetByID(ctx context.Context, restaurantID, orderID string) (domain.Order, error)
	List(ctx context.Context, restaurantID string, status domain.OrderStatus, limit, offset int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, restaurantID, orderID string, status domain.OrderStatus) (domain.Order, error)
	CreatedSince(ctx context.Context, restaurantID string, since time.Time) ([]domain.Order, error)
	UpdatedAfter(ctx context.Context, restaurantID string, after time.Time) ([]domain.Order, error)
	ListForPeriod(ctx context.Context, restaurantID string, from, to time.Time) ([]domain.Order, error)
}

type OrdersRepository struct {
	db *sql.DB
}

func NewOrdersRepository(db *sql.DB) *OrdersRepository {
	return &OrdersRepository{db: db}
}

const orderColumns = `id, restaurant_id, order_number, table_number, customer_name, customer_phone,
	order_status, payment_status, payment_method, total_price, estimated_time, created_at, updated_at`

func (r *OrdersRepository) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders
			(id, restaurant_id, order_number, table_number, customer_name, customer_phone,
			 order_status, payment_status, payment_method, total_price, estimated_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING created_at
	`,
		order.ID,
		order.RestaurantID,
		order.OrderNumber,
		order.TableNumber,
		order.CustomerName,
		order.CustomerPhone,
		order.OrderStatus,
		order.PaymentStatus,
		order.PaymentMethod,
		order.TotalPrice,
		order.EstimatedTime,
	).Scan(&order.CreatedAt)
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	for i, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, menu_item_id, quantity, unit_price, created_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
		`, item.ID, order.ID, item.MenuItemID, item.Quantity, item.UnitPrice)
		if err != nil {
			return domain.Order{}, fmt.Errorf("failed to insert order item %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.Order{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return order, nil
}

func (r *OrdersRepository) GetByID(ctx context.Context, restaurantID, orderID string) (domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1 AND restaurant_id = $2
	`, orderID, restaurantID)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrNotFound
		}
		return domain.Order{}, fmt.Errorf("failed to get order: %w", err)
	}
	if err := r.loadItems(ctx, &order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (r *OrdersRepository) List(ctx context.Context, restaurantID string, status domain.OrderStatus, limit, offset int) ([]domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE restaurant_id = $1`
	args := []any{restaurantID}
	if status != "" {
		query += ` AND order_status = $2`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, offset)

	return r.queryOrders(ctx, query, args...)
}

func (r *OrdersRepository) UpdateStatus(ctx context.Context, restaurantID, orderID string, status domain.OrderStatus) (domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE orders
		SET order_status = $1, updated_at = NOW()
		WHERE id = $2 AND restaurant_id = $3
		RETURNING `+orderColumns+`
	`, status, orderID, restaurantID)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrNotFound
		}
		return domain.Order{}, fmt.Errorf("failed to update order status: %w", err)
	}
	if err := r.loadItems(ctx, &order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// CreatedSince seeds a restaurant's first poll: recent inserts inside the
// lookback window, oldest first.
func (r *OrdersRepository) CreatedSince(ctx context.Context, restaurantID string, since time.Time) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE restaurant_id = $1 AND created_at >= $2
		ORDER BY created_at ASC
	`, restaurantID, since)
}

// UpdatedAfter returns rows mutated strictly after the checkpoint, oldest
// first. Freshly inserted rows have a null updated_at and are matched on
// created_at instead.
func (r *OrdersRepository) UpdatedAfter(ctx context.Context, restaurantID string, after time.Time) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE restaurant_id = $1 AND COALESCE(updated_at, created_at) > $2
		ORDER BY COALESCE(updated_at, created_at) ASC
	`, restaurantID, after)
}

func (r *OrdersRepository) ListForPeriod(ctx context.Context, restaurantID string, from, to time.Time) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE restaurant_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at ASC
	`, restaurantID, from, to)
}

func (r *OrdersRepository) queryOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *OrdersRepository) loadItems(ctx context.Context, order *domain.Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, menu_item_id, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at ASC
	`, order.ID)
	if err != nil {
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity, &item.UnitPrice); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		order     domain.Order
		estimated sql.NullInt64
		updatedAt sql.NullTime
	)
	err := row.Scan(
		&order.ID,
		&order.RestaurantID,
		&order.OrderNumber,
		&order.TableNumber,
		&order.CustomerName,
		&order.CustomerPhone,
		&order.OrderStatus,
		&order.PaymentStatus,
		&order.PaymentMethod,
		&order.TotalPrice,
		&estimated,
		&order.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Order{}, err
	}
	if estimated.Valid {
		v := int(estimated.Int64)
		order.EstimatedTime = &v
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		order.UpdatedAt = &t
	}
	return order, nil
}
