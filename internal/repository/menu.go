package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"qr-ordering/internal/domain"
)

type MenuRepositoryInterface interface {
	Create(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error)
	GetByID(ctx context.Context, restaurantID, itemID string) (domain.MenuItem, error)
	List(ctx context.Context, restaurantID string) ([]domain.MenuItem, error)
	ListAvailable(ctx context.Context, restaurantID string) ([]domain.MenuItem, error)
	Update(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error)
	Delete(ctx context.Context, restaurantID, itemID string) error
}

type MenuRepository struct {
	db *sql.DB
}

func NewMenuRepository(db *sql.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

const menuColumns = `id, restaurant_id, name, description, category, price, image_url, is_available, created_at, updated_at`

func (r *MenuRepository) Create(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO menu_items (id, restaurant_id, name, description, category, price, image_url, is_available, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING created_at
	`, item.ID, item.RestaurantID, item.Name, item.Description, item.Category, item.Price, item.ImageURL, item.IsAvailable).
		Scan(&item.CreatedAt)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("failed to insert menu item: %w", err)
	}
	return item, nil
}

func (r *MenuRepository) GetByID(ctx context.Context, restaurantID, itemID string) (domain.MenuItem, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+menuColumns+` FROM menu_items WHERE id = $1 AND restaurant_id = $2
	`, itemID, restaurantID)
	item, err := scanMenuItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.MenuItem{}, domain.ErrNotFound
		}
		return domain.MenuItem{}, fmt.Errorf("failed to get menu item: %w", err)
	}
	return item, nil
}

func (r *MenuRepository) List(ctx context.Context, restaurantID string) ([]domain.MenuItem, error) {
	return r.queryItems(ctx, `
		SELECT `+menuColumns+` FROM menu_items WHERE restaurant_id = $1 ORDER BY category, name
	`, restaurantID)
}

func (r *MenuRepository) ListAvailable(ctx context.Context, restaurantID string) ([]domain.MenuItem, error) {
	return r.queryItems(ctx, `
		SELECT `+menuColumns+` FROM menu_items WHERE restaurant_id = $1 AND is_available ORDER BY category, name
	`, restaurantID)
}

func (r *MenuRepository) Update(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE menu_items
		SET name = $1, description = $2, category = $3, price = $4, image_url = $5, is_available = $6, updated_at = NOW()
		WHERE id = $7 AND restaurant_id = $8
		RETURNING `+menuColumns+`
	`, item.Name, item.Description, item.Category, item.Price, item.ImageURL, item.IsAvailable, item.ID, item.RestaurantID)

	updated, err := scanMenuItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.MenuItem{}, domain.ErrNotFound
		}
		return domain.MenuItem{}, fmt.Errorf("failed to update menu item: %w", err)
	}
	return updated, nil
}

func (r *MenuRepository) Delete(ctx context.Context, restaurantID, itemID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM menu_items WHERE id = $1 AND restaurant_id = $2
	`, itemID, restaurantID)
	if err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MenuRepository) queryItems(ctx context.Context, query string, args ...any) ([]domain.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanMenuItem(row rowScanner) (domain.MenuItem, error) {
	var (
		item      domain.MenuItem
		updatedAt sql.NullTime
	)
	err := row.Scan(
		&item.ID,
		&item.RestaurantID,
		&item.Name,
		&item.Description,
		&item.Category,
		&item.Price,
		&item.ImageURL,
		&item.IsAvailable,
		&item.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return domain.MenuItem{}, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		item.UpdatedAt = &t
	}
	return item, nil
}
