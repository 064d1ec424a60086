package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"qr-ordering/internal/domain"
)

type RestaurantsRepositoryInterface interface {
	GetByID(ctx context.Context, restaurantID string) (domain.Restaurant, error)
	Update(ctx context.Context, restaurant domain.Restaurant) (domain.Restaurant, error)
}

type RestaurantsRepository struct {
	db *sql.DB
}

func NewRestaurantsRepository(db *sql.DB) *RestaurantsRepository {
	return &RestaurantsRepository{db: db}
}

const restaurantColumns = `id, owner_id, name, description, address, phone, created_at, updated_at`

func (r *RestaurantsRepository) GetByID(ctx context.Context, restaurantID string) (domain.Restaurant, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+restaurantColumns+` FROM restaurants WHERE id = $1
	`, restaurantID)
	restaurant, err := scanRestaurant(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Restaurant{}, domain.ErrNotFound
		}
		return domain.Restaurant{}, fmt.Errorf("failed to get restaurant: %w", err)
	}
	return restaurant, nil
}

func (r *RestaurantsRepository) Update(ctx context.Context, restaurant domain.Restaurant) (domain.Restaurant, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE restaurants
		SET name = $1, description = $2, address = $3, phone = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING `+restaurantColumns+`
	`, restaurant.Name, restaurant.Description, restaurant.Address, restaurant.Phone, restaurant.ID)

	updated, err := scanRestaurant(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Restaurant{}, domain.ErrNotFound
		}
		return domain.Restaurant{}, fmt.Errorf("failed to update restaurant: %w", err)
	}
	return updated, nil
}

func scanRestaurant(row rowScanner) (domain.Restaurant, error) {
	var (
		restaurant domain.Restaurant
		updatedAt  sql.NullTime
	)
	err := row.Scan(
		&restaurant.ID,
		&restaurant.OwnerID,
		&restaurant.Name,
		&restaurant.Description,
		&restaurant.Address,
		&restaurant.Phone,
		&restaurant.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Restaurant{}, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		restaurant.UpdatedAt = &t
	}
	return restaurant, nil
}
