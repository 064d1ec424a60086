package service

import (
	"context"
	"fmt"
	"strings"

	"qr-ordering/internal/domain"
	"qr-ordering/internal/repository"
)

type RestaurantServiceInterface interface {
	Get(ctx context.Context, restaurantID string) (domain.Restaurant, error)
	Update(ctx context.Context, restaurantID string, req domain.UpdateRestaurantRequest) (domain.Restaurant, error)
}

type RestaurantService struct {
	repo repository.RestaurantsRepositoryInterface
}

func NewRestaurantService(repo repository.RestaurantsRepositoryInterface) *RestaurantService {
	return &RestaurantService{repo: repo}
}

func (s *RestaurantService) Get(ctx context.Context, restaurantID string) (domain.Restaurant, error) {
	return s.repo.GetByID(ctx, restaurantID)
}

func (s *RestaurantService) Update(ctx context.Context, restaurantID string, req domain.UpdateRestaurantRequest) (domain.Restaurant, error) {
	if strings.TrimSpace(req.Name) == "" {
		return domain.Restaurant{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	existing, err := s.repo.GetByID(ctx, restaurantID)
	if err != nil {
		return domain.Restaurant{}, err
	}
	existing.Name = strings.TrimSpace(req.Name)
	existing.Description = req.Description
	existing.Address = req.Address
	existing.Phone = req.Phone
	return s.repo.Update(ctx, existing)
}
