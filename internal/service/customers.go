package service

import (
	"context"

	"qr-ordering/internal/domain"
	"qr-ordering/internal/repository"
)

type CustomerServiceInterface interface {
	List(ctx context.Context, restaurantID string, limit, offset int) ([]domain.Customer, error)
}

type CustomerService struct {
	repo repository.CustomersRepositoryInterface
}

func NewCustomerService(repo repository.CustomersRepositoryInterface) *CustomerService {
	return &CustomerService{repo: repo}
}

func (s *CustomerService) List(ctx context.Context, restaurantID string, limit, offset int) ([]domain.Customer, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, restaurantID, limit, offset)
}
