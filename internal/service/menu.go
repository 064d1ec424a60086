package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"qr-ordering/internal/common/cache"
	"qr-ordering/internal/common/logger"
	"qr-ordering/internal/domain"
	"qr-ordering/internal/repository"
)

type MenuServiceInterface interface {
	Create(ctx context.Context, restaurantID string, req domain.MenuItemRequest) (domain.MenuItem, error)
	Get(ctx context.Context, restaurantID, itemID string) (domain.MenuItem, error)
	List(ctx context.Context, restaurantID string) ([]domain.MenuItem, error)
	Update(ctx context.Context, restaurantID, itemID string, req domain.MenuItemRequest) (domain.MenuItem, error)
	Delete(ctx context.Context, restaurantID, itemID string) error
	PublicMenu(ctx context.Context, restaurantID string) ([]domain.MenuItem, error)
}

// MenuService serves dashboard CRUD directly from the store and the public
// QR-scan menu through a read-through cache. Mutations invalidate the
// restaurant's cached menu.
type MenuService struct {
	repo     repository.MenuRepositoryInterface
	cache    cache.Cache
	cacheTTL time.Duration
	log      *logger.Logger
}

func NewMenuService(repo repository.MenuRepositoryInterface, c cache.Cache, ttl time.Duration, log *logger.Logger) *MenuService {
	return &MenuService{repo: repo, cache: c, cacheTTL: ttl, log: log}
}

func (s *MenuService) Create(ctx context.Context, restaurantID string, req domain.MenuItemRequest) (domain.MenuItem, error) {
	if err := validateMenuItem(req); err != nil {
		return domain.MenuItem{}, err
	}
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	item := domain.MenuItem{
		ID:           uuid.NewString(),
		RestaurantID: restaurantID,
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Category:     req.Category,
		Price:        req.Price,
		ImageURL:     req.ImageURL,
		IsAvailable:  available,
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return domain.MenuItem{}, err
	}
	s.invalidate(ctx, restaurantID)
	return created, nil
}

func (s *MenuService) Get(ctx context.Context, restaurantID, itemID string) (domain.MenuItem, error) {
	return s.repo.GetByID(ctx, restaurantID, itemID)
}

func (s *MenuService) List(ctx context.Context, restaurantID string) ([]domain.MenuItem, error) {
	return s.repo.List(ctx, restaurantID)
}

func (s *MenuService) Update(ctx context.Context, restaurantID, itemID string, req domain.MenuItemRequest) (domain.MenuItem, error) {
	if err := validateMenuItem(req); err != nil {
		return domain.MenuItem{}, err
	}
	existing, err := s.repo.GetByID(ctx, restaurantID, itemID)
	if err != nil {
		return domain.MenuItem{}, err
	}
	existing.Name = strings.TrimSpace(req.Name)
	existing.Description = req.Description
	existing.Category = req.Category
	existing.Price = req.Price
	existing.ImageURL = req.ImageURL
	if req.IsAvailable != nil {
		existing.IsAvailable = *req.IsAvailable
	}
	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return domain.MenuItem{}, err
	}
	s.invalidate(ctx, restaurantID)
	return updated, nil
}

func (s *MenuService) Delete(ctx context.Context, restaurantID, itemID string) error {
	if err := s.repo.Delete(ctx, restaurantID, itemID); err != nil {
		return err
	}
	s.invalidate(ctx, restaurantID)
	return nil
}

// PublicMenu returns only available items. QR scans hit this for every table
// seating, so results are cached per restaurant.
func (s *MenuService) PublicMenu(ctx context.Context, restaurantID string) ([]domain.MenuItem, error) {
	key := menuCacheKey(restaurantID)
	if data, ok, err := s.cache.Get(ctx, key); err != nil {
		s.log.Error("menu_cache_get_failed", err, map[string]any{"restaurant_id": restaurantID})
	} else if ok {
		var items []domain.MenuItem
		if err := json.Unmarshal(data, &items); err == nil {
			return items, nil
		}
	}

	items, err := s.repo.ListAvailable(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(items); err == nil {
		if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
			s.log.Error("menu_cache_set_failed", err, map[string]any{"restaurant_id": restaurantID})
		}
	}
	return items, nil
}

func (s *MenuService) invalidate(ctx context.Context, restaurantID string) {
	if err := s.cache.Delete(ctx, menuCacheKey(restaurantID)); err != nil {
		s.log.Error("menu_cache_invalidate_failed", err, map[string]any{"restaurant_id": restaurantID})
	}
}

func menuCacheKey(restaurantID string) string {
	return "menu:public:" + restaurantID
}

func validateMenuItem(req domain.MenuItemRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if req.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", domain.ErrValidation)
	}
	return nil
}
