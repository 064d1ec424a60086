package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"qr-ordering/internal/common/logger"
	"qr-ordering/internal/domain"
	"qr-ordering/internal/repository"
)

// Notifier is the in-process broadcast surface called right after a
// successful mutation, so dashboards do not wait for the next poll cycle.
type Notifier interface {
	BroadcastOrderCreated(o domain.Order)
	BroadcastOrderStatusChanged(o domain.Order)
}

// EventPublisher taps order events to an external broker. Best effort: a
// publish failure never fails the mutation that produced the event.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, eventType string, o domain.Order) error
}

type OrderServiceInterface interface {
	Create(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error)
	Get(ctx context.Context, restaurantID, orderID string) (domain.Order, error)
	List(ctx context.Context, restaurantID string, status domain.OrderStatus, limit, offset int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, restaurantID, orderID string, status domain.OrderStatus) (domain.Order, error)
}

type OrderService struct {
	orders    repository.OrdersRepositoryInterface
	customers repository.CustomersRepositoryInterface
	notify    Notifier
	events    EventPublisher
	log       *logger.Logger
}

func NewOrderService(
	orders repository.OrdersRepositoryInterface,
	customers repository.CustomersRepositoryInterface,
	notify Notifier,
	events EventPublisher,
	log *logger.Logger,
) *OrderService {
	return &OrderService{orders: orders, customers: customers, notify: notify, events: events, log: log}
}

func (s *OrderService) Create(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	if err := validateCreate(req); err != nil {
		return domain.Order{}, err
	}

	total := 0.0
	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, in := range req.Items {
		total += float64(in.Quantity) * in.UnitPrice
		items = append(items, domain.OrderItem{
			ID:         uuid.NewString(),
			MenuItemID: in.MenuItemID,
			Quantity:   in.Quantity,
			UnitPrice:  in.UnitPrice,
		})
	}

	estimated := estimatedTime(len(items))
	order := domain.Order{
		ID:            uuid.NewString(),
		RestaurantID:  req.RestaurantID,
		OrderNumber:   generateOrderNumber(),
		TableNumber:   req.TableNumber,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: normalizePhone(req.CustomerPhone),
		OrderStatus:   domain.OrderPending,
		PaymentStatus: domain.PaymentPending,
		PaymentMethod: "cash",
		TotalPrice:    total,
		EstimatedTime: &estimated,
		Items:         items,
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.customers.Upsert(ctx, domain.Customer{
		ID:           uuid.NewString(),
		RestaurantID: created.RestaurantID,
		Name:         created.CustomerName,
		Phone:        created.CustomerPhone,
	}); err != nil {
		s.log.Error("customer_upsert_failed", err, map[string]any{"order_id": created.ID})
	}

	s.announce(ctx, "order_created", created)
	return created, nil
}

func (s *OrderService) Get(ctx context.Context, restaurantID, orderID string) (domain.Order, error) {
	return s.orders.GetByID(ctx, restaurantID, orderID)
}

func (s *OrderService) List(ctx context.Context, restaurantID string, status domain.OrderStatus, limit, offset int) ([]domain.Order, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown order status %q", domain.ErrValidation, status)
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.orders.List(ctx, restaurantID, status, limit, offset)
}

func (s *OrderService) UpdateStatus(ctx context.Context, restaurantID, orderID string, status domain.OrderStatus) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, fmt.Errorf("%w: unknown order status %q", domain.ErrValidation, status)
	}
	updated, err := s.orders.UpdateStatus(ctx, restaurantID, orderID, status)
	if err != nil {
		return domain.Order{}, err
	}

	s.announce(ctx, "order_status_changed", updated)
	return updated, nil
}

// announce pushes the mutation to live dashboards and to the broker tap.
// Failures are logged and swallowed so the committed write stands.
func (s *OrderService) announce(ctx context.Context, eventType string, o domain.Order) {
	switch eventType {
	case "order_created":
		s.notify.BroadcastOrderCreated(o)
	case "order_status_changed":
		s.notify.BroadcastOrderStatusChanged(o)
	}
	if err := s.events.PublishOrderEvent(ctx, eventType, o); err != nil {
		s.log.Error("order_event_publish_failed", err, map[string]any{"order_id": o.ID, "event": eventType})
	}
}

func validateCreate(req domain.CreateOrderRequest) error {
	if req.RestaurantID == "" {
		return fmt.Errorf("%w: restaurant_id is required", domain.ErrValidation)
	}
	if req.TableNumber <= 0 {
		return fmt.Errorf("%w: table number must be positive", domain.ErrValidation)
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return fmt.Errorf("%w: customer name is required", domain.ErrValidation)
	}
	if len(normalizePhone(req.CustomerPhone)) < 10 {
		return fmt.Errorf("%w: phone number must be at least 10 digits", domain.ErrValidation)
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: at least one item is required", domain.ErrValidation)
	}
	for i, item := range req.Items {
		if item.MenuItemID == "" {
			return fmt.Errorf("%w: item %d is missing menu_item_id", domain.ErrValidation, i)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item %d has invalid quantity", domain.ErrValidation, i)
		}
		if item.UnitPrice <= 0 {
			return fmt.Errorf("%w: item %d has invalid unit price", domain.ErrValidation, i)
		}
	}
	return nil
}

const orderNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// generateOrderNumber builds a customer-facing reference like
// ORD-240115103045-A1B2.
func generateOrderNumber() string {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = orderNumberAlphabet[rand.Intn(len(orderNumberAlphabet))]
	}
	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("060102150405"), suffix)
}

// estimatedTime is 10 minutes base plus 2 per item, clamped to [10, 45].
func estimatedTime(itemCount int) int {
	estimated := 10 + itemCount*2
	if estimated < 10 {
		estimated = 10
	}
	if estimated > 45 {
		estimated = 45
	}
	return estimated
}

func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
