package domain

import (
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderInProgress OrderStatus = "in_progress"
	OrderReady      OrderStatus = "ready"
	OrderCompleted  OrderStatus = "completed"
	OrderCanceled   OrderStatus = "canceled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderInProgress, OrderReady, OrderCompleted, OrderCanceled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type Restaurant struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	Address     string
	Phone       string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

type MenuItem struct {
	ID           string
	RestaurantID string
	Name         string
	Description  string
	Category     string
	Price        float64
	ImageURL     string
	IsAvailable  bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

type Order struct {
	ID            string
	RestaurantID  string
	OrderNumber   string
	TableNumber   int
	CustomerName  string
	CustomerPhone string
	OrderStatus   OrderStatus
	PaymentStatus PaymentStatus
	PaymentMethod string
	TotalPrice    float64
	EstimatedTime *int // minutes, nil when not estimated
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	Items         []OrderItem
}

type OrderItem struct {
	ID         string
	OrderID    string
	MenuItemID string
	Quantity   int
	UnitPrice  float64
}

type Customer struct {
	ID           string
	RestaurantID string
	Name         string
	Phone        string
	OrdersCount  int
	CreatedAt    time.Time
}
