package realtime

import (
	"time"

	"qr-ordering/internal/domain"
)

const (
	TypeConnectionEstablished = "connection_established"
	TypeOrderCreated          = "order_created"
	TypeOrderStatusChanged    = "order_status_changed"
	TypePong                  = "pong"
)

// Message is the single wire format pushed to dashboard clients. Field
// presence depends on Type: order payloads carry Order and Timestamp, the
// connection acknowledgment carries RestaurantID and Message, pong carries
// Message only.
type Message struct {
	Type         string        `json:"type"`
	Order        *OrderPayload `json:"order,omitempty"`
	RestaurantID string        `json:"restaurant_id,omitempty"`
	Message      string        `json:"message,omitempty"`
	Timestamp    string        `json:"timestamp,omitempty"`
}

type OrderPayload struct {
	ID            string             `json:"id"`
	OrderNumber   string             `json:"order_number"`
	RestaurantID  string             `json:"restaurant_id"`
	TableNumber   int                `json:"table_number"`
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	OrderStatus   string             `json:"order_status"`
	PaymentStatus string             `json:"payment_status"`
	PaymentMethod string             `json:"payment_method"`
	TotalPrice    float64            `json:"total_price"`
	EstimatedTime *int               `json:"estimated_time"`
	CreatedAt     string             `json:"created_at"`
	UpdatedAt     *string            `json:"updated_at"`
	Items         []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	ID         string  `json:"id"`
	MenuItemID string  `json:"menu_item_id"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
}

func ConnectionEstablished(restaurantID string) Message {
	return Message{
		Type:         TypeConnectionEstablished,
		RestaurantID: restaurantID,
		Message:      "Connected to real-time order updates",
	}
}

func Pong() Message {
	return Message{Type: TypePong, Message: "Connection is alive"}
}

// NewOrderPayload materializes the wire view of an order. Handlers reuse it
// for REST responses so dashboards see one shape everywhere.
func NewOrderPayload(o domain.Order) *OrderPayload {
	items := make([]OrderItemPayload, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemPayload{
			ID:         it.ID,
			MenuItemID: it.MenuItemID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
		})
	}

	var updatedAt *string
	if o.UpdatedAt != nil {
		s := o.UpdatedAt.UTC().Format(time.RFC3339)
		updatedAt = &s
	}

	return &OrderPayload{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		RestaurantID:  o.RestaurantID,
		TableNumber:   o.TableNumber,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		OrderStatus:   string(o.OrderStatus),
		PaymentStatus: string(o.PaymentStatus),
		PaymentMethod: o.PaymentMethod,
		TotalPrice:    o.TotalPrice,
		EstimatedTime: o.EstimatedTime,
		CreatedAt:     o.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     updatedAt,
		Items:         items,
	}
}

// OrderEvent builds an order notification. The envelope timestamp is the
// order's updated_at when set, otherwise created_at.
func OrderEvent(eventType string, o domain.Order) Message {
	payload := NewOrderPayload(o)
	ts := payload.CreatedAt
	if payload.UpdatedAt != nil {
		ts = *payload.UpdatedAt
	}
	return Message{
		Type:      eventType,
		Order:     payload,
		Timestamp: ts,
	}
}
