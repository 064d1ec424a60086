package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qr-ordering/internal/domain"
)

func testOrder(id, restaurantID string) domain.Order {
	estimated := 14
	return domain.Order{
		ID:            id,
		RestaurantID:  restaurantID,
		OrderNumber:   "ORD-240115103045-A1B2",
		TableNumber:   5,
		CustomerName:  "John Doe",
		CustomerPhone: "+1234567890",
		OrderStatus:   domain.OrderPending,
		PaymentStatus: domain.PaymentPending,
		PaymentMethod: "cash",
		TotalPrice:    25.50,
		EstimatedTime: &estimated,
		CreatedAt:     time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC),
		Items: []domain.OrderItem{
			{ID: "item-1", OrderID: id, MenuItemID: "menu-1", Quantity: 2, UnitPrice: 12.75},
		},
	}
}

func TestOrderEventUsesCreatedAtWhenNeverUpdated(t *testing.T) {
	msg := OrderEvent(TypeOrderCreated, testOrder("o1", "r1"))

	assert.Equal(t, TypeOrderCreated, msg.Type)
	assert.Equal(t, "2024-01-15T10:30:45Z", msg.Timestamp)
	require.NotNil(t, msg.Order)
	assert.Nil(t, msg.Order.UpdatedAt)
	assert.Equal(t, "2024-01-15T10:30:45Z", msg.Order.CreatedAt)
}

func TestOrderEventUsesUpdatedAtWhenPresent(t *testing.T) {
	o := testOrder("o1", "r1")
	updated := o.CreatedAt.Add(10 * time.Minute)
	o.UpdatedAt = &updated

	msg := OrderEvent(TypeOrderStatusChanged, o)

	assert.Equal(t, "2024-01-15T10:40:45Z", msg.Timestamp)
	require.NotNil(t, msg.Order.UpdatedAt)
	assert.Equal(t, "2024-01-15T10:40:45Z", *msg.Order.UpdatedAt)
}

func TestOrderEventWireShape(t *testing.T) {
	data, err := json.Marshal(OrderEvent(TypeOrderCreated, testOrder("o1", "r1")))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, "order_created", raw["type"])
	assert.NotContains(t, raw, "restaurant_id", "envelope restaurant_id is reserved for connection_established")
	assert.NotContains(t, raw, "message")

	order, ok := raw["order"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "o1", order["id"])
	assert.Equal(t, "r1", order["restaurant_id"])
	assert.Equal(t, float64(5), order["table_number"])
	assert.Equal(t, 25.50, order["total_price"])
	assert.Contains(t, order, "updated_at", "updated_at must be explicit null, not omitted")
	assert.Nil(t, order["updated_at"])

	items, ok := order["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "menu-1", item["menu_item_id"])
	assert.Equal(t, float64(2), item["quantity"])
}

func TestConnectionEstablishedShape(t *testing.T) {
	data, err := json.Marshal(ConnectionEstablished("r1"))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "connection_established", raw["type"])
	assert.Equal(t, "r1", raw["restaurant_id"])
	assert.Equal(t, "Connected to real-time order updates", raw["message"])
	assert.NotContains(t, raw, "order")
	assert.NotContains(t, raw, "timestamp")
}

func TestPongShape(t *testing.T) {
	msg := Pong()
	assert.Equal(t, TypePong, msg.Type)
	assert.Equal(t, "Connection is alive", msg.Message)
}
