package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qr-ordering/internal/auth"
	"qr-ordering/internal/common/logger"
	"qr-ordering/internal/config"
	"qr-ordering/internal/domain"
	"qr-ordering/internal/realtime"
)

type recordingConn struct {
	mu     sync.Mutex
	writes [][]byte
}

func (c *recordingConn) WriteMessage(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	c.writes = append(c.writes, buf)
	return nil
}

func (c *recordingConn) Close() error { return nil }

func (c *recordingConn) last(t *testing.T) realtime.Message {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.writes)
	var msg realtime.Message
	require.NoError(t, json.Unmarshal(c.writes[len(c.writes)-1], &msg))
	return msg
}

type fakeOrderService struct {
	created   domain.Order
	createErr error
}

func (s *fakeOrderService) Create(_ context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	if s.createErr != nil {
		return domain.Order{}, s.createErr
	}
	out := s.created
	out.RestaurantID = req.RestaurantID
	return out, nil
}

func (s *fakeOrderService) Get(_ context.Context, restaurantID, orderID string) (domain.Order, error) {
	if orderID != s.created.ID || restaurantID != s.created.RestaurantID {
		return domain.Order{}, domain.ErrNotFound
	}
	return s.created, nil
}

func (s *fakeOrderService) List(context.Context, string, domain.OrderStatus, int, int) ([]domain.Order, error) {
	return []domain.Order{s.created}, nil
}

func (s *fakeOrderService) UpdateStatus(_ context.Context, _, _ string, status domain.OrderStatus) (domain.Order, error) {
	out := s.created
	out.OrderStatus = status
	return out, nil
}

// emptyStore satisfies the poller without a database behind it.
type emptyStore struct{}

func (emptyStore) CreatedSince(context.Context, string, time.Time) ([]domain.Order, error) {
	return nil, nil
}

func (emptyStore) UpdatedAfter(context.Context, string, time.Time) ([]domain.Order, error) {
	return nil, nil
}

func testRealtimePair() (*realtime.Registry, *realtime.Poller) {
	log := logger.New("test")
	registry := realtime.NewRegistry(log)
	cfg := config.Realtime{
		PollInterval:  config.Duration(time.Second),
		RetryInterval: config.Duration(time.Second),
		Lookback:      config.Duration(5 * time.Minute),
	}
	tenants := func() ([]string, error) { return registry.ConnectedRestaurants(), nil }
	poller := realtime.NewPoller(emptyStore{}, registry, tenants, cfg, log)
	return registry, poller
}

func withClaims(r *http.Request, restaurantID string) *http.Request {
	claims := &auth.Claims{RestaurantID: restaurantID}
	return r.WithContext(auth.WithClaims(r.Context(), claims))
}

func TestPingKeepaliveAnswersPong(t *testing.T) {
	registry, poller := testRealtimePair()
	h := NewWSHandler(registry, poller, auth.NewVerifier("x"), logger.New("test"))

	conn := &recordingConn{}
	client := realtime.NewClient(conn)
	registry.Connect(client, "r1")

	h.handleInbound(client, []byte("ping"))

	msg := conn.last(t)
	assert.Equal(t, realtime.TypePong, msg.Type)
	assert.Equal(t, "Connection is alive", msg.Message)
}

func TestUnknownInboundMessageIgnored(t *testing.T) {
	registry, poller := testRealtimePair()
	h := NewWSHandler(registry, poller, auth.NewVerifier("x"), logger.New("test"))

	conn := &recordingConn{}
	client := realtime.NewClient(conn)
	registry.Connect(client, "r1")

	h.handleInbound(client, []byte(`{"type":"subscribe"}`))

	conn.mu.Lock()
	defer conn.mu.Unlock()
	assert.Len(t, conn.writes, 1, "only the connection acknowledgment should be written")
}

func TestRealtimeStatus(t *testing.T) {
	registry, poller := testRealtimePair()
	registry.Connect(realtime.NewClient(&recordingConn{}), "r1")
	registry.Connect(realtime.NewClient(&recordingConn{}), "r1")
	registry.Connect(realtime.NewClient(&recordingConn{}), "r2")

	h := NewStatusHandler(registry, poller)
	req := withClaims(httptest.NewRequest(http.MethodGet, "/api/v1/realtime/status", nil), "r1")
	rec := httptest.NewRecorder()
	h.RealtimeStatus(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp realtimeStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.ConnectionCount)
	assert.Equal(t, 3, resp.TotalConnections)
	assert.ElementsMatch(t, []string{"r1", "r2"}, resp.ConnectedRestaurants)
	assert.False(t, resp.RealtimeRunning, "no poller was started")
}

func TestCreateOrderResponseShape(t *testing.T) {
	estimated := 14
	svc := &fakeOrderService{created: domain.Order{
		ID:            "o1",
		OrderNumber:   "ORD-240115103045-A1B2",
		TableNumber:   5,
		OrderStatus:   domain.OrderPending,
		PaymentStatus: domain.PaymentPending,
		TotalPrice:    25.50,
		EstimatedTime: &estimated,
		CreatedAt:     time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC),
	}}
	h := NewOrderHandler(svc)

	body := `{"restaurant_id":"r1","table_number":5,"customer_name":"John","customer_phone":"+1234567890","items":[{"menu_item_id":"m1","quantity":2,"unit_price":12.75}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/public/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateOrder(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Equal(t, "o1", raw["id"])
	assert.Equal(t, "r1", raw["restaurant_id"])
	assert.Contains(t, raw, "updated_at", "updated_at is an explicit null before the first status change")
	assert.Nil(t, raw["updated_at"])
}

func TestCreateOrderRejectsBadJSON(t *testing.T) {
	h := NewOrderHandler(&fakeOrderService{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/public/orders", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	h.CreateOrder(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrderErrorMapping(t *testing.T) {
	h := NewOrderHandler(&fakeOrderService{created: domain.Order{ID: "o1", RestaurantID: "r1"}})

	req := withClaims(httptest.NewRequest(http.MethodGet, "/api/v1/orders/missing", nil), "r1")
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	h.GetOrder(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func signTestToken(t *testing.T, secret, restaurantID string) string {
	t.Helper()
	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		RestaurantID:     restaurantID,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestWebSocketSessionOverHTTP(t *testing.T) {
	registry, poller := testRealtimePair()
	defer poller.Stop()
	h := NewWSHandler(registry, poller, auth.NewVerifier("ws-secret"), logger.New("test"))

	srv := httptest.NewServer(http.HandlerFunc(h.OrderUpdates))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?token=" + signTestToken(t, "ws-secret", "r1")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	var ack realtime.Message
	require.NoError(t, conn.ReadJSON(&ack))
	assert.Equal(t, realtime.TypeConnectionEstablished, ack.Type)
	assert.Equal(t, "r1", ack.RestaurantID)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("ping")))
	var pong realtime.Message
	require.NoError(t, conn.ReadJSON(&pong))
	assert.Equal(t, realtime.TypePong, pong.Type)

	assert.True(t, poller.IsRunning(), "first viewer starts the detection loop")
}
