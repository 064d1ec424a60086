package handlers

import (
	"net/http"

	"qr-ordering/internal/auth"
)

type Handlers struct {
	Orders      *OrderHandler
	Menu        *MenuHandler
	Restaurants *RestaurantHandler
	Customers   *CustomerHandler
	Analytics   *AnalyticsHandler
	Status      *StatusHandler
	WS          *WSHandler
}

// Router wires the public QR flow, the authenticated dashboard API and the
// websocket endpoint. The websocket route authenticates itself from the
// token query parameter, so it sits outside the middleware.
func Router(h Handlers, verifier *auth.Verifier) *http.ServeMux {
	authed := auth.Middleware(verifier)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", Healthz)

	// public QR flow
	mux.HandleFunc("POST /api/v1/public/orders", h.Orders.CreateOrder)
	mux.HandleFunc("GET /api/v1/public/menu/{restaurantID}", h.Menu.PublicMenu)

	// dashboard websocket
	mux.HandleFunc("GET /api/v1/ws/orders", h.WS.OrderUpdates)

	// dashboard API
	mux.Handle("GET /api/v1/orders", authed(http.HandlerFunc(h.Orders.ListOrders)))
	mux.Handle("GET /api/v1/orders/{id}", authed(http.HandlerFunc(h.Orders.GetOrder)))
	mux.Handle("PATCH /api/v1/orders/{id}/status", authed(http.HandlerFunc(h.Orders.UpdateOrderStatus)))

	mux.Handle("POST /api/v1/menu-items", authed(http.HandlerFunc(h.Menu.CreateMenuItem)))
	mux.Handle("GET /api/v1/menu-items", authed(http.HandlerFunc(h.Menu.ListMenuItems)))
	mux.Handle("GET /api/v1/menu-items/{id}", authed(http.HandlerFunc(h.Menu.GetMenuItem)))
	mux.Handle("PUT /api/v1/menu-items/{id}", authed(http.HandlerFunc(h.Menu.UpdateMenuItem)))
	mux.Handle("DELETE /api/v1/menu-items/{id}", authed(http.HandlerFunc(h.Menu.DeleteMenuItem)))

	mux.Handle("GET /api/v1/restaurants/me", authed(http.HandlerFunc(h.Restaurants.GetMine)))
	mux.Handle("PUT /api/v1/restaurants/me", authed(http.HandlerFunc(h.Restaurants.UpdateMine)))

	mux.Handle("GET /api/v1/customers", authed(http.HandlerFunc(h.Customers.ListCustomers)))
	mux.Handle("GET /api/v1/analytics", authed(http.HandlerFunc(h.Analytics.Summary)))
	mux.Handle("GET /api/v1/realtime/status", authed(http.HandlerFunc(h.Status.RealtimeStatus)))

	return mux
}
