package handlers

import (
	"net/http"

	"qr-ordering/internal/auth"
	"qr-ordering/internal/realtime"
)

type StatusHandler struct {
	registry *realtime.Registry
	poller   *realtime.Poller
}

func NewStatusHandler(registry *realtime.Registry, poller *realtime.Poller) *StatusHandler {
	return &StatusHandler{registry: registry, poller: poller}
}

type realtimeStatusResponse struct {
	ConnectionCount      int      `json:"connection_count"`
	TotalConnections     int      `json:"total_connections"`
	ConnectedRestaurants []string `json:"connected_restaurants"`
	RealtimeRunning      bool     `json:"realtime_running"`
}

// RealtimeStatus reports the notification layer's state for the caller's
// restaurant.
func (h *StatusHandler) RealtimeStatus(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	writeJSON(w, http.StatusOK, realtimeStatusResponse{
		ConnectionCount:      h.registry.ConnectionCount(claims.RestaurantID),
		TotalConnections:     h.registry.TotalConnections(),
		ConnectedRestaurants: h.registry.ConnectedRestaurants(),
		RealtimeRunning:      h.poller.IsRunning(),
	})
}

func Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
