package realtime

import (
	"encoding/json"
	"sync"

	"qr-ordering/internal/common/logger"
	"qr-ordering/internal/domain"
)

// Registry tracks which dashboard sessions belong to which restaurant and
// fans notification payloads out to them. A client is registered under at
// most one restaurant; a restaurant key exists only while it has at least
// one client. Both maps are mutated together under one lock so no partial
// state is ever observable.
type Registry struct {
	mu          sync.RWMutex
	byTenant    map[string]map[*Client]struct{}
	restaurants map[*Client]string // reverse index for O(1) disconnect

	log *logger.Logger
}

func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{
		byTenant:    make(map[string]map[*Client]struct{}),
		restaurants: make(map[*Client]string),
		log:         log,
	}
}

// Connect registers the client and acknowledges it with a
// connection_established message. A failed acknowledgment is handled like
// any other failed send.
func (r *Registry) Connect(c *Client, restaurantID string) {
	r.mu.Lock()
	set, ok := r.byTenant[restaurantID]
	if !ok {
		set = make(map[*Client]struct{})
		r.byTenant[restaurantID] = set
	}
	set[c] = struct{}{}
	r.restaurants[c] = restaurantID
	r.mu.Unlock()

	r.log.Info("ws_connected", map[string]any{"restaurant_id": restaurantID})
	r.Send(c, ConnectionEstablished(restaurantID))
}

// Disconnect removes the client from both maps. Safe to call repeatedly and
// from failed-send cleanup; unknown clients are a no-op.
func (r *Registry) Disconnect(c *Client) {
	r.mu.Lock()
	restaurantID, ok := r.restaurants[c]
	if ok {
		if set, found := r.byTenant[restaurantID]; found {
			delete(set, c)
			if len(set) == 0 {
				delete(r.byTenant, restaurantID)
			}
		}
		delete(r.restaurants, c)
	}
	r.mu.Unlock()

	if ok {
		r.log.Info("ws_disconnected", map[string]any{"restaurant_id": restaurantID})
	}
}

// Send writes one message to one client. Delivery failures never propagate:
// the broken client is logged and deregistered.
func (r *Registry) Send(c *Client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		r.log.Error("ws_marshal_failed", err, map[string]any{"type": msg.Type})
		return
	}
	if err := c.write(data); err != nil {
		r.log.Error("ws_send_failed", err, map[string]any{"type": msg.Type})
		r.Disconnect(c)
	}
}

// Broadcast delivers msg to every client of one restaurant. The client set
// is copied under the read lock before iterating: a failed send disconnects
// the client, which mutates the set being walked.
func (r *Registry) Broadcast(restaurantID string, msg Message) {
	r.mu.RLock()
	set, ok := r.byTenant[restaurantID]
	if !ok {
		r.mu.RUnlock()
		return
	}
	clients := make([]*Client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}
	r.mu.RUnlock()

	for _, c := range clients {
		r.Send(c, msg)
	}
}

func (r *Registry) BroadcastOrderCreated(o domain.Order) {
	r.Broadcast(o.RestaurantID, OrderEvent(TypeOrderCreated, o))
	r.log.Debug("order_created_broadcast", map[string]any{"order_id": o.ID, "restaurant_id": o.RestaurantID})
}

func (r *Registry) BroadcastOrderStatusChanged(o domain.Order) {
	r.Broadcast(o.RestaurantID, OrderEvent(TypeOrderStatusChanged, o))
	r.log.Debug("order_status_broadcast", map[string]any{"order_id": o.ID, "restaurant_id": o.RestaurantID})
}

func (r *Registry) ConnectionCount(restaurantID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byTenant[restaurantID])
}

func (r *Registry) TotalConnections() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, set := range r.byTenant {
		total += len(set)
	}
	return total
}

func (r *Registry) ConnectedRestaurants() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.byTenant))
	for id := range r.byTenant {
		ids = append(ids, id)
	}
	return ids
}
