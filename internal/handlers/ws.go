package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"

	"qr-ordering/internal/auth"
	"qr-ordering/internal/common/logger"
	"qr-ordering/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboards are served from a different origin than the API.
	CheckOrigin: func(*http.Request) bool { return true },
}

const maxInboundMessageSize = 4 * 1024

type WSHandler struct {
	registry *realtime.Registry
	poller   *realtime.Poller
	verifier *auth.Verifier
	log      *logger.Logger
}

func NewWSHandler(registry *realtime.Registry, poller *realtime.Poller, verifier *auth.Verifier, log *logger.Logger) *WSHandler {
	return &WSHandler{registry: registry, poller: poller, verifier: verifier, log: log}
}

// OrderUpdates upgrades the connection, authenticates the session from the
// token query parameter and keeps it registered until the read loop ends.
// Auth failures close the socket with a policy violation before any registry
// state exists.
func (h *WSHandler) OrderUpdates(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("ws_upgrade_failed", err, nil)
		return
	}

	claims, err := h.verifier.Verify(r.URL.Query().Get("token"))
	if err != nil {
		h.closePolicyViolation(conn, "Authentication failed")
		return
	}
	if claims.RestaurantID == "" {
		h.closePolicyViolation(conn, "No restaurant associated")
		return
	}

	client := realtime.NewClient(realtime.NewWSConn(conn))
	h.registry.Connect(client, claims.RestaurantID)
	defer func() {
		h.registry.Disconnect(client)
		client.Close()
	}()

	// The loop only needs live viewers; the first one starts it.
	if !h.poller.IsRunning() {
		h.poller.Start()
	}

	conn.SetReadLimit(maxInboundMessageSize)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("ws_read_closed", map[string]any{"restaurant_id": claims.RestaurantID, "reason": err.Error()})
			}
			return
		}
		h.handleInbound(client, data)
	}
}

// handleInbound processes one client message. Only the ping keepalive is
// understood; everything else is ignored.
func (h *WSHandler) handleInbound(client *realtime.Client, data []byte) {
	if string(data) == "ping" {
		h.registry.Send(client, realtime.Pong())
	}
}

func (h *WSHandler) closePolicyViolation(conn *websocket.Conn, reason string) {
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	_ = conn.WriteMessage(websocket.CloseMessage, msg)
	_ = conn.Close()
}
