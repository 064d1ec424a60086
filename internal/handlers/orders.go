package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"qr-ordering/internal/auth"
	"qr-ordering/internal/domain"
	"qr-ordering/internal/realtime"
	"qr-ordering/internal/service"
)

type OrderHandler struct {
	service service.OrderServiceInterface
}

func NewOrderHandler(s service.OrderServiceInterface) *OrderHandler {
	return &OrderHandler{service: s}
}

// CreateOrder is the public QR-flow entry point; it carries the restaurant
// id in the body because the customer has no session.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	order, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, realtime.NewOrderPayload(order))
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	status := domain.OrderStatus(r.URL.Query().Get("status"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	orders, err := h.service.List(r.Context(), claims.RestaurantID, status, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]*realtime.OrderPayload, 0, len(orders))
	for _, o := range orders {
		out = append(out, realtime.NewOrderPayload(o))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	order, err := h.service.Get(r.Context(), claims.RestaurantID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, realtime.NewOrderPayload(order))
}

func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())

	var req domain.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), claims.RestaurantID, r.PathValue("id"), req.OrderStatus)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, realtime.NewOrderPayload(order))
}
