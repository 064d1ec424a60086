package handlers

import (
	"net/http"
	"strconv"
	"time"

	"qr-ordering/internal/auth"
	"qr-ordering/internal/service"
)

type CustomerHandler struct {
	service service.CustomerServiceInterface
}

func NewCustomerHandler(s service.CustomerServiceInterface) *CustomerHandler {
	return &CustomerHandler{service: s}
}

type customerResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	OrdersCount int    `json:"orders_count"`
	CreatedAt   string `json:"created_at"`
}

func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	customers, err := h.service.List(r.Context(), claims.RestaurantID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]customerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, customerResponse{
			ID:          c.ID,
			Name:        c.Name,
			Phone:       c.Phone,
			OrdersCount: c.OrdersCount,
			CreatedAt:   c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
