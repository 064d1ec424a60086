package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"qr-ordering/internal/auth"
	"qr-ordering/internal/domain"
	"qr-ordering/internal/service"
)

type RestaurantHandler struct {
	service service.RestaurantServiceInterface
}

func NewRestaurantHandler(s service.RestaurantServiceInterface) *RestaurantHandler {
	return &RestaurantHandler{service: s}
}

type restaurantResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Address     string  `json:"address"`
	Phone       string  `json:"phone"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   *string `json:"updated_at"`
}

func toRestaurantResponse(r domain.Restaurant) restaurantResponse {
	var updatedAt *string
	if r.UpdatedAt != nil {
		s := r.UpdatedAt.UTC().Format(time.RFC3339)
		updatedAt = &s
	}
	return restaurantResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Address:     r.Address,
		Phone:       r.Phone,
		CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   updatedAt,
	}
}

func (h *RestaurantHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	restaurant, err := h.service.Get(r.Context(), claims.RestaurantID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRestaurantResponse(restaurant))
}

func (h *RestaurantHandler) UpdateMine(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())

	var req domain.UpdateRestaurantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	restaurant, err := h.service.Update(r.Context(), claims.RestaurantID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRestaurantResponse(restaurant))
}
