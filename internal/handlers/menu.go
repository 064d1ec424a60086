package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"qr-ordering/internal/auth"
	"qr-ordering/internal/domain"
	"qr-ordering/internal/service"
)

type MenuHandler struct {
	service service.MenuServiceInterface
}

func NewMenuHandler(s service.MenuServiceInterface) *MenuHandler {
	return &MenuHandler{service: s}
}

type menuItemResponse struct {
	ID           string  `json:"id"`
	RestaurantID string  `json:"restaurant_id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Price        float64 `json:"price"`
	ImageURL     string  `json:"image_url"`
	IsAvailable  bool    `json:"is_available"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    *string `json:"updated_at"`
}

func toMenuItemResponse(item domain.MenuItem) menuItemResponse {
	var updatedAt *string
	if item.UpdatedAt != nil {
		s := item.UpdatedAt.UTC().Format(time.RFC3339)
		updatedAt = &s
	}
	return menuItemResponse{
		ID:           item.ID,
		RestaurantID: item.RestaurantID,
		Name:         item.Name,
		Description:  item.Description,
		Category:     item.Category,
		Price:        item.Price,
		ImageURL:     item.ImageURL,
		IsAvailable:  item.IsAvailable,
		CreatedAt:    item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    updatedAt,
	}
}

func toMenuItemResponses(items []domain.MenuItem) []menuItemResponse {
	out := make([]menuItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toMenuItemResponse(item))
	}
	return out
}

func (h *MenuHandler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())

	var req domain.MenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	item, err := h.service.Create(r.Context(), claims.RestaurantID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMenuItemResponse(item))
}

func (h *MenuHandler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	items, err := h.service.List(r.Context(), claims.RestaurantID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuItemResponses(items))
}

func (h *MenuHandler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	item, err := h.service.Get(r.Context(), claims.RestaurantID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuItemResponse(item))
}

func (h *MenuHandler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())

	var req domain.MenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	item, err := h.service.Update(r.Context(), claims.RestaurantID, r.PathValue("id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuItemResponse(item))
}

func (h *MenuHandler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	if err := h.service.Delete(r.Context(), claims.RestaurantID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PublicMenu serves the QR-scan menu without authentication.
func (h *MenuHandler) PublicMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.PublicMenu(r.Context(), r.PathValue("restaurantID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuItemResponses(items))
}
