package handlers

import (
	"net/http"
	"strconv"

	"qr-ordering/internal/auth"
	"qr-ordering/internal/service"
)

type AnalyticsHandler struct {
	service service.AnalyticsServiceInterface
}

func NewAnalyticsHandler(s service.AnalyticsServiceInterface) *AnalyticsHandler {
	return &AnalyticsHandler{service: s}
}

func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	summary, err := h.service.Summary(r.Context(), claims.RestaurantID, days)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
