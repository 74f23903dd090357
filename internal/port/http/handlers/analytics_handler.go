package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/immodirect7-wq/immodirect/internal/platform/logger"
	"github.com/immodirect7-wq/immodirect/internal/port/http/respond"
	"github.com/immodirect7-wq/immodirect/internal/service"
)

type AnalyticsHandler struct {
	analytics service.AnalyticsService
	log       logger.Logger
}

func NewAnalyticsHandler(analytics service.AnalyticsService, log logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, log: log}
}

type pageViewRequest struct {
	Path string `json:"path"`
}

// RecordPageView counts a frontend page visit. No authentication, and the
// visitor is always acked: analytics must not break page loads.
func (h *AnalyticsHandler) RecordPageView(w http.ResponseWriter, r *http.Request) {
	var req pageViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.analytics.RecordPageView(r.Context(), req.Path)
	respond.JSON(w, http.StatusOK, "page view recorded", nil)
}
