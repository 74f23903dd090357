package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
	"github.com/immodirect7-wq/immodirect/internal/platform/logger"
	"github.com/immodirect7-wq/immodirect/internal/port/http/middleware"
	"github.com/immodirect7-wq/immodirect/internal/port/http/respond"
	"github.com/immodirect7-wq/immodirect/internal/service"
)

type AlertHandler struct {
	alerts service.AlertService
	log    logger.Logger
}

func NewAlertHandler(alerts service.AlertService, log logger.Logger) *AlertHandler {
	return &AlertHandler{alerts: alerts, log: log}
}

type createAlertRequest struct {
	City         string `json:"city"`
	Neighborhood string `json:"neighborhood"`
	MinPrice     *int64 `json:"min_price"`
	MaxPrice     *int64 `json:"max_price"`
	Bedrooms     *int   `json:"bedrooms"`
}

type alertResponse struct {
	ID           string    `json:"id"`
	City         string    `json:"city,omitempty"`
	Neighborhood string    `json:"neighborhood,omitempty"`
	MinPrice     *int64    `json:"min_price,omitempty"`
	MaxPrice     *int64    `json:"max_price,omitempty"`
	Bedrooms     *int      `json:"bedrooms,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func toAlertResponse(alert *entity.Alert) alertResponse {
	return alertResponse{
		ID:           alert.ID,
		City:         alert.City,
		Neighborhood: alert.Neighborhood,
		MinPrice:     alert.MinPrice,
		MaxPrice:     alert.MaxPrice,
		Bedrooms:     alert.Bedrooms,
		CreatedAt:    alert.CreatedAt,
	}
}

func (h *AlertHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	alert, err := h.alerts.Create(r.Context(), identity, service.CreateAlertParams{
		City:         req.City,
		Neighborhood: req.Neighborhood,
		MinPrice:     req.MinPrice,
		MaxPrice:     req.MaxPrice,
		Bedrooms:     req.Bedrooms,
	})
	if err != nil {
		respond.ServiceError(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, "alert created", toAlertResponse(alert))
}

func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	alerts, err := h.alerts.ListOwn(r.Context(), identity)
	if err != nil {
		respond.ServiceError(w, err)
		return
	}

	responses := make([]alertResponse, 0, len(alerts))
	for i := range alerts {
		responses = append(responses, toAlertResponse(&alerts[i]))
	}
	respond.JSON(w, http.StatusOK, "alerts", responses)
}

func (h *AlertHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	alertID := chi.URLParam(r, "id")
	if err := h.alerts.Delete(r.Context(), identity, alertID); err != nil {
		respond.ServiceError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, "alert deleted", nil)
}
