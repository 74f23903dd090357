package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/immodirect7-wq/immodirect/internal/platform/logger"
	"github.com/immodirect7-wq/immodirect/internal/port/http/middleware"
	"github.com/immodirect7-wq/immodirect/internal/port/http/respond"
	"github.com/immodirect7-wq/immodirect/internal/service"
)

type AdminHandler struct {
	users service.UserService
	log   logger.Logger
}

func NewAdminHandler(users service.UserService, log logger.Logger) *AdminHandler {
	return &AdminHandler{users: users, log: log}
}

type setBannedRequest struct {
	Banned bool `json:"banned"`
}

func (h *AdminHandler) SetBanned(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	userID := chi.URLParam(r, "id")
	var req setBannedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.users.SetBanned(r.Context(), identity, userID, req.Banned); err != nil {
		respond.ServiceError(w, err)
		return
	}

	h.log.Infof("admin %s set banned=%t on user %s", identity.UserID, req.Banned, userID)
	respond.JSON(w, http.StatusOK, "ban status updated", nil)
}

type setTrustScoreRequest struct {
	Score int `json:"score"`
}

func (h *AdminHandler) SetTrustScore(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	userID := chi.URLParam(r, "id")
	var req setTrustScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.users.SetTrustScore(r.Context(), identity, userID, req.Score); err != nil {
		respond.ServiceError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, "trust score updated", nil)
}
