package handlers

import (
	"net/http"

	"github.com/immodirect7-wq/immodirect/internal/port/http/respond"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, "ok", nil)
}
