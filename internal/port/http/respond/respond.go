// Package respond renders the JSON envelope every API route answers with:
// {"code": <http status>, "message": <text>, "data": <optional payload>}.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/immodirect7-wq/immodirect/internal/platform/logger"
	"github.com/immodirect7-wq/immodirect/internal/service"
)

var log = logger.NewNop()

// SetLogger installs the logger used for write failures. Called once during
// application startup; the default discards everything.
func SetLogger(l logger.Logger) {
	log = l
}

type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSON renders an envelope with the given status, message and payload.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	write(w, status, envelope{Code: status, Message: message, Data: data})
}

// Error renders an envelope carrying only a status and message.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Code: status, Message: message})
}

// ServiceError translates a service-layer sentinel into its HTTP status.
// Anything unrecognized is reported as a plain 500 without leaking detail.
func ServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrUserBanned):
		Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidAmount), errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrEmailTaken):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrGatewayUnavailable):
		Error(w, http.StatusServiceUnavailable, "payment gateway unavailable, please retry")
	default:
		Error(w, http.StatusInternalServerError, "internal server error")
	}
}

func write(w http.ResponseWriter, status int, body envelope) {
	buf, err := json.Marshal(body)
	if err != nil {
		log.Errorf("Failed to marshal response envelope: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf); err != nil {
		log.Warnf("Failed to write response body: %v", err)
	}
}
