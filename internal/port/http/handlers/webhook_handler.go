package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/immodirect7-wq/immodirect/internal/platform/logger"
	"github.com/immodirect7-wq/immodirect/internal/platform/metrics"
	"github.com/immodirect7-wq/immodirect/internal/port/http/respond"
	"github.com/immodirect7-wq/immodirect/internal/service"
)

type WebhookHandler struct {
	payments service.PaymentService
	metrics  *metrics.Metrics
	log      logger.Logger
}

func NewWebhookHandler(payments service.PaymentService, m *metrics.Metrics, log logger.Logger) *WebhookHandler {
	return &WebhookHandler{payments: payments, metrics: m, log: log}
}

// gatewayNotification is the inbound webhook body. Only external_reference
// is acted on: it correlates the notification to our ledger row, and the
// authoritative status is re-verified against the gateway. The status and
// amount fields in the body are logged but never trusted.
type gatewayNotification struct {
	Status            string `json:"status"`
	Reference         string `json:"reference"`
	Amount            string `json:"amount"`
	Currency          string `json:"currency"`
	ExternalReference string `json:"external_reference"`
}

type webhookResponse struct {
	Received bool `json:"received"`
}

func (h *WebhookHandler) HandleNotification(w http.ResponseWriter, r *http.Request) {
	var payload gatewayNotification
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.metrics.WebhookRejections.WithLabelValues("bad_payload").Inc()
		respond.Error(w, http.StatusBadRequest, "invalid webhook payload")
		return
	}
	if payload.ExternalReference == "" {
		h.metrics.WebhookRejections.WithLabelValues("missing_reference").Inc()
		respond.Error(w, http.StatusBadRequest, "missing external_reference")
		return
	}

	h.log.Infof("webhook received: reference=%s claimed_status=%s", payload.ExternalReference, payload.Status)

	result, err := h.payments.Confirm(r.Context(), payload.ExternalReference)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respond.Error(w, http.StatusNotFound, "unknown payment reference")
		case errors.Is(err, service.ErrGatewayUnavailable):
			// 503 makes a retrying gateway deliver the notification
			// again once verification can succeed.
			respond.Error(w, http.StatusServiceUnavailable, "verification unavailable, retry later")
		default:
			h.log.Errorf("webhook confirmation failed for %s: %v", payload.ExternalReference, err)
			respond.Error(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.log.Infof("webhook processed: reference=%s status=%s applied=%t", result.Reference, result.Status, result.Applied)
	respond.JSON(w, http.StatusOK, "notification received", webhookResponse{Received: true})
}
