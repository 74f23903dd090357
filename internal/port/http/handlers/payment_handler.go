package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
	"github.com/immodirect7-wq/immodirect/internal/platform/logger"
	"github.com/immodirect7-wq/immodirect/internal/port/http/middleware"
	"github.com/immodirect7-wq/immodirect/internal/port/http/respond"
	"github.com/immodirect7-wq/immodirect/internal/repository"
	"github.com/immodirect7-wq/immodirect/internal/service"
)

type PaymentHandler struct {
	payments service.PaymentService
	log      logger.Logger
}

func NewPaymentHandler(payments service.PaymentService, log logger.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, log: log}
}

type initiatePaymentRequest struct {
	Amount      int64  `json:"amount"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
	ListingID   string `json:"listing_id"`
	Reason      string `json:"reason"`
}

type initiatePaymentResponse struct {
	Reference string `json:"reference"`
	USSDCode  string `json:"ussd_code,omitempty"`
}

func (h *PaymentHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req initiatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.payments.Initiate(r.Context(), identity, service.InitiatePaymentParams{
		Amount:      req.Amount,
		Phone:       req.Phone,
		Description: req.Description,
		ListingID:   req.ListingID,
		Reason:      entity.PaymentReason(req.Reason),
	})
	if err != nil {
		h.log.Warnf("payment initiation failed for user %s: %v", identity.UserID, err)
		respond.ServiceError(w, err)
		return
	}

	respond.JSON(w, http.StatusAccepted, "payment initiated", initiatePaymentResponse{
		Reference: result.Reference,
		USSDCode:  result.USSDCode,
	})
}

type listTransactionsResponse struct {
	Transactions []transactionResponse `json:"transactions"`
	TotalCount   int64                 `json:"total_count"`
}

func (h *PaymentHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	query := r.URL.Query()
	result, err := h.payments.ListTransactions(r.Context(), identity, repository.ListTransactionsParams{
		UserID:   query.Get("user_id"),
		Status:   query.Get("status"),
		Page:     parseInt(query.Get("page"), 1),
		PageSize: parseInt(query.Get("page_size"), 20),
	})
	if err != nil {
		respond.ServiceError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, "transactions", listTransactionsResponse{
		Transactions: toTransactionResponses(result.Transactions),
		TotalCount:   result.TotalCount,
	})
}
