package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
	"github.com/immodirect7-wq/immodirect/internal/platform/logger"
	"github.com/immodirect7-wq/immodirect/internal/port/http/middleware"
	"github.com/immodirect7-wq/immodirect/internal/port/http/respond"
	"github.com/immodirect7-wq/immodirect/internal/service"
)

type SettingsHandler struct {
	pricing service.PricingService
	log     logger.Logger
}

func NewSettingsHandler(pricing service.PricingService, log logger.Logger) *SettingsHandler {
	return &SettingsHandler{pricing: pricing, log: log}
}

type pricingResponse struct {
	ListingPrice int64 `json:"listing_price"`
	PassPrice    int64 `json:"pass_price"`
	UnlockPrice  int64 `json:"unlock_price"`
	FreeContact  bool  `json:"free_contact"`
}

func toPricingResponse(p entity.Pricing) pricingResponse {
	return pricingResponse{
		ListingPrice: p.ListingPrice,
		PassPrice:    p.PassPrice,
		UnlockPrice:  entity.UnlockPrice,
		FreeContact:  p.FreeContactEnabled(),
	}
}

// GetPricing is public: clients need the current prices to render paywall
// options before any payment starts.
func (h *SettingsHandler) GetPricing(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, "pricing", toPricingResponse(h.pricing.Get(r.Context())))
}

type updatePricingRequest struct {
	ListingPrice *int64 `json:"listing_price"`
	PassPrice    *int64 `json:"pass_price"`
	FreeContact  *int64 `json:"free_contact"`
}

func (h *SettingsHandler) UpdatePricing(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req updatePricingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pricing, err := h.pricing.Set(r.Context(), identity, service.PricingUpdate{
		ListingPrice: req.ListingPrice,
		PassPrice:    req.PassPrice,
		FreeContact:  req.FreeContact,
	})
	if err != nil {
		respond.ServiceError(w, err)
		return
	}

	h.log.Infof("platform pricing updated by admin %s", identity.UserID)
	respond.JSON(w, http.StatusOK, "pricing updated", toPricingResponse(pricing))
}
