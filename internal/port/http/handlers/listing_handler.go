package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
	"github.com/immodirect7-wq/immodirect/internal/platform/logger"
	"github.com/immodirect7-wq/immodirect/internal/port/http/middleware"
	"github.com/immodirect7-wq/immodirect/internal/port/http/respond"
	"github.com/immodirect7-wq/immodirect/internal/repository"
	"github.com/immodirect7-wq/immodirect/internal/service"
)

type ListingHandler struct {
	listings service.ListingService
	access   service.AccessService
	users    service.UserService
	log      logger.Logger
}

func NewListingHandler(listings service.ListingService, access service.AccessService, users service.UserService, log logger.Logger) *ListingHandler {
	return &ListingHandler{listings: listings, access: access, users: users, log: log}
}

type createListingRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Price         int64    `json:"price"`
	Neighborhood  string   `json:"neighborhood"`
	City          string   `json:"city"`
	AdvanceMonths int      `json:"advance_months"`
	Images        []string `json:"images"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	listing, err := h.listings.Create(r.Context(), identity, service.CreateListingParams{
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		Neighborhood:  req.Neighborhood,
		City:          req.City,
		AdvanceMonths: req.AdvanceMonths,
		Images:        req.Images,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
	})
	if err != nil {
		respond.ServiceError(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, "listing created", toListingResponse(listing))
}

type listingDetailResponse struct {
	listingResponse
	OwnerTrustScore *int                   `json:"owner_trust_score,omitempty"`
	Contact         *service.ContactAccess `json:"contact,omitempty"`
}

// GetByID returns the listing plus the contact verdict for the current
// viewer. Anonymous viewers get the listing with a locked contact section.
func (h *ListingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")

	listing, err := h.listings.GetByID(r.Context(), listingID)
	if err != nil {
		respond.ServiceError(w, err)
		return
	}

	viewerID := ""
	if identity, ok := middleware.IdentityFromContext(r.Context()); ok {
		viewerID = identity.UserID
	}

	detail := listingDetailResponse{listingResponse: toListingResponse(listing)}
	if owner, ownerErr := h.users.GetByID(r.Context(), listing.OwnerID); ownerErr == nil {
		detail.OwnerTrustScore = &owner.TrustScore
	}

	contact, err := h.access.EvaluateContact(r.Context(), listingID, viewerID)
	if err != nil {
		// Detail still renders when the contact evaluation fails; the
		// section is simply absent rather than wrongly unlocked.
		h.log.Warnf("contact evaluation failed for listing %s: %v", listingID, err)
	} else {
		detail.Contact = contact
	}

	respond.JSON(w, http.StatusOK, "listing", detail)
}

// Contact exposes the access verdict on its own, for clients that fetch the
// paywall state lazily.
func (h *ListingHandler) Contact(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")

	viewerID := ""
	if identity, ok := middleware.IdentityFromContext(r.Context()); ok {
		viewerID = identity.UserID
	}

	contact, err := h.access.EvaluateContact(r.Context(), listingID, viewerID)
	if err != nil {
		respond.ServiceError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, "contact access", contact)
}

type updateListingRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Price         int64    `json:"price"`
	City          string   `json:"city"`
	Neighborhood  string   `json:"neighborhood"`
	AdvanceMonths int      `json:"advance_months"`
	Images        []string `json:"images"`
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	listingID := chi.URLParam(r, "id")
	var req updateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	listing, err := h.listings.Update(r.Context(), identity, listingID, service.UpdateListingParams{
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		City:          req.City,
		Neighborhood:  req.Neighborhood,
		AdvanceMonths: req.AdvanceMonths,
		Images:        req.Images,
	})
	if err != nil {
		respond.ServiceError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, "listing updated", toListingResponse(listing))
}

type updateListingStatusRequest struct {
	Status string `json:"status"`
}

func (h *ListingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	listingID := chi.URLParam(r, "id")
	var req updateListingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	listing, err := h.listings.UpdateStatus(r.Context(), identity, listingID, entity.ListingStatus(req.Status))
	if err != nil {
		respond.ServiceError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, "listing status updated", toListingResponse(listing))
}

func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	listingID := chi.URLParam(r, "id")
	if err := h.listings.Delete(r.Context(), identity, listingID); err != nil {
		respond.ServiceError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, "listing deleted", nil)
}

type searchListingsResponse struct {
	Listings   []listingResponse `json:"listings"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
}

func (h *ListingHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := repository.SearchListingsParams{
		City:     query.Get("city"),
		MinPrice: parseInt64(query.Get("min_price")),
		MaxPrice: parseInt64(query.Get("max_price")),
		Page:     parseInt(query.Get("page"), 1),
		PageSize: parseInt(query.Get("page_size"), 20),
	}

	result, err := h.listings.Search(r.Context(), params)
	if err != nil {
		respond.ServiceError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, "listings", searchListingsResponse{
		Listings:   toListingResponses(result.Listings),
		TotalCount: result.TotalCount,
		Page:       params.Page,
		PageSize:   params.PageSize,
	})
}

func parseInt64(raw string) int64 {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(raw string, fallback int) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
