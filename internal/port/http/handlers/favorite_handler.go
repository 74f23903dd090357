package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/immodirect7-wq/immodirect/internal/platform/logger"
	"github.com/immodirect7-wq/immodirect/internal/port/http/middleware"
	"github.com/immodirect7-wq/immodirect/internal/port/http/respond"
	"github.com/immodirect7-wq/immodirect/internal/service"
)

type FavoriteHandler struct {
	favorites service.FavoriteService
	log       logger.Logger
}

func NewFavoriteHandler(favorites service.FavoriteService, log logger.Logger) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites, log: log}
}

type toggleFavoriteRequest struct {
	ListingID string `json:"listing_id"`
}

type toggleFavoriteResponse struct {
	IsFavorited bool `json:"is_favorited"`
}

// Toggle adds the listing to the user's favorites, or removes it when it is
// already there. Adding answers 201, removing 200.
func (h *FavoriteHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req toggleFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ListingID == "" {
		respond.Error(w, http.StatusBadRequest, "listing id is required")
		return
	}

	isFavorited, err := h.favorites.Toggle(r.Context(), identity, req.ListingID)
	if err != nil {
		respond.ServiceError(w, err)
		return
	}

	if isFavorited {
		respond.JSON(w, http.StatusCreated, "added to favorites", toggleFavoriteResponse{IsFavorited: true})
		return
	}
	respond.JSON(w, http.StatusOK, "removed from favorites", toggleFavoriteResponse{IsFavorited: false})
}
