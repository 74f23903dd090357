package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/immodirect7-wq/immodirect/internal/auth"
	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
	"github.com/immodirect7-wq/immodirect/internal/platform/logger"
	"github.com/immodirect7-wq/immodirect/internal/port/http/respond"
	"github.com/immodirect7-wq/immodirect/internal/service"
)

type AuthHandler struct {
	users  service.UserService
	tokens *auth.TokenManager
	log    logger.Logger
}

func NewAuthHandler(users service.UserService, tokens *auth.TokenManager, log logger.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, log: log}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     entity.Role(req.Role),
	})
	if err != nil {
		h.log.Warnf("register failed for %s: %v", req.Email, err)
		respond.ServiceError(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, "user registered", toUserResponse(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.ServiceError(w, err)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		h.log.Errorf("token generation failed for user %s: %v", user.ID, err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respond.JSON(w, http.StatusOK, "authenticated", loginResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}
