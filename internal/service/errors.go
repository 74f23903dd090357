package service

import "errors"

var (
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("operation not allowed for this user")
	ErrUserBanned         = errors.New("user account is banned")
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidAmount      = errors.New("amount does not match the configured price")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)
