package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
	"github.com/immodirect7-wq/immodirect/internal/platform/logger"
	"github.com/immodirect7-wq/immodirect/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type RegisterParams struct {
	Email    string
	Password string
	Phone    string
	Role     entity.Role
}

type UserService interface {
	Register(ctx context.Context, params RegisterParams) (*entity.User, error)
	// Authenticate checks credentials and returns the user on success.
	// Banned users can authenticate but are blocked from paid actions;
	// mirroring that the session layer owns login, not moderation.
	Authenticate(ctx context.Context, email, password string) (*entity.User, error)
	GetByID(ctx context.Context, userID string) (*entity.User, error)
	// SetBanned toggles the ban flag on a user. Admin only.
	SetBanned(ctx context.Context, identity entity.Identity, userID string, banned bool) error
	// SetTrustScore sets a user's trust score within [0,100]. Admin only.
	SetTrustScore(ctx context.Context, identity entity.Identity, userID string, score int) error
}

type userService struct {
	userRepo repository.UserRepository
	log      logger.Logger
}

func NewUserService(userRepo repository.UserRepository, log logger.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log,
	}
}

func (s *userService) Register(ctx context.Context, params RegisterParams) (*entity.User, error) {
	if params.Email == "" || params.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	role := params.Role
	if role == "" {
		role = entity.RoleSeeker
	}
	if role == entity.RoleAdmin {
		// Admins are promoted out of band, never self-registered.
		return nil, ErrForbidden
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := entity.NewUser(params.Email, string(hash), role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	user.Phone = params.Phone

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = userID

	s.log.Infof("User %s registered with role %s", userID, role)
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}
	return user, nil
}

func (s *userService) SetBanned(ctx context.Context, identity entity.Identity, userID string, banned bool) error {
	if identity.UserID == "" {
		return ErrUnauthorized
	}
	if !identity.IsAdmin() {
		return ErrForbidden
	}

	if err := s.userRepo.SetBanned(ctx, userID, banned); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to set ban state for user %s: %w", userID, err)
	}

	s.log.Infof("User %s ban state set to %t by admin %s", userID, banned, identity.UserID)
	return nil
}

func (s *userService) SetTrustScore(ctx context.Context, identity entity.Identity, userID string, score int) error {
	if identity.UserID == "" {
		return ErrUnauthorized
	}
	if !identity.IsAdmin() {
		return ErrForbidden
	}
	if score < 0 || score > 100 {
		return fmt.Errorf("%w: trust score must be within [0,100]", ErrInvalidInput)
	}

	if err := s.userRepo.SetTrustScore(ctx, userID, score); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to set trust score for user %s: %w", userID, err)
	}
	return nil
}
