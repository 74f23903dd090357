package repository

import (
	"context"
	"time"

	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) (string, error)
	GetByID(ctx context.Context, userID string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GrantPass activates the user's visit pass with the given expiry,
	// overwriting any prior expiry. Passes reset, they do not stack.
	GrantPass(ctx context.Context, userID string, expiry time.Time) error
	SetBanned(ctx context.Context, userID string, banned bool) error
	SetTrustScore(ctx context.Context, userID string, score int) error
}
