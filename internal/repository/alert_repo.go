package repository

import (
	"context"

	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
)

type AlertRepository interface {
	Create(ctx context.Context, alert *entity.Alert) (string, error)
	GetByID(ctx context.Context, alertID string) (*entity.Alert, error)
	// ListByUser returns the user's alerts newest first.
	ListByUser(ctx context.Context, userID string) ([]entity.Alert, error)
	Delete(ctx context.Context, alertID string) error
}
