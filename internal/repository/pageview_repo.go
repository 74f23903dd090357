package repository

import (
	"context"

	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
)

type PageViewRepository interface {
	Record(ctx context.Context, view *entity.PageView) error
}
