package repository

import (
	"context"

	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
)

type SettingRepository interface {
	GetAll(ctx context.Context) ([]entity.PlatformSetting, error)
	Upsert(ctx context.Context, setting entity.PlatformSetting) error
}
