package service

import (
	"context"

	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
	"github.com/immodirect7-wq/immodirect/internal/platform/logger"
	"github.com/immodirect7-wq/immodirect/internal/repository"
)

// AnalyticsService records anonymous traffic data. Recording is fire and
// forget: a storage failure must never surface to the visitor.
type AnalyticsService interface {
	RecordPageView(ctx context.Context, path string)
}

type analyticsService struct {
	pageViewRepo repository.PageViewRepository
	log          logger.Logger
}

func NewAnalyticsService(pageViewRepo repository.PageViewRepository, log logger.Logger) AnalyticsService {
	return &analyticsService{pageViewRepo: pageViewRepo, log: log}
}

func (s *analyticsService) RecordPageView(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.pageViewRepo.Record(ctx, entity.NewPageView(path)); err != nil {
		s.log.Warnf("Failed to record page view for %s: %v", path, err)
	}
}
