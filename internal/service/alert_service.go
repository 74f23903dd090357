package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/immodirect7-wq/immodirect/internal/domain/entity"
	"github.com/immodirect7-wq/immodirect/internal/platform/logger"
	"github.com/immodirect7-wq/immodirect/internal/repository"
)

type CreateAlertParams struct {
	City         string
	Neighborhood string
	MinPrice     *int64
	MaxPrice     *int64
	Bedrooms     *int
}

// AlertService manages saved searches. Alerts are private to their owner:
// listing and deletion only ever touch the caller's own alerts.
type AlertService interface {
	Create(ctx context.Context, identity entity.Identity, params CreateAlertParams) (*entity.Alert, error)
	ListOwn(ctx context.Context, identity entity.Identity) ([]entity.Alert, error)
	Delete(ctx context.Context, identity entity.Identity, alertID string) error
}

type alertService struct {
	alertRepo repository.AlertRepository
	log       logger.Logger
}

func NewAlertService(alertRepo repository.AlertRepository, log logger.Logger) AlertService {
	return &alertService{alertRepo: alertRepo, log: log}
}

func (s *alertService) Create(ctx context.Context, identity entity.Identity, params CreateAlertParams) (*entity.Alert, error) {
	if identity.UserID == "" {
		return nil, ErrUnauthorized
	}

	alert, err := entity.NewAlert(identity.UserID, params.City, params.Neighborhood, params.MinPrice, params.MaxPrice, params.Bedrooms)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	alertID, err := s.alertRepo.Create(ctx, alert)
	if err != nil {
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}
	alert.ID = alertID

	s.log.Infof("Alert %s created by user %s (city=%q)", alertID, identity.UserID, alert.City)
	return alert, nil
}

func (s *alertService) ListOwn(ctx context.Context, identity entity.Identity) ([]entity.Alert, error) {
	if identity.UserID == "" {
		return nil, ErrUnauthorized
	}

	alerts, err := s.alertRepo.ListByUser(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts for user %s: %w", identity.UserID, err)
	}
	return alerts, nil
}

func (s *alertService) Delete(ctx context.Context, identity entity.Identity, alertID string) error {
	if identity.UserID == "" {
		return ErrUnauthorized
	}

	alert, err := s.alertRepo.GetByID(ctx, alertID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load alert %s: %w", alertID, err)
	}

	if alert.UserID != identity.UserID {
		s.log.Warnf("User %s attempted to delete alert %s owned by %s", identity.UserID, alertID, alert.UserID)
		return ErrForbidden
	}

	if err := s.alertRepo.Delete(ctx, alertID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete alert %s: %w", alertID, err)
	}
	return nil
}
