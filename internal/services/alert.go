package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/plantmetric/plantmetric-backend/internal/logger"
	"github.com/plantmetric/plantmetric-backend/internal/repos"
	"github.com/plantmetric/plantmetric-backend/internal/types"
	"gorm.io/gorm"
)

type AlertService interface {
	Raise(ctx context.Context, alert *types.Alert) (*types.Alert, error)
	List(ctx context.Context, limit int, unacknowledgedOnly bool) ([]*types.Alert, error)
	Acknowledge(ctx context.Context, alertID uuid.UUID) error
}

type alertService struct {
	db        *gorm.DB
	log       *logger.Logger
	alertRepo repos.AlertRepo
	bus       AlertBus
}

// NewAlertService wires persistence with the optional cross-instance bus.
// A nil bus means alerts stay local to this instance.
func NewAlertService(db *gorm.DB, log *logger.Logger, alertRepo repos.AlertRepo, bus AlertBus) AlertService {
	serviceLog := log.With("service", "AlertService")
	return &alertService{
		db:        db,
		log:       serviceLog,
		alertRepo: alertRepo,
		bus:       bus,
	}
}

func (s *alertService) Raise(ctx context.Context, alert *types.Alert) (*types.Alert, error) {
	if alert == nil {
		return nil, fmt.Errorf("nil alert")
	}
	if alert.Title == "" {
		return nil, fmt.Errorf("alert title is required")
	}
	if alert.Severity == "" {
		alert.Severity = types.AlertSeverityInfo
	}

	saved, err := s.alertRepo.Insert(ctx, nil, alert)
	if err != nil {
		s.log.Error("Failed to insert alert", "error", err)
		return nil, fmt.Errorf("insert alert: %w", err)
	}

	if s.bus != nil {
		if err := s.bus.Publish(ctx, saved); err != nil {
			// The row is already persisted; the broadcast is best-effort.
			s.log.Warn("Failed to publish alert", "error", err)
		}
	}
	return saved, nil
}

func (s *alertService) List(ctx context.Context, limit int, unacknowledgedOnly bool) ([]*types.Alert, error) {
	return s.alertRepo.List(ctx, nil, limit, unacknowledgedOnly)
}

func (s *alertService) Acknowledge(ctx context.Context, alertID uuid.UUID) error {
	n, err := s.alertRepo.Acknowledge(ctx, nil, alertID)
	if err != nil {
		s.log.Error("Failed to acknowledge alert", "alert_id", alertID.String(), "error", err)
		return fmt.Errorf("acknowledge alert: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("alert %s not found", alertID)
	}
	return nil
}
