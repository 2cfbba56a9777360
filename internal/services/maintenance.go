package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/plantmetric/plantmetric-backend/internal/logger"
	"github.com/plantmetric/plantmetric-backend/internal/repos"
	"github.com/plantmetric/plantmetric-backend/internal/types"
	"gorm.io/gorm"
)

type MaintenanceService interface {
	Schedule(ctx context.Context, schedule *types.MaintenanceSchedule) (*types.MaintenanceSchedule, error)
	List(ctx context.Context, lineShift string, statuses []string) ([]*types.MaintenanceSchedule, error)
	UpdateStatus(ctx context.Context, scheduleID uuid.UUID, status string) error
}

type maintenanceService struct {
	db       *gorm.DB
	log      *logger.Logger
	schedule repos.MaintenanceScheduleRepo
}

func NewMaintenanceService(db *gorm.DB, log *logger.Logger, scheduleRepo repos.MaintenanceScheduleRepo) MaintenanceService {
	serviceLog := log.With("service", "MaintenanceService")
	return &maintenanceService{
		db:       db,
		log:      serviceLog,
		schedule: scheduleRepo,
	}
}

var validMaintenanceStatuses = map[string]struct{}{
	types.MaintenanceStatusScheduled:  {},
	types.MaintenanceStatusInProgress: {},
	types.MaintenanceStatusCompleted:  {},
	types.MaintenanceStatusCancelled:  {},
}

func (ms *maintenanceService) Schedule(ctx context.Context, schedule *types.MaintenanceSchedule) (*types.MaintenanceSchedule, error) {
	if schedule == nil {
		return nil, fmt.Errorf("nil schedule")
	}
	if schedule.LineShift == "" {
		return nil, fmt.Errorf("line_shift is required")
	}
	if schedule.ScheduledFor.IsZero() {
		schedule.ScheduledFor = time.Now().Add(24 * time.Hour)
	}
	if schedule.Status == "" {
		schedule.Status = types.MaintenanceStatusScheduled
	}

	saved, err := ms.schedule.Insert(ctx, nil, schedule)
	if err != nil {
		ms.log.Error("Failed to insert maintenance schedule", "error", err)
		return nil, fmt.Errorf("insert maintenance schedule: %w", err)
	}
	return saved, nil
}

func (ms *maintenanceService) List(ctx context.Context, lineShift string, statuses []string) ([]*types.MaintenanceSchedule, error) {
	return ms.schedule.List(ctx, nil, lineShift, statuses)
}

func (ms *maintenanceService) UpdateStatus(ctx context.Context, scheduleID uuid.UUID, status string) error {
	if _, ok := validMaintenanceStatuses[status]; !ok {
		return fmt.Errorf("invalid maintenance status %q", status)
	}
	n, err := ms.schedule.UpdateStatus(ctx, nil, scheduleID, status)
	if err != nil {
		ms.log.Error("Failed to update maintenance status", "schedule_id", scheduleID.String(), "error", err)
		return fmt.Errorf("update maintenance status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("maintenance schedule %s not found", scheduleID)
	}
	return nil
}
