package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plantmetric/plantmetric-backend/internal/logger"
	"github.com/plantmetric/plantmetric-backend/internal/types"
)

type MaintenanceScheduleRepo interface {
	Insert(ctx context.Context, tx *gorm.DB, schedule *types.MaintenanceSchedule) (*types.MaintenanceSchedule, error)
	List(ctx context.Context, tx *gorm.DB, lineShift string, statuses []string) ([]*types.MaintenanceSchedule, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, scheduleID uuid.UUID, status string) (int64, error)
}

type maintenanceScheduleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMaintenanceScheduleRepo(db *gorm.DB, baseLog *logger.Logger) MaintenanceScheduleRepo {
	repoLog := baseLog.With("repo", "MaintenanceScheduleRepo")
	return &maintenanceScheduleRepo{db: db, log: repoLog}
}

func (mr *maintenanceScheduleRepo) Insert(ctx context.Context, tx *gorm.DB, schedule *types.MaintenanceSchedule) (*types.MaintenanceSchedule, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	if err := transaction.WithContext(ctx).Create(schedule).Error; err != nil {
		return nil, err
	}
	return schedule, nil
}

func (mr *maintenanceScheduleRepo) List(ctx context.Context, tx *gorm.DB, lineShift string, statuses []string) ([]*types.MaintenanceSchedule, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	query := transaction.WithContext(ctx).Order("scheduled_for ASC")
	if lineShift != "" {
		query = query.Where("line_shift = ?", lineShift)
	}
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	var results []*types.MaintenanceSchedule
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *maintenanceScheduleRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, scheduleID uuid.UUID, status string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.MaintenanceSchedule{}).
		Where("id = ?", scheduleID).
		Update("status", status)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
