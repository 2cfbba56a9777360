package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plantmetric/plantmetric-backend/internal/logger"
	"github.com/plantmetric/plantmetric-backend/internal/types"
)

type AlertRepo interface {
	Insert(ctx context.Context, tx *gorm.DB, alert *types.Alert) (*types.Alert, error)
	List(ctx context.Context, tx *gorm.DB, limit int, unacknowledgedOnly bool) ([]*types.Alert, error)
	Acknowledge(ctx context.Context, tx *gorm.DB, alertID uuid.UUID) (int64, error)
}

type alertRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAlertRepo(db *gorm.DB, baseLog *logger.Logger) AlertRepo {
	repoLog := baseLog.With("repo", "AlertRepo")
	return &alertRepo{db: db, log: repoLog}
}

func (ar *alertRepo) Insert(ctx context.Context, tx *gorm.DB, alert *types.Alert) (*types.Alert, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if err := transaction.WithContext(ctx).Create(alert).Error; err != nil {
		return nil, err
	}
	return alert, nil
}

func (ar *alertRepo) List(ctx context.Context, tx *gorm.DB, limit int, unacknowledgedOnly bool) ([]*types.Alert, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if limit <= 0 {
		limit = 100
	}

	query := transaction.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if unacknowledgedOnly {
		query = query.Where("acknowledged = ?", false)
	}

	var results []*types.Alert
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *alertRepo) Acknowledge(ctx context.Context, tx *gorm.DB, alertID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Alert{}).
		Where("id = ?", alertID).
		Update("acknowledged", true)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
