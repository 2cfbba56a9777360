package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/plantmetric/plantmetric-backend/internal/logger"
	"github.com/plantmetric/plantmetric-backend/internal/types"
)

type QualityFilters struct {
	Categories []string
}

type QualityMeasurementRepo interface {
	Create(ctx context.Context, tx *gorm.DB, measurements []*types.QualityMeasurement) ([]*types.QualityMeasurement, error)
	Fetch(ctx context.Context, tx *gorm.DB, from, to time.Time, filters QualityFilters) ([]*types.QualityMeasurement, error)
}

type qualityMeasurementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQualityMeasurementRepo(db *gorm.DB, baseLog *logger.Logger) QualityMeasurementRepo {
	repoLog := baseLog.With("repo", "QualityMeasurementRepo")
	return &qualityMeasurementRepo{db: db, log: repoLog}
}

func (qr *qualityMeasurementRepo) Create(ctx context.Context, tx *gorm.DB, measurements []*types.QualityMeasurement) ([]*types.QualityMeasurement, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}

	if len(measurements) == 0 {
		return []*types.QualityMeasurement{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&measurements).Error; err != nil {
		return nil, err
	}
	return measurements, nil
}

func (qr *qualityMeasurementRepo) Fetch(ctx context.Context, tx *gorm.DB, from, to time.Time, filters QualityFilters) ([]*types.QualityMeasurement, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}

	query := transaction.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to)
	if len(filters.Categories) > 0 {
		query = query.Where("category IN ?", filters.Categories)
	}

	var results []*types.QualityMeasurement
	if err := query.
		Order("date ASC, checkpoint_id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
