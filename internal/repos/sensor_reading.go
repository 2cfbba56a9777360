package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/plantmetric/plantmetric-backend/internal/logger"
	"github.com/plantmetric/plantmetric-backend/internal/types"
)

type SensorReadingRepo interface {
	Create(ctx context.Context, tx *gorm.DB, readings []*types.SensorReading) ([]*types.SensorReading, error)
	Latest(ctx context.Context, tx *gorm.DB, lineShift, sensorType string) (*types.SensorReading, error)
	AverageSince(ctx context.Context, tx *gorm.DB, lineShift, sensorType string, since time.Time) (float64, error)
}

type sensorReadingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSensorReadingRepo(db *gorm.DB, baseLog *logger.Logger) SensorReadingRepo {
	repoLog := baseLog.With("repo", "SensorReadingRepo")
	return &sensorReadingRepo{db: db, log: repoLog}
}

func (sr *sensorReadingRepo) Create(ctx context.Context, tx *gorm.DB, readings []*types.SensorReading) ([]*types.SensorReading, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if len(readings) == 0 {
		return []*types.SensorReading{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&readings).Error; err != nil {
		return nil, err
	}
	return readings, nil
}

func (sr *sensorReadingRepo) Latest(ctx context.Context, tx *gorm.DB, lineShift, sensorType string) (*types.SensorReading, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var result types.SensorReading
	err := transaction.WithContext(ctx).
		Where("line_shift = ? AND sensor_type = ?", lineShift, sensorType).
		Order("recorded_at DESC").
		First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

// AverageSince returns 0 when no readings exist in the window; callers
// treat absence as a zero metric, matching the formula guards.
func (sr *sensorReadingRepo) AverageSince(ctx context.Context, tx *gorm.DB, lineShift, sensorType string, since time.Time) (float64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var avg *float64
	err := transaction.WithContext(ctx).
		Model(&types.SensorReading{}).
		Select("AVG(value)").
		Where("line_shift = ? AND sensor_type = ? AND recorded_at >= ?", lineShift, sensorType, since).
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
