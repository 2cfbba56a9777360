package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/plantmetric/plantmetric-backend/internal/logger"
	"github.com/plantmetric/plantmetric-backend/internal/types"
)

// RecordFilters narrows a performance-record fetch. Empty slices mean no
// filtering on that dimension.
type RecordFilters struct {
	Lines  []string
	Shifts []string
}

type PerformanceRecordRepo interface {
	Create(ctx context.Context, tx *gorm.DB, records []*types.PerformanceRecord) ([]*types.PerformanceRecord, error)
	Fetch(ctx context.Context, tx *gorm.DB, from, to time.Time, filters RecordFilters) ([]*types.PerformanceRecord, error)
}

type performanceRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPerformanceRecordRepo(db *gorm.DB, baseLog *logger.Logger) PerformanceRecordRepo {
	repoLog := baseLog.With("repo", "PerformanceRecordRepo")
	return &performanceRecordRepo{db: db, log: repoLog}
}

func (pr *performanceRecordRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.PerformanceRecord) ([]*types.PerformanceRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if len(records) == 0 {
		return []*types.PerformanceRecord{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Fetch returns records inside [from, to] ordered by date then line/shift
// so downstream computation is deterministic.
func (pr *performanceRecordRepo) Fetch(ctx context.Context, tx *gorm.DB, from, to time.Time, filters RecordFilters) ([]*types.PerformanceRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	query := transaction.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to)
	if len(filters.Lines) > 0 {
		query = query.Where("line_shift IN ?", filters.Lines)
	}
	if len(filters.Shifts) > 0 {
		query = query.Where("shift IN ?", filters.Shifts)
	}

	var results []*types.PerformanceRecord
	if err := query.
		Order("date ASC, line_shift ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
