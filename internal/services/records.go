package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/plantmetric/plantmetric-backend/internal/apierr"
	"github.com/plantmetric/plantmetric-backend/internal/logger"
	"github.com/plantmetric/plantmetric-backend/internal/repos"
	"github.com/plantmetric/plantmetric-backend/internal/types"
	"gorm.io/gorm"
)

// RecordService is the data-entry surface for daily performance and
// quality capture.
type RecordService interface {
	SubmitPerformance(ctx context.Context, records []*types.PerformanceRecord) ([]*types.PerformanceRecord, error)
	SubmitQuality(ctx context.Context, measurements []*types.QualityMeasurement) ([]*types.QualityMeasurement, error)
}

type recordService struct {
	db          *gorm.DB
	log         *logger.Logger
	recordRepo  repos.PerformanceRecordRepo
	qualityRepo repos.QualityMeasurementRepo
}

func NewRecordService(db *gorm.DB, log *logger.Logger, recordRepo repos.PerformanceRecordRepo, qualityRepo repos.QualityMeasurementRepo) RecordService {
	serviceLog := log.With("service", "RecordService")
	return &recordService{
		db:          db,
		log:         serviceLog,
		recordRepo:  recordRepo,
		qualityRepo: qualityRepo,
	}
}

func (rs *recordService) SubmitPerformance(ctx context.Context, records []*types.PerformanceRecord) ([]*types.PerformanceRecord, error) {
	if len(records) == 0 {
		return nil, apierr.New(http.StatusBadRequest, "empty_batch", fmt.Errorf("no records submitted"))
	}
	for i, rec := range records {
		if rec == nil {
			return nil, apierr.New(http.StatusBadRequest, "invalid_record", fmt.Errorf("record %d is nil", i))
		}
		if rec.LineShift == "" || rec.Shift == "" || rec.Date.IsZero() {
			return nil, apierr.New(http.StatusBadRequest, "invalid_record", fmt.Errorf("record %d missing line_shift, shift, or date", i))
		}
		if rec.Manpower < 0 || rec.Absent < 0 || rec.Plan < 0 || rec.ActualOutput < 0 {
			return nil, apierr.New(http.StatusBadRequest, "invalid_record", fmt.Errorf("record %d has negative counts", i))
		}
	}

	created, err := rs.recordRepo.Create(ctx, nil, records)
	if err != nil {
		rs.log.Error("Failed to create performance records", "error", err)
		return nil, fmt.Errorf("create performance records: %w", err)
	}
	rs.log.Info("Performance records submitted", "count", len(created))
	return created, nil
}

func (rs *recordService) SubmitQuality(ctx context.Context, measurements []*types.QualityMeasurement) ([]*types.QualityMeasurement, error) {
	if len(measurements) == 0 {
		return nil, apierr.New(http.StatusBadRequest, "empty_batch", fmt.Errorf("no measurements submitted"))
	}
	for i, m := range measurements {
		if m == nil || m.CheckpointID == "" || m.Date.IsZero() {
			return nil, apierr.New(http.StatusBadRequest, "invalid_measurement", fmt.Errorf("measurement %d missing checkpoint_id or date", i))
		}
	}

	created, err := rs.qualityRepo.Create(ctx, nil, measurements)
	if err != nil {
		rs.log.Error("Failed to create quality measurements", "error", err)
		return nil, fmt.Errorf("create quality measurements: %w", err)
	}
	return created, nil
}
