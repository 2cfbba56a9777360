package services

import (
	"context"
	"testing"

	"github.com/plantmetric/plantmetric-backend/internal/types"
)

func TestSubmitPerformanceValidation(t *testing.T) {
	repo := &fakeRecordRepo{}
	svc := NewRecordService(nil, testLogger(t), repo, &fakeQualityRepo{})
	ctx := context.Background()

	if _, err := svc.SubmitPerformance(ctx, nil); err == nil {
		t.Fatalf("expected error for empty batch")
	}
	if _, err := svc.SubmitPerformance(ctx, []*types.PerformanceRecord{{Shift: "day", Date: day(0)}}); err == nil {
		t.Fatalf("expected error for missing line_shift")
	}
	if _, err := svc.SubmitPerformance(ctx, []*types.PerformanceRecord{
		{LineShift: "L1-A", Shift: "day", Date: day(0), Plan: -5},
	}); err == nil {
		t.Fatalf("expected error for negative counts")
	}

	created, err := svc.SubmitPerformance(ctx, []*types.PerformanceRecord{
		{LineShift: "L1-A", Shift: "day", Date: day(0), Manpower: 10, Plan: 100, ActualOutput: 90},
	})
	if err != nil {
		t.Fatalf("SubmitPerformance: %v", err)
	}
	if len(created) != 1 || len(repo.records) != 1 {
		t.Fatalf("created=%d stored=%d", len(created), len(repo.records))
	}
}

func TestSubmitQualityValidation(t *testing.T) {
	quality := &fakeQualityRepo{}
	svc := NewRecordService(nil, testLogger(t), &fakeRecordRepo{}, quality)
	ctx := context.Background()

	if _, err := svc.SubmitQuality(ctx, nil); err == nil {
		t.Fatalf("expected error for empty batch")
	}
	if _, err := svc.SubmitQuality(ctx, []*types.QualityMeasurement{{Date: day(0)}}); err == nil {
		t.Fatalf("expected error for missing checkpoint_id")
	}

	created, err := svc.SubmitQuality(ctx, []*types.QualityMeasurement{
		{CheckpointID: "QC1", Category: "solder", Date: day(0), IsConforming: true},
	})
	if err != nil {
		t.Fatalf("SubmitQuality: %v", err)
	}
	if len(created) != 1 || len(quality.measurements) != 1 {
		t.Fatalf("created=%d stored=%d", len(created), len(quality.measurements))
	}
}
