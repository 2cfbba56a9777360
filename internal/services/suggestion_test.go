package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/plantmetric/plantmetric-backend/internal/kpi"
	"github.com/plantmetric/plantmetric-backend/internal/types"
	"gorm.io/gorm"
)

type fakeSuggestionRepo struct {
	inserted []*types.OptimizationSuggestion
}

func (f *fakeSuggestionRepo) Insert(ctx context.Context, tx *gorm.DB, suggestion *types.OptimizationSuggestion) (*types.OptimizationSuggestion, error) {
	f.inserted = append(f.inserted, suggestion)
	return suggestion, nil
}

func (f *fakeSuggestionRepo) List(ctx context.Context, tx *gorm.DB, statuses []string, limit int) ([]*types.OptimizationSuggestion, error) {
	return f.inserted, nil
}

func (f *fakeSuggestionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.OptimizationSuggestion, error) {
	return nil, nil
}

func (f *fakeSuggestionRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, suggestionID uuid.UUID, status string) (int64, error) {
	return 1, nil
}

func lineAggregate(key string, count int, stats map[string]float64) kpi.GroupAggregate {
	agg := kpi.GroupAggregate{Key: key, Count: count}
	for field, mean := range stats {
		agg.Fields = append(agg.Fields, kpi.FieldStats{Field: field, Mean: mean})
	}
	return agg
}

func TestGenerateFilesSuggestionsPerLine(t *testing.T) {
	analytics := &fakeAnalytics{groups: []kpi.GroupAggregate{
		lineAggregate("L1-A", 5, map[string]float64{
			"efficiency":      0.62,
			"absentee_rate":   8.0,
			"separation_rate": 1.0,
			"oee":             72.0,
		}),
		lineAggregate("L2-B", 4, map[string]float64{
			"efficiency":      0.95,
			"absentee_rate":   2.0,
			"separation_rate": 0.5,
			"oee":             81.0,
		}),
	}}
	repo := &fakeSuggestionRepo{}
	svc := NewSuggestionService(nil, testLogger(t), repo, analytics)

	created, err := svc.Generate(context.Background(), MetricsQuery{
		From: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("want=2 suggestions got=%d", len(created))
	}
	for _, s := range created {
		if s.TargetLineShift == nil || *s.TargetLineShift != "L1-A" {
			t.Fatalf("target line: %+v", s)
		}
		if s.Status != types.SuggestionStatusPending {
			t.Fatalf("status: %q", s.Status)
		}
	}
	if created[0].Type != "training" || !strings.Contains(created[0].Description, "0.62") {
		t.Fatalf("training suggestion: %+v", created[0])
	}
	if created[1].Type != "staffing" {
		t.Fatalf("staffing suggestion: %+v", created[1])
	}
}

func TestGenerateSkipsEmptyLines(t *testing.T) {
	analytics := &fakeAnalytics{groups: []kpi.GroupAggregate{
		lineAggregate("L1-A", 0, map[string]float64{"efficiency": 0}),
	}}
	repo := &fakeSuggestionRepo{}
	svc := NewSuggestionService(nil, testLogger(t), repo, analytics)

	created, err := svc.Generate(context.Background(), MetricsQuery{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("want=0 suggestions got=%d", len(created))
	}
}
