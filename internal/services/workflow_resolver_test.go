package services

import (
	"context"
	"testing"
	"time"

	"github.com/plantmetric/plantmetric-backend/internal/kpi"
	"github.com/plantmetric/plantmetric-backend/internal/types"
	"gorm.io/gorm"
)

type fakeAnalytics struct {
	lastQuery MetricsQuery
	summary   kpi.GroupAggregate
	groups    []kpi.GroupAggregate
	err       error
}

func (f *fakeAnalytics) ComputeMetrics(ctx context.Context, q MetricsQuery) ([]*kpi.ComputedMetrics, error) {
	return nil, f.err
}

func (f *fakeAnalytics) AggregateByLine(ctx context.Context, q MetricsQuery) ([]kpi.GroupAggregate, error) {
	f.lastQuery = q
	return f.groups, f.err
}

func (f *fakeAnalytics) AggregateByDate(ctx context.Context, q MetricsQuery) ([]kpi.GroupAggregate, error) {
	return nil, f.err
}

func (f *fakeAnalytics) Summary(ctx context.Context, q MetricsQuery) (kpi.GroupAggregate, error) {
	f.lastQuery = q
	return f.summary, f.err
}

func (f *fakeAnalytics) Trends(ctx context.Context, q MetricsQuery) ([]LineTrend, error) {
	return nil, f.err
}

func (f *fakeAnalytics) QualityYieldByCategory(ctx context.Context, q MetricsQuery) ([]QualityYield, error) {
	return nil, f.err
}

type fakeSensorRepo struct {
	avg      float64
	lastLine string
	lastType string
}

func (f *fakeSensorRepo) Create(ctx context.Context, tx *gorm.DB, readings []*types.SensorReading) ([]*types.SensorReading, error) {
	return readings, nil
}

func (f *fakeSensorRepo) Latest(ctx context.Context, tx *gorm.DB, lineShift, sensorType string) (*types.SensorReading, error) {
	return nil, nil
}

func (f *fakeSensorRepo) AverageSince(ctx context.Context, tx *gorm.DB, lineShift, sensorType string, since time.Time) (float64, error) {
	f.lastLine = lineShift
	f.lastType = sensorType
	return f.avg, nil
}

func summaryWith(field string, mean float64, count int) kpi.GroupAggregate {
	return kpi.GroupAggregate{
		Key:    "all",
		Count:  count,
		Fields: []kpi.FieldStats{{Field: field, Mean: mean}},
	}
}

func TestResolverAggregateMetric(t *testing.T) {
	analytics := &fakeAnalytics{summary: summaryWith("efficiency", 0.73, 5)}
	resolver := NewMetricResolver(testLogger(t), analytics, &fakeSensorRepo{})

	got, err := resolver.Resolve(context.Background(), "efficiency")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != 0.73 {
		t.Fatalf("value: want=0.73 got=%v", got)
	}
	if len(analytics.lastQuery.Lines) != 0 {
		t.Fatalf("unscoped metric should not filter lines: %+v", analytics.lastQuery.Lines)
	}
}

func TestResolverLineScopedMetric(t *testing.T) {
	analytics := &fakeAnalytics{summary: summaryWith("total_score", 88, 3)}
	resolver := NewMetricResolver(testLogger(t), analytics, &fakeSensorRepo{})

	got, err := resolver.Resolve(context.Background(), "total_score@L1-A")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != 88 {
		t.Fatalf("value: want=88 got=%v", got)
	}
	if len(analytics.lastQuery.Lines) != 1 || analytics.lastQuery.Lines[0] != "L1-A" {
		t.Fatalf("line scope: %+v", analytics.lastQuery.Lines)
	}
}

func TestResolverSensorMetric(t *testing.T) {
	sensors := &fakeSensorRepo{avg: 41.5}
	resolver := NewMetricResolver(testLogger(t), &fakeAnalytics{}, sensors)

	got, err := resolver.Resolve(context.Background(), "temperature@L2-B")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != 41.5 {
		t.Fatalf("value: want=41.5 got=%v", got)
	}
	if sensors.lastLine != "L2-B" || sensors.lastType != types.SensorTypeTemperature {
		t.Fatalf("sensor query: line=%q type=%q", sensors.lastLine, sensors.lastType)
	}

	if _, err := resolver.Resolve(context.Background(), "temperature"); err == nil {
		t.Fatalf("sensor metric without line scope should fail")
	}
}

func TestResolverErrors(t *testing.T) {
	analytics := &fakeAnalytics{summary: summaryWith("efficiency", 0.5, 0)}
	resolver := NewMetricResolver(testLogger(t), analytics, &fakeSensorRepo{})

	if _, err := resolver.Resolve(context.Background(), "efficiency"); err == nil {
		t.Fatalf("empty window should fail")
	}

	analytics.summary = summaryWith("efficiency", 0.5, 2)
	if _, err := resolver.Resolve(context.Background(), "made_up_metric"); err == nil {
		t.Fatalf("unknown metric should fail")
	}
}
