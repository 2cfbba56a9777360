package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/plantmetric/plantmetric-backend/internal/kpi"
	"github.com/plantmetric/plantmetric-backend/internal/types"
	"gorm.io/gorm"
)

type fakeAlertRepo struct {
	alerts []*types.Alert
	acked  []uuid.UUID
}

func (f *fakeAlertRepo) Insert(ctx context.Context, tx *gorm.DB, alert *types.Alert) (*types.Alert, error) {
	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	f.alerts = append(f.alerts, alert)
	return alert, nil
}

func (f *fakeAlertRepo) List(ctx context.Context, tx *gorm.DB, limit int, unacknowledgedOnly bool) ([]*types.Alert, error) {
	var out []*types.Alert
	for _, a := range f.alerts {
		if unacknowledgedOnly && a.Acknowledged {
			continue
		}
		out = append(out, a)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeAlertRepo) Acknowledge(ctx context.Context, tx *gorm.DB, alertID uuid.UUID) (int64, error) {
	for _, a := range f.alerts {
		if a.ID == alertID {
			a.Acknowledged = true
			f.acked = append(f.acked, alertID)
			return 1, nil
		}
	}
	return 0, nil
}

func TestDashboardSummary(t *testing.T) {
	records := &fakeRecordRepo{records: []*types.PerformanceRecord{
		{LineShift: "L1-A", Date: day(0), Shift: "day", Manpower: 10, NoOTManpower: 10, Plan: 100, ActualOutput: 100, CircuitOutput: 100},
		{LineShift: "L2-A", Date: day(0), Shift: "day", Manpower: 10, NoOTManpower: 10, Plan: 100, ActualOutput: 80, CircuitOutput: 80},
	}}
	analytics := newAnalyticsForTest(t, records, &fakeQualityRepo{})
	alerts := &fakeAlertRepo{alerts: []*types.Alert{
		{ID: uuid.New(), Type: "create_alert", Title: "open", Severity: types.AlertSeverityWarning},
		{ID: uuid.New(), Type: "create_alert", Title: "done", Acknowledged: true},
	}}

	svc := NewDashboardService(testLogger(t), analytics, alerts)
	ds := svc.(*dashboardService)
	ds.now = func() time.Time { return day(0) }

	summary, err := svc.Summary(context.Background(), 7)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.RecordCount != 2 {
		t.Fatalf("record count: want=2 got=%d", summary.RecordCount)
	}
	if summary.AvgTotalScore <= 0 {
		t.Fatalf("avg total score not computed: %v", summary.AvgTotalScore)
	}
	if len(summary.RecentAlerts) != 1 || summary.RecentAlerts[0].Title != "open" {
		t.Fatalf("recent alerts: %+v", summary.RecentAlerts)
	}

	allTime := summary.Rankings[kpi.WindowAllTime]
	if len(allTime) != 2 || allTime[0].LineShift != "L1-A" || allTime[0].Rank != 1 {
		t.Fatalf("all_time ranking: %+v", allTime)
	}
}
