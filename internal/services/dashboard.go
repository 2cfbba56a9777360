package services

import (
	"context"
	"time"

	"github.com/plantmetric/plantmetric-backend/internal/kpi"
	"github.com/plantmetric/plantmetric-backend/internal/logger"
	"github.com/plantmetric/plantmetric-backend/internal/repos"
	"github.com/plantmetric/plantmetric-backend/internal/types"
)

// DashboardSummary is the landing-page payload: plant-wide cards plus
// per-window leaderboards and the most recent unacknowledged alerts.
type DashboardSummary struct {
	From           time.Time                         `json:"from"`
	To             time.Time                         `json:"to"`
	RecordCount    int                               `json:"record_count"`
	AvgTotalScore  float64                           `json:"avg_total_score"`
	AvgEfficiency  float64                           `json:"avg_efficiency"`
	AvgOEE         float64                           `json:"avg_oee"`
	PlanCompletion float64                           `json:"plan_completion"`
	Rankings       map[kpi.Window][]kpi.RankedEntity `json:"rankings"`
	Trends         []LineTrend                       `json:"trends"`
	RecentAlerts   []*types.Alert                    `json:"recent_alerts"`
}

type DashboardService interface {
	Summary(ctx context.Context, days int) (*DashboardSummary, error)
}

type dashboardService struct {
	log       *logger.Logger
	analytics AnalyticsService
	alertRepo repos.AlertRepo
	now       func() time.Time
}

func NewDashboardService(log *logger.Logger, analytics AnalyticsService, alertRepo repos.AlertRepo) DashboardService {
	serviceLog := log.With("service", "DashboardService")
	return &dashboardService{
		log:       serviceLog,
		analytics: analytics,
		alertRepo: alertRepo,
		now:       time.Now,
	}
}

const (
	defaultDashboardDays = 30
	recentAlertLimit     = 10
)

func (ds *dashboardService) Summary(ctx context.Context, days int) (*DashboardSummary, error) {
	if days <= 0 {
		days = defaultDashboardDays
	}
	now := ds.now()
	q := MetricsQuery{From: now.AddDate(0, 0, -(days - 1)), To: now}

	rows, err := ds.analytics.ComputeMetrics(ctx, q)
	if err != nil {
		return nil, err
	}

	agg := kpi.NewAggregator(kpi.DefaultAggFields())
	summary := agg.Summarize(rows)

	out := &DashboardSummary{
		From:        q.From,
		To:          q.To,
		RecordCount: summary.Count,
		Rankings:    kpi.RankWindows(rows, now, kpi.ByTotalScore),
	}
	if s, ok := summary.Stat("total_score"); ok {
		out.AvgTotalScore = s.Mean
	}
	if s, ok := summary.Stat("efficiency"); ok {
		out.AvgEfficiency = s.Mean
	}
	if s, ok := summary.Stat("oee"); ok {
		out.AvgOEE = s.Mean
	}
	if s, ok := summary.Stat("plan_completion"); ok {
		out.PlanCompletion = s.Mean
	}

	if out.Trends, err = ds.analytics.Trends(ctx, q); err != nil {
		return nil, err
	}

	alerts, err := ds.alertRepo.List(ctx, nil, recentAlertLimit, true)
	if err != nil {
		ds.log.Warn("Failed to load recent alerts", "error", err)
		alerts = nil
	}
	out.RecentAlerts = alerts

	return out, nil
}
