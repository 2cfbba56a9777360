package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/plantmetric/plantmetric-backend/internal/kpi"
	"github.com/plantmetric/plantmetric-backend/internal/logger"
	"github.com/plantmetric/plantmetric-backend/internal/repos"
	"gorm.io/gorm"
)

// MetricsQuery bounds one analytics request. From and To are inclusive
// dates; empty filter slices mean no filtering.
type MetricsQuery struct {
	From   time.Time
	To     time.Time
	Lines  []string
	Shifts []string
}

// QualityYield is the conforming share per grouping key over a window.
type DefectCount struct {
	Description string `json:"description"`
	Count       int    `json:"count"`
}

type QualityYield struct {
	Key          string        `json:"key"`
	Total        int           `json:"total"`
	Conforming   int           `json:"conforming"`
	YieldPercent float64       `json:"yield_percent"`
	TopDefects   []DefectCount `json:"top_defects,omitempty"`
}

// LineTrend pairs a line/shift with its score series and classification.
type LineTrend struct {
	LineShift string    `json:"line_shift"`
	Scores    []float64 `json:"scores"`
	Trend     string    `json:"trend"`
}

type AnalyticsService interface {
	ComputeMetrics(ctx context.Context, q MetricsQuery) ([]*kpi.ComputedMetrics, error)
	AggregateByLine(ctx context.Context, q MetricsQuery) ([]kpi.GroupAggregate, error)
	AggregateByDate(ctx context.Context, q MetricsQuery) ([]kpi.GroupAggregate, error)
	Summary(ctx context.Context, q MetricsQuery) (kpi.GroupAggregate, error)
	Trends(ctx context.Context, q MetricsQuery) ([]LineTrend, error)
	QualityYieldByCategory(ctx context.Context, q MetricsQuery) ([]QualityYield, error)
}

type analyticsService struct {
	db          *gorm.DB
	log         *logger.Logger
	recordRepo  repos.PerformanceRecordRepo
	qualityRepo repos.QualityMeasurementRepo
	calculator  *kpi.ScoreCalculator
	aggregator  *kpi.Aggregator
}

func NewAnalyticsService(
	db *gorm.DB,
	log *logger.Logger,
	recordRepo repos.PerformanceRecordRepo,
	qualityRepo repos.QualityMeasurementRepo,
	calculator *kpi.ScoreCalculator,
) AnalyticsService {
	serviceLog := log.With("service", "AnalyticsService")
	return &analyticsService{
		db:          db,
		log:         serviceLog,
		recordRepo:  recordRepo,
		qualityRepo: qualityRepo,
		calculator:  calculator,
		aggregator:  kpi.NewAggregator(kpi.DefaultAggFields()),
	}
}

// ComputeMetrics loads the raw records for the window, derives per-row
// metrics, and applies composite scoring across the whole set so CPH
// normalization sees every line active on a given day.
func (as *analyticsService) ComputeMetrics(ctx context.Context, q MetricsQuery) ([]*kpi.ComputedMetrics, error) {
	if q.To.Before(q.From) {
		return nil, fmt.Errorf("invalid window: to %s before from %s", q.To.Format("2006-01-02"), q.From.Format("2006-01-02"))
	}

	records, err := as.recordRepo.Fetch(ctx, nil, q.From, q.To, repos.RecordFilters{Lines: q.Lines, Shifts: q.Shifts})
	if err != nil {
		as.log.Error("Failed to fetch performance records", "error", err)
		return nil, fmt.Errorf("fetch performance records: %w", err)
	}

	cfg := as.calculator.Config()
	rows := make([]*kpi.ComputedMetrics, 0, len(records))
	for _, rec := range records {
		rows = append(rows, kpi.Compute(rec, cfg))
	}
	as.calculator.ApplyAll(rows)
	return rows, nil
}

func (as *analyticsService) AggregateByLine(ctx context.Context, q MetricsQuery) ([]kpi.GroupAggregate, error) {
	rows, err := as.ComputeMetrics(ctx, q)
	if err != nil {
		return nil, err
	}
	return as.aggregator.GroupBy(rows, func(m *kpi.ComputedMetrics) string { return m.LineShift }), nil
}

func (as *analyticsService) AggregateByDate(ctx context.Context, q MetricsQuery) ([]kpi.GroupAggregate, error) {
	rows, err := as.ComputeMetrics(ctx, q)
	if err != nil {
		return nil, err
	}
	return as.aggregator.GroupBy(rows, func(m *kpi.ComputedMetrics) string { return m.Date.Format("2006-01-02") }), nil
}

func (as *analyticsService) Summary(ctx context.Context, q MetricsQuery) (kpi.GroupAggregate, error) {
	rows, err := as.ComputeMetrics(ctx, q)
	if err != nil {
		return kpi.GroupAggregate{}, err
	}
	return as.aggregator.Summarize(rows), nil
}

// Trends classifies each line's total-score series over the window. Rows
// arrive date-ordered from the repo, so each series is chronological.
func (as *analyticsService) Trends(ctx context.Context, q MetricsQuery) ([]LineTrend, error) {
	rows, err := as.ComputeMetrics(ctx, q)
	if err != nil {
		return nil, err
	}

	order := make([]string, 0)
	series := make(map[string][]float64)
	for _, m := range rows {
		if _, ok := series[m.LineShift]; !ok {
			order = append(order, m.LineShift)
		}
		series[m.LineShift] = append(series[m.LineShift], m.TotalScore)
	}

	trends := make([]LineTrend, 0, len(order))
	for _, line := range order {
		scores := series[line]
		trends = append(trends, LineTrend{
			LineShift: line,
			Scores:    scores,
			Trend:     kpi.ClassifyTrend(scores, kpi.DefaultTrendThreshold),
		})
	}
	return trends, nil
}

func (as *analyticsService) QualityYieldByCategory(ctx context.Context, q MetricsQuery) ([]QualityYield, error) {
	measurements, err := as.qualityRepo.Fetch(ctx, nil, q.From, q.To, repos.QualityFilters{})
	if err != nil {
		as.log.Error("Failed to fetch quality measurements", "error", err)
		return nil, fmt.Errorf("fetch quality measurements: %w", err)
	}

	order := make([]string, 0)
	totals := make(map[string]*QualityYield)
	defects := make(map[string][]DefectCount)
	for _, m := range measurements {
		y, ok := totals[m.Category]
		if !ok {
			y = &QualityYield{Key: m.Category}
			totals[m.Category] = y
			order = append(order, m.Category)
		}
		y.Total++
		if m.IsConforming {
			y.Conforming++
			continue
		}
		if m.DefectDescription != "" {
			defects[m.Category] = tallyDefect(defects[m.Category], m.DefectDescription)
		}
	}

	out := make([]QualityYield, 0, len(order))
	for _, key := range order {
		y := totals[key]
		if y.Total > 0 {
			y.YieldPercent = float64(y.Conforming) / float64(y.Total) * 100
		}
		y.TopDefects = topDefects(defects[key], topDefectLimit)
		out = append(out, *y)
	}
	return out, nil
}

const topDefectLimit = 3

func tallyDefect(counts []DefectCount, description string) []DefectCount {
	for i := range counts {
		if counts[i].Description == description {
			counts[i].Count++
			return counts
		}
	}
	return append(counts, DefectCount{Description: description, Count: 1})
}

// topDefects returns the n most frequent defects; ties keep first-seen order.
func topDefects(counts []DefectCount, n int) []DefectCount {
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
