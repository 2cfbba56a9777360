package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/plantmetric/plantmetric-backend/internal/logger"
	"github.com/plantmetric/plantmetric-backend/internal/repos"
	"github.com/plantmetric/plantmetric-backend/internal/workflow"
)

const (
	resolverWindowDays  = 7
	sensorLookbackHours = 1
)

var sensorMetricTypes = map[string]string{
	"temperature":  "temperature",
	"vibration":    "vibration",
	"output_count": "output_count",
}

// metricResolver answers rule conditions from current data. KPI metrics
// resolve to the trailing-week mean; sensor metrics resolve to the average
// reading of the last hour. A "@line" suffix scopes either kind to one
// line/shift, e.g. "efficiency@L1-A" or "temperature@L2-B".
type metricResolver struct {
	log        *logger.Logger
	analytics  AnalyticsService
	sensorRepo repos.SensorReadingRepo
	now        func() time.Time
}

func NewMetricResolver(log *logger.Logger, analytics AnalyticsService, sensorRepo repos.SensorReadingRepo) workflow.MetricResolver {
	return &metricResolver{
		log:        log.With("component", "MetricResolver"),
		analytics:  analytics,
		sensorRepo: sensorRepo,
		now:        time.Now,
	}
}

func (mr *metricResolver) Resolve(ctx context.Context, metric string) (float64, error) {
	name, line := splitMetricScope(metric)
	now := mr.now()

	if sensorType, ok := sensorMetricTypes[name]; ok {
		if line == "" {
			return 0, fmt.Errorf("sensor metric %q requires a line scope", name)
		}
		since := now.Add(-sensorLookbackHours * time.Hour)
		return mr.sensorRepo.AverageSince(ctx, nil, line, sensorType, since)
	}

	q := MetricsQuery{From: now.AddDate(0, 0, -(resolverWindowDays - 1)), To: now}
	if line != "" {
		q.Lines = []string{line}
	}
	summary, err := mr.analytics.Summary(ctx, q)
	if err != nil {
		return 0, err
	}
	if summary.Count == 0 {
		return 0, fmt.Errorf("no records in window for metric %q", metric)
	}
	stat, ok := summary.Stat(name)
	if !ok {
		return 0, fmt.Errorf("unknown metric %q", name)
	}
	return stat.Mean, nil
}

func splitMetricScope(metric string) (name, line string) {
	if i := strings.IndexByte(metric, '@'); i >= 0 {
		return metric[:i], metric[i+1:]
	}
	return metric, ""
}
