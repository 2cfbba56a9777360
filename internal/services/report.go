package services

import (
	"context"
	"fmt"

	"github.com/plantmetric/plantmetric-backend/internal/logger"
	"github.com/plantmetric/plantmetric-backend/internal/report"
)

type ReportService interface {
	Build(ctx context.Context, title string, q MetricsQuery) (*report.Report, error)
	Export(ctx context.Context, title string, q MetricsQuery, format report.Format) (*report.Rendered, error)
}

type reportService struct {
	log       *logger.Logger
	analytics AnalyticsService
	assembler *report.Assembler
}

func NewReportService(log *logger.Logger, analytics AnalyticsService, assembler *report.Assembler) ReportService {
	serviceLog := log.With("service", "ReportService")
	return &reportService{
		log:       serviceLog,
		analytics: analytics,
		assembler: assembler,
	}
}

func (rs *reportService) Build(ctx context.Context, title string, q MetricsQuery) (*report.Report, error) {
	if title == "" {
		title = "Production Performance Report"
	}
	rows, err := rs.analytics.ComputeMetrics(ctx, q)
	if err != nil {
		return nil, err
	}
	return rs.assembler.Assemble(title, q.From, q.To, rows), nil
}

func (rs *reportService) Export(ctx context.Context, title string, q MetricsQuery, format report.Format) (*report.Rendered, error) {
	r, err := rs.Build(ctx, title, q)
	if err != nil {
		return nil, err
	}
	rendered, err := report.Render(r, format)
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	rs.log.Info("Report exported", "format", string(format), "rows", len(r.Rows))
	return rendered, nil
}
