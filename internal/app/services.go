package app

import (
	"fmt"

	"github.com/plantmetric/plantmetric-backend/internal/kpi"
	"github.com/plantmetric/plantmetric-backend/internal/logger"
	"github.com/plantmetric/plantmetric-backend/internal/report"
	"github.com/plantmetric/plantmetric-backend/internal/services"
	"github.com/plantmetric/plantmetric-backend/internal/workflow"
	"gorm.io/gorm"
)

type Services struct {
	Auth        services.AuthService
	Record      services.RecordService
	Analytics   services.AnalyticsService
	Dashboard   services.DashboardService
	Report      services.ReportService
	Alert       services.AlertService
	Maintenance services.MaintenanceService
	Suggestion  services.SuggestionService
	Sensor      services.SensorService
	Workflow    services.WorkflowService

	AlertBus  services.AlertBus
	Simulator *services.SensorSimulator
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) (Services, error) {
	log.Info("Wiring services...")

	scoringCfg := kpi.DefaultScoringConfig()
	if cfg.ScoringPath != "" {
		loaded, err := kpi.LoadScoringConfig(cfg.ScoringPath)
		if err != nil {
			return Services{}, fmt.Errorf("load scoring config: %w", err)
		}
		scoringCfg = loaded
	}
	calculator := kpi.NewScoreCalculator(scoringCfg)

	analytics := services.NewAnalyticsService(db, log, r.PerformanceRecord, r.QualityMeasurement, calculator)

	// Cross-instance alert fanout is optional; without REDIS_ADDR alerts
	// stay local.
	alertBus, err := services.NewRedisAlertBus(log)
	if err != nil {
		log.Warn("Alert bus unavailable", "error", err)
		alertBus = nil
	}
	alert := services.NewAlertService(db, log, r.Alert, alertBus)
	maintenance := services.NewMaintenanceService(db, log, r.MaintenanceSchedule)
	suggestion := services.NewSuggestionService(db, log, r.OptimizationSuggestion, analytics)
	sensor := services.NewSensorService(log, r.SensorReading)

	resolver := services.NewMetricResolver(log, analytics, r.SensorReading)
	executor := services.NewActionExecutor(log, alert, maintenance, suggestion)
	evaluator := workflow.NewEvaluator(log, resolver, executor)

	svc := Services{
		Auth:        services.NewAuthService(db, log, r.User, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		Record:      services.NewRecordService(db, log, r.PerformanceRecord, r.QualityMeasurement),
		Analytics:   analytics,
		Dashboard:   services.NewDashboardService(log, analytics, r.Alert),
		Report:      services.NewReportService(log, analytics, report.NewAssembler(log)),
		Alert:       alert,
		Maintenance: maintenance,
		Suggestion:  suggestion,
		Sensor:      sensor,
		Workflow:    services.NewWorkflowService(db, log, r.WorkflowRule, evaluator),
		AlertBus:    alertBus,
	}
	if cfg.SimulateSensors {
		svc.Simulator = services.NewSensorSimulator(log, r.SensorReading, cfg.SensorLines, cfg.SensorInterval)
	}
	return svc, nil
}
