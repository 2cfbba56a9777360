package app

import (
	"github.com/plantmetric/plantmetric-backend/internal/handlers"
	"github.com/plantmetric/plantmetric-backend/internal/logger"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Record      *handlers.RecordHandler
	Analytics   *handlers.AnalyticsHandler
	Dashboard   *handlers.DashboardHandler
	Report      *handlers.ReportHandler
	Alert       *handlers.AlertHandler
	Maintenance *handlers.MaintenanceHandler
	Suggestion  *handlers.SuggestionHandler
	Sensor      *handlers.SensorHandler
	Workflow    *handlers.WorkflowHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:        handlers.NewAuthHandler(services.Auth),
		Record:      handlers.NewRecordHandler(services.Record),
		Analytics:   handlers.NewAnalyticsHandler(services.Analytics),
		Dashboard:   handlers.NewDashboardHandler(services.Dashboard),
		Report:      handlers.NewReportHandler(services.Report),
		Alert:       handlers.NewAlertHandler(services.Alert),
		Maintenance: handlers.NewMaintenanceHandler(services.Maintenance),
		Suggestion:  handlers.NewSuggestionHandler(services.Suggestion),
		Sensor:      handlers.NewSensorHandler(services.Sensor),
		Workflow:    handlers.NewWorkflowHandler(services.Workflow),
	}
}
