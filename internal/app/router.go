package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/plantmetric/plantmetric-backend/internal/logger"
	"github.com/plantmetric/plantmetric-backend/internal/server"
)

func wireRouter(log *logger.Logger, h Handlers, m Middleware) *gin.Engine {
	log.Info("Wiring router...")
	return server.NewRouter(server.RouterConfig{
		AuthHandler:        h.Auth,
		AuthMiddleware:     m.Auth,
		RecordHandler:      h.Record,
		AnalyticsHandler:   h.Analytics,
		DashboardHandler:   h.Dashboard,
		ReportHandler:      h.Report,
		AlertHandler:       h.Alert,
		MaintenanceHandler: h.Maintenance,
		SuggestionHandler:  h.Suggestion,
		SensorHandler:      h.Sensor,
		WorkflowHandler:    h.Workflow,
		RequestTimeout:     30 * time.Second,
	})
}
