package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/plantmetric/plantmetric-backend/internal/handlers"
	"github.com/plantmetric/plantmetric-backend/internal/middleware"
	"github.com/plantmetric/plantmetric-backend/internal/types"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type RouterConfig struct {
	AuthHandler        *handlers.AuthHandler
	AuthMiddleware     *middleware.AuthMiddleware
	RecordHandler      *handlers.RecordHandler
	AnalyticsHandler   *handlers.AnalyticsHandler
	DashboardHandler   *handlers.DashboardHandler
	ReportHandler      *handlers.ReportHandler
	AlertHandler       *handlers.AlertHandler
	MaintenanceHandler *handlers.MaintenanceHandler
	SuggestionHandler  *handlers.SuggestionHandler
	SensorHandler      *handlers.SensorHandler
	WorkflowHandler    *handlers.WorkflowHandler
	RequestTimeout     time.Duration
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware("plantmetric-backend"))
	if cfg.RequestTimeout > 0 {
		router.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	protected.POST("/refresh", cfg.AuthHandler.Refresh)

	// Data entry
	protected.POST("/records/performance", cfg.RecordHandler.SubmitPerformance)
	protected.POST("/records/quality", cfg.RecordHandler.SubmitQuality)

	// Analytics
	protected.GET("/analytics/metrics", cfg.AnalyticsHandler.Metrics)
	protected.GET("/analytics/lines", cfg.AnalyticsHandler.AggregatesByLine)
	protected.GET("/analytics/dates", cfg.AnalyticsHandler.AggregatesByDate)
	protected.GET("/analytics/summary", cfg.AnalyticsHandler.Summary)
	protected.GET("/analytics/trends", cfg.AnalyticsHandler.Trends)
	protected.GET("/analytics/quality-yield", cfg.AnalyticsHandler.QualityYield)

	// Dashboard
	protected.GET("/dashboard", cfg.DashboardHandler.Summary)

	// Reports
	protected.GET("/reports", cfg.ReportHandler.Get)
	protected.GET("/reports/export", cfg.ReportHandler.Export)

	// Alerts
	protected.POST("/alerts", cfg.AlertHandler.Create)
	protected.GET("/alerts", cfg.AlertHandler.List)
	protected.POST("/alerts/:id/acknowledge", cfg.AlertHandler.Acknowledge)

	// Maintenance
	protected.POST("/maintenance", cfg.MaintenanceHandler.Create)
	protected.GET("/maintenance", cfg.MaintenanceHandler.List)
	protected.PATCH("/maintenance/:id/status", cfg.MaintenanceHandler.UpdateStatus)

	// Suggestions
	protected.POST("/suggestions", cfg.SuggestionHandler.Create)
	protected.POST("/suggestions/generate", cfg.SuggestionHandler.Generate)
	protected.GET("/suggestions", cfg.SuggestionHandler.List)
	protected.PATCH("/suggestions/:id/status", cfg.SuggestionHandler.UpdateStatus)

	// Sensors
	protected.GET("/sensors/latest", cfg.SensorHandler.Latest)
	protected.GET("/sensors/average", cfg.SensorHandler.Average)

	// Workflow rules are supervisor territory.
	rules := protected.Group("/workflow")
	rules.Use(cfg.AuthMiddleware.RequireRole(types.RoleSupervisor))
	rules.POST("/rules", cfg.WorkflowHandler.CreateRule)
	rules.GET("/rules", cfg.WorkflowHandler.ListRules)
	rules.PATCH("/rules/:id/active", cfg.WorkflowHandler.SetActive)
	rules.GET("/rules/:id/logs", cfg.WorkflowHandler.ExecutionLogs)
	rules.POST("/run", cfg.WorkflowHandler.Run)

	return router
}
