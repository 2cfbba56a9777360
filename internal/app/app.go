package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/plantmetric/plantmetric-backend/internal/db"
	"github.com/plantmetric/plantmetric-backend/internal/logger"
	"github.com/plantmetric/plantmetric-backend/internal/observability"
	"github.com/plantmetric/plantmetric-backend/internal/types"
	"gorm.io/gorm"
)

type App struct {
	Log    *logger.Logger
	DB     *gorm.DB
	Router *gin.Engine
	Cfg    Config

	Repos      Repos
	Services   Services
	Handlers   Handlers
	Middleware Middleware

	cancel       context.CancelFunc
	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "dev"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "plantmetric-backend",
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	pg, err := db.NewPostgresService(log)
	if err != nil {
		return nil, err
	}
	if err := pg.AutoMigrateAll(); err != nil {
		return nil, err
	}
	gormDB := pg.DB()

	repos := wireRepos(gormDB, log)
	services, err := wireServices(gormDB, log, cfg, repos)
	if err != nil {
		return nil, err
	}
	handlers := wireHandlers(log, services)
	middleware := wireMiddleware(log, services)
	router := wireRouter(log, handlers, middleware)

	return &App{
		Log:          log,
		DB:           gormDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        repos,
		Services:     services,
		Handlers:     handlers,
		Middleware:   middleware,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches the background workers: the periodic workflow runner, the
// alert-bus forwarder, and (when configured) the sensor simulator. All of
// them stop when Close cancels the shared context.
func (a *App) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	go a.runWorkflowLoop(ctx)

	if a.Services.AlertBus != nil {
		if err := a.Services.AlertBus.StartForwarder(ctx, func(alert *types.Alert) {
			a.Log.Info("Alert received", "severity", alert.Severity, "title", alert.Title)
		}); err != nil {
			a.Log.Warn("Alert forwarder failed to start", "error", err)
		}
	}

	if a.Services.Simulator != nil {
		go func() {
			if err := a.Services.Simulator.Run(ctx); err != nil {
				a.Log.Error("Sensor simulator stopped", "error", err)
			}
		}()
	}
}

func (a *App) runWorkflowLoop(ctx context.Context) {
	ticker := time.NewTicker(a.Cfg.WorkflowInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			results, err := a.Services.Workflow.RunDue(ctx)
			if err != nil {
				a.Log.Error("Workflow run failed", "error", err)
				continue
			}
			if len(results) > 0 {
				a.Log.Debug("Workflow run finished", "rules_evaluated", len(results))
			}
		}
	}
}

func (a *App) Run(addr string) error {
	a.Log.Info("Starting server", "addr", addr)
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.Services.AlertBus != nil {
		if err := a.Services.AlertBus.Close(); err != nil {
			a.Log.Warn("Failed to close alert bus", "error", err)
		}
	}
	if a.otelShutdown != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.otelShutdown(shutdownCtx); err != nil {
			a.Log.Warn("Failed to shut down tracing", "error", err)
		}
	}
	a.Log.Sync()
}
