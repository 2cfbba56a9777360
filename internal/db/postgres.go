package db

import (
	"fmt"

	"github.com/plantmetric/plantmetric-backend/internal/logger"
	"github.com/plantmetric/plantmetric-backend/internal/types"
	"github.com/plantmetric/plantmetric-backend/internal/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "plantmetric", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		log.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.PerformanceRecord{},
		&types.QualityMeasurement{},
		&types.Alert{},
		&types.MaintenanceSchedule{},
		&types.OptimizationSuggestion{},
		&types.WorkflowRule{},
		&types.WorkflowExecutionLog{},
		&types.SensorReading{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	if err := s.db.Exec(`
    ALTER TABLE "workflow_execution_log"
    ADD CONSTRAINT "fk_workflow_execution_log_rule_id"
    FOREIGN KEY ("rule_id")
    REFERENCES "workflow_rule"("id")
    ON DELETE CASCADE
  `).Error; err != nil {
		s.log.Warn("Failed to add fk_workflow_execution_log_rule_id", "error", err)
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
