package app

import (
	"github.com/plantmetric/plantmetric-backend/internal/logger"
	"github.com/plantmetric/plantmetric-backend/internal/repos"
	"gorm.io/gorm"
)

type Repos struct {
	User                   repos.UserRepo
	PerformanceRecord      repos.PerformanceRecordRepo
	QualityMeasurement     repos.QualityMeasurementRepo
	Alert                  repos.AlertRepo
	MaintenanceSchedule    repos.MaintenanceScheduleRepo
	OptimizationSuggestion repos.OptimizationSuggestionRepo
	WorkflowRule           repos.WorkflowRuleRepo
	SensorReading          repos.SensorReadingRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:                   repos.NewUserRepo(db, log),
		PerformanceRecord:      repos.NewPerformanceRecordRepo(db, log),
		QualityMeasurement:     repos.NewQualityMeasurementRepo(db, log),
		Alert:                  repos.NewAlertRepo(db, log),
		MaintenanceSchedule:    repos.NewMaintenanceScheduleRepo(db, log),
		OptimizationSuggestion: repos.NewOptimizationSuggestionRepo(db, log),
		WorkflowRule:           repos.NewWorkflowRuleRepo(db, log),
		SensorReading:          repos.NewSensorReadingRepo(db, log),
	}
}
