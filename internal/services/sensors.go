package services

import (
	"context"
	"fmt"
	"time"

	"github.com/plantmetric/plantmetric-backend/internal/logger"
	"github.com/plantmetric/plantmetric-backend/internal/repos"
	"github.com/plantmetric/plantmetric-backend/internal/types"
)

type SensorService interface {
	Latest(ctx context.Context, lineShift, sensorType string) (*types.SensorReading, error)
	Average(ctx context.Context, lineShift, sensorType string, window time.Duration) (float64, error)
}

type sensorService struct {
	log        *logger.Logger
	sensorRepo repos.SensorReadingRepo
}

func NewSensorService(log *logger.Logger, sensorRepo repos.SensorReadingRepo) SensorService {
	serviceLog := log.With("service", "SensorService")
	return &sensorService{
		log:        serviceLog,
		sensorRepo: sensorRepo,
	}
}

func (ss *sensorService) Latest(ctx context.Context, lineShift, sensorType string) (*types.SensorReading, error) {
	if lineShift == "" || sensorType == "" {
		return nil, fmt.Errorf("line_shift and sensor_type are required")
	}
	return ss.sensorRepo.Latest(ctx, nil, lineShift, sensorType)
}

func (ss *sensorService) Average(ctx context.Context, lineShift, sensorType string, window time.Duration) (float64, error) {
	if lineShift == "" || sensorType == "" {
		return 0, fmt.Errorf("line_shift and sensor_type are required")
	}
	if window <= 0 {
		window = time.Hour
	}
	return ss.sensorRepo.AverageSince(ctx, nil, lineShift, sensorType, time.Now().Add(-window))
}
