package services

import (
	"context"
	"math/rand"
	"time"

	"github.com/plantmetric/plantmetric-backend/internal/logger"
	"github.com/plantmetric/plantmetric-backend/internal/repos"
	"github.com/plantmetric/plantmetric-backend/internal/types"
	"golang.org/x/sync/errgroup"
)

// SensorSimulator feeds synthetic readings into sensor_reading so the
// live-metric paths can run without plant hardware attached. One goroutine
// per line, all torn down together when the context ends.
type SensorSimulator struct {
	log        *logger.Logger
	sensorRepo repos.SensorReadingRepo
	lines      []string
	interval   time.Duration
}

func NewSensorSimulator(log *logger.Logger, sensorRepo repos.SensorReadingRepo, lines []string, interval time.Duration) *SensorSimulator {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &SensorSimulator{
		log:        log.With("service", "SensorSimulator"),
		sensorRepo: sensorRepo,
		lines:      lines,
		interval:   interval,
	}
}

// Run blocks until ctx is cancelled or a line writer fails.
func (ss *SensorSimulator) Run(ctx context.Context) error {
	if len(ss.lines) == 0 {
		ss.log.Warn("No lines configured, simulator idle")
		<-ctx.Done()
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, line := range ss.lines {
		line := line
		g.Go(func() error {
			return ss.runLine(ctx, line)
		})
	}
	err := g.Wait()
	if err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func (ss *SensorSimulator) runLine(ctx context.Context, line string) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ticker := time.NewTicker(ss.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			readings := []*types.SensorReading{
				{LineShift: line, SensorType: types.SensorTypeTemperature, Value: 36 + rng.Float64()*8, Unit: "C", RecordedAt: now},
				{LineShift: line, SensorType: types.SensorTypeVibration, Value: 0.2 + rng.Float64()*0.6, Unit: "mm/s", RecordedAt: now},
				{LineShift: line, SensorType: types.SensorTypeOutputCount, Value: float64(rng.Intn(40)), Unit: "pcs", RecordedAt: now},
			}
			if _, err := ss.sensorRepo.Create(ctx, nil, readings); err != nil {
				ss.log.Error("Failed to store sensor readings", "line_shift", line, "error", err)
				return err
			}
		}
	}
}
