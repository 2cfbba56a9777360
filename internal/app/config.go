package app

import (
	"strings"
	"time"

	"github.com/plantmetric/plantmetric-backend/internal/logger"
	"github.com/plantmetric/plantmetric-backend/internal/utils"
)

type Config struct {
	JWTSecretKey     string
	AccessTokenTTL   time.Duration
	WorkflowInterval time.Duration
	SimulateSensors  bool
	SensorLines      []string
	SensorInterval   time.Duration
	ScoringPath      string
	Environment      string
	Version          string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 86400, log)
	workflowIntervalSeconds := utils.GetEnvAsInt("WORKFLOW_INTERVAL", 60, log)
	simulateSensors := utils.GetEnvAsBool("SIMULATE_SENSORS", false, log)
	sensorLines := utils.GetEnv("SENSOR_LINES", "", log)
	sensorIntervalSeconds := utils.GetEnvAsInt("SENSOR_INTERVAL", 10, log)
	scoringPath := utils.GetEnv("SCORING_CONFIG_PATH", "", log)
	environment := utils.GetEnv("ENVIRONMENT", "development", log)
	version := utils.GetEnv("VERSION", "dev", log)

	return Config{
		JWTSecretKey:     jwtSecretKey,
		AccessTokenTTL:   time.Duration(accessTokenTTLSeconds) * time.Second,
		WorkflowInterval: time.Duration(workflowIntervalSeconds) * time.Second,
		SimulateSensors:  simulateSensors,
		SensorLines:      splitLines(sensorLines),
		SensorInterval:   time.Duration(sensorIntervalSeconds) * time.Second,
		ScoringPath:      scoringPath,
		Environment:      environment,
		Version:          version,
	}
}

func splitLines(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
