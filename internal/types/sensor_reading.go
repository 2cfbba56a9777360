package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	SensorTypeTemperature = "temperature"
	SensorTypeVibration   = "vibration"
	SensorTypeOutputCount = "output_count"
)

// SensorReading is a high-volume append-only row; no soft delete.
type SensorReading struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LineShift  string    `gorm:"column:line_shift;size:50;not null;index:idx_sensor_line_time" json:"line_shift"`
	SensorType string    `gorm:"size:30;not null;index" json:"sensor_type"`
	Value      float64   `gorm:"not null" json:"value"`
	Unit       string    `gorm:"size:20" json:"unit"`
	RecordedAt time.Time `gorm:"not null;index:idx_sensor_line_time" json:"recorded_at"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (SensorReading) TableName() string { return "sensor_reading" }
