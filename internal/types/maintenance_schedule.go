package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MaintenanceStatusScheduled  = "scheduled"
	MaintenanceStatusInProgress = "in_progress"
	MaintenanceStatusCompleted  = "completed"
	MaintenanceStatusCancelled  = "cancelled"
)

type MaintenanceSchedule struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LineShift       string    `gorm:"column:line_shift;size:50;not null;index" json:"line_shift"`
	MaintenanceType string    `gorm:"size:50;not null" json:"maintenance_type"`
	Description     string    `gorm:"type:text" json:"description"`
	ScheduledFor    time.Time `gorm:"not null;index" json:"scheduled_for"`
	Status          string    `gorm:"size:20;not null;default:'scheduled'" json:"status"`
	Priority        string    `gorm:"size:20;not null;default:'medium'" json:"priority"`
	CreatedBy       string    `gorm:"size:50;not null;default:'workflow'" json:"created_by"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (MaintenanceSchedule) TableName() string { return "maintenance_schedule" }
