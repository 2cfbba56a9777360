package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AlertSeverityInfo     = "info"
	AlertSeverityWarning  = "warning"
	AlertSeverityCritical = "critical"
)

type Alert struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Type         string    `gorm:"size:50;not null;index" json:"type"`
	Severity     string    `gorm:"size:20;not null;default:'info'" json:"severity"`
	Title        string    `gorm:"size:150;not null" json:"title"`
	Message      string    `gorm:"type:text" json:"message"`
	TargetLine   string    `gorm:"column:target_line;size:50;index" json:"target_line"`
	Acknowledged bool      `gorm:"not null;default:false" json:"acknowledged"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Alert) TableName() string { return "alert" }
