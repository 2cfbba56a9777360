package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QualityMeasurement struct {
	ID                uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CheckpointID      string    `gorm:"column:checkpoint_id;size:50;not null;index" json:"checkpoint_id"`
	LineShift         string    `gorm:"column:line_shift;size:50;index" json:"line_shift"`
	Category          string    `gorm:"size:50;index" json:"category"`
	Date              time.Time `gorm:"type:date;not null;index" json:"date"`
	IsConforming      bool      `gorm:"not null;default:true" json:"is_conforming"`
	DefectDescription string    `gorm:"size:255" json:"defect_description"`
	CorrectiveAction  string    `gorm:"size:255" json:"corrective_action"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (QualityMeasurement) TableName() string { return "quality_measurement" }
