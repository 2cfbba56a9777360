package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SuggestionStatusPending     = "pending"
	SuggestionStatusApproved    = "approved"
	SuggestionStatusInProgress  = "in_progress"
	SuggestionStatusImplemented = "implemented"
	SuggestionStatusRejected    = "rejected"
)

// OptimizationSuggestion is generated by rule evaluation or analytics and
// reviewed by a person afterwards. Rows are never auto-deleted.
type OptimizationSuggestion struct {
	ID                   uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Type                 string         `gorm:"size:50;not null;index" json:"type"`
	Title                string         `gorm:"size:150;not null" json:"title"`
	Description          string         `gorm:"type:text" json:"description"`
	TargetLineShift      *string        `gorm:"column:target_line_shift;size:50;index" json:"target_line_shift,omitempty"`
	Priority             string         `gorm:"size:20;not null;default:'medium'" json:"priority"`
	EstimatedImpact      datatypes.JSON `gorm:"type:jsonb" json:"estimated_impact"`
	ImplementationEffort string         `gorm:"size:20;not null;default:'medium'" json:"implementation_effort"`
	RequiredResources    datatypes.JSON `gorm:"type:jsonb" json:"required_resources"`
	Status               string         `gorm:"size:20;not null;default:'pending';index" json:"status"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (OptimizationSuggestion) TableName() string { return "optimization_suggestion" }
