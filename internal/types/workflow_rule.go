package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	FrequencyRealtime = "realtime"
	FrequencyHourly   = "hourly"
	FrequencyDaily    = "daily"
	FrequencyWeekly   = "weekly"
)

// WorkflowRule is a named automation definition: trigger conditions over
// current metrics plus an ordered action list. Conditions and actions are
// stored as JSON so operators can edit them without a schema change.
// Counters and LastExecuted are updated on every evaluation, including
// failed ones.
type WorkflowRule struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name              string         `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description       string         `gorm:"type:text" json:"description"`
	TriggerConditions datatypes.JSON `gorm:"type:jsonb;not null" json:"trigger_conditions"`
	Actions           datatypes.JSON `gorm:"type:jsonb;not null" json:"actions"`
	Frequency         string         `gorm:"size:20;not null;default:'realtime'" json:"frequency"`
	Active            bool           `gorm:"not null;default:true;index" json:"active"`

	ExecutionCount int        `gorm:"not null;default:0" json:"execution_count"`
	SuccessCount   int        `gorm:"not null;default:0" json:"success_count"`
	FailureCount   int        `gorm:"not null;default:0" json:"failure_count"`
	LastExecuted   *time.Time `gorm:"column:last_executed" json:"last_executed,omitempty"`
	LastError      *string    `gorm:"column:last_error;size:500" json:"last_error,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (WorkflowRule) TableName() string { return "workflow_rule" }

// WorkflowExecutionLog records one evaluation cycle of one rule.
type WorkflowExecutionLog struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RuleID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"rule_id"`
	Rule          *WorkflowRule  `gorm:"constraint:OnDelete:CASCADE;foreignKey:RuleID;references:ID" json:"rule,omitempty"`
	Result        string         `gorm:"size:20;not null" json:"result"`
	ConditionMet  bool           `gorm:"not null;default:false" json:"condition_met"`
	ActionResults datatypes.JSON `gorm:"type:jsonb" json:"action_results"`
	ErrorMessage  *string        `gorm:"size:500" json:"error_message,omitempty"`
	StartedAt     time.Time      `gorm:"not null" json:"started_at"`
	FinishedAt    time.Time      `gorm:"not null" json:"finished_at"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (WorkflowExecutionLog) TableName() string { return "workflow_execution_log" }
