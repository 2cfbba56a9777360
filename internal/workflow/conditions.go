package workflow

import (
	"encoding/json"
	"fmt"
	"math"

	"gorm.io/datatypes"
)

const (
	OpGreater      = ">"
	OpLess         = "<"
	OpEqual        = "="
	OpGreaterEqual = ">="
	OpLessEqual    = "<="
	// Aliases used for percentage-valued metrics; comparison semantics match
	// < and >.
	OpPercentBelow = "percent_below"
	OpPercentAbove = "percent_above"
)

const floatEqualityEpsilon = 1e-9

// Action types a rule may list. The executor maps each to a concrete side
// effect.
const (
	ActionCreateAlert              = "create_alert"
	ActionAdjustParameters         = "adjust_parameters"
	ActionScheduleMaintenance      = "schedule_maintenance"
	ActionNotifySupervisor         = "notify_supervisor"
	ActionOptimizeResourceAlloc    = "optimize_resource_allocation"
	ActionGenerateReport           = "generate_report"
	ActionQualityControlCheckpoint = "quality_control_checkpoint"
	ActionEscalateIssue            = "escalate_issue"
)

var knownActionTypes = map[string]struct{}{
	ActionCreateAlert:              {},
	ActionAdjustParameters:         {},
	ActionScheduleMaintenance:      {},
	ActionNotifySupervisor:         {},
	ActionOptimizeResourceAlloc:    {},
	ActionGenerateReport:           {},
	ActionQualityControlCheckpoint: {},
	ActionEscalateIssue:            {},
}

func KnownActionType(t string) bool {
	_, ok := knownActionTypes[t]
	return ok
}

type Condition struct {
	Metric    string  `json:"metric"`
	Operator  string  `json:"operator"`
	Threshold float64 `json:"threshold"`
}

func (c Condition) Met(value float64) bool {
	switch c.Operator {
	case OpGreater, OpPercentAbove:
		return value > c.Threshold
	case OpLess, OpPercentBelow:
		return value < c.Threshold
	case OpGreaterEqual:
		return value >= c.Threshold
	case OpLessEqual:
		return value <= c.Threshold
	case OpEqual:
		return math.Abs(value-c.Threshold) < floatEqualityEpsilon
	default:
		return false
	}
}

type Action struct {
	ID     string         `json:"id,omitempty"`
	Type   string         `json:"type"`
	Params map[string]any `json:"params,omitempty"`
}

func ParseConditions(raw datatypes.JSON) ([]Condition, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("rule has no trigger conditions")
	}
	var out []Condition
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("rule has no trigger conditions")
	}
	return out, nil
}

func ParseActions(raw datatypes.JSON) ([]Action, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("rule has no actions")
	}
	var out []Action
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("rule has no actions")
	}
	return out, nil
}
