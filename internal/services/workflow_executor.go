package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/plantmetric/plantmetric-backend/internal/logger"
	"github.com/plantmetric/plantmetric-backend/internal/types"
	"github.com/plantmetric/plantmetric-backend/internal/workflow"
)

// actionExecutor maps each action type of a triggered rule onto the
// owning service. Report generation and parameter adjustment have no
// direct side channel yet, so they degrade to suggestions an operator
// reviews.
type actionExecutor struct {
	log         *logger.Logger
	alerts      AlertService
	maintenance MaintenanceService
	suggestions SuggestionService
	now         func() time.Time
}

func NewActionExecutor(log *logger.Logger, alerts AlertService, maintenance MaintenanceService, suggestions SuggestionService) workflow.ActionExecutor {
	return &actionExecutor{
		log:         log.With("component", "ActionExecutor"),
		alerts:      alerts,
		maintenance: maintenance,
		suggestions: suggestions,
		now:         time.Now,
	}
}

func (ae *actionExecutor) Execute(ctx context.Context, rule *types.WorkflowRule, action workflow.Action) (int64, error) {
	switch action.Type {
	case workflow.ActionCreateAlert:
		return ae.createAlert(ctx, rule, action, types.AlertSeverityWarning)
	case workflow.ActionNotifySupervisor:
		return ae.createAlert(ctx, rule, action, types.AlertSeverityInfo)
	case workflow.ActionEscalateIssue:
		return ae.createAlert(ctx, rule, action, types.AlertSeverityCritical)
	case workflow.ActionScheduleMaintenance:
		return ae.scheduleMaintenance(ctx, rule, action)
	case workflow.ActionAdjustParameters, workflow.ActionOptimizeResourceAlloc, workflow.ActionQualityControlCheckpoint, workflow.ActionGenerateReport:
		return ae.createSuggestion(ctx, rule, action)
	default:
		return 0, fmt.Errorf("unsupported action type %q", action.Type)
	}
}

func (ae *actionExecutor) createAlert(ctx context.Context, rule *types.WorkflowRule, action workflow.Action, severity string) (int64, error) {
	alert := &types.Alert{
		Type:       action.Type,
		Severity:   paramString(action.Params, "severity", severity),
		Title:      paramString(action.Params, "title", "Workflow rule triggered: "+rule.Name),
		Message:    paramString(action.Params, "message", rule.Description),
		TargetLine: paramString(action.Params, "line_shift", ""),
	}
	if _, err := ae.alerts.Raise(ctx, alert); err != nil {
		return 0, err
	}
	return 1, nil
}

func (ae *actionExecutor) scheduleMaintenance(ctx context.Context, rule *types.WorkflowRule, action workflow.Action) (int64, error) {
	line := paramString(action.Params, "line_shift", "")
	if line == "" {
		return 0, fmt.Errorf("schedule_maintenance requires a line_shift param")
	}

	delayHours := paramFloat(action.Params, "delay_hours", 24)
	schedule := &types.MaintenanceSchedule{
		LineShift:       line,
		MaintenanceType: paramString(action.Params, "maintenance_type", "preventive"),
		Description:     paramString(action.Params, "description", "Scheduled by workflow rule "+rule.Name),
		ScheduledFor:    ae.now().Add(time.Duration(delayHours * float64(time.Hour))),
		Priority:        paramString(action.Params, "priority", "medium"),
		CreatedBy:       "workflow",
	}
	if _, err := ae.maintenance.Schedule(ctx, schedule); err != nil {
		return 0, err
	}
	return 1, nil
}

func (ae *actionExecutor) createSuggestion(ctx context.Context, rule *types.WorkflowRule, action workflow.Action) (int64, error) {
	suggestion := &types.OptimizationSuggestion{
		Type:        action.Type,
		Title:       paramString(action.Params, "title", "Follow up on rule: "+rule.Name),
		Description: paramString(action.Params, "description", rule.Description),
		Priority:    paramString(action.Params, "priority", "medium"),
		Status:      types.SuggestionStatusPending,
	}
	if line := paramString(action.Params, "line_shift", ""); line != "" {
		suggestion.TargetLineShift = &line
	}
	if impact, ok := action.Params["estimated_impact"]; ok {
		if raw, err := json.Marshal(impact); err == nil {
			suggestion.EstimatedImpact = raw
		}
	}
	if _, err := ae.suggestions.Submit(ctx, suggestion); err != nil {
		return 0, err
	}
	return 1, nil
}

func paramString(params map[string]any, key, fallback string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

func paramFloat(params map[string]any, key string, fallback float64) float64 {
	if v, ok := params[key]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return fallback
}
