package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/plantmetric/plantmetric-backend/internal/types"
	"github.com/plantmetric/plantmetric-backend/internal/workflow"
)

type spyAlertService struct {
	raised []*types.Alert
}

func (s *spyAlertService) Raise(ctx context.Context, alert *types.Alert) (*types.Alert, error) {
	s.raised = append(s.raised, alert)
	return alert, nil
}

func (s *spyAlertService) List(ctx context.Context, limit int, unacknowledgedOnly bool) ([]*types.Alert, error) {
	return nil, nil
}

func (s *spyAlertService) Acknowledge(ctx context.Context, alertID uuid.UUID) error { return nil }

type spyMaintenanceService struct {
	scheduled []*types.MaintenanceSchedule
}

func (s *spyMaintenanceService) Schedule(ctx context.Context, schedule *types.MaintenanceSchedule) (*types.MaintenanceSchedule, error) {
	s.scheduled = append(s.scheduled, schedule)
	return schedule, nil
}

func (s *spyMaintenanceService) List(ctx context.Context, lineShift string, statuses []string) ([]*types.MaintenanceSchedule, error) {
	return nil, nil
}

func (s *spyMaintenanceService) UpdateStatus(ctx context.Context, scheduleID uuid.UUID, status string) error {
	return nil
}

type spySuggestionService struct {
	submitted []*types.OptimizationSuggestion
}

func (s *spySuggestionService) Submit(ctx context.Context, suggestion *types.OptimizationSuggestion) (*types.OptimizationSuggestion, error) {
	s.submitted = append(s.submitted, suggestion)
	return suggestion, nil
}

func (s *spySuggestionService) List(ctx context.Context, statuses []string, limit int) ([]*types.OptimizationSuggestion, error) {
	return nil, nil
}

func (s *spySuggestionService) UpdateStatus(ctx context.Context, suggestionID uuid.UUID, status string) error {
	return nil
}

func (s *spySuggestionService) Generate(ctx context.Context, q MetricsQuery) ([]*types.OptimizationSuggestion, error) {
	return nil, nil
}

func TestActionExecutorMapsActionTypes(t *testing.T) {
	alerts := &spyAlertService{}
	maintenance := &spyMaintenanceService{}
	suggestions := &spySuggestionService{}
	executor := NewActionExecutor(testLogger(t), alerts, maintenance, suggestions)

	rule := &types.WorkflowRule{ID: uuid.New(), Name: "hot line", Description: "temperature drift"}
	ctx := context.Background()

	if _, err := executor.Execute(ctx, rule, workflow.Action{Type: workflow.ActionEscalateIssue}); err != nil {
		t.Fatalf("escalate_issue: %v", err)
	}
	if len(alerts.raised) != 1 || alerts.raised[0].Severity != types.AlertSeverityCritical {
		t.Fatalf("escalation alert: %+v", alerts.raised)
	}
	if alerts.raised[0].Title != "Workflow rule triggered: hot line" {
		t.Fatalf("alert title: %q", alerts.raised[0].Title)
	}

	if _, err := executor.Execute(ctx, rule, workflow.Action{
		Type:   workflow.ActionScheduleMaintenance,
		Params: map[string]any{"line_shift": "L1-A", "priority": "high", "delay_hours": 2.0},
	}); err != nil {
		t.Fatalf("schedule_maintenance: %v", err)
	}
	if len(maintenance.scheduled) != 1 {
		t.Fatalf("scheduled: %+v", maintenance.scheduled)
	}
	if got := maintenance.scheduled[0]; got.LineShift != "L1-A" || got.Priority != "high" || got.CreatedBy != "workflow" {
		t.Fatalf("schedule fields: %+v", got)
	}

	if _, err := executor.Execute(ctx, rule, workflow.Action{
		Type:   workflow.ActionOptimizeResourceAlloc,
		Params: map[string]any{"line_shift": "L2-B"},
	}); err != nil {
		t.Fatalf("optimize_resource_allocation: %v", err)
	}
	if len(suggestions.submitted) != 1 {
		t.Fatalf("suggestions: %+v", suggestions.submitted)
	}
	if got := suggestions.submitted[0]; got.TargetLineShift == nil || *got.TargetLineShift != "L2-B" {
		t.Fatalf("suggestion target line: %+v", got)
	}

	if _, err := executor.Execute(ctx, rule, workflow.Action{Type: "bogus"}); err == nil {
		t.Fatalf("expected error for unsupported action type")
	}
}

func TestScheduleMaintenanceRequiresLine(t *testing.T) {
	executor := NewActionExecutor(testLogger(t), &spyAlertService{}, &spyMaintenanceService{}, &spySuggestionService{})
	rule := &types.WorkflowRule{ID: uuid.New(), Name: "r"}

	if _, err := executor.Execute(context.Background(), rule, workflow.Action{Type: workflow.ActionScheduleMaintenance}); err == nil {
		t.Fatalf("expected error without line_shift param")
	}
}
