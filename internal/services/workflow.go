package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/plantmetric/plantmetric-backend/internal/logger"
	"github.com/plantmetric/plantmetric-backend/internal/repos"
	"github.com/plantmetric/plantmetric-backend/internal/types"
	"github.com/plantmetric/plantmetric-backend/internal/workflow"
	"gorm.io/gorm"
)

// workflowRunLockID keys the Postgres advisory lock that keeps concurrent
// instances from running the same evaluation cycle twice.
const workflowRunLockID = 7042001

type WorkflowService interface {
	CreateRule(ctx context.Context, rule *types.WorkflowRule) (*types.WorkflowRule, error)
	ListRules(ctx context.Context) ([]*types.WorkflowRule, error)
	SetActive(ctx context.Context, ruleID uuid.UUID, active bool) error
	ExecutionLogs(ctx context.Context, ruleID uuid.UUID, limit int) ([]*types.WorkflowExecutionLog, error)

	// RunDue evaluates every active rule whose frequency gate has elapsed
	// and persists counters and an execution log per evaluated rule.
	RunDue(ctx context.Context) ([]*workflow.EvaluationResult, error)
}

type workflowService struct {
	db        *gorm.DB
	log       *logger.Logger
	ruleRepo  repos.WorkflowRuleRepo
	evaluator *workflow.Evaluator
	now       func() time.Time
}

func NewWorkflowService(db *gorm.DB, log *logger.Logger, ruleRepo repos.WorkflowRuleRepo, evaluator *workflow.Evaluator) WorkflowService {
	serviceLog := log.With("service", "WorkflowService")
	return &workflowService{
		db:        db,
		log:       serviceLog,
		ruleRepo:  ruleRepo,
		evaluator: evaluator,
		now:       time.Now,
	}
}

func (ws *workflowService) CreateRule(ctx context.Context, rule *types.WorkflowRule) (*types.WorkflowRule, error) {
	if rule == nil {
		return nil, fmt.Errorf("nil rule")
	}
	if rule.Name == "" {
		return nil, fmt.Errorf("rule name is required")
	}
	if _, err := workflow.ParseConditions(rule.TriggerConditions); err != nil {
		return nil, fmt.Errorf("invalid trigger conditions: %w", err)
	}
	actions, err := workflow.ParseActions(rule.Actions)
	if err != nil {
		return nil, fmt.Errorf("invalid actions: %w", err)
	}
	for _, a := range actions {
		if !workflow.KnownActionType(a.Type) {
			return nil, fmt.Errorf("unknown action type %q", a.Type)
		}
	}
	if rule.Frequency == "" {
		rule.Frequency = types.FrequencyRealtime
	}

	created, err := ws.ruleRepo.Create(ctx, nil, []*types.WorkflowRule{rule})
	if err != nil {
		ws.log.Error("Failed to create workflow rule", "error", err)
		return nil, fmt.Errorf("create workflow rule: %w", err)
	}
	return created[0], nil
}

func (ws *workflowService) ListRules(ctx context.Context) ([]*types.WorkflowRule, error) {
	return ws.ruleRepo.ListActive(ctx, nil)
}

func (ws *workflowService) SetActive(ctx context.Context, ruleID uuid.UUID, active bool) error {
	n, err := ws.ruleRepo.SetActive(ctx, nil, ruleID, active)
	if err != nil {
		ws.log.Error("Failed to toggle workflow rule", "rule_id", ruleID.String(), "error", err)
		return fmt.Errorf("toggle workflow rule: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("workflow rule %s not found", ruleID)
	}
	return nil
}

func (ws *workflowService) ExecutionLogs(ctx context.Context, ruleID uuid.UUID, limit int) ([]*types.WorkflowExecutionLog, error) {
	return ws.ruleRepo.ListLogs(ctx, nil, ruleID, limit)
}

func (ws *workflowService) RunDue(ctx context.Context) ([]*workflow.EvaluationResult, error) {
	locked, release, err := ws.tryAdvisoryLock(ctx)
	if err != nil {
		return nil, err
	}
	if !locked {
		ws.log.Info("Workflow run already in progress elsewhere, skipping")
		return nil, nil
	}
	defer release()

	rules, err := ws.ruleRepo.ListActive(ctx, nil)
	if err != nil {
		ws.log.Error("Failed to list active rules", "error", err)
		return nil, fmt.Errorf("list active rules: %w", err)
	}

	results := make([]*workflow.EvaluationResult, 0, len(rules))
	for _, rule := range rules {
		res := ws.evaluator.EvaluateRule(ctx, rule)
		results = append(results, res)
		if res.Skipped() {
			continue
		}
		if err := ws.persistResult(ctx, rule, res); err != nil {
			ws.log.Error("Failed to persist rule result", "rule_id", rule.ID.String(), "error", err)
		}
	}

	ws.log.Info("Workflow run complete", "rules", len(rules), "evaluated", len(results))
	return results, nil
}

// persistResult bumps the rule counters and appends the log row. Both
// happen even when the evaluation itself failed.
func (ws *workflowService) persistResult(ctx context.Context, rule *types.WorkflowRule, res *workflow.EvaluationResult) error {
	update := repos.ExecutionUpdate{
		Succeeded:    res.Result != workflow.ResultFailed,
		LastExecuted: res.FinishedAt,
	}
	if res.Error != "" {
		msg := res.Error
		update.LastError = &msg
	}
	if err := ws.ruleRepo.RecordExecution(ctx, nil, rule.ID, update); err != nil {
		return fmt.Errorf("record execution: %w", err)
	}

	entry := &types.WorkflowExecutionLog{
		RuleID:        rule.ID,
		Result:        res.Result,
		ConditionMet:  res.ConditionMet,
		ActionResults: workflow.MarshalOutcomes(res.ActionOutcomes),
		StartedAt:     res.StartedAt,
		FinishedAt:    res.FinishedAt,
	}
	if res.Error != "" {
		msg := res.Error
		entry.ErrorMessage = &msg
	}
	if err := ws.ruleRepo.AppendLog(ctx, nil, entry); err != nil {
		return fmt.Errorf("append execution log: %w", err)
	}
	return nil
}

func (ws *workflowService) tryAdvisoryLock(ctx context.Context) (bool, func(), error) {
	if ws.db == nil {
		return true, func() {}, nil
	}

	var locked bool
	if err := ws.db.WithContext(ctx).Raw("SELECT pg_try_advisory_lock(?)", workflowRunLockID).Scan(&locked).Error; err != nil {
		return false, nil, fmt.Errorf("acquire workflow lock: %w", err)
	}
	if !locked {
		return false, nil, nil
	}
	release := func() {
		if err := ws.db.Exec("SELECT pg_advisory_unlock(?)", workflowRunLockID).Error; err != nil {
			ws.log.Warn("Failed to release workflow lock", "error", err)
		}
	}
	return true, release, nil
}
