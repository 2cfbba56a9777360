package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plantmetric/plantmetric-backend/internal/logger"
	"github.com/plantmetric/plantmetric-backend/internal/types"
)

// ExecutionUpdate carries the counter deltas and status of one evaluation
// cycle. Counters move even when the cycle failed.
type ExecutionUpdate struct {
	Succeeded    bool
	LastError    *string
	LastExecuted time.Time
}

type WorkflowRuleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rules []*types.WorkflowRule) ([]*types.WorkflowRule, error)
	ListActive(ctx context.Context, tx *gorm.DB) ([]*types.WorkflowRule, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.WorkflowRule, error)
	SetActive(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID, active bool) (int64, error)
	RecordExecution(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID, update ExecutionUpdate) error
	AppendLog(ctx context.Context, tx *gorm.DB, entry *types.WorkflowExecutionLog) error
	ListLogs(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID, limit int) ([]*types.WorkflowExecutionLog, error)
}

type workflowRuleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkflowRuleRepo(db *gorm.DB, baseLog *logger.Logger) WorkflowRuleRepo {
	repoLog := baseLog.With("repo", "WorkflowRuleRepo")
	return &workflowRuleRepo{db: db, log: repoLog}
}

func (wr *workflowRuleRepo) Create(ctx context.Context, tx *gorm.DB, rules []*types.WorkflowRule) ([]*types.WorkflowRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}

	if len(rules) == 0 {
		return []*types.WorkflowRule{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (wr *workflowRuleRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.WorkflowRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}

	var results []*types.WorkflowRule
	if err := transaction.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (wr *workflowRuleRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.WorkflowRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}

	var results []*types.WorkflowRule
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (wr *workflowRuleRepo) SetActive(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID, active bool) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.WorkflowRule{}).
		Where("id = ?", ruleID).
		Update("active", active)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// RecordExecution bumps counters and stamps last_executed in one update so
// the read-modify-write stays inside the database.
func (wr *workflowRuleRepo) RecordExecution(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID, update ExecutionUpdate) error {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}

	updates := map[string]interface{}{
		"execution_count": gorm.Expr("execution_count + 1"),
		"last_executed":   update.LastExecuted,
		"last_error":      update.LastError,
	}
	if update.Succeeded {
		updates["success_count"] = gorm.Expr("success_count + 1")
	} else {
		updates["failure_count"] = gorm.Expr("failure_count + 1")
	}

	return transaction.WithContext(ctx).
		Model(&types.WorkflowRule{}).
		Where("id = ?", ruleID).
		Updates(updates).Error
}

func (wr *workflowRuleRepo) AppendLog(ctx context.Context, tx *gorm.DB, entry *types.WorkflowExecutionLog) error {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}
	return transaction.WithContext(ctx).Create(entry).Error
}

func (wr *workflowRuleRepo) ListLogs(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID, limit int) ([]*types.WorkflowExecutionLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}
	if limit <= 0 {
		limit = 50
	}

	var results []*types.WorkflowExecutionLog
	if err := transaction.WithContext(ctx).
		Where("rule_id = ?", ruleID).
		Order("started_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
