package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/plantmetric/plantmetric-backend/internal/repos"
	"github.com/plantmetric/plantmetric-backend/internal/types"
	"github.com/plantmetric/plantmetric-backend/internal/workflow"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fakeRuleRepo struct {
	rules      []*types.WorkflowRule
	executions map[uuid.UUID][]repos.ExecutionUpdate
	logs       []*types.WorkflowExecutionLog
}

func newFakeRuleRepo(rules ...*types.WorkflowRule) *fakeRuleRepo {
	return &fakeRuleRepo{rules: rules, executions: make(map[uuid.UUID][]repos.ExecutionUpdate)}
}

func (f *fakeRuleRepo) Create(ctx context.Context, tx *gorm.DB, rules []*types.WorkflowRule) ([]*types.WorkflowRule, error) {
	f.rules = append(f.rules, rules...)
	return rules, nil
}

func (f *fakeRuleRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.WorkflowRule, error) {
	var out []*types.WorkflowRule
	for _, r := range f.rules {
		if r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRuleRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.WorkflowRule, error) {
	var out []*types.WorkflowRule
	for _, r := range f.rules {
		for _, id := range ids {
			if r.ID == id {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (f *fakeRuleRepo) SetActive(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID, active bool) (int64, error) {
	for _, r := range f.rules {
		if r.ID == ruleID {
			r.Active = active
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeRuleRepo) RecordExecution(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID, update repos.ExecutionUpdate) error {
	f.executions[ruleID] = append(f.executions[ruleID], update)
	return nil
}

func (f *fakeRuleRepo) AppendLog(ctx context.Context, tx *gorm.DB, entry *types.WorkflowExecutionLog) error {
	f.logs = append(f.logs, entry)
	return nil
}

func (f *fakeRuleRepo) ListLogs(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID, limit int) ([]*types.WorkflowExecutionLog, error) {
	var out []*types.WorkflowExecutionLog
	for _, l := range f.logs {
		if l.RuleID == ruleID {
			out = append(out, l)
		}
	}
	return out, nil
}

type stubResolver struct {
	value float64
	err   error
}

func (s stubResolver) Resolve(ctx context.Context, metric string) (float64, error) {
	return s.value, s.err
}

type stubExecutor struct {
	executed int
	err      error
}

func (s *stubExecutor) Execute(ctx context.Context, rule *types.WorkflowRule, action workflow.Action) (int64, error) {
	s.executed++
	if s.err != nil {
		return 0, s.err
	}
	return 1, nil
}

func testRule(frequency string, lastExecuted *time.Time) *types.WorkflowRule {
	return &types.WorkflowRule{
		ID:                uuid.New(),
		Name:              "low-efficiency",
		TriggerConditions: datatypes.JSON(`[{"metric":"efficiency","operator":"<","threshold":0.8}]`),
		Actions:           datatypes.JSON(`[{"id":"a1","type":"create_alert"}]`),
		Frequency:         frequency,
		Active:            true,
		LastExecuted:      lastExecuted,
	}
}

func newWorkflowForTest(t *testing.T, ruleRepo repos.WorkflowRuleRepo, resolver workflow.MetricResolver, executor workflow.ActionExecutor) WorkflowService {
	t.Helper()
	evaluator := workflow.NewEvaluator(testLogger(t), resolver, executor)
	return NewWorkflowService(nil, testLogger(t), ruleRepo, evaluator)
}

func TestRunDuePersistsCountersAndLog(t *testing.T) {
	rule := testRule(types.FrequencyRealtime, nil)
	repo := newFakeRuleRepo(rule)
	executor := &stubExecutor{}
	svc := newWorkflowForTest(t, repo, stubResolver{value: 0.5}, executor)

	results, err := svc.RunDue(context.Background())
	if err != nil {
		t.Fatalf("RunDue: %v", err)
	}
	if len(results) != 1 || results[0].Result != workflow.ResultSuccess {
		t.Fatalf("results: %+v", results)
	}
	if executor.executed != 1 {
		t.Fatalf("executed: want=1 got=%d", executor.executed)
	}

	updates := repo.executions[rule.ID]
	if len(updates) != 1 || !updates[0].Succeeded {
		t.Fatalf("execution updates: %+v", updates)
	}
	if len(repo.logs) != 1 || repo.logs[0].Result != workflow.ResultSuccess || !repo.logs[0].ConditionMet {
		t.Fatalf("logs: %+v", repo.logs)
	}
}

func TestRunDueSkippedRuleLeavesCountersAlone(t *testing.T) {
	recent := time.Now().Add(-time.Minute)
	rule := testRule(types.FrequencyDaily, &recent)
	repo := newFakeRuleRepo(rule)
	svc := newWorkflowForTest(t, repo, stubResolver{value: 0.5}, &stubExecutor{})

	results, err := svc.RunDue(context.Background())
	if err != nil {
		t.Fatalf("RunDue: %v", err)
	}
	if len(results) != 1 || results[0].Result != workflow.ResultSkipped {
		t.Fatalf("results: %+v", results)
	}
	if len(repo.executions[rule.ID]) != 0 || len(repo.logs) != 0 {
		t.Fatalf("skipped rule persisted state: executions=%d logs=%d", len(repo.executions[rule.ID]), len(repo.logs))
	}
}

func TestRunDueNotTriggeredStillPersists(t *testing.T) {
	rule := testRule(types.FrequencyRealtime, nil)
	repo := newFakeRuleRepo(rule)
	executor := &stubExecutor{}
	// 0.9 does not satisfy efficiency < 0.8, so no action runs.
	svc := newWorkflowForTest(t, repo, stubResolver{value: 0.9}, executor)

	results, err := svc.RunDue(context.Background())
	if err != nil {
		t.Fatalf("RunDue: %v", err)
	}
	if len(results) != 1 || results[0].Result != workflow.ResultNotTriggered {
		t.Fatalf("results: %+v", results)
	}
	if executor.executed != 0 {
		t.Fatalf("no action should run, got=%d", executor.executed)
	}

	updates := repo.executions[rule.ID]
	if len(updates) != 1 || !updates[0].Succeeded {
		t.Fatalf("not-triggered evaluation must still bump counters: %+v", updates)
	}
	if len(repo.logs) != 1 || repo.logs[0].Result != workflow.ResultNotTriggered || repo.logs[0].ConditionMet {
		t.Fatalf("logs: %+v", repo.logs)
	}
}

func TestRunDueRecordsFailure(t *testing.T) {
	rule := testRule(types.FrequencyRealtime, nil)
	repo := newFakeRuleRepo(rule)
	svc := newWorkflowForTest(t, repo, stubResolver{err: context.DeadlineExceeded}, &stubExecutor{})

	results, err := svc.RunDue(context.Background())
	if err != nil {
		t.Fatalf("RunDue: %v", err)
	}
	if len(results) != 1 || results[0].Result != workflow.ResultFailed {
		t.Fatalf("results: %+v", results)
	}
	updates := repo.executions[rule.ID]
	if len(updates) != 1 || updates[0].Succeeded {
		t.Fatalf("failure should bump failure counter: %+v", updates)
	}
	if updates[0].LastError == nil {
		t.Fatalf("expected last_error to be set")
	}
}

func TestCreateRuleValidation(t *testing.T) {
	repo := newFakeRuleRepo()
	svc := newWorkflowForTest(t, repo, stubResolver{}, &stubExecutor{})
	ctx := context.Background()

	cases := []struct {
		name string
		rule *types.WorkflowRule
	}{
		{"nil rule", nil},
		{"missing name", testRuleNamed("")},
		{"empty conditions", func() *types.WorkflowRule {
			r := testRuleNamed("r1")
			r.TriggerConditions = datatypes.JSON(`[]`)
			return r
		}()},
		{"unknown action", func() *types.WorkflowRule {
			r := testRuleNamed("r2")
			r.Actions = datatypes.JSON(`[{"type":"launch_rocket"}]`)
			return r
		}()},
	}
	for _, tc := range cases {
		if _, err := svc.CreateRule(ctx, tc.rule); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}

	valid := testRuleNamed("valid-rule")
	created, err := svc.CreateRule(ctx, valid)
	if err != nil {
		t.Fatalf("CreateRule valid: %v", err)
	}
	if created.Frequency != types.FrequencyRealtime {
		t.Fatalf("default frequency: got=%q", created.Frequency)
	}
}

func testRuleNamed(name string) *types.WorkflowRule {
	r := testRule("", nil)
	r.Name = name
	return r
}
