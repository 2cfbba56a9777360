package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/plantmetric/plantmetric-backend/internal/logger"
	"github.com/plantmetric/plantmetric-backend/internal/types"
)

// Evaluation results. A rule whose frequency gate fails is skipped and no
// counters move; everything past the gate counts as one execution.
const (
	ResultSuccess      = "success"
	ResultPartial      = "partial_success"
	ResultFailed       = "failed"
	ResultNotTriggered = "not_triggered"
	ResultSkipped      = "skipped"
)

// MetricResolver supplies current metric values by name. Implementations
// may read from a computed aggregate or run a live query.
type MetricResolver interface {
	Resolve(ctx context.Context, metric string) (float64, error)
}

// ActionExecutor performs one action of a triggered rule and reports how
// many records it touched.
type ActionExecutor interface {
	Execute(ctx context.Context, rule *types.WorkflowRule, action Action) (affected int64, err error)
}

type ActionOutcome struct {
	ActionID string `json:"action_id"`
	Type     string `json:"type"`
	Success  bool   `json:"success"`
	Affected int64  `json:"affected"`
	Error    string `json:"error,omitempty"`
}

type EvaluationResult struct {
	RuleID         string          `json:"rule_id"`
	RuleName       string          `json:"rule_name"`
	Result         string          `json:"result"`
	ConditionMet   bool            `json:"condition_met"`
	ActionOutcomes []ActionOutcome `json:"action_outcomes,omitempty"`
	Error          string          `json:"error,omitempty"`
	StartedAt      time.Time       `json:"started_at"`
	FinishedAt     time.Time       `json:"finished_at"`
}

func (r *EvaluationResult) Skipped() bool { return r.Result == ResultSkipped }

type Evaluator struct {
	log      *logger.Logger
	resolver MetricResolver
	executor ActionExecutor
	now      func() time.Time
}

func NewEvaluator(baseLog *logger.Logger, resolver MetricResolver, executor ActionExecutor) *Evaluator {
	return &Evaluator{
		log:      baseLog.With("component", "WorkflowEvaluator"),
		resolver: resolver,
		executor: executor,
		now:      time.Now,
	}
}

// WithClock overrides the evaluator's clock. Test hook.
func (e *Evaluator) WithClock(now func() time.Time) *Evaluator {
	e.now = now
	return e
}

// EvaluateRule runs one evaluation cycle for one rule. Errors anywhere in
// the cycle are captured in the result, never returned: the batch runner
// must always continue with the next rule.
func (e *Evaluator) EvaluateRule(ctx context.Context, rule *types.WorkflowRule) *EvaluationResult {
	started := e.now()
	res := &EvaluationResult{
		RuleID:    rule.ID.String(),
		RuleName:  rule.Name,
		StartedAt: started,
	}
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("Rule evaluation panic", "rule", rule.Name, "panic", r)
			res.Result = ResultFailed
			res.Error = fmt.Sprintf("panic: %v", r)
		}
		res.FinishedAt = e.now()
	}()

	if !FrequencyEligible(rule.Frequency, rule.LastExecuted, started) {
		res.Result = ResultSkipped
		return res
	}

	conditions, err := ParseConditions(rule.TriggerConditions)
	if err != nil {
		res.Result = ResultFailed
		res.Error = fmt.Sprintf("parse conditions: %v", err)
		return res
	}

	met, condErr := e.anyConditionMet(ctx, conditions)
	res.ConditionMet = met
	if !met {
		if condErr != nil {
			res.Result = ResultFailed
			res.Error = condErr.Error()
			return res
		}
		res.Result = ResultNotTriggered
		return res
	}

	actions, err := ParseActions(rule.Actions)
	if err != nil {
		res.Result = ResultFailed
		res.Error = fmt.Sprintf("parse actions: %v", err)
		return res
	}

	res.ActionOutcomes = e.runActions(ctx, rule, actions)
	res.Result = classify(res.ActionOutcomes)
	return res
}

// anyConditionMet implements OR semantics: the first true condition
// triggers the rule. Resolver failures are tolerated as long as some other
// condition matches; if nothing matched and something failed, the failure
// is the outcome.
func (e *Evaluator) anyConditionMet(ctx context.Context, conditions []Condition) (bool, error) {
	var firstErr error
	for _, cond := range conditions {
		value, err := e.resolver.Resolve(ctx, cond.Metric)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("resolve %s: %w", cond.Metric, err)
			}
			continue
		}
		if cond.Met(value) {
			return true, nil
		}
	}
	return false, firstErr
}

// runActions executes actions in listed order, best effort: one failure
// never aborts the siblings.
func (e *Evaluator) runActions(ctx context.Context, rule *types.WorkflowRule, actions []Action) []ActionOutcome {
	outcomes := make([]ActionOutcome, 0, len(actions))
	for i, action := range actions {
		outcome := ActionOutcome{ActionID: action.ID, Type: action.Type}
		if outcome.ActionID == "" {
			outcome.ActionID = fmt.Sprintf("%s#%d", action.Type, i)
		}
		affected, err := e.executeOne(ctx, rule, action)
		outcome.Affected = affected
		if err != nil {
			outcome.Error = err.Error()
			e.log.Warn("Rule action failed", "rule", rule.Name, "action", action.Type, "error", err)
		} else {
			outcome.Success = true
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

func (e *Evaluator) executeOne(ctx context.Context, rule *types.WorkflowRule, action Action) (affected int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if !KnownActionType(action.Type) {
		return 0, fmt.Errorf("unknown action type %q", action.Type)
	}
	return e.executor.Execute(ctx, rule, action)
}

func classify(outcomes []ActionOutcome) string {
	succeeded := 0
	for _, o := range outcomes {
		if o.Success {
			succeeded++
		}
	}
	switch {
	case len(outcomes) == 0 || succeeded == len(outcomes):
		return ResultSuccess
	case succeeded > 0:
		return ResultPartial
	default:
		return ResultFailed
	}
}

// FrequencyEligible gates a rule by elapsed time since its last execution.
// Realtime rules are always eligible, as is any rule that never ran.
func FrequencyEligible(frequency string, lastExecuted *time.Time, now time.Time) bool {
	if lastExecuted == nil {
		return true
	}
	elapsed := now.Sub(*lastExecuted)
	switch frequency {
	case types.FrequencyHourly:
		return elapsed >= time.Hour
	case types.FrequencyDaily:
		return elapsed >= 24*time.Hour
	case types.FrequencyWeekly:
		return elapsed >= 7*24*time.Hour
	default:
		return true
	}
}

// MarshalOutcomes renders action outcomes for the execution log row.
func MarshalOutcomes(outcomes []ActionOutcome) []byte {
	if len(outcomes) == 0 {
		return []byte("[]")
	}
	raw, err := json.Marshal(outcomes)
	if err != nil {
		return []byte("[]")
	}
	return raw
}
