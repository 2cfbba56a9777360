package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/plantmetric/plantmetric-backend/internal/kpi"
	"github.com/plantmetric/plantmetric-backend/internal/logger"
	"github.com/plantmetric/plantmetric-backend/internal/repos"
	"github.com/plantmetric/plantmetric-backend/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SuggestionService interface {
	Submit(ctx context.Context, suggestion *types.OptimizationSuggestion) (*types.OptimizationSuggestion, error)
	List(ctx context.Context, statuses []string, limit int) ([]*types.OptimizationSuggestion, error)
	UpdateStatus(ctx context.Context, suggestionID uuid.UUID, status string) error

	// Generate derives pending suggestions from per-line aggregates over the
	// query window and persists them for review.
	Generate(ctx context.Context, q MetricsQuery) ([]*types.OptimizationSuggestion, error)
}

type suggestionService struct {
	db          *gorm.DB
	log         *logger.Logger
	suggestions repos.OptimizationSuggestionRepo
	analytics   AnalyticsService
}

func NewSuggestionService(db *gorm.DB, log *logger.Logger, suggestionRepo repos.OptimizationSuggestionRepo, analytics AnalyticsService) SuggestionService {
	serviceLog := log.With("service", "SuggestionService")
	return &suggestionService{
		db:          db,
		log:         serviceLog,
		suggestions: suggestionRepo,
		analytics:   analytics,
	}
}

var validSuggestionStatuses = map[string]struct{}{
	types.SuggestionStatusPending:     {},
	types.SuggestionStatusApproved:    {},
	types.SuggestionStatusInProgress:  {},
	types.SuggestionStatusImplemented: {},
	types.SuggestionStatusRejected:    {},
}

func (ss *suggestionService) Submit(ctx context.Context, suggestion *types.OptimizationSuggestion) (*types.OptimizationSuggestion, error) {
	if suggestion == nil {
		return nil, fmt.Errorf("nil suggestion")
	}
	if suggestion.Title == "" {
		return nil, fmt.Errorf("suggestion title is required")
	}
	if suggestion.Status == "" {
		suggestion.Status = types.SuggestionStatusPending
	}

	saved, err := ss.suggestions.Insert(ctx, nil, suggestion)
	if err != nil {
		ss.log.Error("Failed to insert suggestion", "error", err)
		return nil, fmt.Errorf("insert suggestion: %w", err)
	}
	return saved, nil
}

// Generation thresholds match the report recommendation rules, so a
// generated suggestion always has a matching line in the report narrative.
const (
	genLowEfficiency  = 0.8
	genHighAbsentee   = 5.0
	genLowOEE         = 60.0
	genHighSeparation = 3.0
)

func (ss *suggestionService) Generate(ctx context.Context, q MetricsQuery) ([]*types.OptimizationSuggestion, error) {
	groups, err := ss.analytics.AggregateByLine(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("aggregate by line: %w", err)
	}

	var created []*types.OptimizationSuggestion
	for _, g := range groups {
		for _, candidate := range suggestionsForLine(g) {
			saved, err := ss.suggestions.Insert(ctx, nil, candidate)
			if err != nil {
				ss.log.Error("Failed to insert generated suggestion", "line_shift", g.Key, "error", err)
				return created, fmt.Errorf("insert generated suggestion: %w", err)
			}
			created = append(created, saved)
		}
	}
	ss.log.Info("Generated suggestions", "lines", len(groups), "suggestions", len(created))
	return created, nil
}

func suggestionsForLine(g kpi.GroupAggregate) []*types.OptimizationSuggestion {
	if g.Count == 0 {
		return nil
	}
	line := g.Key
	var out []*types.OptimizationSuggestion

	if eff, ok := g.Stat("efficiency"); ok && eff.Mean < genLowEfficiency {
		out = append(out, generatedSuggestion(line, "training",
			fmt.Sprintf("Operator training for %s", line),
			fmt.Sprintf("Average efficiency %.2f is below the %.2f target. Schedule operator training and review line balancing.", eff.Mean, genLowEfficiency),
			"high", map[string]any{"efficiency_gain": genLowEfficiency - eff.Mean}))
	}
	if ab, ok := g.Stat("absentee_rate"); ok && ab.Mean > genHighAbsentee {
		out = append(out, generatedSuggestion(line, "staffing",
			fmt.Sprintf("Staffing review for %s", line),
			fmt.Sprintf("Average absentee rate %.1f%% exceeds the %.0f%% ceiling. Review attendance drivers and staffing buffers.", ab.Mean, genHighAbsentee),
			"medium", map[string]any{"absentee_reduction": ab.Mean - genHighAbsentee}))
	}
	if sep, ok := g.Stat("separation_rate"); ok && sep.Mean > genHighSeparation {
		out = append(out, generatedSuggestion(line, "retention",
			fmt.Sprintf("Retention plan for %s", line),
			fmt.Sprintf("Average separation rate %.1f%% exceeds the %.0f%% ceiling. Investigate turnover causes on this line.", sep.Mean, genHighSeparation),
			"medium", map[string]any{"separation_reduction": sep.Mean - genHighSeparation}))
	}
	if oee, ok := g.Stat("oee"); ok && oee.Mean < genLowOEE {
		out = append(out, generatedSuggestion(line, "maintenance",
			fmt.Sprintf("Downtime reduction for %s", line),
			fmt.Sprintf("Average OEE %.1f is below the %.0f target. Prioritize downtime reduction and preventive maintenance.", oee.Mean, genLowOEE),
			"high", map[string]any{"oee_gain": genLowOEE - oee.Mean}))
	}
	return out
}

func generatedSuggestion(line, typ, title, description, priority string, impact map[string]any) *types.OptimizationSuggestion {
	target := line
	s := &types.OptimizationSuggestion{
		Type:            typ,
		Title:           title,
		Description:     description,
		TargetLineShift: &target,
		Priority:        priority,
		Status:          types.SuggestionStatusPending,
	}
	if raw, err := json.Marshal(impact); err == nil {
		s.EstimatedImpact = datatypes.JSON(raw)
	}
	return s
}

func (ss *suggestionService) List(ctx context.Context, statuses []string, limit int) ([]*types.OptimizationSuggestion, error) {
	return ss.suggestions.List(ctx, nil, statuses, limit)
}

func (ss *suggestionService) UpdateStatus(ctx context.Context, suggestionID uuid.UUID, status string) error {
	if _, ok := validSuggestionStatuses[status]; !ok {
		return fmt.Errorf("invalid suggestion status %q", status)
	}
	n, err := ss.suggestions.UpdateStatus(ctx, nil, suggestionID, status)
	if err != nil {
		ss.log.Error("Failed to update suggestion status", "suggestion_id", suggestionID.String(), "error", err)
		return fmt.Errorf("update suggestion status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("suggestion %s not found", suggestionID)
	}
	return nil
}
