package kpi

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultScoringYAML []byte

const (
	DirectionAtLeast = "at_least"
	DirectionAtMost  = "at_most"
)

type Breakpoint struct {
	Threshold float64 `yaml:"threshold" json:"threshold"`
	Score     float64 `yaml:"score" json:"score"`
}

// BreakpointTable maps a metric value to points. Breakpoints are evaluated
// in listed order and the first match wins, so tables must be sorted
// best-score-first.
type BreakpointTable struct {
	Direction    string       `yaml:"direction" json:"direction"`
	Breakpoints  []Breakpoint `yaml:"breakpoints" json:"breakpoints"`
	DefaultScore float64      `yaml:"default_score" json:"default_score"`
}

func (t BreakpointTable) Score(value float64) float64 {
	for _, bp := range t.Breakpoints {
		switch t.Direction {
		case DirectionAtMost:
			if value <= bp.Threshold {
				return bp.Score
			}
		default:
			if value >= bp.Threshold {
				return bp.Score
			}
		}
	}
	return t.DefaultScore
}

type RatingThreshold struct {
	MinScore float64 `yaml:"min_score" json:"min_score"`
	Label    string  `yaml:"label" json:"label"`
}

type ScoringConfig struct {
	ScheduledMinutes     float64 `yaml:"scheduled_minutes" json:"scheduled_minutes"`
	StandardHoursPerUnit float64 `yaml:"standard_hours_per_unit" json:"standard_hours_per_unit"`

	AbsenteeRate   BreakpointTable `yaml:"absentee_rate" json:"absentee_rate"`
	SeparationRate BreakpointTable `yaml:"separation_rate" json:"separation_rate"`
	PlanCompletion BreakpointTable `yaml:"plan_completion" json:"plan_completion"`
	CPHRatio       BreakpointTable `yaml:"cph_ratio" json:"cph_ratio"`

	Ratings       []RatingThreshold `yaml:"ratings" json:"ratings"`
	DefaultRating string            `yaml:"default_rating" json:"default_rating"`
}

func DefaultScoringConfig() ScoringConfig {
	var cfg ScoringConfig
	// The embedded defaults are checked by tests; a decode failure here is a
	// build defect, not a runtime condition.
	if err := yaml.Unmarshal(defaultScoringYAML, &cfg); err != nil {
		panic(fmt.Sprintf("kpi: embedded scoring defaults invalid: %v", err))
	}
	return cfg
}

// LoadScoringConfig reads a YAML override file. An empty path returns the
// embedded defaults.
func LoadScoringConfig(path string) (ScoringConfig, error) {
	if path == "" {
		return DefaultScoringConfig(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return ScoringConfig{}, fmt.Errorf("read scoring config: %w", err)
	}
	cfg := DefaultScoringConfig()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return ScoringConfig{}, fmt.Errorf("parse scoring config: %w", err)
	}
	return cfg, nil
}

func (c ScoringConfig) Rating(totalScore float64) string {
	for _, r := range c.Ratings {
		if totalScore >= r.MinScore {
			return r.Label
		}
	}
	return c.DefaultRating
}

// ScoreCalculator fills sub-scores, the composite total and the categorical
// rating on computed metrics.
type ScoreCalculator struct {
	cfg ScoringConfig
}

func NewScoreCalculator(cfg ScoringConfig) *ScoreCalculator {
	return &ScoreCalculator{cfg: cfg}
}

func (sc *ScoreCalculator) Config() ScoringConfig { return sc.cfg }

// Apply scores one metric set. dayMaxCPH is the maximum CPH across all
// lines on the same day; zero or negative means no normalizing denominator
// exists and the CPH sub-score is 0.
func (sc *ScoreCalculator) Apply(m *ComputedMetrics, dayMaxCPH float64) {
	if m == nil {
		return
	}
	cphRatio := safeDiv(m.CPH, dayMaxCPH)

	m.SubScores = SubScores{
		AbsenteeRate:   sc.cfg.AbsenteeRate.Score(m.AbsenteeRate),
		SeparationRate: sc.cfg.SeparationRate.Score(m.SeparationRate),
		PlanCompletion: sc.cfg.PlanCompletion.Score(m.PlanCompletion),
		CPH:            sc.cfg.CPHRatio.Score(cphRatio),
	}
	m.TotalScore = m.SubScores.AbsenteeRate + m.SubScores.SeparationRate + m.SubScores.PlanCompletion + m.SubScores.CPH
	m.Rating = sc.cfg.Rating(m.TotalScore)
}

// ApplyAll scores a day-grouped batch: the CPH normalizer is the max CPH of
// rows sharing a date. A lone line that day normalizes against itself.
func (sc *ScoreCalculator) ApplyAll(rows []*ComputedMetrics) {
	maxByDay := make(map[string]float64)
	for _, m := range rows {
		if m == nil {
			continue
		}
		day := m.Date.Format("2006-01-02")
		if m.CPH > maxByDay[day] {
			maxByDay[day] = m.CPH
		}
	}
	for _, m := range rows {
		if m == nil {
			continue
		}
		sc.Apply(m, maxByDay[m.Date.Format("2006-01-02")])
	}
}
