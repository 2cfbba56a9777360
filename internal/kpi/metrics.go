package kpi

import (
	"time"

	"github.com/plantmetric/plantmetric-backend/internal/types"
)

// SubScores are the individually bucketed point scores that sum into the
// composite total.
type SubScores struct {
	AbsenteeRate   float64 `json:"absentee_rate"`
	SeparationRate float64 `json:"separation_rate"`
	PlanCompletion float64 `json:"plan_completion"`
	CPH            float64 `json:"cph"`
}

// ComputedMetrics is derived fresh from one PerformanceRecord per request.
// Nothing here is written back to storage.
type ComputedMetrics struct {
	LineShift string    `json:"line_shift"`
	Date      time.Time `json:"date"`
	Shift     string    `json:"shift"`

	UsedLaborHours float64       `json:"used_labor_hours"`
	OutputHours    float64       `json:"output_hours"`
	Efficiency     float64       `json:"efficiency"`
	PlanCompletion float64       `json:"plan_completion"`
	CPH            float64       `json:"cph"`
	AbsenteeRate   float64       `json:"absentee_rate"`
	SeparationRate float64       `json:"separation_rate"`
	OEE            OEEComponents `json:"oee"`

	SubScores  SubScores `json:"sub_scores"`
	TotalScore float64   `json:"total_score"`
	Rating     string    `json:"rating"`
}

// Compute derives metrics from a record. Output hours are earned hours:
// actual output times the configured standard hours per unit. Utilization
// percentage stands in for the OEE quality term when present.
func Compute(rec *types.PerformanceRecord, cfg ScoringConfig) *ComputedMetrics {
	if rec == nil {
		return &ComputedMetrics{}
	}

	used := UsedLaborHours(rec.NoOTManpower, rec.OTManpower, rec.OTHours)
	outputHours := float64(rec.ActualOutput) * cfg.StandardHoursPerUnit

	var qualityProxy *float64
	if rec.UtilizationPct > 0 {
		q := rec.UtilizationPct
		qualityProxy = &q
	}

	return &ComputedMetrics{
		LineShift:      rec.LineShift,
		Date:           rec.Date,
		Shift:          rec.Shift,
		UsedLaborHours: used,
		OutputHours:    outputHours,
		Efficiency:     Efficiency(outputHours, used),
		PlanCompletion: PlanCompletion(float64(rec.ActualOutput), float64(rec.Plan)),
		CPH:            CPH(float64(rec.CircuitOutput), used),
		AbsenteeRate:   AbsenteeRate(float64(rec.Absent), float64(rec.Manpower)),
		SeparationRate: SeparationRate(float64(rec.Separated), float64(rec.Manpower)),
		OEE: OEE(
			float64(rec.DowntimeMinutes),
			cfg.ScheduledMinutes,
			float64(rec.ActualOutput),
			float64(rec.Plan),
			qualityProxy,
		),
	}
}
