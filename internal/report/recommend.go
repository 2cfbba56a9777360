package report

import (
	"fmt"

	"github.com/plantmetric/plantmetric-backend/internal/kpi"
)

// Recommendation thresholds. These mirror the rule checks the report pages
// have always applied; they are deterministic given identical aggregates.
const (
	lowEfficiencyThreshold     = 0.8
	lowPlanCompletionThreshold = 85.0
	highAbsenteeThreshold      = 5.0
	lowOEEThreshold            = 60.0
	highScoreSpreadThreshold   = 15.0
)

// Recommend generates recommendation strings from a summary aggregate.
// Rules fire independently and in a fixed order.
func Recommend(summary kpi.GroupAggregate) []string {
	var out []string
	if summary.Count == 0 {
		return out
	}

	if eff, ok := summary.Stat("efficiency"); ok && eff.Mean < lowEfficiencyThreshold {
		out = append(out, fmt.Sprintf(
			"Average efficiency is %.2f, below the %.2f target. Schedule operator training and review line balancing.",
			eff.Mean, lowEfficiencyThreshold))
	}
	if pc, ok := summary.Stat("plan_completion"); ok && pc.Mean < lowPlanCompletionThreshold {
		out = append(out, fmt.Sprintf(
			"Average plan completion is %.1f%%, below the %.0f%% target. Review production planning assumptions and material availability.",
			pc.Mean, lowPlanCompletionThreshold))
	}
	if ab, ok := summary.Stat("absentee_rate"); ok && ab.Mean > highAbsenteeThreshold {
		out = append(out, fmt.Sprintf(
			"Average absentee rate is %.1f%%, above the %.0f%% ceiling. Investigate attendance drivers and adjust staffing buffers.",
			ab.Mean, highAbsenteeThreshold))
	}
	if oee, ok := summary.Stat("oee"); ok && oee.Mean < lowOEEThreshold {
		out = append(out, fmt.Sprintf(
			"Average OEE is %.1f, below the %.0f target. Prioritize downtime reduction and preventive maintenance.",
			oee.Mean, lowOEEThreshold))
	}
	if ts, ok := summary.Stat("total_score"); ok && ts.StdDev > highScoreSpreadThreshold {
		out = append(out, fmt.Sprintf(
			"Score spread across lines is high (std dev %.1f). Transfer practices from top-ranked lines to the lowest performers.",
			ts.StdDev))
	}

	if len(out) == 0 {
		out = append(out, "All tracked KPIs are within target ranges. Sustain current operating practices.")
	}
	return out
}
