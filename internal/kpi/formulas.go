package kpi

// Pure metric formulas. Every division is guarded: a zero or negative
// denominator yields 0 so callers never see NaN or Inf.

const (
	shiftHours      = 8.0
	overtimeDivisor = 1.5

	// DefaultScheduledMinutes is the planned runtime of one shift.
	DefaultScheduledMinutes = 480.0
)

type OEEComponents struct {
	Availability float64 `json:"availability"`
	Performance  float64 `json:"performance"`
	Quality      float64 `json:"quality"`
	OEE          float64 `json:"oee"`
}

func safeDiv(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}

// UsedLaborHours converts headcounts into labor hours. Overtime hours are
// normalized by the fixed 1.5 business constant.
func UsedLaborHours(noOTManpower, otManpower int, otHours float64) float64 {
	return float64(noOTManpower)*shiftHours + float64(otManpower)*shiftHours + float64(otManpower)*otHours/overtimeDivisor
}

func Efficiency(outputHours, usedHours float64) float64 {
	return safeDiv(outputHours, usedHours)
}

func PlanCompletion(actual, plan float64) float64 {
	return safeDiv(actual, plan) * 100
}

func CPH(circuitOutput, usedHours float64) float64 {
	return safeDiv(circuitOutput, usedHours)
}

func AbsenteeRate(absent, manpower float64) float64 {
	return safeDiv(absent, manpower) * 100
}

func SeparationRate(separated, manpower float64) float64 {
	return safeDiv(separated, manpower) * 100
}

// OEE computes availability, performance and quality. Quality is a proxy:
// line utilization when supplied, otherwise 100. Performance is capped at
// 100; the ideal cycle count falls back to actual output when no plan is
// set so a plan-less shift does not zero out the whole product.
func OEE(downtimeMinutes, scheduledMinutes, actual, plan float64, qualityProxy *float64) OEEComponents {
	if scheduledMinutes <= 0 {
		scheduledMinutes = DefaultScheduledMinutes
	}
	availability := safeDiv(scheduledMinutes-downtimeMinutes, scheduledMinutes) * 100
	if availability < 0 {
		availability = 0
	}

	ideal := plan
	if ideal <= 0 {
		ideal = actual
	}
	performance := safeDiv(actual, ideal) * 100
	if performance > 100 {
		performance = 100
	}

	quality := 100.0
	if qualityProxy != nil {
		quality = *qualityProxy
	}

	return OEEComponents{
		Availability: availability,
		Performance:  performance,
		Quality:      quality,
		OEE:          availability * performance * quality / 10000,
	}
}
