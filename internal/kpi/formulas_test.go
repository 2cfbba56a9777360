package kpi

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestUsedLaborHours(t *testing.T) {
	// 10 regular + 5 overtime heads, 3 OT hours each: 80 + 40 + 5*3/1.5 = 130
	got := UsedLaborHours(10, 5, 3)
	if !almostEqual(got, 130) {
		t.Fatalf("used labor hours: want=130 got=%v", got)
	}
}

func TestEfficiencyZeroUsedHours(t *testing.T) {
	if got := Efficiency(42, 0); got != 0 {
		t.Fatalf("efficiency with zero used hours: want=0 got=%v", got)
	}
	if got := CPH(900, 0); got != 0 {
		t.Fatalf("cph with zero used hours: want=0 got=%v", got)
	}
}

func TestPlanCompletionZeroPlan(t *testing.T) {
	if got := PlanCompletion(80, 0); got != 0 {
		t.Fatalf("plan completion with zero plan: want=0 got=%v", got)
	}
	if got := PlanCompletion(80, 100); !almostEqual(got, 80) {
		t.Fatalf("plan completion: want=80 got=%v", got)
	}
}

func TestRatesGuardZeroManpower(t *testing.T) {
	if got := AbsenteeRate(3, 0); got != 0 {
		t.Fatalf("absentee rate with zero manpower: want=0 got=%v", got)
	}
	if got := SeparationRate(1, 0); got != 0 {
		t.Fatalf("separation rate with zero manpower: want=0 got=%v", got)
	}
}

func TestFormulasNeverNonFinite(t *testing.T) {
	values := []float64{
		Efficiency(1, 0),
		PlanCompletion(1, 0),
		CPH(1, 0),
		AbsenteeRate(1, 0),
		SeparationRate(1, 0),
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("formula %d returned non-finite value %v", i, v)
		}
	}
}

func TestOEEPerformanceCapped(t *testing.T) {
	// Actual above plan must not push performance past 100.
	c := OEE(0, 480, 150, 100, nil)
	if c.Performance != 100 {
		t.Fatalf("performance cap: want=100 got=%v", c.Performance)
	}
	if c.OEE < 0 || c.OEE > 100 {
		t.Fatalf("oee out of range: got=%v", c.OEE)
	}
}

func TestOEEQualityProxyDefaults(t *testing.T) {
	c := OEE(60, 480, 90, 100, nil)
	if c.Quality != 100 {
		t.Fatalf("quality default: want=100 got=%v", c.Quality)
	}

	proxy := 95.0
	c = OEE(60, 480, 90, 100, &proxy)
	if c.Quality != 95 {
		t.Fatalf("quality proxy: want=95 got=%v", c.Quality)
	}

	wantAvail := (480.0 - 60.0) / 480.0 * 100
	if !almostEqual(c.Availability, wantAvail) {
		t.Fatalf("availability: want=%v got=%v", wantAvail, c.Availability)
	}
	wantOEE := c.Availability * c.Performance * c.Quality / 10000
	if !almostEqual(c.OEE, wantOEE) {
		t.Fatalf("oee product: want=%v got=%v", wantOEE, c.OEE)
	}
}

func TestOEEZeroPlanFallsBackToActual(t *testing.T) {
	c := OEE(0, 480, 90, 0, nil)
	if c.Performance != 100 {
		t.Fatalf("zero-plan performance: want=100 got=%v", c.Performance)
	}
}

func TestOEEDowntimeExceedsSchedule(t *testing.T) {
	c := OEE(600, 480, 90, 100, nil)
	if c.Availability != 0 {
		t.Fatalf("availability floor: want=0 got=%v", c.Availability)
	}
	if c.OEE != 0 {
		t.Fatalf("oee with zero availability: want=0 got=%v", c.OEE)
	}
}
