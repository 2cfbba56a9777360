package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/plantmetric/plantmetric-backend/internal/kpi"
	"github.com/plantmetric/plantmetric-backend/internal/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func sampleMetrics() []*kpi.ComputedMetrics {
	return []*kpi.ComputedMetrics{
		{
			LineShift:      "L1_DAY",
			Date:           day("2026-03-02"),
			Shift:          "DAY",
			Efficiency:     0.91,
			PlanCompletion: 95,
			CPH:            2.1,
			TotalScore:     92,
			Rating:         "Excellent",
		},
		{
			LineShift:      "L2_NIGHT",
			Date:           day("2026-03-02"),
			Shift:          "NIGHT",
			Efficiency:     0.62,
			PlanCompletion: 71,
			CPH:            1.4,
			TotalScore:     55,
			Rating:         "Needs Improvement",
		},
	}
}

func TestAssemblePreservesRowOrderAndColumns(t *testing.T) {
	a := NewAssembler(testLogger(t))
	r := a.Assemble("Line Performance", day("2026-03-01"), day("2026-03-07"), sampleMetrics())

	if r.Subtitle != "2026-03-01 to 2026-03-07" {
		t.Fatalf("subtitle: got=%q", r.Subtitle)
	}
	if len(r.Rows) != 2 {
		t.Fatalf("row count: want=2 got=%d", len(r.Rows))
	}
	if v, _ := r.Rows[0].Get("line_shift"); v != "L1_DAY" {
		t.Fatalf("row order changed: got=%v", v)
	}
	if r.Columns[0] != "line_shift" || r.Columns[len(r.Columns)-1] != "rating" {
		t.Fatalf("column frame wrong: %v", r.Columns)
	}
	for _, row := range r.Rows {
		if len(row.Columns) != len(r.Columns) {
			t.Fatalf("row/report column mismatch: %d vs %d", len(row.Columns), len(r.Columns))
		}
	}
	if r.Summary.Count != 2 {
		t.Fatalf("summary count: want=2 got=%d", r.Summary.Count)
	}
	if len(r.Recommendations) == 0 {
		t.Fatalf("recommendations missing")
	}
}

func TestAssembleSkipsNilRows(t *testing.T) {
	a := NewAssembler(testLogger(t))
	rows := append(sampleMetrics(), nil)
	r := a.Assemble("t", day("2026-03-01"), day("2026-03-07"), rows)
	if len(r.Rows) != 2 || r.Summary.Count != 2 {
		t.Fatalf("nil row leaked: rows=%d summary=%d", len(r.Rows), r.Summary.Count)
	}
}

func TestRecommendationsDeterministic(t *testing.T) {
	a := NewAssembler(testLogger(t))
	r1 := a.Assemble("t", day("2026-03-01"), day("2026-03-07"), sampleMetrics())
	r2 := a.Assemble("t", day("2026-03-01"), day("2026-03-07"), sampleMetrics())
	if len(r1.Recommendations) != len(r2.Recommendations) {
		t.Fatalf("recommendation count differs")
	}
	for i := range r1.Recommendations {
		if r1.Recommendations[i] != r2.Recommendations[i] {
			t.Fatalf("recommendation %d differs:\n%s\n%s", i, r1.Recommendations[i], r2.Recommendations[i])
		}
	}
}

func TestRecommendLowEfficiency(t *testing.T) {
	agg := kpi.NewAggregator(nil)
	summary := agg.Summarize([]*kpi.ComputedMetrics{
		{Efficiency: 0.7, PlanCompletion: 95, TotalScore: 80},
		{Efficiency: 0.75, PlanCompletion: 96, TotalScore: 82},
	})
	recs := Recommend(summary)
	found := false
	for _, r := range recs {
		if strings.Contains(r, "operator training") {
			found = true
		}
	}
	if !found {
		t.Fatalf("low-efficiency recommendation missing: %v", recs)
	}
}

func TestRecommendEmptySummary(t *testing.T) {
	agg := kpi.NewAggregator(nil)
	if recs := Recommend(agg.Summarize(nil)); len(recs) != 0 {
		t.Fatalf("empty summary must yield no recommendations, got %v", recs)
	}
}

func TestRowJSONRoundTripKeepsOrderAndValues(t *testing.T) {
	a := NewAssembler(testLogger(t))
	r := a.Assemble("Round Trip", day("2026-03-01"), day("2026-03-07"), sampleMetrics())

	raw, err := json.Marshal(r.Rows[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back Row
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(back.Columns) != len(r.Rows[0].Columns) {
		t.Fatalf("column count: want=%d got=%d", len(r.Rows[0].Columns), len(back.Columns))
	}
	for i, col := range r.Rows[0].Columns {
		if back.Columns[i] != col {
			t.Fatalf("key order changed at %d: want=%s got=%s", i, col, back.Columns[i])
		}
	}

	// Numeric fidelity: every float survives the round trip exactly.
	for i, v := range r.Rows[0].Values {
		f, ok := v.(float64)
		if !ok {
			continue
		}
		num, ok := back.Values[i].(json.Number)
		if !ok {
			t.Fatalf("value %d: expected json.Number, got %T", i, back.Values[i])
		}
		parsed, err := num.Float64()
		if err != nil {
			t.Fatalf("value %d: %v", i, err)
		}
		if parsed != f {
			t.Fatalf("value %d: want=%v got=%v", i, f, parsed)
		}
	}
}

func TestReportJSONKeyOrderOnWire(t *testing.T) {
	a := NewAssembler(testLogger(t))
	r := a.Assemble("Wire Order", day("2026-03-01"), day("2026-03-07"), sampleMetrics())

	raw, err := json.Marshal(r.Rows[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil { // {
		t.Fatalf("token: %v", err)
	}
	var wireKeys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			t.Fatalf("token: %v", err)
		}
		wireKeys = append(wireKeys, tok.(string))
		var discard any
		if err := dec.Decode(&discard); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	if len(wireKeys) != len(r.Columns) {
		t.Fatalf("wire key count: want=%d got=%d", len(r.Columns), len(wireKeys))
	}
	for i, col := range r.Columns {
		if wireKeys[i] != col {
			t.Fatalf("wire key %d: want=%s got=%s", i, col, wireKeys[i])
		}
	}
}
