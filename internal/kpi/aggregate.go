package kpi

import "math"

// AggField names one numeric field extracted from computed metrics. The
// field list fixes the column order downstream exporters rely on.
type AggField struct {
	Name  string
	Value func(*ComputedMetrics) float64
}

// DefaultAggFields is the field order reports serialize in.
func DefaultAggFields() []AggField {
	return []AggField{
		{Name: "efficiency", Value: func(m *ComputedMetrics) float64 { return m.Efficiency }},
		{Name: "plan_completion", Value: func(m *ComputedMetrics) float64 { return m.PlanCompletion }},
		{Name: "cph", Value: func(m *ComputedMetrics) float64 { return m.CPH }},
		{Name: "absentee_rate", Value: func(m *ComputedMetrics) float64 { return m.AbsenteeRate }},
		{Name: "separation_rate", Value: func(m *ComputedMetrics) float64 { return m.SeparationRate }},
		{Name: "used_labor_hours", Value: func(m *ComputedMetrics) float64 { return m.UsedLaborHours }},
		{Name: "oee", Value: func(m *ComputedMetrics) float64 { return m.OEE.OEE }},
		{Name: "total_score", Value: func(m *ComputedMetrics) float64 { return m.TotalScore }},
	}
}

type FieldStats struct {
	Field  string  `json:"field"`
	Sum    float64 `json:"sum"`
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
}

type GroupAggregate struct {
	Key    string       `json:"key"`
	Count  int          `json:"count"`
	Fields []FieldStats `json:"fields"`
}

type Aggregator struct {
	fields []AggField
}

func NewAggregator(fields []AggField) *Aggregator {
	if len(fields) == 0 {
		fields = DefaultAggFields()
	}
	return &Aggregator{fields: fields}
}

// GroupBy buckets rows by key and aggregates each bucket. Group order is
// first-appearance order so output is deterministic for identical input.
func (a *Aggregator) GroupBy(rows []*ComputedMetrics, keyFn func(*ComputedMetrics) string) []GroupAggregate {
	var order []string
	buckets := make(map[string][]*ComputedMetrics)
	for _, m := range rows {
		if m == nil {
			continue
		}
		key := keyFn(m)
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], m)
	}

	out := make([]GroupAggregate, 0, len(order))
	for _, key := range order {
		out = append(out, a.aggregate(key, buckets[key]))
	}
	return out
}

// Summarize aggregates all rows as one group.
func (a *Aggregator) Summarize(rows []*ComputedMetrics) GroupAggregate {
	live := rows[:0:0]
	for _, m := range rows {
		if m != nil {
			live = append(live, m)
		}
	}
	return a.aggregate("all", live)
}

func (a *Aggregator) aggregate(key string, rows []*ComputedMetrics) GroupAggregate {
	agg := GroupAggregate{
		Key:    key,
		Count:  len(rows),
		Fields: make([]FieldStats, 0, len(a.fields)),
	}
	for _, f := range a.fields {
		stats := FieldStats{Field: f.Name}
		if len(rows) > 0 {
			values := make([]float64, len(rows))
			for i, m := range rows {
				values[i] = f.Value(m)
			}
			stats.Min = values[0]
			stats.Max = values[0]
			for _, v := range values {
				stats.Sum += v
				if v < stats.Min {
					stats.Min = v
				}
				if v > stats.Max {
					stats.Max = v
				}
			}
			stats.Mean = stats.Sum / float64(len(values))
			stats.StdDev = sampleStdDev(values, stats.Mean)
		}
		agg.Fields = append(agg.Fields, stats)
	}
	return agg
}

// Stat looks up one field by name; ok is false when the field was not part
// of the aggregation.
func (g GroupAggregate) Stat(field string) (FieldStats, bool) {
	for _, fs := range g.Fields {
		if fs.Field == field {
			return fs, true
		}
	}
	return FieldStats{}, false
}

// sampleStdDev is sqrt(sum((x-mean)^2)/(n-1)). Undefined for n<2, so 0.
func sampleStdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}
