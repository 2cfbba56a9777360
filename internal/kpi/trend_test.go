package kpi

import "testing"

func TestClassifyTrend(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
		want   string
	}{
		{"improving", []float64{70, 72, 85, 90}, TrendImproving},
		{"declining", []float64{90, 88, 70, 65}, TrendDeclining},
		{"flat", []float64{80, 81, 80, 79}, TrendStable},
		{"single point", []float64{80}, TrendStable},
		{"empty", nil, TrendStable},
		// 88 -> 95 is a 7-point shift, strictly past the ±5 band.
		{"boundary shift", []float64{88, 95}, TrendImproving},
		// exactly +5 stays stable: the band is inclusive.
		{"exact threshold", []float64{85, 90}, TrendStable},
	}
	for _, tc := range cases {
		if got := ClassifyTrend(tc.values, DefaultTrendThreshold); got != tc.want {
			t.Fatalf("%s: want=%s got=%s", tc.name, tc.want, got)
		}
	}
}

func TestClassifyTrendDefaultThreshold(t *testing.T) {
	if got := ClassifyTrend([]float64{80, 90}, 0); got != TrendImproving {
		t.Fatalf("zero threshold must fall back to default: got=%s", got)
	}
}
