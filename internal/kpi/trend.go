package kpi

const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"

	// DefaultTrendThreshold is the ±point band treated as stable.
	DefaultTrendThreshold = 5.0
)

// ClassifyTrend splits a chronological series into prior and recent halves
// and compares their means. A delta strictly beyond the threshold flips the
// label; exactly at the threshold is still stable. With fewer than two
// points there is nothing to compare.
func ClassifyTrend(values []float64, threshold float64) string {
	if len(values) < 2 {
		return TrendStable
	}
	if threshold <= 0 {
		threshold = DefaultTrendThreshold
	}
	mid := len(values) / 2
	prior := mean(values[:mid])
	recent := mean(values[mid:])
	delta := recent - prior
	switch {
	case delta > threshold:
		return TrendImproving
	case delta < -threshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
