package reporting

import (
	"sort"
	"time"
)

// Trend classifies the movement of a series.
type Trend string

const (
	TrendImproving        Trend = "improving"
	TrendDeclining        Trend = "declining"
	TrendStable           Trend = "stable"
	TrendInsufficientData Trend = "insufficient_data"
)

// TrendThreshold is the change between first and last value that counts as movement.
const TrendThreshold = 5.0

// ClassifyTrend compares the last value against the first.
func ClassifyTrend(series []float64) Trend {
	if len(series) < 2 {
		return TrendInsufficientData
	}
	delta := series[len(series)-1] - series[0]
	switch {
	case delta > TrendThreshold:
		return TrendImproving
	case delta < -TrendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// Point is one dated value of a series.
type Point struct {
	At    time.Time `json:"at"`
	Label string    `json:"label,omitempty"`
	Value float64   `json:"value"`
}

// SortPoints returns the points in chronological order; equal timestamps keep input order.
func SortPoints(points []Point) []Point {
	out := append([]Point(nil), points...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}

// ClassifyPoints orders the points chronologically before classifying them.
func ClassifyPoints(points []Point) Trend {
	sorted := SortPoints(points)
	values := make([]float64, len(sorted))
	for i, p := range sorted {
		values[i] = p.Value
	}
	return ClassifyTrend(values)
}
