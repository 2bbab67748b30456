package reporting

import (
	"sort"
	"time"
)

// MonthLayout is the bucket key format of monthly series.
const MonthLayout = "2006-01"

// GrowthRate is the percentage change from previous to current; 0 when previous is 0.
func GrowthRate(previous, current float64) float64 {
	if previous == 0 {
		return 0
	}
	return Round((current-previous)/previous*100, RatePrecision)
}

// CollectionRate is the share of invoices that are paid.
func CollectionRate(paid, total int) float64 {
	return Rate(paid, total)
}

// MonthKey formats t as YYYY-MM.
func MonthKey(t time.Time) string {
	return t.Format(MonthLayout)
}

// MonthlyBucket is one month of a money series.
type MonthlyBucket struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// MonthlySeries buckets amounts by month in chronological order. Months are read in loc;
// a nil loc keeps each timestamp's own location.
func MonthlySeries[T any](records []T, at func(T) time.Time, amount func(T) float64, loc *time.Location) []MonthlyBucket {
	buckets := make(map[string]*MonthlyBucket)
	for _, record := range records {
		t := at(record)
		if loc != nil {
			t = t.In(loc)
		}
		key := MonthKey(t)
		b, ok := buckets[key]
		if !ok {
			b = &MonthlyBucket{Month: key}
			buckets[key] = b
		}
		b.Total += amount(record)
		b.Count++
	}

	out := make([]MonthlyBucket, 0, len(buckets))
	for _, b := range buckets {
		b.Total = Round(b.Total, RatePrecision)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
