package reporting

import (
	"math"
	"sort"
)

// Unknown labels records whose classifying relation is missing.
const Unknown = "Unknown"

// RatePrecision is the number of decimals kept by Rate and Percent.
const RatePrecision = 2

// TotalCount is the size of the filtered set.
func TotalCount[T any](records []T) int {
	return len(records)
}

// CountBy tallies records per classifier value. Empty values count under Unknown.
func CountBy[T any](records []T, classify func(T) string) map[string]int {
	counts := make(map[string]int)
	for _, record := range records {
		counts[orUnknown(classify(record))]++
	}
	return counts
}

// Rate is subset/total as a percentage. A zero total yields 0.
func Rate(subset, total int) float64 {
	return Percent(float64(subset), float64(total))
}

// Percent is part/whole as a percentage. A zero whole yields 0.
func Percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return Round(part/whole*100, RatePrecision)
}

// Ratio is part/whole rounded like Rate. A zero whole yields 0.
func Ratio(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return Round(part/whole, RatePrecision)
}

// Round rounds half away from zero. NaN and infinities collapse to 0.
func Round(value float64, places int) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	pow := math.Pow(10, float64(places))
	return math.Round(value*pow) / pow
}

// Category is one counted value with its share of the total.
type Category struct {
	Key   string  `json:"key"`
	Count int     `json:"count"`
	Rate  float64 `json:"rate"`
}

// Ordered flattens counts into a stable slice: known keys first in the given order (zeros
// included), then any other observed key alphabetically.
func Ordered(counts map[string]int, known []string) []Category {
	total := 0
	for _, count := range counts {
		total += count
	}

	out := make([]Category, 0, len(counts)+len(known))
	seen := make(map[string]struct{}, len(known))
	for _, key := range known {
		seen[key] = struct{}{}
		out = append(out, Category{Key: key, Count: counts[key], Rate: Rate(counts[key], total)})
	}
	for _, key := range extraKeys(counts, seen) {
		out = append(out, Category{Key: key, Count: counts[key], Rate: Rate(counts[key], total)})
	}
	return out
}

// Group identifies a breakdown bucket. Key separates buckets; Label is what gets displayed.
type Group struct {
	Key   string
	Label string
}

// Label builds a group whose key is its label.
func Label(label string) Group {
	return Group{Key: label, Label: label}
}

func (g Group) normalize() Group {
	if g.Key == "" {
		return Label(Unknown)
	}
	if g.Label == "" {
		g.Label = g.Key
	}
	return g
}

// Grouped is a bucket of records sharing a group.
type Grouped[T any] struct {
	Group
	Records []T
}

// GroupBy buckets records in first-seen group order, preserving input order inside each bucket.
func GroupBy[T any](records []T, group func(T) Group) []Grouped[T] {
	index := make(map[string]int)
	var out []Grouped[T]
	for _, record := range records {
		g := group(record).normalize()
		i, ok := index[g.Key]
		if !ok {
			i = len(out)
			index[g.Key] = i
			out = append(out, Grouped[T]{Group: g})
		}
		out[i].Records = append(out[i].Records, record)
	}
	return out
}

// Breakdown is one group's total with a subcount for every status.
type Breakdown struct {
	Key    string         `json:"key"`
	Label  string         `json:"label"`
	Total  int            `json:"total"`
	Counts map[string]int `json:"counts"`
}

// RateOf is the share of the group's total falling under any of the statuses.
func (b Breakdown) RateOf(statuses ...string) float64 {
	subset := 0
	for _, status := range statuses {
		subset += b.Counts[status]
	}
	return Rate(subset, b.Total)
}

// BreakdownBy groups records and counts statuses inside each group. Every known status appears
// in every group, defaulting to 0, so subcounts always sum to the group total.
func BreakdownBy[T any](records []T, group func(T) Group, status func(T) string, known []string) []Breakdown {
	groups := GroupBy(records, group)
	out := make([]Breakdown, 0, len(groups))
	for _, g := range groups {
		counts := make(map[string]int, len(known))
		for _, key := range known {
			counts[key] = 0
		}
		for _, record := range g.Records {
			counts[orUnknown(status(record))]++
		}
		out = append(out, Breakdown{Key: g.Key, Label: g.Label, Total: len(g.Records), Counts: counts})
	}
	return out
}

// SumBy totals an amount over the records, rounded to cents.
func SumBy[T any](records []T, amount func(T) float64) float64 {
	sum := 0.0
	for _, record := range records {
		sum += amount(record)
	}
	return Round(sum, RatePrecision)
}

// AmountBreakdown is one group's money total with per-status counts and sums.
type AmountBreakdown struct {
	Key     string             `json:"key"`
	Label   string             `json:"label"`
	Count   int                `json:"count"`
	Total   float64            `json:"total"`
	Counts  map[string]int     `json:"counts,omitempty"`
	Amounts map[string]float64 `json:"amounts,omitempty"`
}

// AmountBreakdownBy rolls money up per group. When status is nil only totals are produced.
func AmountBreakdownBy[T any](records []T, group func(T) Group, status func(T) string, amount func(T) float64, known []string) []AmountBreakdown {
	groups := GroupBy(records, group)
	out := make([]AmountBreakdown, 0, len(groups))
	for _, g := range groups {
		row := AmountBreakdown{Key: g.Key, Label: g.Label, Count: len(g.Records), Total: SumBy(g.Records, amount)}
		if status != nil {
			row.Counts = make(map[string]int, len(known))
			row.Amounts = make(map[string]float64, len(known))
			for _, key := range known {
				row.Counts[key] = 0
				row.Amounts[key] = 0
			}
			for _, record := range g.Records {
				key := orUnknown(status(record))
				row.Counts[key]++
				row.Amounts[key] = Round(row.Amounts[key]+amount(record), RatePrecision)
			}
		}
		out = append(out, row)
	}
	return out
}

// Average is the rounded mean of the values; an empty set yields 0.
func Average[T any](records []T, value func(T) float64) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := 0.0
	for _, record := range records {
		sum += value(record)
	}
	return Round(sum/float64(len(records)), RatePrecision)
}

// Summary describes a numeric column.
type Summary struct {
	Count   int     `json:"count"`
	Sum     float64 `json:"sum"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Stats summarizes a numeric column; every field is 0 for an empty set.
func Stats[T any](records []T, value func(T) float64) Summary {
	if len(records) == 0 {
		return Summary{}
	}
	s := Summary{Count: len(records), Min: math.Inf(1), Max: math.Inf(-1)}
	for _, record := range records {
		v := value(record)
		s.Sum += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.Average = Round(s.Sum/float64(s.Count), RatePrecision)
	s.Sum = Round(s.Sum, RatePrecision)
	s.Min = Round(s.Min, RatePrecision)
	s.Max = Round(s.Max, RatePrecision)
	return s
}

func orUnknown(value string) string {
	if value == "" {
		return Unknown
	}
	return value
}

func extraKeys[V any](values map[string]V, skip map[string]struct{}) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		if _, ok := skip[key]; !ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
