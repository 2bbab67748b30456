package reporting

import "sort"

// Direction orders a ranking.
type Direction int

const (
	// Descending puts the highest key first.
	Descending Direction = iota
	// Ascending puts the lowest key first.
	Ascending
)

// TopN returns the first n records ordered by key. Ties keep input order; n <= 0 returns all.
// The input slice is not modified.
func TopN[T any](records []T, key func(T) float64, n int, dir Direction) []T {
	out := append([]T(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		if dir == Ascending {
			return key(out[i]) < key(out[j])
		}
		return key(out[i]) > key(out[j])
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
