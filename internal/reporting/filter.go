// Package reporting is the filter/aggregation engine shared by every report.
// It performs no I/O: callers hand it fetched records and classifier functions.
package reporting

import "time"

// Predicate selects records.
type Predicate[T any] func(T) bool

// Composer is a conjunction of predicates. An empty composer matches everything.
type Composer[T any] struct {
	predicates []Predicate[T]
}

// NewComposer starts an empty conjunction.
func NewComposer[T any]() *Composer[T] {
	return &Composer[T]{}
}

// Where adds a predicate.
func (c *Composer[T]) Where(p Predicate[T]) *Composer[T] {
	if p != nil {
		c.predicates = append(c.predicates, p)
	}
	return c
}

// WhereIf adds the predicate only when the filter is active.
func (c *Composer[T]) WhereIf(active bool, p Predicate[T]) *Composer[T] {
	if active {
		return c.Where(p)
	}
	return c
}

// EqualID constrains a relation id when id is set. Records whose relation is missing never match.
func (c *Composer[T]) EqualID(id *int64, get func(T) *int64) *Composer[T] {
	if id == nil {
		return c
	}
	want := *id
	return c.Where(func(r T) bool {
		got := get(r)
		return got != nil && *got == want
	})
}

// Within constrains a timestamp to the window when one is set.
func (c *Composer[T]) Within(w *Window, at func(T) *time.Time) *Composer[T] {
	if w == nil {
		return c
	}
	window := *w
	return c.Where(func(r T) bool {
		t := at(r)
		return t != nil && window.Contains(*t)
	})
}

// Len returns the number of active predicates.
func (c *Composer[T]) Len() int {
	return len(c.predicates)
}

// Matches evaluates the conjunction for one record.
func (c *Composer[T]) Matches(record T) bool {
	for _, p := range c.predicates {
		if !p(record) {
			return false
		}
	}
	return true
}

// Apply returns the matching records in input order. The result never aliases records.
func (c *Composer[T]) Apply(records []T) []T {
	if c.Len() == 0 {
		return append(make([]T, 0, len(records)), records...)
	}
	out := make([]T, 0, len(records))
	for _, record := range records {
		if c.Matches(record) {
			out = append(out, record)
		}
	}
	return out
}
