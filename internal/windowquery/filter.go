// Package windowquery builds the structured time-window and id-membership
// predicates that select the users a campaign targets. Rendering a filter into
// a concrete query language is left to the user stores.
package windowquery

import (
	"maps"
	"slices"
	"time"
)

// TimeRange bounds a timestamp field. Both bounds are inclusive; a nil bound is open.
type TimeRange struct {
	Since *time.Time
	Until *time.Time
}

// IsOpen reports whether the range has no bounds at all.
func (r TimeRange) IsOpen() bool {
	return r.Since == nil && r.Until == nil
}

// Contains reports whether t falls within the range.
func (r TimeRange) Contains(t time.Time) bool {
	if r.Since != nil && t.Before(*r.Since) {
		return false
	}
	if r.Until != nil && t.After(*r.Until) {
		return false
	}
	return true
}

// Filter is an immutable predicate over user records. The zero value matches everything.
type Filter struct {
	times map[string]TimeRange
	ids   map[string][]uint32
}

// Times returns a copy of the time predicates keyed by field.
func (f Filter) Times() map[string]TimeRange {
	return maps.Clone(f.times)
}

// IDs returns a copy of the id membership predicates keyed by field.
func (f Filter) IDs() map[string][]uint32 {
	out := make(map[string][]uint32, len(f.ids))
	for k, v := range f.ids {
		out[k] = slices.Clone(v)
	}
	return out
}

// TimeFields returns the time predicate fields in sorted order.
func (f Filter) TimeFields() []string {
	return slices.Sorted(maps.Keys(f.times))
}

// IDFields returns the id predicate fields in sorted order.
func (f Filter) IDFields() []string {
	return slices.Sorted(maps.Keys(f.ids))
}

// Range returns the time predicate for field.
func (f Filter) Range(field string) (TimeRange, bool) {
	r, ok := f.times[field]
	return r, ok
}

// IDSet returns the ids a record's field must contain.
func (f Filter) IDSet(field string) ([]uint32, bool) {
	ids, ok := f.ids[field]
	return slices.Clone(ids), ok
}

// IsEmpty reports whether the filter has no predicates.
func (f Filter) IsEmpty() bool {
	return len(f.times) == 0 && len(f.ids) == 0
}

// Fields returns every field referenced by the filter, sorted.
func (f Filter) Fields() []string {
	seen := make(map[string]struct{}, len(f.times)+len(f.ids))
	for k := range f.times {
		seen[k] = struct{}{}
	}
	for k := range f.ids {
		seen[k] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}
