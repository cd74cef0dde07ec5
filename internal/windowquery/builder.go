package windowquery

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/syntrixbase/crm/internal/rpcstatus"
)

// ErrInvalidWindow is returned by Build when the accumulated inputs are unusable.
var ErrInvalidWindow = fmt.Errorf("%w: invalid window", rpcstatus.ErrInvalidArgument)

const day = 24 * time.Hour

var fieldPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Policy decides how the instant now-days turns into a time range.
type Policy string

const (
	// PolicyPoint selects records whose field equals the instant exactly.
	PolicyPoint Policy = "point"
	// PolicySince selects records at or after the instant.
	PolicySince Policy = "since"
	// PolicyUntil selects records at or before the instant.
	PolicyUntil Policy = "until"
	// PolicyDay selects the whole UTC calendar day containing the instant.
	PolicyDay Policy = "day"
)

// ParsePolicy parses a policy name. The empty string yields PolicyPoint.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyPoint, nil
	case PolicyPoint, PolicySince, PolicyUntil, PolicyDay:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown policy %q", ErrInvalidWindow, s)
	}
}

// Range turns instant into a time range under the policy.
func (p Policy) Range(instant time.Time) (TimeRange, error) {
	switch p {
	case PolicyPoint, "":
		return TimeRange{Since: &instant, Until: &instant}, nil
	case PolicySince:
		return TimeRange{Since: &instant}, nil
	case PolicyUntil:
		return TimeRange{Until: &instant}, nil
	case PolicyDay:
		u := instant.UTC()
		start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
		end := start.Add(day - time.Nanosecond)
		return TimeRange{Since: &start, Until: &end}, nil
	default:
		return TimeRange{}, fmt.Errorf("%w: unknown policy %q", ErrInvalidWindow, p)
	}
}

// Builder accumulates predicates for one campaign invocation. Errors are
// deferred to Build so calls can be chained.
type Builder struct {
	clock  clock.Clock
	policy Policy
	times  map[string]TimeRange
	ids    map[string][]uint32
	errs   []error
}

// NewBuilder returns a builder that reads the current instant from clk and
// shapes time windows with policy.
func NewBuilder(clk clock.Clock, policy Policy) *Builder {
	if clk == nil {
		clk = clock.WallClock
	}
	return &Builder{
		clock:  clk,
		policy: policy,
		times:  make(map[string]TimeRange),
		ids:    make(map[string][]uint32),
	}
}

// ForCreationWindow targets records whose creation field lies days before now.
func (b *Builder) ForCreationWindow(days int, field string) *Builder {
	return b.window(days, field)
}

// ForThresholdWindow targets records whose field (typically the last visit)
// lies days before now.
func (b *Builder) ForThresholdWindow(days int, field string) *Builder {
	return b.window(days, field)
}

func (b *Builder) window(days int, field string) *Builder {
	if days < 0 {
		b.errs = append(b.errs, fmt.Errorf("%w: negative interval %d for %q", ErrInvalidWindow, days, field))
		return b
	}
	instant := b.clock.Now().UTC().Add(-time.Duration(days) * day)
	r, err := b.policy.Range(instant)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	return b.AddRange(field, r)
}

// AddRange sets an explicit time range for field. An open range contributes no
// predicate. A later range for the same field replaces the earlier one.
func (b *Builder) AddRange(field string, r TimeRange) *Builder {
	if !b.checkField(field) {
		return b
	}
	if r.Since != nil && r.Until != nil && r.Since.After(*r.Until) {
		b.errs = append(b.errs, fmt.Errorf("%w: %q since is after until", ErrInvalidWindow, field))
		return b
	}
	if r.IsOpen() {
		delete(b.times, field)
		return b
	}
	b.times[field] = r
	return b
}

// AddIDMembership requires field to contain every id. Empty ids is a no-op.
func (b *Builder) AddIDMembership(field string, ids []uint32) *Builder {
	if !b.checkField(field) || len(ids) == 0 {
		return b
	}
	merged := append(slices.Clone(b.ids[field]), ids...)
	slices.Sort(merged)
	b.ids[field] = slices.Compact(merged)
	return b
}

func (b *Builder) checkField(field string) bool {
	if !fieldPattern.MatchString(field) {
		b.errs = append(b.errs, fmt.Errorf("%w: bad field name %q", ErrInvalidWindow, field))
		return false
	}
	return true
}

// Build returns the immutable filter or every error collected along the way.
func (b *Builder) Build() (Filter, error) {
	if len(b.errs) > 0 {
		return Filter{}, errors.Join(b.errs...)
	}
	f := Filter{
		times: make(map[string]TimeRange, len(b.times)),
		ids:   make(map[string][]uint32, len(b.ids)),
	}
	for k, r := range b.times {
		f.times[k] = copyRange(r)
	}
	for k, v := range b.ids {
		f.ids[k] = slices.Clone(v)
	}
	return f, nil
}

func copyRange(r TimeRange) TimeRange {
	var out TimeRange
	if r.Since != nil {
		s := *r.Since
		out.Since = &s
	}
	if r.Until != nil {
		u := *r.Until
		out.Until = &u
	}
	return out
}
