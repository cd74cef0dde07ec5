package windowquery

import (
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syntrixbase/crm/internal/rpcstatus"
)

var t0 = time.Date(2024, 6, 15, 13, 45, 10, 0, time.UTC)

func TestBuilder_EmptyFilterMatchesAll(t *testing.T) {
	f, err := NewBuilder(testclock.NewClock(t0), PolicyPoint).
		AddIDMembership("finished", nil).
		AddIDMembership("recent_watched", []uint32{}).
		AddRange("created_at", TimeRange{}).
		Build()
	require.NoError(t, err)
	assert.True(t, f.IsEmpty())
	assert.Empty(t, f.Fields())
}

func TestBuilder_ForCreationWindow(t *testing.T) {
	clk := testclock.NewClock(t0)
	for _, days := range []int{0, 1, 7, 365} {
		f, err := NewBuilder(clk, PolicyPoint).ForCreationWindow(days, "created_at").Build()
		require.NoError(t, err)

		r, ok := f.Range("created_at")
		require.True(t, ok)
		want := t0.Add(-time.Duration(days) * 24 * time.Hour)
		require.NotNil(t, r.Since)
		require.NotNil(t, r.Until)
		assert.True(t, want.Equal(*r.Since), "days=%d", days)
		assert.True(t, want.Equal(*r.Until), "days=%d", days)
	}
}

func TestBuilder_Policies(t *testing.T) {
	clk := testclock.NewClock(t0)
	instant := t0.Add(-3 * 24 * time.Hour)
	dayStart := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		policy    Policy
		wantSince *time.Time
		wantUntil *time.Time
	}{
		{PolicyPoint, &instant, &instant},
		{PolicySince, &instant, nil},
		{PolicyUntil, nil, &instant},
		{PolicyDay, &dayStart, ptr(dayStart.Add(24*time.Hour - time.Nanosecond))},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			f, err := NewBuilder(clk, tt.policy).ForThresholdWindow(3, "last_visited_at").Build()
			require.NoError(t, err)
			r, _ := f.Range("last_visited_at")
			assertTime(t, tt.wantSince, r.Since)
			assertTime(t, tt.wantUntil, r.Until)
			assert.True(t, r.Contains(instant))
		})
	}
}

func TestBuilder_ClockAdvance(t *testing.T) {
	clk := testclock.NewClock(t0)
	b := NewBuilder(clk, PolicySince)
	first, err := b.ForCreationWindow(1, "created_at").Build()
	require.NoError(t, err)

	clk.Advance(time.Hour)
	second, err := NewBuilder(clk, PolicySince).ForCreationWindow(1, "created_at").Build()
	require.NoError(t, err)

	r1, _ := first.Range("created_at")
	r2, _ := second.Range("created_at")
	assert.Equal(t, time.Hour, r2.Since.Sub(*r1.Since))
}

func TestBuilder_IDMembership(t *testing.T) {
	f, err := NewBuilder(nil, PolicyPoint).
		AddIDMembership("started_but_not_finished", []uint32{5, 1}).
		AddIDMembership("started_but_not_finished", []uint32{1, 3}).
		Build()
	require.NoError(t, err)

	ids, ok := f.IDSet("started_but_not_finished")
	require.True(t, ok)
	assert.Equal(t, []uint32{1, 3, 5}, ids)
	assert.Equal(t, []string{"started_but_not_finished"}, f.IDFields())
}

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name  string
		build func(*Builder) *Builder
	}{
		{"negative days", func(b *Builder) *Builder { return b.ForCreationWindow(-1, "created_at") }},
		{"empty field", func(b *Builder) *Builder { return b.ForThresholdWindow(1, "") }},
		{"injected field", func(b *Builder) *Builder { return b.AddIDMembership("finished; drop table", []uint32{1}) }},
		{"inverted range", func(b *Builder) *Builder {
			return b.AddRange("created_at", TimeRange{Since: ptr(t0), Until: ptr(t0.Add(-time.Second))})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build(NewBuilder(testclock.NewClock(t0), PolicyPoint)).Build()
			assert.ErrorIs(t, err, ErrInvalidWindow)
			assert.ErrorIs(t, err, rpcstatus.ErrInvalidArgument)
		})
	}

	_, err := NewBuilder(testclock.NewClock(t0), Policy("weekly")).ForCreationWindow(1, "created_at").Build()
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestBuilder_FilterIsImmutable(t *testing.T) {
	b := NewBuilder(testclock.NewClock(t0), PolicyPoint).AddIDMembership("finished", []uint32{1})
	f, err := b.Build()
	require.NoError(t, err)

	b.AddIDMembership("finished", []uint32{2}).AddIDMembership("recent_watched", []uint32{9})
	ids, _ := f.IDSet("finished")
	assert.Equal(t, []uint32{1}, ids)

	ids[0] = 42
	again, _ := f.IDSet("finished")
	assert.Equal(t, []uint32{1}, again)
	assert.Len(t, f.IDs(), 1)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyPoint, p)

	p, err = ParsePolicy(" Until ")
	require.NoError(t, err)
	assert.Equal(t, PolicyUntil, p)

	_, err = ParsePolicy("monthly")
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func ptr(t time.Time) *time.Time { return &t }

func assertTime(t *testing.T, want, got *time.Time) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got)
		return
	}
	require.NotNil(t, got)
	assert.True(t, want.Equal(*got), "want %s got %s", want, got)
}
