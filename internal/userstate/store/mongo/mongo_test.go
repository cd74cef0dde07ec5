package mongo

import (
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syntrixbase/crm/internal/windowquery"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMakeFilterBSON(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	clk := testclock.NewClock(now)
	threshold := now.AddDate(0, 0, -7)

	tests := []struct {
		name   string
		policy windowquery.Policy
		ids    []uint32
		want   bson.M
	}{
		{
			name:   "until",
			policy: windowquery.PolicyUntil,
			want:   bson.M{"last_visited_at": bson.M{"$lte": threshold}},
		},
		{
			name:   "since",
			policy: windowquery.PolicySince,
			want:   bson.M{"last_visited_at": bson.M{"$gte": threshold}},
		},
		{
			name:   "point with ids",
			policy: windowquery.PolicyPoint,
			ids:    []uint32{3, 1},
			want: bson.M{
				"last_visited_at": bson.M{"$gte": threshold, "$lte": threshold},
				"finished":        bson.M{"$all": []uint32{1, 3}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := windowquery.NewBuilder(clk, tt.policy).
				ForThresholdWindow(7, "last_visited_at").
				AddIDMembership("finished", tt.ids).
				Build()
			require.NoError(t, err)
			assert.Equal(t, tt.want, makeFilterBSON(f))
		})
	}
}

func TestMakeFilterBSON_Empty(t *testing.T) {
	assert.Equal(t, bson.M{}, makeFilterBSON(windowquery.Filter{}))
}
