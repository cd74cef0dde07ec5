package windowquery

import (
	"time"

	userstatev1 "github.com/syntrixbase/crm/api/userstate/v1"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// ToProto renders the filter as a user state query request.
func ToProto(f Filter) *userstatev1.QueryRequest {
	req := &userstatev1.QueryRequest{
		Timestamps: make(map[string]*userstatev1.TimeQuery, len(f.times)),
		Ids:        make(map[string]*userstatev1.IdQuery, len(f.ids)),
	}
	for field, r := range f.times {
		q := &userstatev1.TimeQuery{}
		if r.Since != nil {
			q.Since = timestamppb.New(*r.Since)
		}
		if r.Until != nil {
			q.Until = timestamppb.New(*r.Until)
		}
		req.Timestamps[field] = q
	}
	for field, ids := range f.ids {
		req.Ids[field] = &userstatev1.IdQuery{Ids: append([]uint32(nil), ids...)}
	}
	return req
}

// FromProto validates a query request and rebuilds the filter it describes.
func FromProto(req *userstatev1.QueryRequest) (Filter, error) {
	b := NewBuilder(nil, PolicyPoint)
	for field, q := range req.GetTimestamps() {
		b.AddRange(field, TimeRange{
			Since: fromTimestamp(q.GetSince()),
			Until: fromTimestamp(q.GetUntil()),
		})
	}
	for field, q := range req.GetIds() {
		b.AddIDMembership(field, q.GetIds())
	}
	return b.Build()
}

func fromTimestamp(ts *timestamppb.Timestamp) *time.Time {
	if ts == nil {
		return nil
	}
	t := ts.AsTime()
	return &t
}
