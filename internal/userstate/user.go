// Package userstate serves user records matching a window filter.
package userstate

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"time"

	userstatev1 "github.com/syntrixbase/crm/api/userstate/v1"
	"github.com/syntrixbase/crm/internal/rpcstatus"
	"github.com/syntrixbase/crm/internal/windowquery"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// ErrUnknownField is returned for filters naming a column the store does not have.
var ErrUnknownField = fmt.Errorf("%w: unknown field", rpcstatus.ErrInvalidArgument)

// User is one row of user state.
type User struct {
	Email  string `bson:"email"`
	Name   string `bson:"name"`
	Gender string `bson:"gender"`

	CreatedAt             time.Time `bson:"created_at"`
	LastVisitedAt         time.Time `bson:"last_visited_at"`
	LastWatchedAt         time.Time `bson:"last_watched_at"`
	LastEmailNotification time.Time `bson:"last_email_notification"`
	LastInAppNotification time.Time `bson:"last_in_app_notification"`
	LastSmsNotification   time.Time `bson:"last_sms_notification"`

	RecentWatched         []uint32 `bson:"recent_watched"`
	ViewedButNotStarted   []uint32 `bson:"viewed_but_not_started"`
	StartedButNotFinished []uint32 `bson:"started_but_not_finished"`
	Finished              []uint32 `bson:"finished"`
}

// Time fields a filter may range over.
var TimeColumns = []string{
	"created_at",
	"last_visited_at",
	"last_watched_at",
	"last_email_notification",
	"last_in_app_notification",
	"last_sms_notification",
}

// Id-set fields a filter may test membership against.
var IDColumns = []string{
	"recent_watched",
	"viewed_but_not_started",
	"started_but_not_finished",
	"finished",
}

// TimeOf returns the value of a time column.
func (u *User) TimeOf(field string) (time.Time, bool) {
	switch field {
	case "created_at":
		return u.CreatedAt, true
	case "last_visited_at":
		return u.LastVisitedAt, true
	case "last_watched_at":
		return u.LastWatchedAt, true
	case "last_email_notification":
		return u.LastEmailNotification, true
	case "last_in_app_notification":
		return u.LastInAppNotification, true
	case "last_sms_notification":
		return u.LastSmsNotification, true
	}
	return time.Time{}, false
}

// IDsOf returns the value of an id-set column.
func (u *User) IDsOf(field string) ([]uint32, bool) {
	switch field {
	case "recent_watched":
		return u.RecentWatched, true
	case "viewed_but_not_started":
		return u.ViewedButNotStarted, true
	case "started_but_not_finished":
		return u.StartedButNotFinished, true
	case "finished":
		return u.Finished, true
	}
	return nil, false
}

// ToProto converts u into its wire form.
func (u *User) ToProto() *userstatev1.User {
	return &userstatev1.User{
		Email:                 u.Email,
		Name:                  u.Name,
		CreatedAt:             timestamp(u.CreatedAt),
		LastVisitedAt:         timestamp(u.LastVisitedAt),
		LastWatchedAt:         timestamp(u.LastWatchedAt),
		RecentWatched:         u.RecentWatched,
		ViewedButNotStarted:   u.ViewedButNotStarted,
		StartedButNotFinished: u.StartedButNotFinished,
		Finished:              u.Finished,
	}
}

// FromProto converts a wire user.
func FromProto(p *userstatev1.User) User {
	return User{
		Email:                 p.GetEmail(),
		Name:                  p.GetName(),
		CreatedAt:             fromTimestamp(p.GetCreatedAt()),
		LastVisitedAt:         fromTimestamp(p.GetLastVisitedAt()),
		LastWatchedAt:         fromTimestamp(p.GetLastWatchedAt()),
		RecentWatched:         p.GetRecentWatched(),
		ViewedButNotStarted:   p.GetViewedButNotStarted(),
		StartedButNotFinished: p.GetStartedButNotFinished(),
		Finished:              p.GetFinished(),
	}
}

func timestamp(t time.Time) *timestamppb.Timestamp {
	if t.IsZero() {
		return nil
	}
	return timestamppb.New(t)
}

func fromTimestamp(ts *timestamppb.Timestamp) time.Time {
	if ts == nil {
		return time.Time{}
	}
	return ts.AsTime()
}

// Store renders a filter into its own query language and streams the matching
// users. Rendering errors are returned before the sequence starts; row errors
// are yielded in-sequence and end it.
type Store interface {
	Query(ctx context.Context, f windowquery.Filter) (iter.Seq2[User, error], error)
	Insert(ctx context.Context, users ...User) error
	Close(ctx context.Context) error
}

// CheckFilter rejects filters that name fields outside the column allowlist.
func CheckFilter(f windowquery.Filter) error {
	for _, field := range f.TimeFields() {
		if !slices.Contains(TimeColumns, field) {
			return fmt.Errorf("%w: %q is not a time column", ErrUnknownField, field)
		}
	}
	for _, field := range f.IDFields() {
		if !slices.Contains(IDColumns, field) {
			return fmt.Errorf("%w: %q is not an id column", ErrUnknownField, field)
		}
	}
	return nil
}

// Matches evaluates f against u in Go. Stores use it as the reference for
// their rendered predicates.
func Matches(f windowquery.Filter, u *User) bool {
	for field, r := range f.Times() {
		t, ok := u.TimeOf(field)
		if !ok || !r.Contains(t) {
			return false
		}
	}
	for field, want := range f.IDs() {
		have, ok := u.IDsOf(field)
		if !ok || !containsAll(have, want) {
			return false
		}
	}
	return true
}

func containsAll(have, want []uint32) bool {
	set := make(map[uint32]struct{}, len(have))
	for _, id := range have {
		set[id] = struct{}{}
	}
	for _, id := range want {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}
