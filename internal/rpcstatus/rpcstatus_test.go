package rpcstatus

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	commonv1 "github.com/syntrixbase/crm/api/common/v1"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"nil", nil, codes.OK},
		{"invalid", fmt.Errorf("bad window: %w", ErrInvalidArgument), codes.InvalidArgument},
		{"unauthenticated", fmt.Errorf("%w: no token", ErrUnauthenticated), codes.Unauthenticated},
		{"unavailable", ErrUnavailable, codes.Unavailable},
		{"not found", ErrNotFound, codes.NotFound},
		{"deadline", fmt.Errorf("collect: %w", context.DeadlineExceeded), codes.DeadlineExceeded},
		{"canceled", context.Canceled, codes.Canceled},
		{"status", status.Error(codes.Aborted, "x"), codes.Aborted},
		{"plain", errors.New("boom"), codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Code(tt.err))
		})
	}
}

func TestToStatus(t *testing.T) {
	assert.NoError(t, ToStatus(nil))

	err := ToStatus(fmt.Errorf("field: %w", ErrInvalidArgument))
	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.InvalidArgument, st.Code())
	assert.Contains(t, st.Message(), "field")

	orig := status.Error(codes.PermissionDenied, "nope")
	assert.Equal(t, orig, ToStatus(orig))
}

func TestItemErrorRoundTrip(t *testing.T) {
	assert.Nil(t, ItemError(nil))
	assert.NoError(t, FromItemError(nil))

	ie := ItemError(status.Error(codes.InvalidArgument, "msg is required"))
	assert.Equal(t, int32(codes.InvalidArgument), ie.Code)
	assert.Equal(t, "msg is required", ie.Message)

	back := FromItemError(ie)
	assert.Equal(t, codes.InvalidArgument, status.Code(back))

	assert.Equal(t, codes.Unknown, status.Code(FromItemError(&commonv1.ItemError{Message: "?"})))
}
