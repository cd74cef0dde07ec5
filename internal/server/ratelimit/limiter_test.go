package ratelimit

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

func TestMemoryLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(Config{Enabled: true, Requests: 2, Window: time.Minute})
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"), "keys are independent")

	now = now.Add(30 * time.Second)
	assert.True(t, l.Allow("a"), "one token refilled after half a window")
	assert.False(t, l.Allow("a"))

	l.Reset("a")
	assert.True(t, l.Allow("a"))

	now = now.Add(3 * time.Minute)
	assert.Equal(t, 2, l.Sweep())
}

func TestMemoryLimiter_Disabled(t *testing.T) {
	l := NewMemoryLimiter(Config{Enabled: false, Requests: 1, Window: time.Minute})
	for range 10 {
		assert.True(t, l.Allow("a"))
	}
}

func TestUnaryInterceptor(t *testing.T) {
	l := NewMemoryLimiter(Config{Enabled: true, Requests: 1, Window: time.Hour})
	ic := UnaryInterceptor(l, func(context.Context) string { return "alice" }, "/crm.v1.Crm/")
	handler := func(ctx context.Context, req interface{}) (interface{}, error) { return "ok", nil }

	info := &grpc.UnaryServerInfo{FullMethod: "/crm.v1.Crm/Welcome"}
	_, err := ic(context.Background(), nil, info, handler)
	require.NoError(t, err)
	_, err = ic(context.Background(), nil, info, handler)
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))

	other := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	_, err = ic(context.Background(), nil, other, handler)
	assert.NoError(t, err)
}

func TestPeerKey(t *testing.T) {
	assert.Equal(t, "unknown", PeerKey(context.Background()))
	ctx := peer.NewContext(context.Background(), &peer.Peer{Addr: &net.TCPAddr{IP: net.ParseIP("10.0.0.7"), Port: 5555}})
	assert.Equal(t, "10.0.0.7", PeerKey(ctx))
}
