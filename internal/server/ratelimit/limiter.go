// Package ratelimit throttles calls per caller key.
package ratelimit

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// Limiter decides whether a call from key may proceed.
type Limiter interface {
	Allow(key string) bool
	Reset(key string)
}

// Config holds the configuration for rate limiting.
type Config struct {
	Enabled bool `yaml:"enabled"`

	// Requests is the burst size and the number of requests refilled per Window.
	Requests int `yaml:"requests"`

	Window time.Duration `yaml:"window"`
}

// DefaultConfig allows 30 campaign invocations per caller per minute.
func DefaultConfig() Config {
	return Config{
		Enabled:  true,
		Requests: 30,
		Window:   time.Minute,
	}
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter keeps one token bucket per key. Buckets idle for two windows
// are dropped by Sweep.
type MemoryLimiter struct {
	mu      sync.Mutex
	cfg     Config
	buckets map[string]*bucket
	now     func() time.Time
}

func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	return &MemoryLimiter{
		cfg:     cfg,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(key string) bool {
	if !l.cfg.Enabled || l.cfg.Requests <= 0 || l.cfg.Window <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		every := rate.Every(l.cfg.Window / time.Duration(l.cfg.Requests))
		b = &bucket{limiter: rate.NewLimiter(every, l.cfg.Requests)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

func (l *MemoryLimiter) Reset(key string) {
	l.mu.Lock()
	delete(l.buckets, key)
	l.mu.Unlock()
}

// Sweep forgets buckets that have not been used for two windows.
func (l *MemoryLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	n := 0
	for k, b := range l.buckets {
		if now.Sub(b.lastSeen) > 2*l.cfg.Window {
			delete(l.buckets, k)
			n++
		}
	}
	return n
}

// RunSweeper sweeps every window until ctx is done.
func (l *MemoryLimiter) RunSweeper(ctx context.Context) {
	if l.cfg.Window <= 0 {
		return
	}
	t := time.NewTicker(l.cfg.Window)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			l.Sweep()
		}
	}
}

// KeyFunc extracts the rate limit key from a call context.
type KeyFunc func(ctx context.Context) string

// PeerKey keys calls by remote address without the port.
func PeerKey(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return "unknown"
	}
	addr := p.Addr.String()
	if i := strings.LastIndex(addr, ":"); i > 0 {
		return addr[:i]
	}
	return addr
}

// UnaryInterceptor rejects calls to methods under prefixes with
// ResourceExhausted once the caller's bucket is empty.
func UnaryInterceptor(l Limiter, key KeyFunc, prefixes ...string) grpc.UnaryServerInterceptor {
	if key == nil {
		key = PeerKey
	}
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if matches(info.FullMethod, prefixes) && !l.Allow(key(ctx)) {
			return nil, status.Error(codes.ResourceExhausted, "too many requests")
		}
		return handler(ctx, req)
	}
}

func matches(method string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		if strings.HasPrefix(method, p) {
			return true
		}
	}
	return false
}
