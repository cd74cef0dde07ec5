package logging

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// LevelFilter passes only records at or above a minimum level.
type LevelFilter struct {
	handler  slog.Handler
	minLevel slog.Level
}

func NewLevelFilter(handler slog.Handler, minLevel slog.Level) *LevelFilter {
	return &LevelFilter{handler: handler, minLevel: minLevel}
}

func (h *LevelFilter) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.minLevel && h.handler.Enabled(ctx, level)
}

func (h *LevelFilter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level < h.minLevel {
		return nil
	}
	return h.handler.Handle(ctx, r)
}

func (h *LevelFilter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LevelFilter{handler: h.handler.WithAttrs(attrs), minLevel: h.minLevel}
}

func (h *LevelFilter) WithGroup(name string) slog.Handler {
	return &LevelFilter{handler: h.handler.WithGroup(name), minLevel: h.minLevel}
}

// MultiHandler fans records out to several handlers. The first handler error
// is returned after every handler has been tried.
type MultiHandler struct {
	handlers []slog.Handler
}

func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

func (h *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, hh := range h.handlers {
		if hh.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, hh := range h.handlers {
		if !hh.Enabled(ctx, r.Level) {
			continue
		}
		if err := hh.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Handler, len(h.handlers))
	for i, hh := range h.handlers {
		out[i] = hh.WithAttrs(attrs)
	}
	return &MultiHandler{handlers: out}
}

func (h *MultiHandler) WithGroup(name string) slog.Handler {
	out := make([]slog.Handler, len(h.handlers))
	for i, hh := range h.handlers {
		out[i] = hh.WithGroup(name)
	}
	return &MultiHandler{handlers: out}
}

// DedupHandler drops records identical to one already written within the
// window. The next record with that content after the window carries a
// suppressed=<n> attribute. Identity covers level, message and record
// attributes; the timestamp is ignored.
type DedupHandler struct {
	handler slog.Handler
	scope   string
	state   *dedupState
}

type dedupState struct {
	mu     sync.Mutex
	window time.Duration
	now    func() time.Time
	seen   map[uint64]*dedupEntry
}

type dedupEntry struct {
	first      time.Time
	suppressed int
}

func NewDedupHandler(handler slog.Handler, window time.Duration) *DedupHandler {
	return &DedupHandler{
		handler: handler,
		state: &dedupState{
			window: window,
			now:    time.Now,
			seen:   make(map[uint64]*dedupEntry),
		},
	}
}

func (h *DedupHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *DedupHandler) Handle(ctx context.Context, r slog.Record) error {
	key := recordKey(h.scope, r)
	s := h.state

	s.mu.Lock()
	now := s.now()
	e, ok := s.seen[key]
	if ok && now.Sub(e.first) < s.window {
		e.suppressed++
		s.mu.Unlock()
		return nil
	}
	suppressed := 0
	if ok {
		suppressed = e.suppressed
	}
	s.seen[key] = &dedupEntry{first: now}
	s.evict(now)
	s.mu.Unlock()

	if suppressed > 0 {
		r = r.Clone()
		r.AddAttrs(slog.Int("suppressed", suppressed))
	}
	return h.handler.Handle(ctx, r)
}

// evict forgets entries that expired with nothing suppressed. Must hold mu.
func (s *dedupState) evict(now time.Time) {
	if len(s.seen) < 1024 {
		return
	}
	for k, e := range s.seen {
		if e.suppressed == 0 && now.Sub(e.first) >= s.window {
			delete(s.seen, k)
		}
	}
}

// WithAttrs and WithGroup share the dedup state with the parent.
func (h *DedupHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	scope := h.scope
	for _, a := range attrs {
		scope += "|" + a.String()
	}
	return &DedupHandler{handler: h.handler.WithAttrs(attrs), scope: scope, state: h.state}
}

func (h *DedupHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &DedupHandler{handler: h.handler.WithGroup(name), scope: h.scope + "|" + name + ".", state: h.state}
}

func recordKey(scope string, r slog.Record) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(scope)
	_, _ = d.WriteString(r.Level.String())
	_, _ = d.WriteString("|")
	_, _ = d.WriteString(r.Message)
	r.Attrs(func(a slog.Attr) bool {
		_, _ = d.WriteString("|")
		_, _ = d.WriteString(a.Key)
		_, _ = d.WriteString("=")
		_, _ = d.WriteString(a.Value.String())
		return true
	})
	return d.Sum64()
}
