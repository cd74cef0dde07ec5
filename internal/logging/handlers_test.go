package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	h := NewLevelFilter(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}), slog.LevelWarn)
	logger := slog.New(h).With("component", "test")

	logger.Info("quiet")
	logger.Warn("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
	assert.Contains(t, buf.String(), "component=test")
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.WithGroup("g").Enabled(context.Background(), slog.LevelError))
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("disk full") }

func TestMultiHandler(t *testing.T) {
	var a, b bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewJSONHandler(&b, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	logger := slog.New(h)
	logger.Info("one")
	logger.Warn("two")

	assert.Contains(t, a.String(), "one")
	assert.Contains(t, a.String(), "two")
	assert.NotContains(t, b.String(), "one")
	assert.Contains(t, b.String(), `"msg":"two"`)

	var c bytes.Buffer
	failing := NewMultiHandler(failingHandler{}, slog.NewTextHandler(&c, nil))
	err := failing.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "still written", 0))
	assert.EqualError(t, err, "disk full")
	assert.Contains(t, c.String(), "still written")
}

func TestDedupHandler(t *testing.T) {
	var buf bytes.Buffer
	h := NewDedupHandler(slog.NewTextHandler(&buf, nil), time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h.state.now = func() time.Time { return now }
	logger := slog.New(h)

	for range 3 {
		logger.Warn("message dropped", "workflow", "recall")
	}
	logger.Warn("message dropped", "workflow", "welcome")
	slog.New(h.WithAttrs([]slog.Attr{slog.String("component", "other")})).Warn("message dropped", "workflow", "recall")
	assert.Equal(t, 3, strings.Count(buf.String(), "message dropped"))

	now = now.Add(2 * time.Minute)
	logger.Warn("message dropped", "workflow", "recall")
	require.Equal(t, 4, strings.Count(buf.String(), "message dropped"))
	assert.Contains(t, buf.String(), "suppressed=2")
}
