package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syntrixbase/crm/internal/config"
)

func testConfig(t *testing.T) config.LoggingConfig {
	cfg := config.DefaultLoggingConfig()
	cfg.Dir = t.TempDir()
	cfg.Console.Enabled = false
	return cfg
}

func TestNewLogger_WritesMainLog(t *testing.T) {
	cfg := testConfig(t)
	logger, err := NewLogger(cfg)
	require.NoError(t, err)

	logger.Info("campaign accepted", "id", "c-1")
	require.NoError(t, Shutdown())

	content, err := os.ReadFile(filepath.Join(cfg.Dir, MainLogFile))
	require.NoError(t, err)
	assert.Contains(t, string(content), "campaign accepted")
	assert.Contains(t, string(content), "id=c-1")
}

func TestNewLogger_JSONFormat(t *testing.T) {
	cfg := testConfig(t)
	cfg.File.Format = "json"
	logger, err := NewLogger(cfg)
	require.NoError(t, err)

	logger.Info("test json", "key", "value")
	require.NoError(t, Shutdown())

	content, err := os.ReadFile(filepath.Join(cfg.Dir, MainLogFile))
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"test json"`)
	assert.Contains(t, string(content), `"key":"value"`)
}

func TestNewLogger_ErrorLogSeparationAndDedup(t *testing.T) {
	cfg := testConfig(t)
	logger, err := NewLogger(cfg)
	require.NoError(t, err)

	logger.Info("info message")
	for range 5 {
		logger.Warn("message dropped", "workflow", "welcome")
	}
	logger.Error("error message")
	require.NoError(t, Shutdown())

	mainContent, err := os.ReadFile(filepath.Join(cfg.Dir, MainLogFile))
	require.NoError(t, err)
	assert.Contains(t, string(mainContent), "info message")

	errContent, err := os.ReadFile(filepath.Join(cfg.Dir, ErrorLogFile))
	require.NoError(t, err)
	assert.NotContains(t, string(errContent), "info message")
	assert.Contains(t, string(errContent), "error message")
	assert.Equal(t, 1, strings.Count(string(errContent), "message dropped"))
}

func TestNewLogger_NoOutputs(t *testing.T) {
	cfg := testConfig(t)
	cfg.File.Enabled = false
	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	logger.Info("goes nowhere")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
