package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syntrixbase/crm/internal/userstate"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.True(t, cfg.Services.CRM)
	assert.Equal(t, 50000, cfg.Server.GRPCPort)
	assert.Equal(t, userstate.StoreMemory, cfg.UserState.Store)
	assert.Equal(t, "Welcome", cfg.CRM.Workflows.Welcome.Subject)
	assert.Equal(t, "day", cfg.CRM.Workflows.Welcome.Policy)
	assert.Equal(t, 10*time.Second, cfg.CRM.ContentTimeout)
	assert.Equal(t, filepath.Join(dir, "keys", "decoding.pem"), cfg.Auth.PublicKeyFile)
	assert.Equal(t, filepath.Join(filepath.Dir(dir), "logs"), cfg.Logging.Dir)
}

func TestLoad_FilesAndEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(`
services:
  crm: true
  user_state: false
  metadata: false
  notification: false
crm:
  sender_email: news@example.com
  user_state_addr: users:50000
  workflows:
    recall:
      policy: since
auth:
  enabled: false
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.local.yml"), []byte(`
crm:
  user_state_addr: localhost:6000
`), 0644))
	t.Setenv("CRM_METADATA_ADDR", "meta:7000")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.True(t, cfg.Services.CRM)
	assert.False(t, cfg.Services.UserState)
	assert.False(t, cfg.Auth.Enabled)
	assert.Equal(t, "news@example.com", cfg.CRM.SenderEmail)
	assert.Equal(t, "localhost:6000", cfg.CRM.UserStateAddr)
	assert.Equal(t, "meta:7000", cfg.CRM.MetadataAddr)
	assert.Equal(t, "since", cfg.CRM.Workflows.Recall.Policy)
	assert.Equal(t, "last_visited_at", cfg.CRM.Workflows.Recall.Field)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("malformed yaml", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.local.yml"), []byte("not: [valid"), 0644))
		_, err := Load(dir)
		assert.ErrorContains(t, err, "config.local.yml")
	})

	t.Run("unreadable file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "config.yml"), 0755))
		_, err := Load(dir)
		assert.Error(t, err)
	})

	t.Run("invalid section", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("crm:\n  workflows:\n    remind:\n      policy: sometimes\n"), 0644))
		_, err := Load(dir)
		assert.ErrorContains(t, err, "remind")
	})
}

func TestConfigDir(t *testing.T) {
	t.Setenv("CRM_CONFIG_DIR", "")
	assert.Equal(t, DefaultDir, configDir())
	t.Setenv("CRM_CONFIG_DIR", "/etc/crm")
	assert.Equal(t, "/etc/crm", configDir())
}
