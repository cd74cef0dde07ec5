package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, AllServices, cfg.Selected())
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Set(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Set(ServiceCRM, true))
	require.NoError(t, cfg.Set(ServiceMetadata, true))
	assert.Equal(t, []Service{ServiceMetadata, ServiceCRM}, cfg.Selected())
	assert.True(t, cfg.Enabled(ServiceCRM))
	assert.False(t, cfg.Enabled(ServiceUserState))
	assert.Error(t, cfg.Set("gateway", true))
}

func TestConfig_Validate(t *testing.T) {
	var cfg Config
	assert.Error(t, cfg.Validate())
}

func TestConfig_ApplyEnvOverrides(t *testing.T) {
	tests := []struct {
		env  string
		want []Service
	}{
		{"", AllServices},
		{"all", AllServices},
		{"crm", []Service{ServiceCRM}},
		{"notification, user_state", []Service{ServiceUserState, ServiceNotification}},
		{"crm,bogus", []Service{ServiceCRM}},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("CRM_SERVICES", tt.env)
			cfg := DefaultConfig()
			cfg.ApplyEnvOverrides()
			assert.Equal(t, tt.want, cfg.Selected())
		})
	}
}
