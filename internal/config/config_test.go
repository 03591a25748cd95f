package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENVIRONMENT", "PORT", "CORS_ALLOWED_ORIGINS", "MCP_ENABLED",
		"METRICS_ENABLED", "MAX_REQUEST_TEXT", "DEFAULT_VOICING_COUNT", "SENTRY_DSN"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.MCPEnabled)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, defaultMaxRequestText, cfg.MaxRequestText)
	assert.Equal(t, defaultVoicingCount, cfg.DefaultVoicingCount)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("MCP_ENABLED", "false")
	t.Setenv("MAX_REQUEST_TEXT", "200")
	t.Setenv("DEFAULT_VOICING_COUNT", "not-a-number")

	cfg := Load()
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.MCPEnabled)
	assert.Equal(t, 200, cfg.MaxRequestText)
	assert.Equal(t, defaultVoicingCount, cfg.DefaultVoicingCount)
}
