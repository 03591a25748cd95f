package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	defaultMaxRequestText = 8000
	defaultVoicingCount   = 4
)

// Config holds the application configuration.
// The service is stateless: there is no database and no auth.
type Config struct {
	// Environment
	Environment string
	Port        string

	// HTTP
	CORSAllowedOrigins []string

	// Transports
	MCPEnabled     bool // mount the MCP endpoint at /mcp
	MetricsEnabled bool // expose prometheus metrics at /metrics

	// Engine limits
	MaxRequestText      int // longest text accepted by analysis/tab/constraint endpoints
	DefaultVoicingCount int // used when a voicing request omits count

	// Observability
	SentryDSN string // Sentry DSN for error tracking
}

func Load() *Config {
	return &Config{
		Environment:         getEnv("ENVIRONMENT", "development"),
		Port:                getEnv("PORT", "8080"),
		CORSAllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		MCPEnabled:          getEnv("MCP_ENABLED", "true") == "true",
		MetricsEnabled:      getEnv("METRICS_ENABLED", "true") == "true",
		MaxRequestText:      getEnvInt("MAX_REQUEST_TEXT", defaultMaxRequestText),
		DefaultVoicingCount: getEnvInt("DEFAULT_VOICING_COUNT", defaultVoicingCount),
		SentryDSN:           getEnv("SENTRY_DSN", ""),
	}
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
