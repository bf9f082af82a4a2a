package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvVars = []string{
	"CONFIG_FILE", "PORT", "CACHE_TYPE", "CACHE_TTL", "REDIS_URL", "DATABASE_URL", "LOG_SINK",
	"PROVIDER_BASE_URL", "PROVIDER_LOGIN", "PROVIDER_PASSWORD", "PROVIDER_TIMEOUT_SECONDS",
	"PROVIDER_RATE_LIMIT_PER_SEC", "DEFAULT_LOCATION", "DEFAULT_LANGUAGE", "MAX_CONCURRENT_KEYWORDS",
	"GLOBAL_RATE_LIMIT_PER_SEC", "PER_IP_RATE_LIMIT_PER_SEC",
	"SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_SHUTDOWN_TIMEOUT",
}

// clearEnv blanks every variable Load reads for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvVars {
		t.Setenv(key, "")
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.CacheType)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, "stdout", cfg.LogSink)
	assert.Equal(t, "https://api.dataforseo.com/v3", cfg.ProviderBaseURL)
	assert.Empty(t, cfg.ProviderLogin)
	assert.Empty(t, cfg.ProviderPassword)
	assert.Equal(t, 30*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 30, cfg.ProviderRateLimit)
	assert.Equal(t, "Sweden", cfg.DefaultLocation)
	assert.Equal(t, "en", cfg.DefaultLanguage)
	assert.Equal(t, 6, cfg.MaxConcurrentKeywords)
	assert.Equal(t, 100, cfg.GlobalRateLimitPerSec)
	assert.Equal(t, 10, cfg.PerIPRateLimitPerSec)
	assert.Equal(t, 15*time.Second, cfg.ServerReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.ServerWriteTimeout)
	assert.Equal(t, 30*time.Second, cfg.ServerShutdownTimeout)
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_TYPE", "postgres")
	t.Setenv("CACHE_TTL", "7200")
	t.Setenv("DATABASE_URL", "postgresql://custom-db")
	t.Setenv("LOG_SINK", "database")
	t.Setenv("PROVIDER_BASE_URL", "http://localhost:9000/v3")
	t.Setenv("PROVIDER_LOGIN", "api@example.com")
	t.Setenv("PROVIDER_PASSWORD", "secret")
	t.Setenv("PROVIDER_TIMEOUT_SECONDS", "5")
	t.Setenv("PROVIDER_RATE_LIMIT_PER_SEC", "2")
	t.Setenv("DEFAULT_LOCATION", "Norway")
	t.Setenv("DEFAULT_LANGUAGE", "no")
	t.Setenv("MAX_CONCURRENT_KEYWORDS", "8")
	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "60")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres", cfg.CacheType)
	assert.Equal(t, 7200*time.Second, cfg.CacheTTL)
	assert.Equal(t, "postgresql://custom-db", cfg.DatabaseURL)
	assert.Equal(t, "database", cfg.LogSink)
	assert.Equal(t, "http://localhost:9000/v3", cfg.ProviderBaseURL)
	assert.Equal(t, "api@example.com", cfg.ProviderLogin)
	assert.Equal(t, "secret", cfg.ProviderPassword)
	assert.Equal(t, 5*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 2, cfg.ProviderRateLimit)
	assert.Equal(t, "Norway", cfg.DefaultLocation)
	assert.Equal(t, "no", cfg.DefaultLanguage)
	assert.Equal(t, 8, cfg.MaxConcurrentKeywords)
	assert.Equal(t, 60*time.Second, cfg.ServerShutdownTimeout)
}

func TestLoad_ConfigFileOverlay(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `
port: "7070"
cache:
  type: redis
  ttl_seconds: 600
  redis_url: redis://cache:6379
provider:
  login: file-user
  rate_limit_per_sec: 5
  default_location: Denmark
analysis:
  max_concurrent_keywords: 3
server:
  write_timeout_seconds: 90
`)
	t.Setenv("CONFIG_FILE", path)

	cfg := Load()

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "redis", cfg.CacheType)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "redis://cache:6379", cfg.RedisURL)
	assert.Equal(t, "file-user", cfg.ProviderLogin)
	assert.Equal(t, 5, cfg.ProviderRateLimit)
	assert.Equal(t, "Denmark", cfg.DefaultLocation)
	assert.Equal(t, 3, cfg.MaxConcurrentKeywords)
	assert.Equal(t, 90*time.Second, cfg.ServerWriteTimeout)

	// untouched keys keep their defaults
	assert.Equal(t, "en", cfg.DefaultLanguage)
	assert.Equal(t, 30*time.Second, cfg.ProviderTimeout)
}

func TestLoad_EnvironmentWinsOverConfigFile(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, "port: \"7070\"\nprovider:\n  default_location: Denmark\n")
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "3000")

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "Denmark", cfg.DefaultLocation)
}

func TestLoad_BadConfigFileIsIgnored(t *testing.T) {
	clearEnv(t)

	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, "8080", Load().Port)

	t.Setenv("CONFIG_FILE", writeConfigFile(t, "port: [unclosed"))
	assert.Equal(t, "8080", Load().Port)
}

func TestConfig_ApplyFileErrors(t *testing.T) {
	cfg := defaults()

	err := cfg.applyFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")

	err = cfg.applyFile(writeConfigFile(t, "cache: [1, 2"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestLoad_InvalidNumericEnvironmentVariables(t *testing.T) {
	clearEnv(t)
	t.Setenv("GLOBAL_RATE_LIMIT_PER_SEC", "invalid")
	t.Setenv("MAX_CONCURRENT_KEYWORDS", "many")
	t.Setenv("CACHE_TTL", "a day")
	t.Setenv("PROVIDER_TIMEOUT_SECONDS", "soon")

	cfg := Load()

	assert.Equal(t, 100, cfg.GlobalRateLimitPerSec)
	assert.Equal(t, 6, cfg.MaxConcurrentKeywords)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 30*time.Second, cfg.ProviderTimeout)
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue string
		expected     string
	}{
		{name: "uses default when env not set", envValue: "", defaultValue: "default", expected: "default"},
		{name: "uses env value when set", envValue: "custom", defaultValue: "default", expected: "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_VAR", tt.envValue)
			assert.Equal(t, tt.expected, getEnv("TEST_VAR", tt.defaultValue))
		})
	}
}

func TestGetIntEnv(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected int
	}{
		{name: "uses default when env not set", envValue: "", expected: 42},
		{name: "uses env value when valid int", envValue: "100", expected: 100},
		{name: "uses default when env value is invalid", envValue: "not-a-number", expected: 42},
		{name: "handles negative numbers", envValue: "-10", expected: -10},
		{name: "handles zero", envValue: "0", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT", tt.envValue)
			assert.Equal(t, tt.expected, getIntEnv("TEST_INT", 42))
		})
	}
}

func TestGetDurationEnv(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected time.Duration
	}{
		{name: "uses default when env not set", envValue: "", expected: 10 * time.Second},
		{name: "reads seconds", envValue: "30", expected: 30 * time.Second},
		{name: "uses default when env value is invalid", envValue: "30s", expected: 10 * time.Second},
		{name: "handles zero", envValue: "0", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.envValue)
			assert.Equal(t, tt.expected, getDurationEnv("TEST_DURATION", 10*time.Second))
		})
	}
}
