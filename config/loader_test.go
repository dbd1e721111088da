package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/teamflow/persistence"
)

func TestLoader_Defaults(t *testing.T) {
	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.Orchestration.ExecTimeout)
	assert.False(t, cfg.Orchestration.AutoChain)
	assert.Equal(t, "teamflow", cfg.Orchestration.MetricsNamespace)
	assert.Equal(t, persistence.StoreTypeMemory, cfg.Store.Type)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoader_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teamflow.yaml")
	content := `
orchestration:
  exec_timeout: 30s
  auto_chain: true
  exec_rate_rps: 2.5
  exec_rate_burst: 4
store:
  type: redis
  redis:
    addr: "10.0.0.5:6379"
    key_prefix: "tf:"
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Orchestration.ExecTimeout)
	assert.True(t, cfg.Orchestration.AutoChain)
	assert.Equal(t, 2.5, cfg.Orchestration.ExecRateRPS)
	assert.Equal(t, 4, cfg.Orchestration.ExecRateBurst)
	assert.Equal(t, persistence.StoreTypeRedis, cfg.Store.Type)
	assert.Equal(t, "10.0.0.5:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, "tf:", cfg.Store.Redis.KeyPrefix)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teamflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o600))

	t.Setenv("TEAMFLOW_LOG_LEVEL", "error")
	t.Setenv("TEAMFLOW_ORCHESTRATION_EXEC_TIMEOUT", "90s")
	t.Setenv("TEAMFLOW_STORE_TYPE", "redis")
	t.Setenv("TEAMFLOW_STORE_REDIS_ADDR", "envhost:6379")

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, 90*time.Second, cfg.Orchestration.ExecTimeout)
	assert.Equal(t, persistence.StoreTypeRedis, cfg.Store.Type)
	assert.Equal(t, "envhost:6379", cfg.Store.Redis.Addr)
}

func TestLoader_MissingFileFallsBack(t *testing.T) {
	cfg, err := NewLoader().WithConfigPath("/nonexistent/teamflow.yaml").Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"negative timeout", func(c *Config) { c.Orchestration.ExecTimeout = -time.Second }, "exec_timeout"},
		{"negative rate", func(c *Config) { c.Orchestration.ExecRateRPS = -1 }, "exec_rate_rps"},
		{"rate without burst", func(c *Config) {
			c.Orchestration.ExecRateRPS = 1
			c.Orchestration.ExecRateBurst = 0
		}, "exec_rate_burst"},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"telemetry without endpoint", func(c *Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.OTLPEndpoint = ""
		}, "otlp_endpoint"},
		{"bad sample rate", func(c *Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.SampleRate = 1.5
		}, "sample_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = NewLogger(LogConfig{Level: "nope", Format: "json"})
	assert.Error(t, err)
}
