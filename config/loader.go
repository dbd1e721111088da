package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/BaSui01/teamflow/persistence"
)

// Loader loads configuration with the precedence
// defaults → YAML file → environment variables.
type Loader struct {
	configPath string
	envPrefix  string
}

// NewLoader creates a configuration loader.
func NewLoader() *Loader {
	return &Loader{envPrefix: "TEAMFLOW"}
}

// WithConfigPath sets the YAML file to load. Optional: when unset or the
// file does not exist, defaults plus environment are used.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix sets the environment variable prefix (default "TEAMFLOW").
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// Load resolves the configuration and validates it.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if l.configPath != "" {
		data, err := os.ReadFile(l.configPath)
		switch {
		case os.IsNotExist(err):
			// Fall through to defaults + env.
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	l.applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (l *Loader) applyEnv(cfg *Config) {
	l.envString("LOG_LEVEL", &cfg.Log.Level)
	l.envString("LOG_FORMAT", &cfg.Log.Format)

	l.envBool("TELEMETRY_ENABLED", &cfg.Telemetry.Enabled)
	l.envString("TELEMETRY_OTLP_ENDPOINT", &cfg.Telemetry.OTLPEndpoint)
	l.envString("TELEMETRY_SERVICE_NAME", &cfg.Telemetry.ServiceName)
	l.envFloat("TELEMETRY_SAMPLE_RATE", &cfg.Telemetry.SampleRate)

	l.envDuration("ORCHESTRATION_EXEC_TIMEOUT", &cfg.Orchestration.ExecTimeout)
	l.envBool("ORCHESTRATION_AUTO_CHAIN", &cfg.Orchestration.AutoChain)
	l.envFloat("ORCHESTRATION_EXEC_RATE_RPS", &cfg.Orchestration.ExecRateRPS)
	l.envInt("ORCHESTRATION_EXEC_RATE_BURST", &cfg.Orchestration.ExecRateBurst)
	l.envString("ORCHESTRATION_METRICS_NAMESPACE", &cfg.Orchestration.MetricsNamespace)

	var storeType string
	l.envString("STORE_TYPE", &storeType)
	if storeType != "" {
		cfg.Store.Type = persistence.StoreType(storeType)
	}
	l.envString("STORE_REDIS_ADDR", &cfg.Store.Redis.Addr)
	l.envString("STORE_REDIS_PASSWORD", &cfg.Store.Redis.Password)
	l.envInt("STORE_REDIS_DB", &cfg.Store.Redis.DB)
	l.envInt("STORE_REDIS_POOL_SIZE", &cfg.Store.Redis.PoolSize)
	l.envString("STORE_REDIS_KEY_PREFIX", &cfg.Store.Redis.KeyPrefix)
}

func (l *Loader) lookup(key string) (string, bool) {
	return os.LookupEnv(l.envPrefix + "_" + key)
}

func (l *Loader) envString(key string, dst *string) {
	if v, ok := l.lookup(key); ok {
		*dst = v
	}
}

func (l *Loader) envBool(key string, dst *bool) {
	if v, ok := l.lookup(key); ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			*dst = parsed
		}
	}
}

func (l *Loader) envInt(key string, dst *int) {
	if v, ok := l.lookup(key); ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func (l *Loader) envFloat(key string, dst *float64) {
	if v, ok := l.lookup(key); ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = parsed
		}
	}
}

func (l *Loader) envDuration(key string, dst *time.Duration) {
	if v, ok := l.lookup(key); ok {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}
