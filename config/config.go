// Package config provides unified configuration loading for TeamFlow:
// defaults, then a YAML file, then environment variable overrides.
//
// Usage:
//
//	cfg, err := config.NewLoader().
//	    WithConfigPath("teamflow.yaml").
//	    WithEnvPrefix("TEAMFLOW").
//	    Load()
package config

import (
	"fmt"
	"time"

	"github.com/BaSui01/teamflow/persistence"
)

// Config is the complete TeamFlow configuration.
type Config struct {
	// Orchestration controls the core's execution behavior.
	Orchestration OrchestrationConfig `yaml:"orchestration"`

	// Store configures the optional message/task mirror stores.
	Store persistence.Config `yaml:"store"`

	// Log configures logging.
	Log LogConfig `yaml:"log"`

	// Telemetry configures OpenTelemetry export.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// OrchestrationConfig controls the orchestration core.
type OrchestrationConfig struct {
	// ExecTimeout bounds a single external execution call. Zero means no
	// core-imposed deadline; callers may still pass their own.
	ExecTimeout time.Duration `yaml:"exec_timeout"`

	// AutoChain makes a newly assigned task depend on the most recently
	// assigned task when no dependencies are given.
	AutoChain bool `yaml:"auto_chain"`

	// ExecRateRPS limits external execution calls per second.
	// Zero disables rate limiting.
	ExecRateRPS float64 `yaml:"exec_rate_rps"`

	// ExecRateBurst is the burst size for the execution rate limiter.
	ExecRateBurst int `yaml:"exec_rate_burst"`

	// MetricsNamespace is the Prometheus namespace for core metrics.
	MetricsNamespace string `yaml:"metrics_namespace"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `yaml:"level"`
	// Format: json, console
	Format string `yaml:"format"`
}

// TelemetryConfig configures OpenTelemetry export.
type TelemetryConfig struct {
	// Enabled turns telemetry on. When false, providers remain noop.
	Enabled bool `yaml:"enabled"`
	// OTLPEndpoint is the OTLP gRPC collector endpoint.
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	// ServiceName identifies this service in traces.
	ServiceName string `yaml:"service_name"`
	// SampleRate is the trace sampling ratio in [0, 1].
	SampleRate float64 `yaml:"sample_rate"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Orchestration: OrchestrationConfig{
			ExecTimeout:      5 * time.Minute,
			AutoChain:        false,
			ExecRateRPS:      0,
			ExecRateBurst:    1,
			MetricsNamespace: "teamflow",
		},
		Store: persistence.DefaultConfig(),
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: TelemetryConfig{
			Enabled:      false,
			OTLPEndpoint: "localhost:4317",
			ServiceName:  "teamflow",
			SampleRate:   1.0,
		},
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Orchestration.ExecTimeout < 0 {
		return fmt.Errorf("orchestration.exec_timeout must not be negative")
	}
	if c.Orchestration.ExecRateRPS < 0 {
		return fmt.Errorf("orchestration.exec_rate_rps must not be negative")
	}
	if c.Orchestration.ExecRateRPS > 0 && c.Orchestration.ExecRateBurst < 1 {
		return fmt.Errorf("orchestration.exec_rate_burst must be at least 1 when rate limiting is enabled")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug/info/warn/error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format %q is not one of json/console", c.Log.Format)
	}
	if c.Telemetry.Enabled {
		if c.Telemetry.OTLPEndpoint == "" {
			return fmt.Errorf("telemetry.otlp_endpoint is required when telemetry is enabled")
		}
		if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
			return fmt.Errorf("telemetry.sample_rate must be within [0, 1]")
		}
	}
	return nil
}
