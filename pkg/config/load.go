package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention SENTINEL_SECTION_FIELD (e.g., SENTINEL_SERVER_LISTEN_ADDRESS).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns a configuration populated entirely from defaults,
// for running without a configuration file.
func DefaultConfig() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables use the format SENTINEL_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("SENTINEL_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("SENTINEL_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("SENTINEL_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("SENTINEL_SERVER_IDLE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.IdleTimeout = d
		}
	}
	if val := os.Getenv("SENTINEL_SERVER_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}

	// Posture overrides
	if val := os.Getenv("SENTINEL_POSTURE_BACKEND"); val != "" {
		cfg.Posture.Backend = val
	}
	if val := os.Getenv("SENTINEL_POSTURE_SQLITE_PATH"); val != "" {
		cfg.Posture.SQLite.Path = val
	}

	// Policy overrides
	if val := os.Getenv("SENTINEL_POLICY_MODE"); val != "" {
		cfg.Policy.Mode = val
	}
	if val := os.Getenv("SENTINEL_POLICY_PATH"); val != "" {
		cfg.Policy.Path = val
	}
	if val := os.Getenv("SENTINEL_POLICY_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Policy.Watch = b
		}
	}
	if val := os.Getenv("SENTINEL_POLICY_GIT_REPOSITORY"); val != "" {
		cfg.Policy.Git.Repository = val
	}
	if val := os.Getenv("SENTINEL_POLICY_GIT_BRANCH"); val != "" {
		cfg.Policy.Git.Branch = val
	}
	if val := os.Getenv("SENTINEL_POLICY_GIT_PATH"); val != "" {
		cfg.Policy.Git.Path = val
	}
	if val := os.Getenv("SENTINEL_POLICY_GIT_POLL_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Policy.Git.PollInterval = d
		}
	}
	if val := os.Getenv("SENTINEL_POLICY_GIT_AUTH_TYPE"); val != "" {
		cfg.Policy.Git.Auth.Type = val
	}
	if val := os.Getenv("SENTINEL_POLICY_GIT_AUTH_TOKEN"); val != "" {
		cfg.Policy.Git.Auth.Token = val
	}
	if val := os.Getenv("SENTINEL_POLICY_GIT_AUTH_SSH_KEY_PATH"); val != "" {
		cfg.Policy.Git.Auth.SSHKeyPath = val
	}
	if val := os.Getenv("SENTINEL_POLICY_GIT_AUTH_SSH_KEY_PASSPHRASE"); val != "" {
		cfg.Policy.Git.Auth.SSHKeyPassphrase = val
	}

	// Engine overrides
	if val := os.Getenv("SENTINEL_ENGINE_CACHE_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Engine.CacheEnabled = boolPtr(b)
		}
	}
	if val := os.Getenv("SENTINEL_ENGINE_CACHE_SIZE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Engine.CacheSize = i
		}
	}

	// Audit overrides
	if val := os.Getenv("SENTINEL_AUDIT_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Audit.Enabled = boolPtr(b)
		}
	}
	if val := os.Getenv("SENTINEL_AUDIT_BACKEND"); val != "" {
		cfg.Audit.Backend = val
	}
	if val := os.Getenv("SENTINEL_AUDIT_SQLITE_PATH"); val != "" {
		cfg.Audit.SQLite.Path = val
	}
	if val := os.Getenv("SENTINEL_AUDIT_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Audit.Retention.Days = i
		}
	}
	if val := os.Getenv("SENTINEL_AUDIT_RETENTION_SCHEDULE"); val != "" {
		cfg.Audit.Retention.Schedule = val
	}

	// Telemetry overrides
	if val := os.Getenv("SENTINEL_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("SENTINEL_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("SENTINEL_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = boolPtr(b)
		}
	}
	if val := os.Getenv("SENTINEL_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
	if val := os.Getenv("SENTINEL_TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("SENTINEL_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := os.Getenv("SENTINEL_TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}
