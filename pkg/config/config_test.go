package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sentinel.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("Expected listen address %s, got %s", DefaultListenAddress, cfg.Server.ListenAddress)
	}
	if cfg.Posture.Backend != "memory" {
		t.Errorf("Expected posture backend memory, got %s", cfg.Posture.Backend)
	}
	if cfg.Policy.Mode != "file" {
		t.Errorf("Expected policy mode file, got %s", cfg.Policy.Mode)
	}
	if !cfg.Engine.IsCacheEnabled() {
		t.Error("Expected cache enabled by default")
	}
	if cfg.Engine.CacheSize != DefaultEngineCacheSize {
		t.Errorf("Expected cache size %d, got %d", DefaultEngineCacheSize, cfg.Engine.CacheSize)
	}
	if !cfg.Audit.IsEnabled() {
		t.Error("Expected audit enabled by default")
	}
	if cfg.Audit.Backend != "sqlite" {
		t.Errorf("Expected audit backend sqlite, got %s", cfg.Audit.Backend)
	}
	if cfg.Audit.Retention.Days != DefaultAuditRetentionDays {
		t.Errorf("Expected retention days %d, got %d", DefaultAuditRetentionDays, cfg.Audit.Retention.Days)
	}
	if cfg.Telemetry.Logging.Level != "info" || cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("Unexpected logging defaults: %+v", cfg.Telemetry.Logging)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
server:
  listen_address: "0.0.0.0:9090"
  read_timeout: 10s
posture:
  backend: sqlite
  sqlite:
    path: /tmp/posture.db
policy:
  mode: file
  path: testdata/policies
  watch: true
engine:
  cache_enabled: false
  cache_size: 256
audit:
  backend: memory
  retention:
    days: 30
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("Expected listen address 0.0.0.0:9090, got %s", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("Expected read timeout 10s, got %v", cfg.Server.ReadTimeout)
	}
	// Unset fields still get defaults.
	if cfg.Server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("Expected default write timeout, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Posture.Backend != "sqlite" || cfg.Posture.SQLite.Path != "/tmp/posture.db" {
		t.Errorf("Unexpected posture config: %+v", cfg.Posture)
	}
	if !cfg.Policy.Watch {
		t.Error("Expected watch enabled")
	}
	// Explicit false must survive defaulting.
	if cfg.Engine.IsCacheEnabled() {
		t.Error("Expected cache disabled when explicitly set to false")
	}
	if cfg.Engine.CacheSize != 256 {
		t.Errorf("Expected cache size 256, got %d", cfg.Engine.CacheSize)
	}
	if cfg.Audit.Backend != "memory" {
		t.Errorf("Expected audit backend memory, got %s", cfg.Audit.Backend)
	}
	if cfg.Audit.Retention.Days != 30 {
		t.Errorf("Expected retention days 30, got %d", cfg.Audit.Retention.Days)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Error("Expected error for missing file")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfigFile(t, "server: [not a mapping")
		if _, err := LoadConfig(path); err == nil {
			t.Error("Expected error for malformed YAML")
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		path := writeConfigFile(t, `
posture:
  backend: etcd
`)
		_, err := LoadConfig(path)
		if err == nil {
			t.Fatal("Expected validation error")
		}
		var verr ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Expected ValidationError, got %T", err)
		}
		if !strings.Contains(verr.Error(), "posture.backend") {
			t.Errorf("Expected posture.backend in error, got %q", verr.Error())
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "empty listen address",
			mutate:    func(cfg *Config) { cfg.Server.ListenAddress = "" },
			wantField: "server.listen_address",
		},
		{
			name:      "unknown policy mode",
			mutate:    func(cfg *Config) { cfg.Policy.Mode = "s3" },
			wantField: "policy.mode",
		},
		{
			name: "git mode without repository",
			mutate: func(cfg *Config) {
				cfg.Policy.Mode = "git"
				cfg.Policy.Git.Repository = ""
			},
			wantField: "policy.git.repository",
		},
		{
			name: "token auth without token",
			mutate: func(cfg *Config) {
				cfg.Policy.Mode = "git"
				cfg.Policy.Git.Repository = "https://example.com/policies.git"
				cfg.Policy.Git.Auth.Type = "token"
			},
			wantField: "policy.git.auth.token",
		},
		{
			name:      "negative cache size",
			mutate:    func(cfg *Config) { cfg.Engine.CacheSize = -1 },
			wantField: "engine.cache_size",
		},
		{
			name:      "bad retention schedule",
			mutate:    func(cfg *Config) { cfg.Audit.Retention.Schedule = "every day at dawn" },
			wantField: "audit.retention.schedule",
		},
		{
			name:      "unknown log level",
			mutate:    func(cfg *Config) { cfg.Telemetry.Logging.Level = "verbose" },
			wantField: "telemetry.logging.level",
		},
		{
			name: "tracing enabled without endpoint",
			mutate: func(cfg *Config) {
				cfg.Telemetry.Tracing.Enabled = true
				cfg.Telemetry.Tracing.Endpoint = ""
			},
			wantField: "telemetry.tracing.endpoint",
		},
		{
			name:      "sample ratio out of range",
			mutate:    func(cfg *Config) { cfg.Telemetry.Tracing.SampleRatio = 1.5 },
			wantField: "telemetry.tracing.sample_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected ValidationError, got %T", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("Expected error for field %s, got %v", tt.wantField, verr.Errors)
			}
		})
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
server:
  listen_address: "127.0.0.1:8080"
audit:
  retention:
    days: 30
`)

	t.Setenv("SENTINEL_SERVER_LISTEN_ADDRESS", "0.0.0.0:9999")
	t.Setenv("SENTINEL_SERVER_READ_TIMEOUT", "45s")
	t.Setenv("SENTINEL_ENGINE_CACHE_ENABLED", "false")
	t.Setenv("SENTINEL_AUDIT_RETENTION_DAYS", "7")
	t.Setenv("SENTINEL_TELEMETRY_LOGGING_LEVEL", "debug")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() failed: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9999" {
		t.Errorf("Expected env override of listen address, got %s", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Expected read timeout 45s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Engine.IsCacheEnabled() {
		t.Error("Expected cache disabled via env override")
	}
	if cfg.Audit.Retention.Days != 7 {
		t.Errorf("Expected retention days 7, got %d", cfg.Audit.Retention.Days)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.Telemetry.Logging.Level)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidAfterOverride(t *testing.T) {
	path := writeConfigFile(t, "")

	t.Setenv("SENTINEL_POSTURE_BACKEND", "etcd")

	if _, err := LoadConfigWithEnvOverrides(path); err == nil {
		t.Error("Expected validation error after env override")
	}
}
