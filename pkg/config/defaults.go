package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB

	// Posture defaults
	DefaultPostureBackend           = "memory"
	DefaultPostureSQLitePath        = "data/posture.db"
	DefaultPostureSQLiteBusyTimeout = 5 * time.Second

	// Policy defaults
	DefaultPolicyMode             = "file"
	DefaultPolicyPath             = "./policies.yaml"
	DefaultPolicyDebounceInterval = 500 * time.Millisecond
	DefaultPolicyGitBranch        = "main"
	DefaultPolicyGitLocalPath     = "data/policy-repo"
	DefaultPolicyGitPollInterval  = 30 * time.Second
	DefaultPolicyGitTimeout       = 60 * time.Second
	DefaultPolicyGitAuthType      = "none"

	// Engine defaults
	DefaultEngineCacheEnabled = true
	DefaultEngineCacheSize    = 1024
	DefaultEngineEmitTimeout  = 2 * time.Second

	// Audit defaults
	DefaultAuditEnabled             = true
	DefaultAuditBackend             = "sqlite"
	DefaultAuditSQLitePath          = "data/audit.db"
	DefaultAuditSQLiteMaxOpenConns  = 10
	DefaultAuditSQLiteMaxIdleConns  = 5
	DefaultAuditSQLiteWALMode       = true
	DefaultAuditSQLiteBusyTimeout   = 5 * time.Second
	DefaultAuditRecorderBuffer      = 1000
	DefaultAuditRecorderWriteTimeout = 5 * time.Second
	DefaultAuditRetentionDays       = 365
	DefaultAuditRetentionSchedule   = "0 3 * * *"
	DefaultAuditRetentionArchivePath = "data/archives/"

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "json"
	DefaultMetricsEnabled     = true
	DefaultMetricsPath        = "/metrics"
	DefaultTracingSampleRatio = 1.0
)

// ApplyDefaults applies default values to a Config struct. It sets defaults
// for any fields that have zero values. This function is idempotent and safe
// to call multiple times. Boolean flags whose default is true are pointers
// so that an explicit false in the file is distinguishable from "not set".
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}

	// Posture defaults
	if cfg.Posture.Backend == "" {
		cfg.Posture.Backend = DefaultPostureBackend
	}
	if cfg.Posture.SQLite.Path == "" {
		cfg.Posture.SQLite.Path = DefaultPostureSQLitePath
	}
	if cfg.Posture.SQLite.BusyTimeout == 0 {
		cfg.Posture.SQLite.BusyTimeout = DefaultPostureSQLiteBusyTimeout
	}

	// Policy defaults
	if cfg.Policy.Mode == "" {
		cfg.Policy.Mode = DefaultPolicyMode
	}
	if cfg.Policy.Path == "" {
		cfg.Policy.Path = DefaultPolicyPath
	}
	if cfg.Policy.DebounceInterval == 0 {
		cfg.Policy.DebounceInterval = DefaultPolicyDebounceInterval
	}
	if cfg.Policy.Git.Branch == "" {
		cfg.Policy.Git.Branch = DefaultPolicyGitBranch
	}
	if cfg.Policy.Git.LocalPath == "" {
		cfg.Policy.Git.LocalPath = DefaultPolicyGitLocalPath
	}
	if cfg.Policy.Git.PollInterval == 0 {
		cfg.Policy.Git.PollInterval = DefaultPolicyGitPollInterval
	}
	if cfg.Policy.Git.Timeout == 0 {
		cfg.Policy.Git.Timeout = DefaultPolicyGitTimeout
	}
	if cfg.Policy.Git.Auth.Type == "" {
		cfg.Policy.Git.Auth.Type = DefaultPolicyGitAuthType
	}

	// Engine defaults
	if cfg.Engine.CacheEnabled == nil {
		cfg.Engine.CacheEnabled = boolPtr(DefaultEngineCacheEnabled)
	}
	if cfg.Engine.CacheSize == 0 {
		cfg.Engine.CacheSize = DefaultEngineCacheSize
	}
	if cfg.Engine.EmitTimeout == 0 {
		cfg.Engine.EmitTimeout = DefaultEngineEmitTimeout
	}

	// Audit defaults
	if cfg.Audit.Enabled == nil {
		cfg.Audit.Enabled = boolPtr(DefaultAuditEnabled)
	}
	if cfg.Audit.Backend == "" {
		cfg.Audit.Backend = DefaultAuditBackend
	}
	if cfg.Audit.SQLite.Path == "" {
		cfg.Audit.SQLite.Path = DefaultAuditSQLitePath
	}
	if cfg.Audit.SQLite.MaxOpenConns == 0 {
		cfg.Audit.SQLite.MaxOpenConns = DefaultAuditSQLiteMaxOpenConns
	}
	if cfg.Audit.SQLite.MaxIdleConns == 0 {
		cfg.Audit.SQLite.MaxIdleConns = DefaultAuditSQLiteMaxIdleConns
	}
	if cfg.Audit.SQLite.WALMode == nil {
		cfg.Audit.SQLite.WALMode = boolPtr(DefaultAuditSQLiteWALMode)
	}
	if cfg.Audit.SQLite.BusyTimeout == 0 {
		cfg.Audit.SQLite.BusyTimeout = DefaultAuditSQLiteBusyTimeout
	}
	if cfg.Audit.Recorder.Buffer == 0 {
		cfg.Audit.Recorder.Buffer = DefaultAuditRecorderBuffer
	}
	if cfg.Audit.Recorder.WriteTimeout == 0 {
		cfg.Audit.Recorder.WriteTimeout = DefaultAuditRecorderWriteTimeout
	}
	if cfg.Audit.Retention.Days == 0 {
		cfg.Audit.Retention.Days = DefaultAuditRetentionDays
	}
	if cfg.Audit.Retention.Schedule == "" {
		cfg.Audit.Retention.Schedule = DefaultAuditRetentionSchedule
	}
	if cfg.Audit.Retention.ArchivePath == "" {
		cfg.Audit.Retention.ArchivePath = DefaultAuditRetentionArchivePath
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Enabled == nil {
		cfg.Telemetry.Metrics.Enabled = boolPtr(DefaultMetricsEnabled)
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
}

func boolPtr(b bool) *bool { return &b }

// IsEnabled reports whether the audit trail is enabled, treating an
// unset flag as the default.
func (c *AuditConfig) IsEnabled() bool {
	if c.Enabled == nil {
		return DefaultAuditEnabled
	}
	return *c.Enabled
}

// IsCacheEnabled reports whether result caching is enabled, treating an
// unset flag as the default.
func (c *EngineConfig) IsCacheEnabled() bool {
	if c.CacheEnabled == nil {
		return DefaultEngineCacheEnabled
	}
	return *c.CacheEnabled
}

// IsEnabled reports whether the metrics endpoint is enabled, treating an
// unset flag as the default.
func (c *MetricsConfig) IsEnabled() bool {
	if c.Enabled == nil {
		return DefaultMetricsEnabled
	}
	return *c.Enabled
}

// IsWALMode reports whether write-ahead logging is enabled, treating an
// unset flag as the default.
func (c *AuditSQLiteConfig) IsWALMode() bool {
	if c.WALMode == nil {
		return DefaultAuditSQLiteWALMode
	}
	return *c.WALMode
}
