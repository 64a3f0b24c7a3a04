package config

import "time"

// Config is the root configuration structure for Sentinel. It contains all
// configuration sections for the HTTP server, posture storage, policy
// sources, the evaluation engine, audit storage, and telemetry.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, and connection limits.
	Server ServerConfig `yaml:"server"`

	// Posture contains configuration for the device posture store.
	Posture PostureConfig `yaml:"posture"`

	// Policy contains configuration for policy loading including source
	// selection, watch mode, and Git settings.
	Policy PolicyConfig `yaml:"policy"`

	// Engine contains configuration for the compliance evaluation engine
	// including result caching.
	Engine EngineConfig `yaml:"engine"`

	// Audit contains configuration for the audit trail including storage
	// backend, asynchronous recording, and retention.
	Audit AuditConfig `yaml:"audit"`

	// Telemetry contains configuration for observability including logging,
	// metrics, and distributed tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port for the server to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080", "0.0.0.0:8080").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body. A zero or negative value means no timeout.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. A zero or negative value means no timeout.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled. If IdleTimeout is zero, ReadTimeout is used.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// If requests are still in-flight after this timeout, the server will
	// force shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing the request header's keys and values.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// PostureConfig contains configuration for the device posture store.
type PostureConfig struct {
	// Backend selects the posture storage backend.
	// Options: "memory", "sqlite"
	// Default: "memory"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite-specific posture store settings.
	// Only used when Backend is "sqlite".
	SQLite PostureSQLiteConfig `yaml:"sqlite"`
}

// PostureSQLiteConfig contains SQLite settings for the posture store.
type PostureSQLiteConfig struct {
	// Path is the filesystem path to the SQLite database file.
	// Default: "data/posture.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long a connection waits on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// PolicyConfig contains configuration for policy loading.
type PolicyConfig struct {
	// Mode specifies how policies are loaded.
	// Options: "file" (local file or directory), "git" (Git repository)
	// Default: "file"
	Mode string `yaml:"mode"`

	// Path is the policy file or directory when Mode is "file".
	// Default: "./policies.yaml"
	Path string `yaml:"path"`

	// Watch enables automatic reloading when policy files change.
	// Only used when Mode is "file".
	// Default: false
	Watch bool `yaml:"watch"`

	// DebounceInterval is how long the watcher waits after a filesystem
	// event before reloading, collapsing editor write bursts.
	// Default: 500ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`

	// AssignmentsPath is an optional YAML file mapping device IDs to
	// their user and group memberships for scope resolution. Devices
	// absent from the file still match all-devices policies.
	AssignmentsPath string `yaml:"assignments_path,omitempty"`

	// Git contains Git repository configuration.
	// Used when Mode is "git".
	Git GitPolicyConfig `yaml:"git"`
}

// GitPolicyConfig configures Git-based policy loading.
type GitPolicyConfig struct {
	// Repository URL (HTTPS or SSH).
	// Example: "https://github.com/company/policies.git"
	Repository string `yaml:"repository"`

	// Branch to track.
	// Default: "main"
	Branch string `yaml:"branch"`

	// Path within the repository to policy files.
	// Default: "" (root directory)
	Path string `yaml:"path"`

	// LocalPath is where the repository is cloned.
	// Default: "data/policy-repo"
	LocalPath string `yaml:"local_path"`

	// Depth for shallow clones (0 = full clone).
	Depth int `yaml:"depth"`

	// PollInterval between checks for upstream changes.
	// Default: 30s
	PollInterval time.Duration `yaml:"poll_interval"`

	// Timeout for Git network operations.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`

	// Auth configures Git authentication.
	Auth GitAuthConfig `yaml:"auth"`
}

// GitAuthConfig configures Git authentication.
type GitAuthConfig struct {
	// Type: "token", "ssh", "none"
	// Default: "none"
	Type string `yaml:"type"`

	// Token for HTTPS authentication.
	// Required when Type is "token".
	Token string `yaml:"token"`

	// SSHKeyPath for SSH authentication.
	// Required when Type is "ssh".
	SSHKeyPath string `yaml:"ssh_key_path"`

	// SSHKeyPassphrase for encrypted SSH keys.
	// Optional, leave empty if the key is not encrypted.
	SSHKeyPassphrase string `yaml:"ssh_key_passphrase"`
}

// EngineConfig contains configuration for the evaluation engine.
type EngineConfig struct {
	// CacheEnabled controls whether evaluation results are cached.
	// Default: true
	CacheEnabled *bool `yaml:"cache_enabled"`

	// CacheSize is the maximum number of cached evaluation results.
	// Default: 1024
	CacheSize int `yaml:"cache_size"`

	// EmitTimeout bounds how long an evaluation waits to hand a status
	// transition to the audit recorder.
	// Default: 2s
	EmitTimeout time.Duration `yaml:"emit_timeout"`
}

// AuditConfig contains configuration for the audit trail.
type AuditConfig struct {
	// Enabled controls whether audit events are recorded at all.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Backend selects the audit storage backend.
	// Options: "memory", "sqlite"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite-specific audit storage settings.
	SQLite AuditSQLiteConfig `yaml:"sqlite"`

	// Recorder contains asynchronous recording settings.
	Recorder RecorderConfig `yaml:"recorder"`

	// Retention contains audit retention settings.
	Retention RetentionConfig `yaml:"retention"`
}

// AuditSQLiteConfig contains SQLite settings for audit storage.
type AuditSQLiteConfig struct {
	// Path is the filesystem path to the SQLite database file.
	// Default: "data/audit.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open database connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle database connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables SQLite write-ahead logging.
	// Default: true
	WALMode *bool `yaml:"wal_mode"`

	// BusyTimeout is how long a connection waits on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RecorderConfig contains asynchronous audit recording settings.
type RecorderConfig struct {
	// Buffer is the size of the in-memory event queue.
	// Default: 1000
	Buffer int `yaml:"buffer"`

	// WriteTimeout bounds how long Emit blocks when the queue is full
	// before dropping the event.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// RetentionConfig contains audit retention settings.
type RetentionConfig struct {
	// Days is how long audit events are kept. Zero disables pruning.
	// Default: 365
	Days int `yaml:"days"`

	// Schedule is a cron expression for when pruning runs.
	// Default: "0 3 * * *" (3 AM daily)
	Schedule string `yaml:"schedule"`

	// ArchiveBeforeDelete exports events to JSON before deleting them.
	// Default: false
	ArchiveBeforeDelete bool `yaml:"archive_before_delete"`

	// ArchivePath is the directory for archive files.
	// Default: "data/archives/"
	ArchivePath string `yaml:"archive_path"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging settings.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics settings.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing settings.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled controls whether the metrics endpoint is exposed.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Path is the HTTP path for the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`
}

// TracingConfig contains distributed tracing settings.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Example: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// SampleRatio is the fraction of requests to trace (0.0 to 1.0).
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Insecure disables TLS for the collector connection.
	// Default: false
	Insecure bool `yaml:"insecure"`
}
