package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validatePosture(&cfg.Posture)...)
	errs = append(errs, validatePolicy(&cfg.Policy)...)
	errs = append(errs, validateEngine(&cfg.Engine)...)
	errs = append(errs, validateAudit(&cfg.Audit)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must not be negative",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must not be negative",
		})
	}
	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes must not be negative",
		})
	}
	return errs
}

func validatePosture(cfg *PostureConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "memory", "sqlite":
	default:
		errs = append(errs, FieldError{
			Field:   "posture.backend",
			Message: fmt.Sprintf("unknown backend %q, must be one of: memory, sqlite", cfg.Backend),
		})
	}
	if cfg.Backend == "sqlite" && cfg.SQLite.Path == "" {
		errs = append(errs, FieldError{
			Field:   "posture.sqlite.path",
			Message: "sqlite path is required when backend is sqlite",
		})
	}
	return errs
}

func validatePolicy(cfg *PolicyConfig) []FieldError {
	var errs []FieldError

	switch cfg.Mode {
	case "file":
		if cfg.Path == "" {
			errs = append(errs, FieldError{
				Field:   "policy.path",
				Message: "path is required when mode is file",
			})
		}
	case "git":
		if cfg.Git.Repository == "" {
			errs = append(errs, FieldError{
				Field:   "policy.git.repository",
				Message: "repository URL is required when mode is git",
			})
		}
		if cfg.Git.Branch == "" {
			errs = append(errs, FieldError{
				Field:   "policy.git.branch",
				Message: "branch is required when mode is git",
			})
		}
		if cfg.Git.PollInterval < 0 {
			errs = append(errs, FieldError{
				Field:   "policy.git.poll_interval",
				Message: "poll interval must not be negative",
			})
		}
		errs = append(errs, validateGitAuth(&cfg.Git.Auth)...)
	default:
		errs = append(errs, FieldError{
			Field:   "policy.mode",
			Message: fmt.Sprintf("unknown mode %q, must be one of: file, git", cfg.Mode),
		})
	}
	return errs
}

func validateGitAuth(cfg *GitAuthConfig) []FieldError {
	var errs []FieldError

	switch cfg.Type {
	case "none":
	case "token":
		if cfg.Token == "" {
			errs = append(errs, FieldError{
				Field:   "policy.git.auth.token",
				Message: "token is required when auth type is token",
			})
		}
	case "ssh":
		if cfg.SSHKeyPath == "" {
			errs = append(errs, FieldError{
				Field:   "policy.git.auth.ssh_key_path",
				Message: "ssh key path is required when auth type is ssh",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "policy.git.auth.type",
			Message: fmt.Sprintf("unknown auth type %q, must be one of: none, token, ssh", cfg.Type),
		})
	}
	return errs
}

func validateEngine(cfg *EngineConfig) []FieldError {
	var errs []FieldError

	if cfg.CacheSize < 0 {
		errs = append(errs, FieldError{
			Field:   "engine.cache_size",
			Message: "cache size must not be negative",
		})
	}
	if cfg.EmitTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "engine.emit_timeout",
			Message: "emit timeout must not be negative",
		})
	}
	return errs
}

func validateAudit(cfg *AuditConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "memory", "sqlite":
	default:
		errs = append(errs, FieldError{
			Field:   "audit.backend",
			Message: fmt.Sprintf("unknown backend %q, must be one of: memory, sqlite", cfg.Backend),
		})
	}
	if cfg.Backend == "sqlite" && cfg.SQLite.Path == "" {
		errs = append(errs, FieldError{
			Field:   "audit.sqlite.path",
			Message: "sqlite path is required when backend is sqlite",
		})
	}
	if cfg.Recorder.Buffer < 0 {
		errs = append(errs, FieldError{
			Field:   "audit.recorder.buffer",
			Message: "buffer must not be negative",
		})
	}
	if cfg.Retention.Days < 0 {
		errs = append(errs, FieldError{
			Field:   "audit.retention.days",
			Message: "retention days must not be negative",
		})
	}
	if cfg.Retention.Days > 0 && cfg.Retention.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Retention.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "audit.retention.schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}
	if cfg.Retention.ArchiveBeforeDelete && cfg.Retention.ArchivePath == "" {
		errs = append(errs, FieldError{
			Field:   "audit.retention.archive_path",
			Message: "archive path is required when archive_before_delete is set",
		})
	}
	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown level %q, must be one of: debug, info, warn, error", cfg.Logging.Level),
		})
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown format %q, must be one of: json, text", cfg.Logging.Format),
		})
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "endpoint is required when tracing is enabled",
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}
	return errs
}
