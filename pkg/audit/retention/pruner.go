// Package retention enforces age-based retention on recorded audit
// events. A pruner deletes events older than the configured period,
// optionally archiving them to JSON first, and a cron scheduler runs
// pruning cycles unattended.
package retention

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"northgate/sentinel/pkg/audit"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// RetentionDays is the number of days to retain audit events.
	// 0 means keep events forever (no pruning).
	RetentionDays int

	// PruneSchedule is a cron expression for scheduling pruning.
	// Example: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string

	// ArchiveBeforeDelete enables archiving events before deletion.
	ArchiveBeforeDelete bool

	// ArchivePath is the directory to store archived events.
	ArchivePath string
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays:       365,
		PruneSchedule:       "0 3 * * *",
		ArchiveBeforeDelete: false,
		ArchivePath:         "data/archives/",
	}
}

// Pruner enforces the retention policy on audit events.
type Pruner struct {
	storage   audit.Storage
	config    *Config
	logger    *slog.Logger
	scheduler *Scheduler
}

// NewPruner creates a new retention pruner.
func NewPruner(storage audit.Storage, config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}

	pruner := &Pruner{
		storage: storage,
		config:  config,
		logger:  slog.Default().With("component", "audit.retention"),
	}
	pruner.scheduler = NewScheduler(pruner)

	return pruner
}

// Prune deletes audit events older than the retention period and returns
// the number of events deleted. With RetentionDays of 0 it does nothing.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.config.RetentionDays <= 0 {
		p.logger.Debug("retention disabled, nothing to prune")
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -p.config.RetentionDays)
	query := &audit.Query{EndTime: &cutoff}

	if p.config.ArchiveBeforeDelete {
		if err := p.archive(ctx, query); err != nil {
			return 0, audit.NewRetentionError(p.config.RetentionDays, err)
		}
	}

	deleted, err := p.storage.Delete(ctx, query)
	if err != nil {
		return 0, audit.NewRetentionError(p.config.RetentionDays, err)
	}

	if deleted > 0 {
		p.logger.Info("audit events pruned",
			"deleted_count", deleted,
			"retention_days", p.config.RetentionDays,
			"cutoff_time", cutoff,
		)
	} else {
		p.logger.Debug("no audit events pruned",
			"retention_days", p.config.RetentionDays,
		)
	}

	return deleted, nil
}

// archive exports events matching the query to a dated JSON file before
// they are deleted.
func (p *Pruner) archive(ctx context.Context, query *audit.Query) error {
	events, err := p.storage.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query events for archiving: %w", err)
	}

	if len(events) == 0 {
		p.logger.Debug("no events to archive")
		return nil
	}

	if err := os.MkdirAll(p.config.ArchivePath, 0755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}

	archiveFile := filepath.Join(p.config.ArchivePath,
		fmt.Sprintf("audit-%s.json", time.Now().Format("2006-01-02-150405")))
	f, err := os.Create(archiveFile)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(events); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}

	p.logger.Info("audit events archived",
		"archive_file", archiveFile,
		"event_count", len(events),
	)

	return nil
}

// Start starts the automatic pruning scheduler.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop stops the automatic pruning scheduler.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}

// NextPruning returns the time of the next scheduled pruning.
func (p *Pruner) NextPruning() *time.Time {
	return p.scheduler.NextRun()
}
