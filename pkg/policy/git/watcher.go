package git

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ReloadCallback is invoked when policy files changed in the repository.
// It receives the local policy directory and should load and validate the
// policies; returning an error keeps the previous set active.
type ReloadCallback func(policyPath string) error

// Watcher polls the policy repository for new commits and triggers a
// reload when policy files changed. Commits that touch only non-policy
// files are skipped.
type Watcher struct {
	repo         *Repository
	pollInterval time.Duration
	reloadFn     ReloadCallback
	logger       *slog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a poll-based repository watcher.
func NewWatcher(repo *Repository, pollInterval time.Duration, reloadFn ReloadCallback, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		repo:         repo,
		pollInterval: pollInterval,
		reloadFn:     reloadFn,
		logger:       logger.With("component", "policy.git.watcher"),
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Start begins polling in the background.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher already running")
	}
	w.running = true

	commit, err := w.repo.CurrentCommit()
	if err != nil {
		w.running = false
		return fmt.Errorf("failed to get initial commit: %w", err)
	}

	w.logger.Info("git policy watcher started",
		"poll_interval", w.pollInterval,
		"initial_commit", shortSHA(commit.SHA),
	)

	go w.pollLoop(ctx)
	return nil
}

// Stop halts polling and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	w.logger.Info("git policy watcher stopped")
}

// pollLoop pulls on a ticker and reloads on relevant changes.
func (w *Watcher) pollLoop(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

// poll pulls once and triggers the reload callback when policy files
// changed.
func (w *Watcher) poll(ctx context.Context) {
	result, err := w.repo.Pull(ctx)
	if err != nil {
		w.logger.Error("policy repository pull failed", "error", err)
		return
	}
	if !result.HadChanges {
		return
	}

	if !touchesPolicyFiles(result.ChangedFiles) {
		w.logger.Debug("commit touched no policy files, skipping reload",
			"commit", shortSHA(result.ToSHA))
		return
	}

	w.logger.Info("policy repository changed, reloading",
		"from", shortSHA(result.FromSHA),
		"to", shortSHA(result.ToSHA),
		"changed_files", len(result.ChangedFiles),
	)

	if err := w.reloadFn(w.repo.PolicyPath()); err != nil {
		// Keep the last-known-good set.
		w.logger.Error("policy reload failed, keeping previous set", "error", err)
	}
}

// touchesPolicyFiles reports whether any changed path looks like policy YAML.
func touchesPolicyFiles(files []string) bool {
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f))
		if ext == ".yaml" || ext == ".yml" {
			return true
		}
	}
	return false
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
