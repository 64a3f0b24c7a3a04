package git

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"northgate/sentinel/pkg/policy/store"
)

// Source wires a policy repository to a registry: it clones the repo,
// loads policies into the registry, and keeps them in sync by polling.
type Source struct {
	repo     *Repository
	loader   *store.Loader
	registry *store.Registry
	watcher  *Watcher
	logger   *slog.Logger
}

// NewSource creates a GitOps policy source feeding the given registry.
func NewSource(cfg *Config, registry *store.Registry, pollInterval time.Duration, logger *slog.Logger) (*Source, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}

	repo, err := NewRepository(cfg)
	if err != nil {
		return nil, err
	}

	s := &Source{
		repo:     repo,
		loader:   store.NewLoader(nil),
		registry: registry,
		logger:   logger.With("component", "policy.git.source"),
	}
	s.watcher = NewWatcher(repo, pollInterval, s.reload, logger)
	return s, nil
}

// Start clones the repository, performs the initial load, and begins
// polling for changes.
func (s *Source) Start(ctx context.Context) error {
	if err := s.repo.Clone(ctx); err != nil {
		return err
	}
	if err := s.reload(s.repo.PolicyPath()); err != nil {
		return fmt.Errorf("initial policy load failed: %w", err)
	}

	commit, err := s.repo.CurrentCommit()
	if err != nil {
		return err
	}
	s.logger.Info("git policy source started",
		"commit", shortSHA(commit.SHA),
		"policy_count", s.registry.Count(),
	)

	return s.watcher.Start(ctx)
}

// Stop halts polling.
func (s *Source) Stop() {
	s.watcher.Stop()
}

// CurrentCommit returns the commit the active policy set came from.
func (s *Source) CurrentCommit() (*CommitInfo, error) {
	return s.repo.CurrentCommit()
}

// reload loads the policy directory and swaps the registry on success.
func (s *Source) reload(policyPath string) error {
	policies, err := s.loader.LoadFromDirectory(policyPath)
	if err != nil {
		return err
	}
	return s.registry.Replace(policies)
}
