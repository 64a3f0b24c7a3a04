package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"northgate/sentinel/pkg/audit"
	"northgate/sentinel/pkg/audit/recorder"
	"northgate/sentinel/pkg/audit/retention"
	auditstorage "northgate/sentinel/pkg/audit/storage"
	"northgate/sentinel/pkg/cli"
	"northgate/sentinel/pkg/config"
	"northgate/sentinel/pkg/engine"
	"northgate/sentinel/pkg/policy"
	"northgate/sentinel/pkg/policy/git"
	"northgate/sentinel/pkg/policy/resolver"
	"northgate/sentinel/pkg/policy/store"
	posturestore "northgate/sentinel/pkg/posture/store"
	"northgate/sentinel/pkg/server"
	"northgate/sentinel/pkg/telemetry/health"
	"northgate/sentinel/pkg/telemetry/logging"
	"northgate/sentinel/pkg/telemetry/metrics"
	"northgate/sentinel/pkg/telemetry/tracing"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Sentinel compliance server",
	Long: `Start the Sentinel compliance server with the specified configuration.

The server accepts posture reports from endpoint collectors, evaluates them
against the loaded policy set, and serves per-device compliance verdicts and
audit trails.

Examples:
  # Start with default config
  sentinel run

  # Start with custom config
  sentinel run --config /etc/sentinel/config.yaml

  # Override listen address
  sentinel run --listen 0.0.0.0:8080

  # Validate config without starting server
  sentinel run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Telemetry.Logging.Level,
		Format: cfg.Telemetry.Logging.Format,
	})
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	printBanner(cfg)

	// Cancel background components (watchers, pruner, git poller) on
	// SIGINT/SIGTERM. The HTTP server handles the same signals itself.
	ctx := cli.SetupSignalHandler()

	// Metrics
	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.IsEnabled() {
		collector = metrics.NewCollector(nil)
	}

	// Tracing
	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to initialize tracing: %w", err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("tracer shutdown failed", "error", err)
		}
	}()

	// Posture store
	slog.Info("initializing posture store", "backend", cfg.Posture.Backend)
	postureStore, err := newPostureStore(cfg)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer postureStore.Close()
	fmt.Printf("✓ Posture store initialized (%s)\n", cfg.Posture.Backend)

	// Policy registry
	registry := store.NewRegistry()
	switch cfg.Policy.Mode {
	case "file":
		if err := startFilePolicySource(ctx, cfg, registry, collector, logger); err != nil {
			return cli.NewCommandError("run", err)
		}
	case "git":
		source, err := startGitPolicySource(ctx, cfg, registry, logger)
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		defer source.Stop()
	default:
		return fmt.Errorf("unsupported policy mode: %s", cfg.Policy.Mode)
	}
	fmt.Printf("✓ Policies loaded (%d active, fingerprint %s)\n",
		registry.Count(), registry.Fingerprint())

	// Scope directory
	assignments := map[string]resolver.Memberships{}
	if cfg.Policy.AssignmentsPath != "" {
		assignments, err = resolver.LoadAssignments(cfg.Policy.AssignmentsPath)
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		slog.Info("directory assignments loaded",
			"path", cfg.Policy.AssignmentsPath,
			"devices", len(assignments),
		)
	}
	directory := resolver.NewStaticDirectory(assignments)
	res := resolver.New(directory, registry, resolver.DefaultConfig(), logger)

	// Audit trail
	var emitter audit.Emitter
	var auditStore audit.Storage
	if cfg.Audit.IsEnabled() {
		slog.Info("initializing audit trail", "backend", cfg.Audit.Backend)

		auditStore, err = newAuditStorage(cfg)
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		defer auditStore.Close()

		rec := recorder.New(auditStore, &recorder.Config{
			Buffer:       cfg.Audit.Recorder.Buffer,
			WriteTimeout: cfg.Audit.Recorder.WriteTimeout,
		})
		defer rec.Close()
		emitter = rec

		if collector != nil {
			go watchAuditQueue(ctx, rec, collector)
		}

		if cfg.Audit.Retention.Schedule != "" {
			pruner := retention.NewPruner(auditStore, &retention.Config{
				RetentionDays:       cfg.Audit.Retention.Days,
				PruneSchedule:       cfg.Audit.Retention.Schedule,
				ArchiveBeforeDelete: cfg.Audit.Retention.ArchiveBeforeDelete,
				ArchivePath:         cfg.Audit.Retention.ArchivePath,
			})
			if err := pruner.Start(ctx); err != nil {
				slog.Warn("failed to start retention scheduler", "error", err)
			} else {
				defer pruner.Stop()
				if next := pruner.NextPruning(); next != nil {
					slog.Debug("audit retention scheduler started", "next_pruning", next)
				}
			}
		}

		fmt.Println("✓ Audit trail initialized")
	}

	// Evaluation engine
	eng := engine.New(&engine.Config{
		CacheDisabled: !cfg.Engine.IsCacheEnabled(),
		CacheSize:     cfg.Engine.CacheSize,
		EmitTimeout:   cfg.Engine.EmitTimeout,
	}, res, emitter, logger)
	if collector != nil {
		eng.SetObserver(collector)
	}

	// Health checks
	checker := health.New(0)
	checker.RegisterCheck("policy-registry", func(ctx context.Context) error {
		if registry.Count() == 0 {
			return fmt.Errorf("no active policies loaded")
		}
		return nil
	})

	// Create HTTP server
	deps := server.Dependencies{
		Evaluator:     eng,
		PostureStore:  postureStore,
		PolicyCatalog: registry,
		AuditStorage:  auditStore,
		HealthChecker: checker,
		Logger:        logger,
	}
	if collector != nil {
		deps.MetricsHandler = collector.Handler()
		deps.MetricsPath = cfg.Telemetry.Metrics.Path
	}
	if tracer.Enabled() {
		deps.Tracer = tracer.Underlying()
	}
	srv := server.NewServer(&cfg.Server, deps)

	fmt.Println()
	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/health\n", cfg.Server.ListenAddress)
	if collector != nil {
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n",
			cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Blocks until shutdown signal or server error.
	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Println("✓ Server stopped")
	return nil
}

// newPostureStore creates the posture store backend named by the config.
func newPostureStore(cfg *config.Config) (posturestore.Store, error) {
	switch cfg.Posture.Backend {
	case "sqlite":
		return posturestore.NewSQLiteStoreWithConfig(posturestore.SQLiteStoreConfig{
			DBPath:      cfg.Posture.SQLite.Path,
			BusyTimeout: cfg.Posture.SQLite.BusyTimeout,
		})
	case "memory":
		return posturestore.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported posture backend: %s", cfg.Posture.Backend)
	}
}

// newAuditStorage creates the audit storage backend named by the config.
func newAuditStorage(cfg *config.Config) (audit.Storage, error) {
	switch cfg.Audit.Backend {
	case "sqlite":
		return auditstorage.NewSQLiteStorage(&auditstorage.SQLiteConfig{
			Path:         cfg.Audit.SQLite.Path,
			MaxOpenConns: cfg.Audit.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.Audit.SQLite.MaxIdleConns,
			WALMode:      cfg.Audit.SQLite.IsWALMode(),
			BusyTimeout:  cfg.Audit.SQLite.BusyTimeout,
		})
	case "memory":
		return auditstorage.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported audit backend: %s", cfg.Audit.Backend)
	}
}

// startFilePolicySource loads policies from the configured file or
// directory and, when watching is enabled, reloads on changes.
func startFilePolicySource(ctx context.Context, cfg *config.Config, registry *store.Registry, collector *metrics.Collector, logger *slog.Logger) error {
	loader := store.NewLoader(nil)

	reload := func() error {
		policies, err := loadPolicyPath(loader, cfg.Policy.Path)
		if err == nil {
			err = registry.Replace(policies)
		}
		if collector != nil {
			collector.PolicyReload(err == nil, registry.Count())
		}
		return err
	}

	if err := reload(); err != nil {
		return fmt.Errorf("failed to load policies from %s: %w", cfg.Policy.Path, err)
	}

	if !cfg.Policy.Watch {
		return nil
	}

	watcher, err := store.NewWatcher(&store.WatcherConfig{
		Path:             cfg.Policy.Path,
		DebounceInterval: cfg.Policy.DebounceInterval,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create policy watcher: %w", err)
	}

	go func() {
		if err := watcher.Watch(ctx, reload); err != nil {
			slog.Error("policy watcher exited", "error", err)
		}
	}()
	return nil
}

// loadPolicyPath loads policies from a file or a directory of files.
func loadPolicyPath(loader *store.Loader, path string) ([]*policy.Definition, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return loader.LoadFromDirectory(path)
	}
	return loader.LoadFromFile(path)
}

// startGitPolicySource clones the policy repository and starts polling
// for new commits.
func startGitPolicySource(ctx context.Context, cfg *config.Config, registry *store.Registry, logger *slog.Logger) (*git.Source, error) {
	gitCfg := &git.Config{
		URL:       cfg.Policy.Git.Repository,
		Branch:    cfg.Policy.Git.Branch,
		Path:      cfg.Policy.Git.Path,
		LocalPath: cfg.Policy.Git.LocalPath,
		Depth:     cfg.Policy.Git.Depth,
		Timeout:   cfg.Policy.Git.Timeout,
		Auth: git.AuthConfig{
			Type:             cfg.Policy.Git.Auth.Type,
			Token:            cfg.Policy.Git.Auth.Token,
			SSHKeyPath:       cfg.Policy.Git.Auth.SSHKeyPath,
			SSHKeyPassphrase: cfg.Policy.Git.Auth.SSHKeyPassphrase,
		},
	}

	source, err := git.NewSource(gitCfg, registry, cfg.Policy.Git.PollInterval, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create git policy source: %w", err)
	}
	if err := source.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start git policy source: %w", err)
	}

	if commit, err := source.CurrentCommit(); err == nil {
		slog.Info("policy repository ready",
			"branch", cfg.Policy.Git.Branch,
			"commit", commit.SHA,
		)
	}
	return source, nil
}

// watchAuditQueue periodically exports the recorder's backlog depth.
func watchAuditQueue(ctx context.Context, rec *recorder.Recorder, collector *metrics.Collector) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			collector.UpdateAuditQueueDepth(rec.Pending())
		}
	}
}

func printBanner(cfg *config.Config) {
	fmt.Printf("Sentinel v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	slog.Debug("policy mode", "mode", cfg.Policy.Mode)
	if cfg.Audit.IsEnabled() {
		slog.Debug("audit trail enabled", "backend", cfg.Audit.Backend)
	}
}
