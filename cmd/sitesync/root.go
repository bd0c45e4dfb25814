package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/medstock/sitesync/internal/config"
	"github.com/medstock/sitesync/internal/snapshot"
	"github.com/medstock/sitesync/internal/store"
	"github.com/medstock/sitesync/internal/worker"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "sitesync",
	Short: "Sitesync - site-side sync core for the medical supply network",
	Long: "Sitesync keeps a site's local inventory database in step with the " +
		"central server: it integrates inbound records from the sync buffer and " +
		"translates local changes back into the central wire format.",
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file path (overrides SITESYNC_CONFIG_PATH)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(translatorsCmd)
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(pushCmd)
}

// runServe starts the background maintenance workers and blocks until
// a termination signal. Pull and push runs themselves are triggered by
// the surrounding scheduler through the pull/push subcommands.
func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	setupLogger(cfg.Log)
	slog.Info("configuration loaded", "site_id", cfg.Sync.SiteID)

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	slog.Info("store initialized", "path", cfg.Database.Path)

	uploader, err := snapshot.NewUploader(cfg.Snapshot)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	startWorker(ctx, &wg, worker.NewVacuumCoordinator(db,
		time.Duration(cfg.Worker.VacuumInterval),
		time.Duration(cfg.Worker.BufferRetention)).Run)
	if cfg.Snapshot.Enabled {
		startWorker(ctx, &wg, worker.NewSnapshotCoordinator(db, uploader,
			cfg.Sync.SiteID, time.Duration(cfg.Worker.VacuumInterval)).Run)
	}

	<-ctx.Done()
	slog.Info("shutdown initiated")

	wg.Wait()

	if err := db.Close(); err != nil {
		slog.Error("store close error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// loadConfig loads configuration, honouring the --config flag.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

// setupLogger installs the process-wide slog handler.
func setupLogger(cfg config.LogConfig) {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// startWorker launches a background worker goroutine that respects
// context cancellation. Workers are tracked for graceful shutdown.
func startWorker(ctx context.Context, wg *sync.WaitGroup, fn func(ctx context.Context)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		fn(ctx)
	}()
}
