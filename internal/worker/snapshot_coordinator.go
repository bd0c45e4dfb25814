package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/medstock/sitesync/internal/snapshot"
)

// DatabasePathProvider resolves the filesystem path of the site
// database for snapshot upload.
type DatabasePathProvider interface {
	Path(ctx context.Context) (string, error)
}

// SnapshotCoordinator periodically uploads the site database to the
// configured snapshot storage.
type SnapshotCoordinator struct {
	store    DatabasePathProvider
	uploader snapshot.Uploader
	siteID   int64
	interval time.Duration
}

// NewSnapshotCoordinator creates a coordinator that uploads a snapshot
// of the site database every interval.
func NewSnapshotCoordinator(store DatabasePathProvider, uploader snapshot.Uploader, siteID int64, interval time.Duration) *SnapshotCoordinator {
	return &SnapshotCoordinator{
		store:    store,
		uploader: uploader,
		siteID:   siteID,
		interval: interval,
	}
}

// Run starts the coordinator loop.
func (c *SnapshotCoordinator) Run(ctx context.Context) {
	slog.Info("worker started",
		"component", "worker",
		"worker", "snapshot-coordinator",
		"action", "worker_started",
	)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.upload(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopped",
				"component", "worker",
				"worker", "snapshot-coordinator",
				"action", "worker_stopped",
				"reason", "context_cancelled",
			)
			return
		case <-ticker.C:
			c.upload(ctx)
		}
	}
}

// upload runs one snapshot upload cycle. Failures are logged as
// warnings; the local database remains the source of truth.
func (c *SnapshotCoordinator) upload(ctx context.Context) {
	path, err := c.store.Path(ctx)
	if err != nil {
		slog.Warn("failed to resolve database path for snapshot",
			"component", "worker",
			"worker", "snapshot-coordinator",
			"action", "snapshot_upload_failed",
			"error", err,
		)
		return
	}

	if err := c.uploader.Upload(ctx, c.siteID, path); err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Warn("snapshot upload failed",
			"component", "worker",
			"worker", "snapshot-coordinator",
			"action", "snapshot_upload_failed",
			"site_id", c.siteID,
			"error", err,
		)
		return
	}

	slog.Info("snapshot uploaded",
		"component", "worker",
		"worker", "snapshot-coordinator",
		"action", "snapshot_uploaded",
		"site_id", c.siteID,
	)
}
