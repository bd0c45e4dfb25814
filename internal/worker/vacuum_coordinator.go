// Package worker runs the site's background maintenance loops: sync
// buffer vacuuming and periodic database snapshot upload.
package worker

import (
	"context"
	"log/slog"
	"time"
)

// BufferVacuumer removes processed sync buffer rows older than a cutoff.
type BufferVacuumer interface {
	VacuumBuffer(ctx context.Context, cutoff time.Time) (int64, error)
}

// VacuumCoordinator periodically deletes processed buffer rows that
// have aged past the retention window. Pending rows are never touched.
type VacuumCoordinator struct {
	store     BufferVacuumer
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
}

// NewVacuumCoordinator creates a coordinator that vacuums the sync
// buffer every interval, keeping processed rows for the retention
// period.
func NewVacuumCoordinator(store BufferVacuumer, interval, retention time.Duration) *VacuumCoordinator {
	return &VacuumCoordinator{
		store:     store,
		interval:  interval,
		retention: retention,
		now:       time.Now,
	}
}

// Run starts the coordinator loop.
func (c *VacuumCoordinator) Run(ctx context.Context) {
	slog.Info("worker started",
		"component", "worker",
		"worker", "vacuum-coordinator",
		"action", "worker_started",
	)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.vacuum(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopped",
				"component", "worker",
				"worker", "vacuum-coordinator",
				"action", "worker_stopped",
				"reason", "context_cancelled",
			)
			return
		case <-ticker.C:
			c.vacuum(ctx)
		}
	}
}

// vacuum runs one vacuum cycle.
func (c *VacuumCoordinator) vacuum(ctx context.Context) {
	cutoff := c.now().Add(-c.retention)
	removed, err := c.store.VacuumBuffer(ctx, cutoff)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Warn("buffer vacuum failed",
			"component", "worker",
			"worker", "vacuum-coordinator",
			"action", "vacuum_failed",
			"error", err,
		)
		return
	}

	if removed > 0 {
		slog.Info("buffer vacuum cycle completed",
			"component", "worker",
			"worker", "vacuum-coordinator",
			"action", "cycle_complete",
			"removed", removed,
		)
	}
}
