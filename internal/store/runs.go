package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sitesync "github.com/medstock/sitesync/internal/sync"
)

// RecordRun stores the outcome of a completed sync run.
func (s *SQLiteStore) RecordRun(ctx context.Context, run *sitesync.Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_run (id, kind, status, integrated, ignored, pushed, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, string(run.Kind), string(run.Status),
		run.Integrated, run.Ignored, run.Pushed, run.Error,
		formatTime(run.StartedAt), formatTime(run.FinishedAt))
	if err != nil {
		return fmt.Errorf("record sync run: %w", err)
	}
	return nil
}

// LastRun returns the most recent run of the given kind, or ErrNotFound.
func (s *SQLiteStore) LastRun(ctx context.Context, kind sitesync.RunKind) (*sitesync.Run, error) {
	var run sitesync.Run
	var k, status, startedAt, finishedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, kind, status, integrated, ignored, pushed, error, started_at, finished_at
		FROM sync_run
		WHERE kind = ?
		ORDER BY started_at DESC, id DESC
		LIMIT 1
	`, string(kind)).Scan(&run.ID, &k, &status,
		&run.Integrated, &run.Ignored, &run.Pushed, &run.Error,
		&startedAt, &finishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("last %s run: %w", kind, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("last %s run: %w", kind, err)
	}

	run.Kind = sitesync.RunKind(k)
	run.Status = sitesync.RunStatus(status)
	if run.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseTime(finishedAt); err != nil {
		return nil, err
	}
	return &run, nil
}
