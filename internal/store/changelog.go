package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	sitesync "github.com/medstock/sitesync/internal/sync"
)

const insertChangelogSQL = `
	INSERT INTO changelog (table_name, record_id, action, created_at)
	VALUES (?, ?, ?, ?)`

// appendChangelog records a local mutation. Called from the same
// transaction as the mutation itself; sync-applied writes never call it,
// so pulled records are not echoed back to the central server.
func appendChangelog(ctx context.Context, q querier, tableName, recordID string, action sitesync.Action) error {
	_, err := q.ExecContext(ctx, insertChangelogSQL,
		tableName, recordID, string(action), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("append changelog %s/%s: %w", tableName, recordID, err)
	}
	return nil
}

// ChangelogAfter returns entries with cursor > afterCursor, ascending,
// up to limit.
func (s *SQLiteStore) ChangelogAfter(ctx context.Context, afterCursor int64, limit int) ([]sitesync.ChangelogRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cursor, table_name, record_id, action
		FROM changelog
		WHERE cursor > ?
		ORDER BY cursor ASC
		LIMIT ?
	`, afterCursor, limit)
	if err != nil {
		return nil, fmt.Errorf("query changelog: %w", err)
	}
	defer rows.Close()

	var entries []sitesync.ChangelogRow
	for rows.Next() {
		var e sitesync.ChangelogRow
		var action string
		if err := rows.Scan(&e.Cursor, &e.TableName, &e.RecordID, &action); err != nil {
			return nil, fmt.Errorf("scan changelog row: %w", err)
		}
		e.Action = sitesync.Action(action)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LatestCursor returns the highest cursor in the changelog, 0 if empty.
func (s *SQLiteStore) LatestCursor(ctx context.Context) (int64, error) {
	var cursor sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(cursor) FROM changelog`).Scan(&cursor)
	if err != nil {
		return 0, fmt.Errorf("latest cursor: %w", err)
	}
	if !cursor.Valid {
		return 0, nil
	}
	return cursor.Int64, nil
}

// GetSyncMeta retrieves a sync metadata value by key.
func (s *SQLiteStore) GetSyncMeta(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM sync_meta WHERE key = ?
	`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("sync meta key %q: %w", key, ErrMetaMissing)
	}
	if err != nil {
		return "", fmt.Errorf("get sync meta: %w", err)
	}
	return value, nil
}

// SetSyncMeta sets a sync metadata value.
func (s *SQLiteStore) SetSyncMeta(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO sync_meta (key, value) VALUES (?, ?)
	`, key, value)
	if err != nil {
		return fmt.Errorf("set sync meta: %w", err)
	}
	return nil
}

// PushCursor returns the cursor of the last acknowledged changelog row,
// 0 if no push has completed yet.
func (s *SQLiteStore) PushCursor(ctx context.Context) (int64, error) {
	value, err := s.GetSyncMeta(ctx, sitesync.MetaPushCursor)
	if errors.Is(err, ErrMetaMissing) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	cursor, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse push cursor %q: %w", value, err)
	}
	return cursor, nil
}

// SetPushCursor advances the stored push cursor. Never moves backwards.
func (s *SQLiteStore) SetPushCursor(ctx context.Context, cursor int64) error {
	current, err := s.PushCursor(ctx)
	if err != nil {
		return err
	}
	if cursor < current {
		return fmt.Errorf("push cursor moving backwards: %d < %d", cursor, current)
	}
	return s.SetSyncMeta(ctx, sitesync.MetaPushCursor, strconv.FormatInt(cursor, 10))
}
