package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	sitesync "github.com/medstock/sitesync/internal/sync"
)

// InsertBufferRows stages inbound wire records for integration. The
// transport layer calls this on receipt; rows are assigned ULIDs so
// repeated deliveries of the same record coexist (latest wins at
// integration time, by received order).
func (s *SQLiteStore) InsertBufferRows(ctx context.Context, rows []sitesync.BufferRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range rows {
		row := &rows[i]
		if row.ID == "" {
			row.ID = ulid.Make().String()
		}
		if row.ReceivedAt.IsZero() {
			row.ReceivedAt = time.Now().UTC()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sync_buffer (id, record_id, table_name, action, data, received_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, row.ID, row.RecordID, row.TableName, string(row.Action),
			string(row.Data), formatTime(row.ReceivedAt))
		if err != nil {
			return fmt.Errorf("insert buffer row %s/%s: %w", row.TableName, row.RecordID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// PendingBufferRows returns all unprocessed buffer rows in receipt
// order. The pull pipeline regroups them by table and applies registry
// order across tables.
func (s *SQLiteStore) PendingBufferRows(ctx context.Context) ([]sitesync.BufferRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, record_id, table_name, action, data, received_at
		FROM sync_buffer
		WHERE processed_at IS NULL
		ORDER BY received_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sync buffer: %w", err)
	}
	defer rows.Close()

	var out []sitesync.BufferRow
	for rows.Next() {
		var r sitesync.BufferRow
		var action, data, receivedAt string
		if err := rows.Scan(&r.ID, &r.RecordID, &r.TableName, &action, &data, &receivedAt); err != nil {
			return nil, fmt.Errorf("scan buffer row: %w", err)
		}
		r.Action = sitesync.Action(action)
		r.Data = json.RawMessage(data)
		if r.ReceivedAt, err = parseTime(receivedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// MarkBufferRowsProcessed stamps rows with the given outcome after the
// integration transaction has committed. Processed rows are kept until
// the vacuum worker removes them, so a run's results stay inspectable.
func (s *SQLiteStore) MarkBufferRowsProcessed(ctx context.Context, ids []string, outcome string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, 0, len(ids)+2)
	args = append(args, formatTime(time.Now()), outcome)
	for _, id := range ids {
		args = append(args, id)
	}

	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		UPDATE sync_buffer SET processed_at = ?, outcome = ? WHERE id IN (%s)
	`, placeholders), args...)
	if err != nil {
		return fmt.Errorf("mark buffer rows processed: %w", err)
	}
	return nil
}

// VacuumBuffer deletes processed buffer rows older than the cutoff.
// Returns the number of rows removed.
func (s *SQLiteStore) VacuumBuffer(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM sync_buffer WHERE processed_at IS NOT NULL AND processed_at < ?
	`, formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("vacuum sync buffer: %w", err)
	}
	return result.RowsAffected()
}

// BufferStats summarises the sync buffer for the status view.
type BufferStats struct {
	Pending   int64
	Processed int64
}

// GetBufferStats counts pending and processed buffer rows.
func (s *SQLiteStore) GetBufferStats(ctx context.Context) (*BufferStats, error) {
	var stats BufferStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE processed_at IS NULL),
			COUNT(*) FILTER (WHERE processed_at IS NOT NULL)
		FROM sync_buffer
	`).Scan(&stats.Pending, &stats.Processed)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("buffer stats: %w", err)
	}
	return &stats, nil
}
