package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/medstock/sitesync/internal/legacy"
	"github.com/medstock/sitesync/internal/store"
	sitesync "github.com/medstock/sitesync/internal/sync"
	"github.com/medstock/sitesync/internal/translate"
)

// Transport delivers translated wire records to the central server.
// Send returns how many records from the head of the batch the central
// server acknowledged; records past that count are re-sent on the next
// run. Re-sending an acknowledged record is idempotent centrally, so
// returning a short count is always safe.
type Transport interface {
	Send(ctx context.Context, records []legacy.Record) (int, error)
}

// DefaultPushBatchSize bounds how many changelog entries one push run
// translates.
const DefaultPushBatchSize = 512

// PushRunner executes push runs: changelog entries in ascending cursor
// order are translated into wire records and handed to the transport,
// and the stored cursor advances only past entries whose records were
// acknowledged.
type PushRunner struct {
	store     *store.SQLiteStore
	registry  *translate.Registry
	transport Transport
	batchSize int
	logger    *slog.Logger
}

// NewPushRunner creates a push runner. batchSize <= 0 selects the
// default.
func NewPushRunner(s *store.SQLiteStore, reg *translate.Registry, t Transport, batchSize int, logger *slog.Logger) *PushRunner {
	if batchSize <= 0 {
		batchSize = DefaultPushBatchSize
	}
	return &PushRunner{
		store:     s,
		registry:  reg,
		transport: t,
		batchSize: batchSize,
		logger:    logger.With("component", "push"),
	}
}

// pushItem ties one changelog entry to the number of wire records it
// produced, so acknowledgement counts map back to cursor positions.
type pushItem struct {
	cursor  int64
	records int
}

// Run translates one batch of changelog entries and sends the result.
//
// A translation failure stops the batch at the failing entry; entries
// before it are still sent and, once acknowledged, the cursor advances
// past them. The cursor never advances past a failed or unacknowledged
// entry, so those are re-translated on the next run.
func (r *PushRunner) Run(ctx context.Context) (*sitesync.Run, error) {
	run := &sitesync.Run{
		ID:        ulid.Make().String(),
		Kind:      sitesync.RunPush,
		StartedAt: time.Now().UTC(),
	}

	startCursor, err := r.store.PushCursor(ctx)
	if err != nil {
		return r.finish(ctx, run, err)
	}

	entries, err := r.store.ChangelogAfter(ctx, startCursor, r.batchSize)
	if err != nil {
		return r.finish(ctx, run, err)
	}
	if len(entries) == 0 {
		r.logger.Debug("changelog up to date", "cursor", startCursor)
		return r.finish(ctx, run, nil)
	}

	// The transaction gives push translators a consistent view for
	// re-reading domain rows. It is read-only; always rolled back.
	tx, err := r.store.Begin(ctx)
	if err != nil {
		return r.finish(ctx, run, err)
	}
	defer tx.Rollback()

	var (
		batch        []legacy.Record
		items        []pushItem
		ignored      int
		translateErr error
	)
	for _, entry := range entries {
		records, err := r.translateEntry(ctx, tx, entry)
		if err != nil {
			translateErr = fmt.Errorf("changelog cursor %d: %w", entry.Cursor, err)
			break
		}
		if records == nil {
			ignored++
		}
		batch = append(batch, records...)
		items = append(items, pushItem{cursor: entry.Cursor, records: len(records)})
	}

	acked := 0
	var sendErr error
	if len(batch) > 0 {
		acked, sendErr = r.transport.Send(ctx, batch)
		if acked < 0 {
			acked = 0
		}
		if acked > len(batch) {
			acked = len(batch)
		}
	}

	// Advance past every entry whose records all fall within the
	// acknowledged prefix. Entries that produced no records ride along.
	newCursor := startCursor
	sent := 0
	for _, it := range items {
		if sent+it.records > acked {
			break
		}
		sent += it.records
		newCursor = it.cursor
	}
	if newCursor > startCursor {
		if err := r.store.SetPushCursor(ctx, newCursor); err != nil {
			return r.finish(ctx, run, err)
		}
	}

	run.Pushed = acked
	run.Ignored = ignored
	if sendErr != nil {
		return r.finish(ctx, run, fmt.Errorf("send batch: %w", sendErr))
	}
	if translateErr != nil {
		return r.finish(ctx, run, translateErr)
	}
	if acked < len(batch) {
		r.logger.Info("partial acknowledgement",
			"sent", len(batch), "acknowledged", acked, "cursor", newCursor)
	}
	return r.finish(ctx, run, nil)
}

// translateEntry resolves and invokes the push translator for one
// changelog entry. A nil slice with nil error means the entry needs no
// wire records (pull-only table or business-rule ignore).
func (r *PushRunner) translateEntry(ctx context.Context, rs translate.ReadStore, entry sitesync.ChangelogRow) ([]legacy.Record, error) {
	tr, ok := r.registry.ResolveCategory(entry.TableName)
	if !ok {
		r.logger.Debug("no push translator",
			"table", entry.TableName, "record_id", entry.RecordID)
		return nil, nil
	}

	var result translate.PushResult
	var err error
	switch entry.Action {
	case sitesync.ActionUpsert:
		result, err = tr.TryTranslateToUpsert(ctx, rs, entry)
	case sitesync.ActionDelete:
		result, err = tr.TryTranslateToDelete(ctx, rs, entry)
	default:
		err = fmt.Errorf("unknown changelog action %q", entry.Action)
	}
	if err != nil {
		return nil, err
	}

	if result.Kind == translate.PushKindIgnored {
		r.logger.Debug("push ignored",
			"table", entry.TableName, "record_id", entry.RecordID, "reason", result.Reason)
		return nil, nil
	}
	return result.Records, nil
}

func (r *PushRunner) finish(ctx context.Context, run *sitesync.Run, runErr error) (*sitesync.Run, error) {
	run.FinishedAt = time.Now().UTC()
	run.Status = sitesync.RunStatusOK
	if runErr != nil {
		run.Status = sitesync.RunStatusFailed
		run.Error = runErr.Error()
	}

	if err := r.store.RecordRun(ctx, run); err != nil {
		r.logger.Error("record run", "error", err)
	} else if err := r.store.SetSyncMeta(ctx, sitesync.MetaLastPushRunID, run.ID); err != nil {
		r.logger.Error("set last run id", "error", err)
	}

	if runErr != nil {
		r.logger.Error("push run failed", "run_id", run.ID, "error", runErr)
		return run, runErr
	}
	r.logger.Info("push run complete",
		"run_id", run.ID, "pushed", run.Pushed, "ignored", run.Ignored)
	return run, nil
}
