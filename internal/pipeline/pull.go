// Package pipeline drives sync runs: pull (integrate buffered wire
// records into the relational store) and push (translate changelog
// entries into wire records for the transport). Runs are single
// threaded; the caller serializes runs per site.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/medstock/sitesync/internal/domain"
	"github.com/medstock/sitesync/internal/legacy"
	"github.com/medstock/sitesync/internal/store"
	sitesync "github.com/medstock/sitesync/internal/sync"
	"github.com/medstock/sitesync/internal/translate"
)

// PullStatus is the per-record outcome of a pull run.
type PullStatus string

const (
	PullIntegrated PullStatus = "integrated"
	PullIgnored    PullStatus = "ignored"
	PullErrored    PullStatus = "error"
)

// PullOutcome reports what happened to one buffered record.
type PullOutcome struct {
	BufferID  string
	TableName string
	RecordID  string
	Status    PullStatus
	Reason    string
}

// Applier is the store surface the pull pipeline writes through. A
// *store.Tx satisfies it.
type Applier interface {
	translate.ReadStore
	ApplyUpsert(ctx context.Context, row domain.Row) error
	ApplyDelete(ctx context.Context, key domain.Key) error
}

// IntegrateBatch translates and applies buffered records inside the
// given transaction. Tables are processed in registry dependency order,
// records within a table in receipt order, and every upsert or delete
// is applied immediately so later records see the rows they reference.
//
// A translation error aborts the batch: the returned outcomes cover the
// records processed up to and including the failing one, and the caller
// must roll the transaction back. Ignored records never abort.
func IntegrateBatch(ctx context.Context, reg *translate.Registry, tx Applier, rows []sitesync.BufferRow) ([]PullOutcome, error) {
	order, err := reg.PullOrder()
	if err != nil {
		return nil, err
	}

	byTable := make(map[string][]sitesync.BufferRow)
	for _, row := range rows {
		byTable[row.TableName] = append(byTable[row.TableName], row)
	}

	outcomes := make([]PullOutcome, 0, len(rows))

	for _, tr := range order {
		for _, row := range byTable[tr.Table()] {
			outcome, err := integrateRow(ctx, tr, tx, row)
			outcomes = append(outcomes, outcome)
			if err != nil {
				return outcomes, err
			}
		}
		delete(byTable, tr.Table())
	}

	// Tables the registry does not know are central noise, not errors.
	for table, rows := range byTable {
		for _, row := range rows {
			outcomes = append(outcomes, PullOutcome{
				BufferID:  row.ID,
				TableName: table,
				RecordID:  row.RecordID,
				Status:    PullIgnored,
				Reason:    "no translator",
			})
		}
	}

	return outcomes, nil
}

func integrateRow(ctx context.Context, tr translate.Translator, tx Applier, row sitesync.BufferRow) (PullOutcome, error) {
	outcome := PullOutcome{BufferID: row.ID, TableName: row.TableName, RecordID: row.RecordID}

	rec := &legacy.Record{ID: row.RecordID, Table: row.TableName, Action: row.Action, Data: row.Data}

	var result translate.PullResult
	var err error
	switch row.Action {
	case sitesync.ActionUpsert:
		result, err = tr.TryTranslateFromUpsert(ctx, tx, rec)
	case sitesync.ActionDelete:
		result, err = tr.TryTranslateFromDelete(ctx, tx, rec)
	default:
		err = fmt.Errorf("buffer row %s: unknown action %q", row.ID, row.Action)
	}
	if err != nil {
		outcome.Status = PullErrored
		outcome.Reason = err.Error()
		return outcome, err
	}

	switch result.Kind {
	case translate.PullKindUpsert:
		for _, domainRow := range result.Rows {
			if err := tx.ApplyUpsert(ctx, domainRow); err != nil {
				outcome.Status = PullErrored
				outcome.Reason = err.Error()
				return outcome, err
			}
		}
		outcome.Status = PullIntegrated
	case translate.PullKindDelete:
		if err := tx.ApplyDelete(ctx, result.Key); err != nil {
			outcome.Status = PullErrored
			outcome.Reason = err.Error()
			return outcome, err
		}
		outcome.Status = PullIntegrated
	case translate.PullKindIgnored:
		outcome.Status = PullIgnored
		outcome.Reason = result.Reason
	}

	return outcome, nil
}

// PullRunner executes pull runs against the site store.
type PullRunner struct {
	store    *store.SQLiteStore
	registry *translate.Registry
	logger   *slog.Logger
}

// NewPullRunner creates a pull runner.
func NewPullRunner(s *store.SQLiteStore, reg *translate.Registry, logger *slog.Logger) *PullRunner {
	return &PullRunner{store: s, registry: reg, logger: logger.With("component", "pull")}
}

// Run integrates all pending buffer rows in one transaction. On error
// the transaction rolls back and the buffer is left untouched, so the
// same records are retried on the next run. Buffer rows are marked
// processed only after the commit.
func (r *PullRunner) Run(ctx context.Context) (*sitesync.Run, error) {
	run := &sitesync.Run{
		ID:        ulid.Make().String(),
		Kind:      sitesync.RunPull,
		StartedAt: time.Now().UTC(),
	}

	rows, err := r.store.PendingBufferRows(ctx)
	if err != nil {
		return r.finish(ctx, run, err)
	}
	if len(rows) == 0 {
		r.logger.Debug("no pending buffer rows")
		return r.finish(ctx, run, nil)
	}

	tx, err := r.store.Begin(ctx)
	if err != nil {
		return r.finish(ctx, run, err)
	}
	defer tx.Rollback()

	outcomes, err := IntegrateBatch(ctx, r.registry, tx, rows)
	if err != nil {
		return r.finish(ctx, run, fmt.Errorf("integrate batch: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return r.finish(ctx, run, fmt.Errorf("commit pull run: %w", err))
	}

	var integrated, ignored []string
	for _, o := range outcomes {
		switch o.Status {
		case PullIntegrated:
			integrated = append(integrated, o.BufferID)
		case PullIgnored:
			ignored = append(ignored, o.BufferID)
			r.logger.Info("record ignored",
				"table", o.TableName, "record_id", o.RecordID, "reason", o.Reason)
		}
	}
	if err := r.store.MarkBufferRowsProcessed(ctx, integrated, string(PullIntegrated)); err != nil {
		return r.finish(ctx, run, err)
	}
	if err := r.store.MarkBufferRowsProcessed(ctx, ignored, string(PullIgnored)); err != nil {
		return r.finish(ctx, run, err)
	}

	run.Integrated = len(integrated)
	run.Ignored = len(ignored)
	return r.finish(ctx, run, nil)
}

// finish records the run outcome and logs it. The original error, if
// any, is returned to the caller; bookkeeping failures are logged but
// never mask it.
func (r *PullRunner) finish(ctx context.Context, run *sitesync.Run, runErr error) (*sitesync.Run, error) {
	run.FinishedAt = time.Now().UTC()
	run.Status = sitesync.RunStatusOK
	if runErr != nil {
		run.Status = sitesync.RunStatusFailed
		run.Error = runErr.Error()
	}

	if err := r.store.RecordRun(ctx, run); err != nil {
		r.logger.Error("record run", "error", err)
	} else if err := r.store.SetSyncMeta(ctx, sitesync.MetaLastPullRunID, run.ID); err != nil {
		r.logger.Error("set last run id", "error", err)
	}

	if runErr != nil {
		r.logger.Error("pull run failed", "run_id", run.ID, "error", runErr)
		return run, runErr
	}
	r.logger.Info("pull run complete",
		"run_id", run.ID, "integrated", run.Integrated, "ignored", run.Ignored)
	return run, nil
}
