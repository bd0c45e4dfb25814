package store

import (
	"context"
	"fmt"

	"github.com/medstock/sitesync/internal/domain"
	sitesync "github.com/medstock/sitesync/internal/sync"
)

// Tx is a transaction over the site database. The pull pipeline owns
// exactly one Tx for the duration of a run; the push pipeline uses one
// for consistent re-reads. Tx implements translate.ReadStore.
type Tx struct {
	tx txImpl
}

// txImpl is the subset of *sql.Tx the store uses, split out so tests
// could stub it if ever needed.
type txImpl interface {
	querier
	Commit() error
	Rollback() error
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction. Safe to call after Commit.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// ApplyUpsert writes a domain row produced by pull translation. Does
// not append to the changelog: sync-applied state must not echo back.
func (t *Tx) ApplyUpsert(ctx context.Context, row domain.Row) error {
	switch r := row.(type) {
	case domain.Name:
		return upsertName(ctx, t.tx, &r)
	case domain.Store:
		return upsertStore(ctx, t.tx, &r)
	case domain.Unit:
		return upsertUnit(ctx, t.tx, &r)
	case domain.Item:
		return upsertItem(ctx, t.tx, &r)
	case domain.StockLine:
		return upsertStockLine(ctx, t.tx, &r)
	case domain.Invoice:
		return upsertInvoice(ctx, t.tx, &r)
	case domain.InvoiceLine:
		return upsertInvoiceLine(ctx, t.tx, &r)
	case domain.Requisition:
		return upsertRequisition(ctx, t.tx, &r)
	case domain.RequisitionLine:
		return upsertRequisitionLine(ctx, t.tx, &r)
	case domain.PurchaseOrder:
		return upsertPurchaseOrder(ctx, t.tx, &r)
	case domain.PurchaseOrderLine:
		return upsertPurchaseOrderLine(ctx, t.tx, &r)
	case domain.ProgramEvent:
		return upsertProgramEvent(ctx, t.tx, &r)
	}
	return fmt.Errorf("upsert %q: %w", row.Table(), ErrUnknownTable)
}

// ApplyDelete removes a domain row by key. Idempotent: deleting an
// absent row is not an error, since the same buffer row may be
// integrated twice across retried deliveries.
func (t *Tx) ApplyDelete(ctx context.Context, key domain.Key) error {
	switch key.TableName {
	case domain.TableName, domain.TableStore, domain.TableUnit, domain.TableItem,
		domain.TableStockLine, domain.TableInvoice, domain.TableInvoiceLine,
		domain.TableRequisition, domain.TableRequisitionLine,
		domain.TablePurchaseOrder, domain.TablePurchaseOrderLine,
		domain.TableProgramEvent:
		_, err := t.tx.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE id = ?", key.TableName), key.ID)
		if err != nil {
			return fmt.Errorf("delete %s %s: %w", key.TableName, key.ID, err)
		}
		return nil
	}
	return fmt.Errorf("delete from %q: %w", key.TableName, ErrUnknownTable)
}

// UpsertLogged writes a domain row as a local mutation and appends a
// changelog entry in the same transaction. This is the path the
// surrounding service layer uses; the push pipeline picks the entry up
// on its next run.
func (t *Tx) UpsertLogged(ctx context.Context, row domain.Row) error {
	if err := t.ApplyUpsert(ctx, row); err != nil {
		return err
	}
	return appendChangelog(ctx, t.tx, row.Table(), row.RowID(), sitesync.ActionUpsert)
}

// DeleteLogged removes a domain row as a local mutation and appends a
// changelog entry in the same transaction.
func (t *Tx) DeleteLogged(ctx context.Context, key domain.Key) error {
	if err := t.ApplyDelete(ctx, key); err != nil {
		return err
	}
	return appendChangelog(ctx, t.tx, key.TableName, key.ID, sitesync.ActionDelete)
}
