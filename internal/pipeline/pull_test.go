package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/medstock/sitesync/internal/domain"
	"github.com/medstock/sitesync/internal/store"
	sitesync "github.com/medstock/sitesync/internal/sync"
	"github.com/medstock/sitesync/internal/translate"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "site.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func bufferUpsert(table, recordID, data string) sitesync.BufferRow {
	return sitesync.BufferRow{
		RecordID:  recordID,
		TableName: table,
		Action:    sitesync.ActionUpsert,
		Data:      json.RawMessage(data),
	}
}

// The batch arrives in reverse dependency order: lines before their
// invoice, the invoice before its catalog. Integration still succeeds
// because tables are processed in registry order.
func TestPullRunner_IntegratesReverseOrderedBatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rows := []sitesync.BufferRow{
		bufferUpsert("trans_line", "l1", `{"ID":"l1","transaction_ID":"t1","item_ID":"i1","item_name":"Amoxicillin 250mg","type":"stock_in","pack_size":100,"quantity":5,"cost_price":2,"sell_price":3}`),
		bufferUpsert("transact", "t1", `{"ID":"t1","name_ID":"n1","store_ID":"s1","invoice_num":7,"type":"ci","status":"cn","mode":"store","entry_date":"2024-01-01","entry_time":32400,"confirm_date":"2024-01-03","confirm_time":50400}`),
		bufferUpsert("item", "i1", `{"ID":"i1","item_name":"Amoxicillin 250mg","code":"amox250","unit_ID":"u1","type_of":"general","default_pack_size":100}`),
		bufferUpsert("unit", "u1", `{"ID":"u1","units":"tablet","order_number":1}`),
		bufferUpsert("store", "s1", `{"ID":"s1","name_ID":"n1","code":"GEN","sync_id_remote_site":2,"store_mode":"store"}`),
		bufferUpsert("name", "n1", `{"ID":"n1","name":"Central Medical Store","code":"CMS","type":"facility","supplier":true,"date_added":"2023-06-01"}`),
	}
	if err := s.InsertBufferRows(ctx, rows); err != nil {
		t.Fatalf("InsertBufferRows() error = %v", err)
	}

	runner := NewPullRunner(s, translate.NewDefaultRegistry(), discardLogger())
	run, err := runner.Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if run.Status != sitesync.RunStatusOK || run.Integrated != 6 || run.Ignored != 0 {
		t.Errorf("run = %+v, want 6 integrated", run)
	}

	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	defer tx.Rollback()

	inv, err := tx.GetInvoice(ctx, "t1")
	if err != nil || inv == nil {
		t.Fatalf("GetInvoice(t1) = %v, %v", inv, err)
	}
	if inv.Status != domain.InvoiceStatusPicked {
		t.Errorf("invoice status = %v, want picked (cn)", inv.Status)
	}
	line, err := tx.GetInvoiceLine(ctx, "l1")
	if err != nil || line == nil {
		t.Fatalf("GetInvoiceLine(l1) = %v, %v", line, err)
	}
	if line.ItemCode != "amox250" {
		t.Errorf("line item code = %q, want enriched from item", line.ItemCode)
	}

	pending, err := s.PendingBufferRows(ctx)
	if err != nil {
		t.Fatalf("PendingBufferRows() error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending = %d rows after run, want 0", len(pending))
	}

	// Pulled state must not feed the push pipeline.
	entries, err := s.ChangelogAfter(ctx, 0, 10)
	if err != nil {
		t.Fatalf("ChangelogAfter() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("changelog = %+v, want empty after pull", entries)
	}
}

func TestPullRunner_IgnoredRecordsDoNotAbort(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rows := []sitesync.BufferRow{
		bufferUpsert("name", "n1", `{"ID":"n1","name":"Central","code":"CMS","type":"facility"}`),
		// Web order states have no local representation.
		bufferUpsert("transact", "t1", `{"ID":"t1","name_ID":"n1","store_ID":"s1","type":"ci","status":"wp","entry_date":"2024-01-01"}`),
		// Tables without a translator are central noise.
		bufferUpsert("aggregator", "agg1", `{"ID":"agg1"}`),
	}
	if err := s.InsertBufferRows(ctx, rows); err != nil {
		t.Fatalf("InsertBufferRows() error = %v", err)
	}

	run, err := NewPullRunner(s, translate.NewDefaultRegistry(), discardLogger()).Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if run.Integrated != 1 || run.Ignored != 2 {
		t.Errorf("run = %+v, want 1 integrated, 2 ignored", run)
	}

	pending, err := s.PendingBufferRows(ctx)
	if err != nil {
		t.Fatalf("PendingBufferRows() error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending = %d rows, want 0: ignored rows are processed too", len(pending))
	}
}

func TestPullRunner_MissingDependencyRollsBackWholeBatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rows := []sitesync.BufferRow{
		bufferUpsert("name", "n1", `{"ID":"n1","name":"Central","code":"CMS","type":"facility"}`),
		// References a store this site never received.
		bufferUpsert("transact", "t1", `{"ID":"t1","name_ID":"n1","store_ID":"ghost","type":"si","status":"nw","entry_date":"2024-01-01"}`),
	}
	if err := s.InsertBufferRows(ctx, rows); err != nil {
		t.Fatalf("InsertBufferRows() error = %v", err)
	}

	run, err := NewPullRunner(s, translate.NewDefaultRegistry(), discardLogger()).Run(ctx)
	if !errors.Is(err, translate.ErrMissingDependency) {
		t.Fatalf("Run() error = %v, want ErrMissingDependency", err)
	}
	if run.Status != sitesync.RunStatusFailed {
		t.Errorf("run status = %v, want failed", run.Status)
	}

	// The name integrated before the failure must be gone too.
	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	defer tx.Rollback()
	name, err := tx.GetName(ctx, "n1")
	if err != nil || name != nil {
		t.Errorf("GetName(n1) = %v, %v, want nil after rollback", name, err)
	}

	// Everything stays pending for the next run.
	pending, err := s.PendingBufferRows(ctx)
	if err != nil {
		t.Fatalf("PendingBufferRows() error = %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("pending = %d rows, want 2", len(pending))
	}
}

func TestPullRunner_RepeatedDeliveryIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	nameJSON := `{"ID":"n1","name":"Central","code":"CMS","type":"facility"}`
	if err := s.InsertBufferRows(ctx, []sitesync.BufferRow{
		bufferUpsert("name", "n1", nameJSON),
		bufferUpsert("name", "n1", nameJSON),
	}); err != nil {
		t.Fatalf("InsertBufferRows() error = %v", err)
	}

	runner := NewPullRunner(s, translate.NewDefaultRegistry(), discardLogger())
	run, err := runner.Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if run.Integrated != 2 {
		t.Errorf("run = %+v, want both deliveries integrated", run)
	}

	// A second run finds nothing to do.
	run, err = runner.Run(ctx)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if run.Integrated != 0 || run.Ignored != 0 {
		t.Errorf("second run = %+v, want empty", run)
	}

	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	defer tx.Rollback()
	name, err := tx.GetName(ctx, "n1")
	if err != nil || name == nil {
		t.Fatalf("GetName(n1) = %v, %v", name, err)
	}
	if name.Code != "CMS" {
		t.Errorf("name = %+v", name)
	}
}

func TestPullRunner_DeleteAction(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.InsertBufferRows(ctx, []sitesync.BufferRow{
		bufferUpsert("unit", "u1", `{"ID":"u1","units":"tablet"}`),
	}); err != nil {
		t.Fatalf("InsertBufferRows() error = %v", err)
	}
	runner := NewPullRunner(s, translate.NewDefaultRegistry(), discardLogger())
	if _, err := runner.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if err := s.InsertBufferRows(ctx, []sitesync.BufferRow{
		{RecordID: "u1", TableName: "unit", Action: sitesync.ActionDelete, Data: json.RawMessage(`{}`)},
	}); err != nil {
		t.Fatalf("InsertBufferRows() error = %v", err)
	}
	run, err := runner.Run(ctx)
	if err != nil {
		t.Fatalf("delete Run() error = %v", err)
	}
	if run.Integrated != 1 {
		t.Errorf("run = %+v", run)
	}

	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	defer tx.Rollback()
	unit, err := tx.GetUnit(ctx, "u1")
	if err != nil || unit != nil {
		t.Errorf("GetUnit(u1) = %v, %v, want deleted", unit, err)
	}
}
