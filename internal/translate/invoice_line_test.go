package translate

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/medstock/sitesync/internal/domain"
	"github.com/medstock/sitesync/internal/sync"
)

// withInvoice seeds the parent transaction trans_line records refer to.
func (f *fakeReadStore) withInvoice(id string) *fakeReadStore {
	f.invoices[id] = &domain.Invoice{
		ID: id, StoreID: "store1", NameID: "name1",
		Type: domain.InvoiceTypeInboundShipment, Status: domain.InvoiceStatusNew,
		Mode:            domain.InvoiceModeStore,
		CreatedDatetime: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	return f
}

func TestInvoiceLineTranslator_Pull(t *testing.T) {
	rs := newFakeReadStore().withCatalog().withInvoice("inv1")
	rs.stockLines["sl1"] = &domain.StockLine{ID: "sl1", ItemID: "item1", StoreID: "store1", PackSize: 100}

	result, err := NewInvoiceLineTranslator().TryTranslateFromUpsert(context.Background(), rs,
		upsertRecord(t, LegacyTableTransLine, transLineRow{
			ID: "l1", TransactionID: "inv1", ItemID: "item1", ItemName: "Amoxicillin 250mg",
			ItemLineID: "sl1", Type: "stock_in", Batch: "B1",
			PackSize: 100, Quantity: 5, CostPrice: 2, SellPrice: 3,
		}))
	if err != nil {
		t.Fatalf("TryTranslateFromUpsert() error = %v", err)
	}
	line := result.Rows[0].(domain.InvoiceLine)

	if line.Type != domain.InvoiceLineTypeStockIn || line.NumberOfPacks != 5 {
		t.Errorf("line = %+v", line)
	}
	// The item code is not on the wire row; it is enriched from the
	// referenced item.
	if line.ItemCode != "amox250" {
		t.Errorf("ItemCode = %q, want amox250 from item lookup", line.ItemCode)
	}
	if line.StockLineID == nil || *line.StockLineID != "sl1" {
		t.Errorf("StockLineID = %v", line.StockLineID)
	}
}

func TestInvoiceLineTranslator_PullParentNotRepresented(t *testing.T) {
	rs := newFakeReadStore().withCatalog()

	result, err := NewInvoiceLineTranslator().TryTranslateFromUpsert(context.Background(), rs,
		upsertRecord(t, LegacyTableTransLine, transLineRow{
			ID: "l2", TransactionID: "web-order", ItemID: "item1", Type: "stock_out", Quantity: 1,
		}))
	if err != nil {
		t.Fatalf("TryTranslateFromUpsert() error = %v", err)
	}
	if result.Kind != PullKindIgnored {
		t.Errorf("result = %+v, want ignored when parent was never represented", result)
	}
}

func TestInvoiceLineTranslator_PullMissingItem(t *testing.T) {
	rs := newFakeReadStore().withCatalog().withInvoice("inv1")

	_, err := NewInvoiceLineTranslator().TryTranslateFromUpsert(context.Background(), rs,
		upsertRecord(t, LegacyTableTransLine, transLineRow{
			ID: "l3", TransactionID: "inv1", ItemID: "ghost", Type: "stock_in", Quantity: 1,
		}))
	if !errors.Is(err, ErrMissingDependency) {
		t.Errorf("error = %v, want ErrMissingDependency", err)
	}
}

func TestInvoiceLineTranslator_PullMissingStockLine(t *testing.T) {
	rs := newFakeReadStore().withCatalog().withInvoice("inv1")

	_, err := NewInvoiceLineTranslator().TryTranslateFromUpsert(context.Background(), rs,
		upsertRecord(t, LegacyTableTransLine, transLineRow{
			ID: "l4", TransactionID: "inv1", ItemID: "item1", ItemLineID: "ghost", Type: "stock_in", Quantity: 1,
		}))
	if !errors.Is(err, ErrMissingDependency) {
		t.Errorf("error = %v, want ErrMissingDependency", err)
	}
}

func TestInvoiceLineTranslator_PullIgnoresCashLines(t *testing.T) {
	rs := newFakeReadStore().withCatalog().withInvoice("inv1")
	tr := NewInvoiceLineTranslator()

	for _, typ := range []string{"cash_in", "cash_out"} {
		result, err := tr.TryTranslateFromUpsert(context.Background(), rs,
			upsertRecord(t, LegacyTableTransLine, transLineRow{
				ID: "l5", TransactionID: "inv1", ItemID: "item1", Type: typ,
			}))
		if err != nil {
			t.Fatalf("type %q error = %v", typ, err)
		}
		if result.Kind != PullKindIgnored {
			t.Errorf("type %q result = %+v, want ignored", typ, result)
		}
	}
}

func TestInvoiceLineTranslator_Push(t *testing.T) {
	rs := newFakeReadStore().withCatalog()
	batch := "B1"
	stockLineID := "sl1"
	rs.invoiceLines["l6"] = &domain.InvoiceLine{
		ID: "l6", InvoiceID: "inv1", ItemID: "item1", ItemName: "Amoxicillin 250mg",
		ItemCode: "amox250", StockLineID: &stockLineID,
		Type: domain.InvoiceLineTypeStockOut, Batch: &batch,
		PackSize: 100, NumberOfPacks: 5, CostPricePerPack: 2, SellPricePerPack: 3,
	}

	result, err := NewInvoiceLineTranslator().TryTranslateToUpsert(context.Background(), rs,
		sync.ChangelogRow{Cursor: 1, TableName: "invoice_line", RecordID: "l6", Action: sync.ActionUpsert})
	if err != nil {
		t.Fatalf("TryTranslateToUpsert() error = %v", err)
	}

	var row transLineRow
	if err := json.Unmarshal(result.Records[0].Data, &row); err != nil {
		t.Fatalf("unmarshal pushed record: %v", err)
	}
	if row.Type != "stock_out" || row.TransactionID != "inv1" || row.ItemLineID != "sl1" {
		t.Errorf("wire row = %+v", row)
	}
	if row.Quantity != 5 || row.PackSize != 100 {
		t.Errorf("quantity/pack_size = %v/%v", row.Quantity, row.PackSize)
	}
}

func TestInvoiceLineTranslator_PushMissingLine(t *testing.T) {
	rs := newFakeReadStore().withCatalog()

	_, err := NewInvoiceLineTranslator().TryTranslateToUpsert(context.Background(), rs,
		sync.ChangelogRow{Cursor: 2, TableName: "invoice_line", RecordID: "ghost", Action: sync.ActionUpsert})
	if !errors.Is(err, ErrInconsistentState) {
		t.Errorf("error = %v, want ErrInconsistentState", err)
	}
}
