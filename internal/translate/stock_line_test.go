package translate

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/medstock/sitesync/internal/domain"
	"github.com/medstock/sitesync/internal/legacy"
	"github.com/medstock/sitesync/internal/sync"
)

func TestStockLineTranslator_Pull(t *testing.T) {
	rs := newFakeReadStore().withCatalog()

	result, err := NewStockLineTranslator().TryTranslateFromUpsert(context.Background(), rs,
		upsertRecord(t, LegacyTableItemLine, stockLineRow{
			ID: "sl1", StoreID: "store1", ItemID: "item1", NameID: "name1",
			Batch: "B2024", ExpiryDate: legacy.NewDate(2025, time.December, 31),
			PackSize: 100, Quantity: 12, Available: 10,
			CostPrice: 4.5, SellPrice: 6, Hold: true,
		}))
	if err != nil {
		t.Fatalf("TryTranslateFromUpsert() error = %v", err)
	}
	line := result.Rows[0].(domain.StockLine)

	if line.SupplierID == nil || *line.SupplierID != "name1" {
		t.Errorf("SupplierID = %v", line.SupplierID)
	}
	if line.TotalPacks != 12 || line.AvailablePacks != 10 {
		t.Errorf("packs = %v/%v, want quantity 12, available 10", line.TotalPacks, line.AvailablePacks)
	}
	if !line.OnHold {
		t.Error("OnHold = false, want true")
	}
	wantExpiry := time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)
	if line.ExpiryDate == nil || !line.ExpiryDate.Equal(wantExpiry) {
		t.Errorf("ExpiryDate = %v, want %v", line.ExpiryDate, wantExpiry)
	}
}

func TestStockLineTranslator_PullUnresolvableSupplierTreatedAbsent(t *testing.T) {
	rs := newFakeReadStore().withCatalog()

	result, err := NewStockLineTranslator().TryTranslateFromUpsert(context.Background(), rs,
		upsertRecord(t, LegacyTableItemLine, stockLineRow{
			ID: "sl2", StoreID: "store1", ItemID: "item1", NameID: "never-synced",
			PackSize: 10, Quantity: 1, Available: 1,
		}))
	if err != nil {
		t.Fatalf("TryTranslateFromUpsert() error = %v", err)
	}
	line := result.Rows[0].(domain.StockLine)

	if line.SupplierID != nil {
		t.Errorf("SupplierID = %v, want nil for unresolvable supplier", line.SupplierID)
	}
}

func TestStockLineTranslator_PullMissingItem(t *testing.T) {
	rs := newFakeReadStore().withCatalog()

	_, err := NewStockLineTranslator().TryTranslateFromUpsert(context.Background(), rs,
		upsertRecord(t, LegacyTableItemLine, stockLineRow{ID: "sl3", StoreID: "store1", ItemID: "ghost"}))
	if !errors.Is(err, ErrMissingDependency) {
		t.Errorf("error = %v, want ErrMissingDependency", err)
	}
}

func TestStockLineTranslator_PushPullRoundTrip(t *testing.T) {
	rs := newFakeReadStore().withCatalog()
	expiry := time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)
	batch := "B2024"
	supplier := "name1"
	original := domain.StockLine{
		ID: "sl4", ItemID: "item1", StoreID: "store1", SupplierID: &supplier,
		Batch: &batch, ExpiryDate: &expiry,
		PackSize: 100, AvailablePacks: 10, TotalPacks: 12,
		CostPricePerPack: 4.5, SellPricePerPack: 6, OnHold: true,
	}
	rs.stockLines["sl4"] = &original

	pushed, err := NewStockLineTranslator().TryTranslateToUpsert(context.Background(), rs,
		sync.ChangelogRow{Cursor: 1, TableName: "stock_line", RecordID: "sl4", Action: sync.ActionUpsert})
	if err != nil {
		t.Fatalf("push error = %v", err)
	}

	var row stockLineRow
	if err := json.Unmarshal(pushed.Records[0].Data, &row); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if row.Quantity != 12 || row.Available != 10 {
		t.Errorf("wire quantity/available = %v/%v", row.Quantity, row.Available)
	}

	back, err := NewStockLineTranslator().TryTranslateFromUpsert(context.Background(), rs,
		upsertRecord(t, LegacyTableItemLine, row))
	if err != nil {
		t.Fatalf("pull error = %v", err)
	}
	got := back.Rows[0].(domain.StockLine)

	if got.ID != original.ID || got.PackSize != original.PackSize || got.TotalPacks != original.TotalPacks {
		t.Errorf("round trip = %+v", got)
	}
	if got.Batch == nil || *got.Batch != batch {
		t.Errorf("Batch = %v", got.Batch)
	}
	if got.ExpiryDate == nil || !got.ExpiryDate.Equal(expiry) {
		t.Errorf("ExpiryDate = %v", got.ExpiryDate)
	}
	if !got.OnHold {
		t.Error("OnHold lost in round trip")
	}
}

func TestStockLineTranslator_PushMissingLine(t *testing.T) {
	rs := newFakeReadStore().withCatalog()

	_, err := NewStockLineTranslator().TryTranslateToUpsert(context.Background(), rs,
		sync.ChangelogRow{Cursor: 2, TableName: "stock_line", RecordID: "ghost", Action: sync.ActionUpsert})
	if !errors.Is(err, ErrInconsistentState) {
		t.Errorf("error = %v, want ErrInconsistentState", err)
	}
}
