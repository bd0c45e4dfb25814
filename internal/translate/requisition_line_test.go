package translate

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/medstock/sitesync/internal/domain"
	"github.com/medstock/sitesync/internal/sync"
)

func (f *fakeReadStore) withRequisition(id string) *fakeReadStore {
	f.requisitions[id] = &domain.Requisition{
		ID: id, StoreID: "store1", NameID: "name1",
		Type: domain.RequisitionTypeRequest, Status: domain.RequisitionStatusSent,
		CreatedDatetime: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
	}
	return f
}

func TestRequisitionLineTranslator_PullConvertsDailyUsage(t *testing.T) {
	rs := newFakeReadStore().withCatalog().withRequisition("r1")

	result, err := NewRequisitionLineTranslator().TryTranslateFromUpsert(context.Background(), rs,
		upsertRecord(t, LegacyTableRequisitionLine, requisitionLineRow{
			ID: "rl1", RequisitionID: "r1", ItemID: "item1",
			RequestedQuantity: 300, SuggestedQuantity: 250, SupplyQuantity: 280,
			StockOnHand: 120, DailyUsage: 10,
		}))
	if err != nil {
		t.Fatalf("TryTranslateFromUpsert() error = %v", err)
	}
	line := result.Rows[0].(domain.RequisitionLine)

	if line.RequestedQuantity != 300 || line.SupplyQuantity != 280 {
		t.Errorf("quantities = %+v", line)
	}
	if math.Abs(line.AverageMonthlyConsumption-10*daysPerMonth) > 1e-9 {
		t.Errorf("AverageMonthlyConsumption = %v, want daily usage scaled by %v", line.AverageMonthlyConsumption, daysPerMonth)
	}
}

func TestRequisitionLineTranslator_PullParentNotRepresented(t *testing.T) {
	rs := newFakeReadStore().withCatalog()

	result, err := NewRequisitionLineTranslator().TryTranslateFromUpsert(context.Background(), rs,
		upsertRecord(t, LegacyTableRequisitionLine, requisitionLineRow{
			ID: "rl2", RequisitionID: "imprest", ItemID: "item1",
		}))
	if err != nil {
		t.Fatalf("TryTranslateFromUpsert() error = %v", err)
	}
	if result.Kind != PullKindIgnored {
		t.Errorf("result = %+v, want ignored", result)
	}
}

func TestRequisitionLineTranslator_PullMissingItem(t *testing.T) {
	rs := newFakeReadStore().withCatalog().withRequisition("r1")

	_, err := NewRequisitionLineTranslator().TryTranslateFromUpsert(context.Background(), rs,
		upsertRecord(t, LegacyTableRequisitionLine, requisitionLineRow{
			ID: "rl3", RequisitionID: "r1", ItemID: "ghost",
		}))
	if !errors.Is(err, ErrMissingDependency) {
		t.Errorf("error = %v, want ErrMissingDependency", err)
	}
}

func TestRequisitionLineTranslator_PushRestoresDailyUsage(t *testing.T) {
	rs := newFakeReadStore().withCatalog()
	rs.reqLines["rl4"] = &domain.RequisitionLine{
		ID: "rl4", RequisitionID: "r1", ItemID: "item1",
		RequestedQuantity: 300, AverageMonthlyConsumption: 10 * daysPerMonth,
	}

	result, err := NewRequisitionLineTranslator().TryTranslateToUpsert(context.Background(), rs,
		sync.ChangelogRow{Cursor: 1, TableName: "requisition_line", RecordID: "rl4", Action: sync.ActionUpsert})
	if err != nil {
		t.Fatalf("TryTranslateToUpsert() error = %v", err)
	}

	var row requisitionLineRow
	if err := json.Unmarshal(result.Records[0].Data, &row); err != nil {
		t.Fatalf("unmarshal pushed record: %v", err)
	}
	if math.Abs(row.DailyUsage-10) > 1e-9 {
		t.Errorf("daily_usage = %v, want 10", row.DailyUsage)
	}
	if row.RequestedQuantity != 300 {
		t.Errorf("Cust_stock_order = %v", row.RequestedQuantity)
	}
}
