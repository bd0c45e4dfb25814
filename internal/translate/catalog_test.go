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

func upsertRecord(t *testing.T, table string, row any) *legacy.Record {
	t.Helper()
	data, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal %s row: %v", table, err)
	}
	var id struct {
		ID string `json:"ID"`
	}
	if err := json.Unmarshal(data, &id); err != nil {
		t.Fatalf("re-read ID: %v", err)
	}
	return &legacy.Record{ID: id.ID, Table: table, Action: sync.ActionUpsert, Data: data}
}

func TestNameTranslator_Pull(t *testing.T) {
	rs := newFakeReadStore()

	result, err := NewNameTranslator().TryTranslateFromUpsert(context.Background(), rs,
		upsertRecord(t, LegacyTableName, nameRow{
			ID: "n1", Name: "District Hospital", Code: "DH01", Type: "facility",
			Customer: true, DateAdded: legacy.NewDate(2023, time.June, 1),
		}))
	if err != nil {
		t.Fatalf("TryTranslateFromUpsert() error = %v", err)
	}
	name := result.Rows[0].(domain.Name)

	if name.Type != domain.NameTypeFacility || !name.IsCustomer || name.IsSupplier {
		t.Errorf("name = %+v", name)
	}
	want := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)
	if name.CreatedDatetime == nil || !name.CreatedDatetime.Equal(want) {
		t.Errorf("CreatedDatetime = %v, want date_added midnight", name.CreatedDatetime)
	}
}

func TestNameTranslator_PullIgnoresManufacturingTypes(t *testing.T) {
	rs := newFakeReadStore()

	for _, typ := range []string{"build", "repack"} {
		result, err := NewNameTranslator().TryTranslateFromUpsert(context.Background(), rs,
			upsertRecord(t, LegacyTableName, nameRow{ID: "n2", Name: "x", Code: "x", Type: typ}))
		if err != nil {
			t.Fatalf("type %q error = %v", typ, err)
		}
		if result.Kind != PullKindIgnored {
			t.Errorf("type %q result = %+v, want ignored", typ, result)
		}
	}
}

func TestNameTranslator_PullRejectsNullBytes(t *testing.T) {
	rs := newFakeReadStore()

	_, err := NewNameTranslator().TryTranslateFromUpsert(context.Background(), rs,
		upsertRecord(t, LegacyTableName, nameRow{ID: "n3", Name: "bad\x00name", Code: "x", Type: "facility"}))
	if !errors.Is(err, ErrDecode) {
		t.Errorf("error = %v, want ErrDecode for null byte", err)
	}
}

func TestNameTranslator_PushIgnored(t *testing.T) {
	rs := newFakeReadStore()
	entry := sync.ChangelogRow{Cursor: 1, TableName: "name", RecordID: "n1", Action: sync.ActionUpsert}

	result, err := NewNameTranslator().TryTranslateToUpsert(context.Background(), rs, entry)
	if err != nil {
		t.Fatalf("TryTranslateToUpsert() error = %v", err)
	}
	if result.Kind != PushKindIgnored {
		t.Errorf("result = %+v, want ignored for central-owned table", result)
	}
}

func TestStoreTranslator_Pull(t *testing.T) {
	rs := newFakeReadStore().withCatalog()

	result, err := NewStoreTranslator().TryTranslateFromUpsert(context.Background(), rs,
		upsertRecord(t, LegacyTableStore, storeRow{
			ID: "s1", NameID: "name1", Code: "DSP", SiteID: 4, Mode: "dispensary",
		}))
	if err != nil {
		t.Fatalf("TryTranslateFromUpsert() error = %v", err)
	}
	st := result.Rows[0].(domain.Store)

	if st.Mode != domain.StoreModeDispensary || st.SiteID != 4 || st.NameID != "name1" {
		t.Errorf("store = %+v", st)
	}
}

func TestStoreTranslator_PullIgnoresDisabledAndForeignModes(t *testing.T) {
	rs := newFakeReadStore().withCatalog()
	tr := NewStoreTranslator()

	rows := []storeRow{
		{ID: "s2", NameID: "name1", Code: "OFF", Mode: "store", Disabled: true},
		{ID: "s3", NameID: "name1", Code: "DR", Mode: "drug_registration"},
		{ID: "s4", NameID: "name1", Code: "HIS", Mode: "his"},
	}
	for _, row := range rows {
		result, err := tr.TryTranslateFromUpsert(context.Background(), rs, upsertRecord(t, LegacyTableStore, row))
		if err != nil {
			t.Fatalf("store %s error = %v", row.ID, err)
		}
		if result.Kind != PullKindIgnored {
			t.Errorf("store %s result = %+v, want ignored", row.ID, result)
		}
	}
}

func TestStoreTranslator_PullMissingName(t *testing.T) {
	rs := newFakeReadStore()

	_, err := NewStoreTranslator().TryTranslateFromUpsert(context.Background(), rs,
		upsertRecord(t, LegacyTableStore, storeRow{ID: "s5", NameID: "ghost", Code: "X", Mode: "store"}))
	if !errors.Is(err, ErrMissingDependency) {
		t.Errorf("error = %v, want ErrMissingDependency", err)
	}
}

func TestUnitTranslator_Pull(t *testing.T) {
	rs := newFakeReadStore()

	result, err := NewUnitTranslator().TryTranslateFromUpsert(context.Background(), rs,
		upsertRecord(t, LegacyTableUnit, unitRow{ID: "u1", Units: "ampoule", Comment: "injectables", OrderNumber: 3}))
	if err != nil {
		t.Fatalf("TryTranslateFromUpsert() error = %v", err)
	}
	unit := result.Rows[0].(domain.Unit)

	if unit.Name != "ampoule" || unit.Description != "injectables" || unit.Index != 3 {
		t.Errorf("unit = %+v", unit)
	}
}

func TestItemTranslator_Pull(t *testing.T) {
	rs := newFakeReadStore().withCatalog()

	result, err := NewItemTranslator().TryTranslateFromUpsert(context.Background(), rs,
		upsertRecord(t, LegacyTableItem, itemRow{
			ID: "i1", ItemName: "Paracetamol 500mg", Code: "para500",
			UnitID: "unit1", TypeOf: "general", DefaultPackSize: 20,
		}))
	if err != nil {
		t.Fatalf("TryTranslateFromUpsert() error = %v", err)
	}
	item := result.Rows[0].(domain.Item)

	if item.Type != domain.ItemTypeStock || item.DefaultPackSize != 20 {
		t.Errorf("item = %+v", item)
	}
	if item.UnitID == nil || *item.UnitID != "unit1" {
		t.Errorf("UnitID = %v", item.UnitID)
	}
}

func TestItemTranslator_PullDefaultsPackSize(t *testing.T) {
	rs := newFakeReadStore().withCatalog()

	for _, packSize := range []float64{0, -2} {
		result, err := NewItemTranslator().TryTranslateFromUpsert(context.Background(), rs,
			upsertRecord(t, LegacyTableItem, itemRow{
				ID: "i2", ItemName: "Gauze", Code: "gz", TypeOf: "general", DefaultPackSize: packSize,
			}))
		if err != nil {
			t.Fatalf("pack size %v error = %v", packSize, err)
		}
		item := result.Rows[0].(domain.Item)
		if item.DefaultPackSize != 1 {
			t.Errorf("pack size %v gave %v, want 1", packSize, item.DefaultPackSize)
		}
		if item.UnitID != nil {
			t.Errorf("UnitID = %v, want nil for empty unit_ID", item.UnitID)
		}
	}
}

func TestItemTranslator_PullIgnoresCrossReference(t *testing.T) {
	rs := newFakeReadStore().withCatalog()

	result, err := NewItemTranslator().TryTranslateFromUpsert(context.Background(), rs,
		upsertRecord(t, LegacyTableItem, itemRow{ID: "i3", ItemName: "Alias", Code: "al", TypeOf: "cross_reference"}))
	if err != nil {
		t.Fatalf("TryTranslateFromUpsert() error = %v", err)
	}
	if result.Kind != PullKindIgnored {
		t.Errorf("result = %+v, want ignored", result)
	}
}

func TestItemTranslator_PullMissingUnit(t *testing.T) {
	rs := newFakeReadStore()

	_, err := NewItemTranslator().TryTranslateFromUpsert(context.Background(), rs,
		upsertRecord(t, LegacyTableItem, itemRow{ID: "i4", ItemName: "Syrup", Code: "sy", UnitID: "ghost", TypeOf: "general"}))
	if !errors.Is(err, ErrMissingDependency) {
		t.Errorf("error = %v, want ErrMissingDependency", err)
	}
}
