package translate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/medstock/sitesync/internal/domain"
	"github.com/medstock/sitesync/internal/legacy"
	"github.com/medstock/sitesync/internal/sync"
	"github.com/medstock/sitesync/internal/validation"
)

// itemRow is the legacy wire shape of an item record.
type itemRow struct {
	ID              string  `json:"ID"`
	ItemName        string  `json:"item_name"`
	Code            string  `json:"code"`
	UnitID          string  `json:"unit_ID"`
	TypeOf          string  `json:"type_of"`
	DefaultPackSize float64 `json:"default_pack_size"`
}

// itemTypeFromLegacy maps the legacy type_of set.
func itemTypeFromLegacy(t string) (domain.ItemType, bool) {
	switch t {
	case "general":
		return domain.ItemTypeStock, true
	case "service":
		return domain.ItemTypeService, true
	case "non_stock":
		return domain.ItemTypeNonStock, true
	case "cross_reference":
		// Cross references resolve to another item centrally.
		return "", false
	}
	return "", false
}

// ItemTranslator syncs the legacy item table. Central-owned: pull only.
type ItemTranslator struct{}

func NewItemTranslator() *ItemTranslator { return &ItemTranslator{} }

func (t *ItemTranslator) Table() string { return LegacyTableItem }
func (t *ItemTranslator) PullDependencies() []string {
	return []string{LegacyTableUnit}
}
func (t *ItemTranslator) ChangelogCategory() string { return "" }

func (t *ItemTranslator) TryTranslateFromUpsert(ctx context.Context, rs ReadStore, rec *legacy.Record) (PullResult, error) {
	var row itemRow
	if err := json.Unmarshal(rec.Data, &row); err != nil {
		return PullResult{}, decodeErr(rec.Table, rec.ID, err)
	}
	if err := validation.WireText("item_name", row.ItemName); err != nil {
		return PullResult{}, decodeErr(rec.Table, rec.ID, err)
	}

	itemType, ok := itemTypeFromLegacy(row.TypeOf)
	if !ok {
		return PullIgnored(fmt.Sprintf("item type %q not represented", row.TypeOf)), nil
	}

	unitID := legacy.OptionalString(row.UnitID)
	if unitID != nil {
		unit, err := rs.GetUnit(ctx, *unitID)
		if err != nil {
			return PullResult{}, err
		}
		if unit == nil {
			return PullResult{}, missingDepErr(rec.Table, rec.ID, fmt.Errorf("unit %q not found", *unitID))
		}
	}

	packSize := row.DefaultPackSize
	if packSize <= 0 {
		packSize = 1
	}

	return PullUpsert(domain.Item{
		ID:              row.ID,
		Name:            row.ItemName,
		Code:            row.Code,
		UnitID:          unitID,
		Type:            itemType,
		DefaultPackSize: packSize,
	}), nil
}

func (t *ItemTranslator) TryTranslateFromDelete(ctx context.Context, rs ReadStore, rec *legacy.Record) (PullResult, error) {
	return PullDelete(domain.TableItem, rec.ID), nil
}

func (t *ItemTranslator) TryTranslateToUpsert(ctx context.Context, rs ReadStore, entry sync.ChangelogRow) (PushResult, error) {
	return PushIgnored("items are central-owned"), nil
}

func (t *ItemTranslator) TryTranslateToDelete(ctx context.Context, rs ReadStore, entry sync.ChangelogRow) (PushResult, error) {
	return PushIgnored("items are central-owned"), nil
}
