package translate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/medstock/sitesync/internal/domain"
	"github.com/medstock/sitesync/internal/legacy"
	"github.com/medstock/sitesync/internal/sync"
)

// stockLineRow is the legacy wire shape of an item_line record.
type stockLineRow struct {
	ID         string      `json:"ID"`
	StoreID    string      `json:"store_ID"`
	ItemID     string      `json:"item_ID"`
	NameID     string      `json:"name_ID"`
	Batch      string      `json:"batch"`
	ExpiryDate legacy.Date `json:"expiry_date"`
	PackSize   float64     `json:"pack_size"`
	Quantity   float64     `json:"quantity"`
	Available  float64     `json:"available"`
	CostPrice  float64     `json:"cost_price"`
	SellPrice  float64     `json:"sell_price"`
	Hold       bool        `json:"hold"`
}

// StockLineTranslator syncs the legacy item_line table in both
// directions: stock is owned by the holding site.
type StockLineTranslator struct{}

func NewStockLineTranslator() *StockLineTranslator { return &StockLineTranslator{} }

func (t *StockLineTranslator) Table() string { return LegacyTableItemLine }
func (t *StockLineTranslator) PullDependencies() []string {
	return []string{LegacyTableItem, LegacyTableStore, LegacyTableName}
}
func (t *StockLineTranslator) ChangelogCategory() string { return domain.TableStockLine }

func (t *StockLineTranslator) TryTranslateFromUpsert(ctx context.Context, rs ReadStore, rec *legacy.Record) (PullResult, error) {
	var row stockLineRow
	if err := json.Unmarshal(rec.Data, &row); err != nil {
		return PullResult{}, decodeErr(rec.Table, rec.ID, err)
	}

	item, err := rs.GetItem(ctx, row.ItemID)
	if err != nil {
		return PullResult{}, err
	}
	if item == nil {
		return PullResult{}, missingDepErr(rec.Table, rec.ID, fmt.Errorf("item %q not found", row.ItemID))
	}
	st, err := rs.GetStore(ctx, row.StoreID)
	if err != nil {
		return PullResult{}, err
	}
	if st == nil {
		return PullResult{}, missingDepErr(rec.Table, rec.ID, fmt.Errorf("store %q not found", row.StoreID))
	}

	// The supplier reference is optional on the wire and may point at a
	// name this site never receives; treat an unresolvable supplier as
	// absent rather than failing the batch.
	supplierID := legacy.OptionalString(row.NameID)
	if supplierID != nil {
		name, err := rs.GetName(ctx, *supplierID)
		if err != nil {
			return PullResult{}, err
		}
		if name == nil {
			supplierID = nil
		}
	}

	packSize := row.PackSize
	if packSize <= 0 {
		packSize = 1
	}

	return PullUpsert(domain.StockLine{
		ID:               row.ID,
		ItemID:           row.ItemID,
		StoreID:          row.StoreID,
		SupplierID:       supplierID,
		Batch:            legacy.OptionalString(row.Batch),
		ExpiryDate:       legacy.MidnightTime(row.ExpiryDate),
		PackSize:         packSize,
		AvailablePacks:   row.Available,
		TotalPacks:       row.Quantity,
		CostPricePerPack: row.CostPrice,
		SellPricePerPack: row.SellPrice,
		OnHold:           row.Hold,
	}), nil
}

func (t *StockLineTranslator) TryTranslateFromDelete(ctx context.Context, rs ReadStore, rec *legacy.Record) (PullResult, error) {
	return PullDelete(domain.TableStockLine, rec.ID), nil
}

func (t *StockLineTranslator) TryTranslateToUpsert(ctx context.Context, rs ReadStore, entry sync.ChangelogRow) (PushResult, error) {
	line, err := rs.GetStockLine(ctx, entry.RecordID)
	if err != nil {
		return PushResult{}, err
	}
	if line == nil {
		return PushResult{}, inconsistentErr(LegacyTableItemLine, entry.RecordID, fmt.Errorf("stock line %q not found", entry.RecordID))
	}

	row := stockLineRow{
		ID:         line.ID,
		StoreID:    line.StoreID,
		ItemID:     line.ItemID,
		NameID:     legacy.StringOrEmpty(line.SupplierID),
		Batch:      legacy.StringOrEmpty(line.Batch),
		ExpiryDate: legacy.DateOnly(line.ExpiryDate),
		PackSize:   line.PackSize,
		Quantity:   line.TotalPacks,
		Available:  line.AvailablePacks,
		CostPrice:  line.CostPricePerPack,
		SellPrice:  line.SellPricePerPack,
		Hold:       line.OnHold,
	}

	rec, err := legacy.MarshalRow(LegacyTableItemLine, line.ID, row)
	if err != nil {
		return PushResult{}, err
	}
	return PushRecords(rec), nil
}

func (t *StockLineTranslator) TryTranslateToDelete(ctx context.Context, rs ReadStore, entry sync.ChangelogRow) (PushResult, error) {
	return PushRecords(legacy.NewDelete(LegacyTableItemLine, entry.RecordID)), nil
}
