package translate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/medstock/sitesync/internal/domain"
	"github.com/medstock/sitesync/internal/legacy"
	"github.com/medstock/sitesync/internal/sync"
)

// purchaseOrderLineRow is the legacy wire shape of a purchase_order_line
// record.
type purchaseOrderLineRow struct {
	ID                string      `json:"ID"`
	PurchaseOrderID   string      `json:"purchase_order_ID"`
	ItemID            string      `json:"item_ID"`
	LineNumber        int64       `json:"line_number"`
	PackSize          float64     `json:"snapshot_pack_size"`
	QuanOriginal      float64     `json:"quan_original"`
	QuanReceived      float64     `json:"quan_rec_to_date"`
	PricePerPack      float64     `json:"price_extension"`
	RequestedDelivery legacy.Date `json:"delivery_date_requested"`
}

// PurchaseOrderLineTranslator syncs the legacy purchase_order_line table.
type PurchaseOrderLineTranslator struct{}

func NewPurchaseOrderLineTranslator() *PurchaseOrderLineTranslator {
	return &PurchaseOrderLineTranslator{}
}

func (t *PurchaseOrderLineTranslator) Table() string { return LegacyTablePurchaseOrderLine }
func (t *PurchaseOrderLineTranslator) PullDependencies() []string {
	return []string{LegacyTablePurchaseOrder, LegacyTableItem}
}
func (t *PurchaseOrderLineTranslator) ChangelogCategory() string {
	return domain.TablePurchaseOrderLine
}

func (t *PurchaseOrderLineTranslator) TryTranslateFromUpsert(ctx context.Context, rs ReadStore, rec *legacy.Record) (PullResult, error) {
	var row purchaseOrderLineRow
	if err := json.Unmarshal(rec.Data, &row); err != nil {
		return PullResult{}, decodeErr(rec.Table, rec.ID, err)
	}

	po, err := rs.GetPurchaseOrder(ctx, row.PurchaseOrderID)
	if err != nil {
		return PullResult{}, err
	}
	if po == nil {
		return PullIgnored(fmt.Sprintf("parent purchase order %q not represented", row.PurchaseOrderID)), nil
	}

	item, err := rs.GetItem(ctx, row.ItemID)
	if err != nil {
		return PullResult{}, err
	}
	if item == nil {
		return PullResult{}, missingDepErr(rec.Table, rec.ID, fmt.Errorf("item %q not found", row.ItemID))
	}

	packSize := row.PackSize
	if packSize <= 0 {
		packSize = 1
	}

	return PullUpsert(domain.PurchaseOrderLine{
		ID:                     row.ID,
		PurchaseOrderID:        row.PurchaseOrderID,
		ItemID:                 row.ItemID,
		LineNumber:             row.LineNumber,
		RequestedPackSize:      packSize,
		RequestedNumberOfUnits: row.QuanOriginal,
		ReceivedNumberOfUnits:  row.QuanReceived,
		PricePerPack:           row.PricePerPack,
		RequestedDeliveryDate:  legacy.MidnightTime(row.RequestedDelivery),
	}), nil
}

func (t *PurchaseOrderLineTranslator) TryTranslateFromDelete(ctx context.Context, rs ReadStore, rec *legacy.Record) (PullResult, error) {
	return PullDelete(domain.TablePurchaseOrderLine, rec.ID), nil
}

func (t *PurchaseOrderLineTranslator) TryTranslateToUpsert(ctx context.Context, rs ReadStore, entry sync.ChangelogRow) (PushResult, error) {
	line, err := rs.GetPurchaseOrderLine(ctx, entry.RecordID)
	if err != nil {
		return PushResult{}, err
	}
	if line == nil {
		return PushResult{}, inconsistentErr(LegacyTablePurchaseOrderLine, entry.RecordID, fmt.Errorf("purchase order line %q not found", entry.RecordID))
	}

	row := purchaseOrderLineRow{
		ID:                line.ID,
		PurchaseOrderID:   line.PurchaseOrderID,
		ItemID:            line.ItemID,
		LineNumber:        line.LineNumber,
		PackSize:          line.RequestedPackSize,
		QuanOriginal:      line.RequestedNumberOfUnits,
		QuanReceived:      line.ReceivedNumberOfUnits,
		PricePerPack:      line.PricePerPack,
		RequestedDelivery: legacy.DateOnly(line.RequestedDeliveryDate),
	}

	rec, err := legacy.MarshalRow(LegacyTablePurchaseOrderLine, line.ID, row)
	if err != nil {
		return PushResult{}, err
	}
	return PushRecords(rec), nil
}

func (t *PurchaseOrderLineTranslator) TryTranslateToDelete(ctx context.Context, rs ReadStore, entry sync.ChangelogRow) (PushResult, error) {
	return PushRecords(legacy.NewDelete(LegacyTablePurchaseOrderLine, entry.RecordID)), nil
}
