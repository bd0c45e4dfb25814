package translate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/medstock/sitesync/internal/domain"
	"github.com/medstock/sitesync/internal/legacy"
	"github.com/medstock/sitesync/internal/sync"
)

// requisitionLineRow is the legacy wire shape of a requisition_line
// record. The quantity field names are historical and inconsistent;
// they are kept verbatim.
type requisitionLineRow struct {
	ID                string  `json:"ID"`
	RequisitionID     string  `json:"requisition_ID"`
	ItemID            string  `json:"item_ID"`
	RequestedQuantity float64 `json:"Cust_stock_order"`
	SuggestedQuantity float64 `json:"suggested_quantity"`
	SupplyQuantity    float64 `json:"actual_quan"`
	StockOnHand       float64 `json:"stock_on_hand"`
	DailyUsage        float64 `json:"daily_usage"`
	Comment           string  `json:"comment"`
}

// daysPerMonth converts the legacy daily usage figure to the domain's
// average monthly consumption and back.
const daysPerMonth = 30.44

// RequisitionLineTranslator syncs the legacy requisition_line table.
type RequisitionLineTranslator struct{}

func NewRequisitionLineTranslator() *RequisitionLineTranslator { return &RequisitionLineTranslator{} }

func (t *RequisitionLineTranslator) Table() string { return LegacyTableRequisitionLine }
func (t *RequisitionLineTranslator) PullDependencies() []string {
	return []string{LegacyTableRequisition, LegacyTableItem}
}
func (t *RequisitionLineTranslator) ChangelogCategory() string { return domain.TableRequisitionLine }

func (t *RequisitionLineTranslator) TryTranslateFromUpsert(ctx context.Context, rs ReadStore, rec *legacy.Record) (PullResult, error) {
	var row requisitionLineRow
	if err := json.Unmarshal(rec.Data, &row); err != nil {
		return PullResult{}, decodeErr(rec.Table, rec.ID, err)
	}

	req, err := rs.GetRequisition(ctx, row.RequisitionID)
	if err != nil {
		return PullResult{}, err
	}
	if req == nil {
		// Parent may have been an ignored legacy type (imprest, web).
		return PullIgnored(fmt.Sprintf("parent requisition %q not represented", row.RequisitionID)), nil
	}

	item, err := rs.GetItem(ctx, row.ItemID)
	if err != nil {
		return PullResult{}, err
	}
	if item == nil {
		return PullResult{}, missingDepErr(rec.Table, rec.ID, fmt.Errorf("item %q not found", row.ItemID))
	}

	return PullUpsert(domain.RequisitionLine{
		ID:                        row.ID,
		RequisitionID:             row.RequisitionID,
		ItemID:                    row.ItemID,
		RequestedQuantity:         row.RequestedQuantity,
		SuggestedQuantity:         row.SuggestedQuantity,
		SupplyQuantity:            row.SupplyQuantity,
		AvailableStockOnHand:      row.StockOnHand,
		AverageMonthlyConsumption: row.DailyUsage * daysPerMonth,
		Comment:                   legacy.OptionalString(row.Comment),
	}), nil
}

func (t *RequisitionLineTranslator) TryTranslateFromDelete(ctx context.Context, rs ReadStore, rec *legacy.Record) (PullResult, error) {
	return PullDelete(domain.TableRequisitionLine, rec.ID), nil
}

func (t *RequisitionLineTranslator) TryTranslateToUpsert(ctx context.Context, rs ReadStore, entry sync.ChangelogRow) (PushResult, error) {
	line, err := rs.GetRequisitionLine(ctx, entry.RecordID)
	if err != nil {
		return PushResult{}, err
	}
	if line == nil {
		return PushResult{}, inconsistentErr(LegacyTableRequisitionLine, entry.RecordID, fmt.Errorf("requisition line %q not found", entry.RecordID))
	}

	row := requisitionLineRow{
		ID:                line.ID,
		RequisitionID:     line.RequisitionID,
		ItemID:            line.ItemID,
		RequestedQuantity: line.RequestedQuantity,
		SuggestedQuantity: line.SuggestedQuantity,
		SupplyQuantity:    line.SupplyQuantity,
		StockOnHand:       line.AvailableStockOnHand,
		DailyUsage:        line.AverageMonthlyConsumption / daysPerMonth,
		Comment:           legacy.StringOrEmpty(line.Comment),
	}

	rec, err := legacy.MarshalRow(LegacyTableRequisitionLine, line.ID, row)
	if err != nil {
		return PushResult{}, err
	}
	return PushRecords(rec), nil
}

func (t *RequisitionLineTranslator) TryTranslateToDelete(ctx context.Context, rs ReadStore, entry sync.ChangelogRow) (PushResult, error) {
	return PushRecords(legacy.NewDelete(LegacyTableRequisitionLine, entry.RecordID)), nil
}
