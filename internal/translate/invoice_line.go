package translate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/medstock/sitesync/internal/domain"
	"github.com/medstock/sitesync/internal/legacy"
	"github.com/medstock/sitesync/internal/sync"
)

// transLineRow is the legacy wire shape of a trans_line record.
type transLineRow struct {
	ID            string      `json:"ID"`
	TransactionID string      `json:"transaction_ID"`
	ItemID        string      `json:"item_ID"`
	ItemName      string      `json:"item_name"`
	ItemLineID    string      `json:"item_line_ID"`
	Type          string      `json:"type"`
	Batch         string      `json:"batch"`
	ExpiryDate    legacy.Date `json:"expiry_date"`
	PackSize      float64     `json:"pack_size"`
	Quantity      float64     `json:"quantity"`
	CostPrice     float64     `json:"cost_price"`
	SellPrice     float64     `json:"sell_price"`
	Note          string      `json:"note"`
}

// invoiceLineTypeFromLegacy maps the legacy trans_line type set. Cash
// lines belong to the receipts module, which does not sync here.
func invoiceLineTypeFromLegacy(t string) (domain.InvoiceLineType, bool) {
	switch t {
	case "stock_in":
		return domain.InvoiceLineTypeStockIn, true
	case "stock_out":
		return domain.InvoiceLineTypeStockOut, true
	case "placeholder":
		return domain.InvoiceLineTypeUnallocatedStock, true
	case "service":
		return domain.InvoiceLineTypeService, true
	case "cash_in", "cash_out":
		return "", false
	}
	return "", false
}

func invoiceLineTypeToLegacy(t domain.InvoiceLineType) string {
	switch t {
	case domain.InvoiceLineTypeStockIn:
		return "stock_in"
	case domain.InvoiceLineTypeStockOut:
		return "stock_out"
	case domain.InvoiceLineTypeUnallocatedStock:
		return "placeholder"
	case domain.InvoiceLineTypeService:
		return "service"
	}
	return ""
}

// InvoiceLineTranslator syncs the legacy trans_line table.
type InvoiceLineTranslator struct{}

func NewInvoiceLineTranslator() *InvoiceLineTranslator { return &InvoiceLineTranslator{} }

func (t *InvoiceLineTranslator) Table() string { return LegacyTableTransLine }
func (t *InvoiceLineTranslator) PullDependencies() []string {
	return []string{LegacyTableTransact, LegacyTableItem, LegacyTableItemLine}
}
func (t *InvoiceLineTranslator) ChangelogCategory() string { return domain.TableInvoiceLine }

func (t *InvoiceLineTranslator) TryTranslateFromUpsert(ctx context.Context, rs ReadStore, rec *legacy.Record) (PullResult, error) {
	var row transLineRow
	if err := json.Unmarshal(rec.Data, &row); err != nil {
		return PullResult{}, decodeErr(rec.Table, rec.ID, err)
	}

	lineType, ok := invoiceLineTypeFromLegacy(row.Type)
	if !ok {
		return PullIgnored(fmt.Sprintf("trans_line type %q not represented", row.Type)), nil
	}

	inv, err := rs.GetInvoice(ctx, row.TransactionID)
	if err != nil {
		return PullResult{}, err
	}
	if inv == nil {
		// The parent transaction may itself have been ignored (web order,
		// inventory adjustment); its lines are then ignored too rather
		// than treated as a broken reference.
		return PullIgnored(fmt.Sprintf("parent transaction %q not represented", row.TransactionID)), nil
	}

	item, err := rs.GetItem(ctx, row.ItemID)
	if err != nil {
		return PullResult{}, err
	}
	if item == nil {
		return PullResult{}, missingDepErr(rec.Table, rec.ID, fmt.Errorf("item %q not found", row.ItemID))
	}

	stockLineID := legacy.OptionalString(row.ItemLineID)
	if stockLineID != nil {
		sl, err := rs.GetStockLine(ctx, *stockLineID)
		if err != nil {
			return PullResult{}, err
		}
		if sl == nil {
			return PullResult{}, missingDepErr(rec.Table, rec.ID, fmt.Errorf("stock line %q not found", *stockLineID))
		}
	}

	packSize := row.PackSize
	if packSize <= 0 {
		packSize = 1
	}

	return PullUpsert(domain.InvoiceLine{
		ID:               row.ID,
		InvoiceID:        row.TransactionID,
		ItemID:           row.ItemID,
		ItemName:         row.ItemName,
		ItemCode:         item.Code,
		StockLineID:      stockLineID,
		Type:             lineType,
		Batch:            legacy.OptionalString(row.Batch),
		ExpiryDate:       legacy.MidnightTime(row.ExpiryDate),
		PackSize:         packSize,
		NumberOfPacks:    row.Quantity,
		CostPricePerPack: row.CostPrice,
		SellPricePerPack: row.SellPrice,
		Note:             legacy.OptionalString(row.Note),
	}), nil
}

func (t *InvoiceLineTranslator) TryTranslateFromDelete(ctx context.Context, rs ReadStore, rec *legacy.Record) (PullResult, error) {
	return PullDelete(domain.TableInvoiceLine, rec.ID), nil
}

func (t *InvoiceLineTranslator) TryTranslateToUpsert(ctx context.Context, rs ReadStore, entry sync.ChangelogRow) (PushResult, error) {
	line, err := rs.GetInvoiceLine(ctx, entry.RecordID)
	if err != nil {
		return PushResult{}, err
	}
	if line == nil {
		return PushResult{}, inconsistentErr(LegacyTableTransLine, entry.RecordID, fmt.Errorf("invoice line %q not found", entry.RecordID))
	}

	row := transLineRow{
		ID:            line.ID,
		TransactionID: line.InvoiceID,
		ItemID:        line.ItemID,
		ItemName:      line.ItemName,
		ItemLineID:    legacy.StringOrEmpty(line.StockLineID),
		Type:          invoiceLineTypeToLegacy(line.Type),
		Batch:         legacy.StringOrEmpty(line.Batch),
		ExpiryDate:    legacy.DateOnly(line.ExpiryDate),
		PackSize:      line.PackSize,
		Quantity:      line.NumberOfPacks,
		CostPrice:     line.CostPricePerPack,
		SellPrice:     line.SellPricePerPack,
		Note:          legacy.StringOrEmpty(line.Note),
	}

	rec, err := legacy.MarshalRow(LegacyTableTransLine, line.ID, row)
	if err != nil {
		return PushResult{}, err
	}
	return PushRecords(rec), nil
}

func (t *InvoiceLineTranslator) TryTranslateToDelete(ctx context.Context, rs ReadStore, entry sync.ChangelogRow) (PushResult, error) {
	return PushRecords(legacy.NewDelete(LegacyTableTransLine, entry.RecordID)), nil
}
