package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/medstock/sitesync/internal/domain"
	"github.com/medstock/sitesync/internal/legacy"
	"github.com/medstock/sitesync/internal/sync"
)

// purchaseOrderRow is the legacy wire shape of a purchase_order record.
type purchaseOrderRow struct {
	ID                string      `json:"ID"`
	SerialNumber      int64       `json:"serial_number"`
	NameID            string      `json:"name_ID"`
	StoreID           string      `json:"store_ID"`
	Status            string      `json:"status"`
	CreationDate      legacy.Date `json:"creation_date"`
	ConfirmDate       legacy.Date `json:"confirm_date"`
	DeliveryDateGoods legacy.Date `json:"goods_received_date"`
	Reference         string      `json:"reference"`
	Comment           string      `json:"comment"`

	OMStatus             string     `json:"om_status,omitempty"`
	OMCreatedDatetime    *time.Time `json:"om_created_datetime,omitempty"`
	OMAuthorisedDatetime *time.Time `json:"om_authorised_datetime,omitempty"`
	OMConfirmedDatetime  *time.Time `json:"om_confirmed_datetime,omitempty"`
	OMFinalisedDatetime  *time.Time `json:"om_finalised_datetime,omitempty"`
}

// purchaseOrderStatusFromLegacy maps the legacy purchase order codes.
// Unlike invoices there is no fn fan-out: the expansion comes from the
// sg code, which centrally means "authorised but not yet confirmed".
func purchaseOrderStatusFromLegacy(status string) (domain.PurchaseOrderStatus, bool) {
	switch status {
	case "nw":
		return domain.PurchaseOrderStatusNew, true
	case "sg":
		return domain.PurchaseOrderStatusAuthorised, true
	case "cn":
		return domain.PurchaseOrderStatusConfirmed, true
	case "fn":
		return domain.PurchaseOrderStatusFinalised, true
	case "wp", "wf":
		return "", false
	}
	return "", false
}

func purchaseOrderStatusToLegacy(status domain.PurchaseOrderStatus) string {
	switch status {
	case domain.PurchaseOrderStatusNew:
		return "nw"
	case domain.PurchaseOrderStatusAuthorised:
		return "sg"
	case domain.PurchaseOrderStatusConfirmed:
		return "cn"
	case domain.PurchaseOrderStatusFinalised:
		return "fn"
	}
	return "nw"
}

// PurchaseOrderTranslator syncs the legacy purchase_order table.
type PurchaseOrderTranslator struct{}

func NewPurchaseOrderTranslator() *PurchaseOrderTranslator { return &PurchaseOrderTranslator{} }

func (t *PurchaseOrderTranslator) Table() string { return LegacyTablePurchaseOrder }
func (t *PurchaseOrderTranslator) PullDependencies() []string {
	return []string{LegacyTableName, LegacyTableStore}
}
func (t *PurchaseOrderTranslator) ChangelogCategory() string { return domain.TablePurchaseOrder }

func (t *PurchaseOrderTranslator) TryTranslateFromUpsert(ctx context.Context, rs ReadStore, rec *legacy.Record) (PullResult, error) {
	var row purchaseOrderRow
	if err := json.Unmarshal(rec.Data, &row); err != nil {
		return PullResult{}, decodeErr(rec.Table, rec.ID, err)
	}

	var status domain.PurchaseOrderStatus
	if row.OMStatus != "" {
		status = domain.PurchaseOrderStatus(row.OMStatus)
	} else {
		var ok bool
		status, ok = purchaseOrderStatusFromLegacy(row.Status)
		if !ok {
			return PullIgnored(fmt.Sprintf("purchase order status %q not represented", row.Status)), nil
		}
	}

	supplier, err := rs.GetName(ctx, row.NameID)
	if err != nil {
		return PullResult{}, err
	}
	if supplier == nil {
		return PullResult{}, missingDepErr(rec.Table, rec.ID, fmt.Errorf("name %q not found", row.NameID))
	}
	st, err := rs.GetStore(ctx, row.StoreID)
	if err != nil {
		return PullResult{}, err
	}
	if st == nil {
		return PullResult{}, missingDepErr(rec.Table, rec.ID, fmt.Errorf("store %q not found", row.StoreID))
	}

	created := legacy.DateTimeOrDate(row.OMCreatedDatetime, row.CreationDate, 0)
	if created == nil {
		return PullResult{}, decodeErr(rec.Table, rec.ID, fmt.Errorf("creation_date unset"))
	}

	po := domain.PurchaseOrder{
		ID:                   row.ID,
		PurchaseOrderNumber:  row.SerialNumber,
		StoreID:              row.StoreID,
		SupplierID:           row.NameID,
		Status:               status,
		Reference:            legacy.OptionalString(row.Reference),
		Comment:              legacy.OptionalString(row.Comment),
		CreatedDatetime:      *created,
		AuthorisedDatetime:   row.OMAuthorisedDatetime,
		ConfirmedDatetime:    row.OMConfirmedDatetime,
		FinalisedDatetime:    row.OMFinalisedDatetime,
		ExpectedDeliveryDate: legacy.MidnightTime(row.DeliveryDateGoods),
	}

	if po.ConfirmedDatetime == nil && !row.ConfirmDate.IsZero() {
		po.ConfirmedDatetime = legacy.MidnightTime(row.ConfirmDate)
	}

	return PullUpsert(po), nil
}

func (t *PurchaseOrderTranslator) TryTranslateFromDelete(ctx context.Context, rs ReadStore, rec *legacy.Record) (PullResult, error) {
	return PullDelete(domain.TablePurchaseOrder, rec.ID), nil
}

func (t *PurchaseOrderTranslator) TryTranslateToUpsert(ctx context.Context, rs ReadStore, entry sync.ChangelogRow) (PushResult, error) {
	po, err := rs.GetPurchaseOrder(ctx, entry.RecordID)
	if err != nil {
		return PushResult{}, err
	}
	if po == nil {
		return PushResult{}, inconsistentErr(LegacyTablePurchaseOrder, entry.RecordID, fmt.Errorf("purchase order %q not found", entry.RecordID))
	}

	row := purchaseOrderRow{
		ID:                po.ID,
		SerialNumber:      po.PurchaseOrderNumber,
		NameID:            po.SupplierID,
		StoreID:           po.StoreID,
		Status:            purchaseOrderStatusToLegacy(po.Status),
		CreationDate:      legacy.DateOf(po.CreatedDatetime),
		ConfirmDate:       legacy.DateOnly(po.ConfirmedDatetime),
		DeliveryDateGoods: legacy.DateOnly(po.ExpectedDeliveryDate),
		Reference:         legacy.StringOrEmpty(po.Reference),
		Comment:           legacy.StringOrEmpty(po.Comment),

		OMStatus:             string(po.Status),
		OMCreatedDatetime:    &po.CreatedDatetime,
		OMAuthorisedDatetime: po.AuthorisedDatetime,
		OMConfirmedDatetime:  po.ConfirmedDatetime,
		OMFinalisedDatetime:  po.FinalisedDatetime,
	}

	rec, err := legacy.MarshalRow(LegacyTablePurchaseOrder, po.ID, row)
	if err != nil {
		return PushResult{}, err
	}
	return PushRecords(rec), nil
}

func (t *PurchaseOrderTranslator) TryTranslateToDelete(ctx context.Context, rs ReadStore, entry sync.ChangelogRow) (PushResult, error) {
	return PushRecords(legacy.NewDelete(LegacyTablePurchaseOrder, entry.RecordID)), nil
}
