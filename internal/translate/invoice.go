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

// transactRow is the legacy wire shape of a transact record. Field names
// are exactly as the central schema sends them; om_* fields are the
// forward-compatible extensions and take precedence when present.
type transactRow struct {
	ID                string         `json:"ID"`
	NameID            string         `json:"name_ID"`
	StoreID           string         `json:"store_ID"`
	InvoiceNum        int64          `json:"invoice_num"`
	Type              string         `json:"type"`
	Status            string         `json:"status"`
	UserID            string         `json:"user_ID"`
	Hold              bool           `json:"hold"`
	Comment           string         `json:"comment"`
	TheirRef          string         `json:"their_ref"`
	Mode              string         `json:"mode"`
	EntryDate         legacy.Date    `json:"entry_date"`
	EntryTime         legacy.Seconds `json:"entry_time"`
	ShipDate          legacy.Date    `json:"ship_date"`
	ArrivalDateActual legacy.Date    `json:"arrival_date_actual"`
	ConfirmDate       legacy.Date    `json:"confirm_date"`
	ConfirmTime       legacy.Seconds `json:"confirm_time"`

	OMType              string     `json:"om_type,omitempty"`
	OMStatus            string     `json:"om_status,omitempty"`
	OMColour            string     `json:"om_colour,omitempty"`
	OMCreatedDatetime   *time.Time `json:"om_created_datetime,omitempty"`
	OMAllocatedDatetime *time.Time `json:"om_allocated_datetime,omitempty"`
	OMPickedDatetime    *time.Time `json:"om_picked_datetime,omitempty"`
	OMShippedDatetime   *time.Time `json:"om_shipped_datetime,omitempty"`
	OMDeliveredDatetime *time.Time `json:"om_delivered_datetime,omitempty"`
	OMVerifiedDatetime  *time.Time `json:"om_verified_datetime,omitempty"`
}

// invoiceTypeFromLegacy maps the closed legacy transact type set. Total
// over the source set; bu (builds) and rc (cash receipts) are deliberate
// ignores with no domain representation.
func invoiceTypeFromLegacy(t string) (domain.InvoiceType, bool) {
	switch t {
	case "si":
		return domain.InvoiceTypeInboundShipment, true
	case "ci":
		return domain.InvoiceTypeOutboundShipment, true
	case "sc":
		return domain.InvoiceTypeSupplierReturn, true
	case "cc":
		return domain.InvoiceTypeCustomerReturn, true
	case "sr":
		return domain.InvoiceTypeRepack, true
	case "ps":
		return domain.InvoiceTypePrescription, true
	case "bu", "rc":
		return "", false
	}
	return "", false
}

// invoiceTypeToLegacy collapses the domain type back onto the wire code.
func invoiceTypeToLegacy(t domain.InvoiceType) string {
	switch t {
	case domain.InvoiceTypeInboundShipment:
		return "si"
	case domain.InvoiceTypeOutboundShipment:
		return "ci"
	case domain.InvoiceTypeSupplierReturn:
		return "sc"
	case domain.InvoiceTypeCustomerReturn:
		return "cc"
	case domain.InvoiceTypeRepack:
		return "sr"
	case domain.InvoiceTypePrescription:
		return "ps"
	}
	return ""
}

// invoiceStatusFromLegacy infers the domain status from the legacy
// status code plus its side channels. The legacy set is strictly smaller
// than the domain set, so fn expands by inspecting ship/arrival dates
// and nw (inbound) by inspecting their_ref and ship_date. wp/wf are web
// order states with no domain representation: the whole record is
// ignored, not just the status.
func invoiceStatusFromLegacy(row *transactRow, invoiceType domain.InvoiceType) (domain.InvoiceStatus, bool) {
	if row.OMStatus != "" {
		return domain.InvoiceStatus(row.OMStatus), true
	}

	if invoiceType.IsOutbound() {
		switch row.Status {
		case "nw", "sg":
			return domain.InvoiceStatusNew, true
		case "cn":
			return domain.InvoiceStatusPicked, true
		case "fn":
			switch {
			case !row.ShipDate.IsZero():
				return domain.InvoiceStatusShipped, true
			case !row.ArrivalDateActual.IsZero():
				return domain.InvoiceStatusDelivered, true
			default:
				return domain.InvoiceStatusVerified, true
			}
		case "wp", "wf":
			return "", false
		}
		return "", false
	}

	switch row.Status {
	case "nw":
		switch {
		case row.TheirRef == "":
			// Manually created locally, never shipped by a supplier.
			return domain.InvoiceStatusNew, true
		case row.ShipDate.IsZero():
			return domain.InvoiceStatusPicked, true
		default:
			return domain.InvoiceStatusShipped, true
		}
	case "sg":
		return domain.InvoiceStatusNew, true
	case "cn":
		return domain.InvoiceStatusDelivered, true
	case "fn":
		return domain.InvoiceStatusVerified, true
	case "wp", "wf":
		return "", false
	}
	return "", false
}

// invoiceStatusToLegacy collapses the domain progression onto the legacy
// codes. Several domain statuses share one code per direction; the side
// channels written alongside (ship_date, confirm_date) let the pull side
// re-expand them.
func invoiceStatusToLegacy(status domain.InvoiceStatus, invoiceType domain.InvoiceType) string {
	if invoiceType.IsOutbound() {
		switch status {
		case domain.InvoiceStatusNew, domain.InvoiceStatusAllocated:
			return "sg"
		case domain.InvoiceStatusPicked:
			return "cn"
		case domain.InvoiceStatusShipped, domain.InvoiceStatusDelivered, domain.InvoiceStatusVerified:
			return "fn"
		}
		return "sg"
	}

	switch status {
	case domain.InvoiceStatusNew, domain.InvoiceStatusAllocated, domain.InvoiceStatusPicked, domain.InvoiceStatusShipped:
		return "nw"
	case domain.InvoiceStatusDelivered:
		return "cn"
	case domain.InvoiceStatusVerified:
		return "fn"
	}
	return "nw"
}

func invoiceModeFromLegacy(mode string) domain.InvoiceMode {
	if mode == "dispensary" {
		return domain.InvoiceModeDispensary
	}
	return domain.InvoiceModeStore
}

// InvoiceTranslator syncs the legacy transact table in both directions.
type InvoiceTranslator struct{}

func NewInvoiceTranslator() *InvoiceTranslator { return &InvoiceTranslator{} }

func (t *InvoiceTranslator) Table() string { return LegacyTableTransact }
func (t *InvoiceTranslator) PullDependencies() []string {
	return []string{LegacyTableName, LegacyTableStore}
}
func (t *InvoiceTranslator) ChangelogCategory() string { return domain.TableInvoice }

func (t *InvoiceTranslator) TryTranslateFromUpsert(ctx context.Context, rs ReadStore, rec *legacy.Record) (PullResult, error) {
	var row transactRow
	if err := json.Unmarshal(rec.Data, &row); err != nil {
		return PullResult{}, decodeErr(rec.Table, rec.ID, err)
	}

	invoiceType, ok := invoiceTypeFromLegacy(row.Type)
	if !ok {
		return PullIgnored(fmt.Sprintf("transact type %q not represented", row.Type)), nil
	}
	if row.OMType != "" {
		invoiceType = domain.InvoiceType(row.OMType)
	}

	status, ok := invoiceStatusFromLegacy(&row, invoiceType)
	if !ok {
		return PullIgnored(fmt.Sprintf("transact status %q not represented", row.Status)), nil
	}

	name, err := rs.GetName(ctx, row.NameID)
	if err != nil {
		return PullResult{}, err
	}
	if name == nil {
		return PullResult{}, missingDepErr(rec.Table, rec.ID, fmt.Errorf("name %q not found", row.NameID))
	}
	if name.IsAdjustment() {
		// Inventory adjustments are generated locally from stocktakes;
		// the central copies would double-count.
		return PullIgnored("inventory adjustment transaction"), nil
	}
	st, err := rs.GetStore(ctx, row.StoreID)
	if err != nil {
		return PullResult{}, err
	}
	if st == nil {
		return PullResult{}, missingDepErr(rec.Table, rec.ID, fmt.Errorf("store %q not found", row.StoreID))
	}

	created := legacy.DateTimeOrDate(row.OMCreatedDatetime, row.EntryDate, row.EntryTime)
	if created == nil {
		return PullResult{}, decodeErr(rec.Table, rec.ID, fmt.Errorf("entry_date unset"))
	}

	inv := domain.Invoice{
		ID:                row.ID,
		StoreID:           row.StoreID,
		NameID:            row.NameID,
		InvoiceNumber:     row.InvoiceNum,
		Type:              invoiceType,
		Status:            status,
		Mode:              invoiceModeFromLegacy(row.Mode),
		UserID:            legacy.OptionalString(row.UserID),
		TheirReference:    legacy.OptionalString(row.TheirRef),
		Comment:           legacy.OptionalString(row.Comment),
		OnHold:            row.Hold,
		Colour:            legacy.OptionalString(row.OMColour),
		CreatedDatetime:   *created,
		AllocatedDatetime: row.OMAllocatedDatetime,
	}
	t.deriveDatetimes(&inv, &row)

	return PullUpsert(inv), nil
}

// deriveDatetimes reconstructs the domain status datetimes from the
// legacy date pairs. The legacy schema keeps one confirm_date/time pair
// whose meaning is type-indexed: picked for outbound transactions,
// delivered for inbound ones. om_* timestamps win when present.
func (t *InvoiceTranslator) deriveDatetimes(inv *domain.Invoice, row *transactRow) {
	confirm := legacy.DateTime(row.ConfirmDate, row.ConfirmTime)
	reached := invoiceStatusRank(inv.Status)

	if inv.Type.IsOutbound() {
		if reached >= invoiceStatusRank(domain.InvoiceStatusPicked) {
			inv.PickedDatetime = confirm
		}
		inv.ShippedDatetime = legacy.MidnightTime(row.ShipDate)
		inv.DeliveredDatetime = legacy.MidnightTime(row.ArrivalDateActual)
		if inv.Status == domain.InvoiceStatusVerified {
			inv.VerifiedDatetime = confirm
		}
	} else {
		inv.ShippedDatetime = legacy.MidnightTime(row.ShipDate)
		if reached >= invoiceStatusRank(domain.InvoiceStatusDelivered) {
			inv.DeliveredDatetime = confirm
		}
		if inv.Status == domain.InvoiceStatusVerified {
			inv.VerifiedDatetime = confirm
		}
	}

	if row.OMPickedDatetime != nil {
		inv.PickedDatetime = row.OMPickedDatetime
	}
	if row.OMShippedDatetime != nil {
		inv.ShippedDatetime = row.OMShippedDatetime
	}
	if row.OMDeliveredDatetime != nil {
		inv.DeliveredDatetime = row.OMDeliveredDatetime
	}
	if row.OMVerifiedDatetime != nil {
		inv.VerifiedDatetime = row.OMVerifiedDatetime
	}
}

// invoiceStatusRank orders the domain progression for threshold checks.
func invoiceStatusRank(s domain.InvoiceStatus) int {
	switch s {
	case domain.InvoiceStatusNew:
		return 0
	case domain.InvoiceStatusAllocated:
		return 1
	case domain.InvoiceStatusPicked:
		return 2
	case domain.InvoiceStatusShipped:
		return 3
	case domain.InvoiceStatusDelivered:
		return 4
	case domain.InvoiceStatusVerified:
		return 5
	}
	return 0
}

func (t *InvoiceTranslator) TryTranslateFromDelete(ctx context.Context, rs ReadStore, rec *legacy.Record) (PullResult, error) {
	return PullDelete(domain.TableInvoice, rec.ID), nil
}

func (t *InvoiceTranslator) TryTranslateToUpsert(ctx context.Context, rs ReadStore, entry sync.ChangelogRow) (PushResult, error) {
	inv, err := rs.GetInvoice(ctx, entry.RecordID)
	if err != nil {
		return PushResult{}, err
	}
	if inv == nil {
		return PushResult{}, inconsistentErr(LegacyTableTransact, entry.RecordID, fmt.Errorf("invoice %q not found", entry.RecordID))
	}

	entryDate, entryTime := legacy.SplitDateTime(&inv.CreatedDatetime)

	// Reconstruct the single legacy confirm pair from the type-appropriate
	// domain datetime.
	var confirm *time.Time
	if inv.Type.IsOutbound() {
		confirm = inv.PickedDatetime
	} else {
		confirm = inv.DeliveredDatetime
	}
	confirmDate, confirmTime := legacy.SplitDateTime(confirm)

	row := transactRow{
		ID:                inv.ID,
		NameID:            inv.NameID,
		StoreID:           inv.StoreID,
		InvoiceNum:        inv.InvoiceNumber,
		Type:              invoiceTypeToLegacy(inv.Type),
		Status:            invoiceStatusToLegacy(inv.Status, inv.Type),
		UserID:            legacy.StringOrEmpty(inv.UserID),
		Hold:              inv.OnHold,
		Comment:           legacy.StringOrEmpty(inv.Comment),
		TheirRef:          legacy.StringOrEmpty(inv.TheirReference),
		Mode:              string(inv.Mode),
		EntryDate:         entryDate,
		EntryTime:         entryTime,
		ShipDate:          legacy.DateOnly(inv.ShippedDatetime),
		ArrivalDateActual: legacy.DateOnly(inv.DeliveredDatetime),
		ConfirmDate:       confirmDate,
		ConfirmTime:       confirmTime,

		OMType:              string(inv.Type),
		OMStatus:            string(inv.Status),
		OMColour:            legacy.StringOrEmpty(inv.Colour),
		OMCreatedDatetime:   &inv.CreatedDatetime,
		OMAllocatedDatetime: inv.AllocatedDatetime,
		OMPickedDatetime:    inv.PickedDatetime,
		OMShippedDatetime:   inv.ShippedDatetime,
		OMDeliveredDatetime: inv.DeliveredDatetime,
		OMVerifiedDatetime:  inv.VerifiedDatetime,
	}

	rec, err := legacy.MarshalRow(LegacyTableTransact, inv.ID, row)
	if err != nil {
		return PushResult{}, err
	}
	return PushRecords(rec), nil
}

func (t *InvoiceTranslator) TryTranslateToDelete(ctx context.Context, rs ReadStore, entry sync.ChangelogRow) (PushResult, error) {
	return PushRecords(legacy.NewDelete(LegacyTableTransact, entry.RecordID)), nil
}
