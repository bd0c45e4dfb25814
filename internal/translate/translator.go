// Package translate converts between the legacy wire schema and the
// current domain model. One translator per wire table; the registry
// orders them so pull integration respects foreign-key dependencies.
package translate

import (
	"context"

	"github.com/medstock/sitesync/internal/domain"
	"github.com/medstock/sitesync/internal/legacy"
	"github.com/medstock/sitesync/internal/sync"
)

// Legacy wire table names as the central schema spells them.
const (
	LegacyTableName              = "name"
	LegacyTableStore             = "store"
	LegacyTableUnit              = "unit"
	LegacyTableItem              = "item"
	LegacyTableItemLine          = "item_line"
	LegacyTableTransact          = "transact"
	LegacyTableTransLine         = "trans_line"
	LegacyTableRequisition       = "requisition"
	LegacyTableRequisitionLine   = "requisition_line"
	LegacyTablePurchaseOrder     = "purchase_order"
	LegacyTablePurchaseOrderLine = "purchase_order_line"
	LegacyTableProgramEvent      = "om_program_event"
)

// ReadStore is the read-only view translators get of the relational
// store. Pull translators use it for dependency checks; push translators
// use it to re-read the current domain row, since the changelog carries
// identity only.
//
// Get methods return (nil, nil) when the row does not exist. Translators
// decide whether that is a MissingDependency or an InconsistentState.
type ReadStore interface {
	GetName(ctx context.Context, id string) (*domain.Name, error)
	GetStore(ctx context.Context, id string) (*domain.Store, error)
	GetUnit(ctx context.Context, id string) (*domain.Unit, error)
	GetItem(ctx context.Context, id string) (*domain.Item, error)
	GetStockLine(ctx context.Context, id string) (*domain.StockLine, error)
	GetInvoice(ctx context.Context, id string) (*domain.Invoice, error)
	GetInvoiceLine(ctx context.Context, id string) (*domain.InvoiceLine, error)
	GetRequisition(ctx context.Context, id string) (*domain.Requisition, error)
	GetRequisitionLine(ctx context.Context, id string) (*domain.RequisitionLine, error)
	GetPurchaseOrder(ctx context.Context, id string) (*domain.PurchaseOrder, error)
	GetPurchaseOrderLine(ctx context.Context, id string) (*domain.PurchaseOrderLine, error)
	GetProgramEvent(ctx context.Context, id string) (*domain.ProgramEvent, error)
}

// Translator converts one wire table in both directions. Translators are
// pure, synchronous transforms; the caller holds the transaction for the
// duration of the call.
type Translator interface {
	// Table returns the legacy wire table this translator owns.
	Table() string

	// PullDependencies returns the legacy tables that must be integrated
	// before this one in a pull run.
	PullDependencies() []string

	// ChangelogCategory returns the domain table whose changelog entries
	// this translator pushes. Empty means the table is central-owned and
	// pull-only.
	ChangelogCategory() string

	TryTranslateFromUpsert(ctx context.Context, rs ReadStore, rec *legacy.Record) (PullResult, error)
	TryTranslateFromDelete(ctx context.Context, rs ReadStore, rec *legacy.Record) (PullResult, error)

	TryTranslateToUpsert(ctx context.Context, rs ReadStore, entry sync.ChangelogRow) (PushResult, error)
	TryTranslateToDelete(ctx context.Context, rs ReadStore, entry sync.ChangelogRow) (PushResult, error)
}

// PullKind tags a PullResult.
type PullKind int

const (
	PullKindUpsert PullKind = iota
	PullKindDelete
	PullKindIgnored
)

// PullResult is the outcome of translating one inbound wire record.
// An upsert may fan out into several domain rows; the pipeline applies
// them all-or-nothing.
type PullResult struct {
	Kind   PullKind
	Rows   []domain.Row
	Key    domain.Key
	Reason string
}

// PullUpsert wraps one or more domain rows to apply.
func PullUpsert(rows ...domain.Row) PullResult {
	return PullResult{Kind: PullKindUpsert, Rows: rows}
}

// PullDelete requests removal of a domain row.
func PullDelete(table, id string) PullResult {
	return PullResult{Kind: PullKindDelete, Key: domain.Key{TableName: table, ID: id}}
}

// PullIgnored marks a record as deliberately not represented locally.
func PullIgnored(reason string) PullResult {
	return PullResult{Kind: PullKindIgnored, Reason: reason}
}

// PushKind tags a PushResult.
type PushKind int

const (
	PushKindRecords PushKind = iota
	PushKindIgnored
)

// PushResult is the outcome of translating one changelog entry. A single
// domain change may fan out into more than one wire record.
type PushResult struct {
	Kind    PushKind
	Records []legacy.Record
	Reason  string
}

// PushRecords wraps the wire records to hand to the transport.
func PushRecords(records ...legacy.Record) PushResult {
	return PushResult{Kind: PushKindRecords, Records: records}
}

// PushIgnored marks a changelog entry that business rules decided not to
// push. Distinct from InconsistentState, which is a store bug.
func PushIgnored(reason string) PushResult {
	return PushResult{Kind: PushKindIgnored, Reason: reason}
}
