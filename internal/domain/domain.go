// Package domain holds the current relational model: one row struct per
// synced table plus the status enumerations the translators map onto.
// Rows are plain data; all behaviour lives in the store and translators.
package domain

// Row is implemented by every synced domain row.
type Row interface {
	// Table returns the domain table name.
	Table() string
	// RowID returns the primary key.
	RowID() string
}

// Key identifies a row for deletion.
type Key struct {
	TableName string
	ID        string
}

// Domain table names. These are the local relational tables, not the
// legacy wire table names (see internal/translate for that mapping).
const (
	TableName              = "name"
	TableStore             = "store"
	TableUnit              = "unit"
	TableItem              = "item"
	TableStockLine         = "stock_line"
	TableInvoice           = "invoice"
	TableInvoiceLine       = "invoice_line"
	TableRequisition       = "requisition"
	TableRequisitionLine   = "requisition_line"
	TablePurchaseOrder     = "purchase_order"
	TablePurchaseOrderLine = "purchase_order_line"
	TableProgramEvent      = "program_event"
)
