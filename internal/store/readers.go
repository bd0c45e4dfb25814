package store

import (
	"context"

	"github.com/medstock/sitesync/internal/domain"
)

// Tx satisfies translate.ReadStore. Every getter returns (nil, nil)
// when the row is absent; translators decide whether absence is a
// missing dependency, an ignorable record, or inconsistent state.

func (t *Tx) GetName(ctx context.Context, id string) (*domain.Name, error) {
	return getName(ctx, t.tx, id)
}

func (t *Tx) GetStore(ctx context.Context, id string) (*domain.Store, error) {
	return getStore(ctx, t.tx, id)
}

func (t *Tx) GetUnit(ctx context.Context, id string) (*domain.Unit, error) {
	return getUnit(ctx, t.tx, id)
}

func (t *Tx) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	return getItem(ctx, t.tx, id)
}

func (t *Tx) GetStockLine(ctx context.Context, id string) (*domain.StockLine, error) {
	return getStockLine(ctx, t.tx, id)
}

func (t *Tx) GetInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	return getInvoice(ctx, t.tx, id)
}

func (t *Tx) GetInvoiceLine(ctx context.Context, id string) (*domain.InvoiceLine, error) {
	return getInvoiceLine(ctx, t.tx, id)
}

func (t *Tx) GetRequisition(ctx context.Context, id string) (*domain.Requisition, error) {
	return getRequisition(ctx, t.tx, id)
}

func (t *Tx) GetRequisitionLine(ctx context.Context, id string) (*domain.RequisitionLine, error) {
	return getRequisitionLine(ctx, t.tx, id)
}

func (t *Tx) GetPurchaseOrder(ctx context.Context, id string) (*domain.PurchaseOrder, error) {
	return getPurchaseOrder(ctx, t.tx, id)
}

func (t *Tx) GetPurchaseOrderLine(ctx context.Context, id string) (*domain.PurchaseOrderLine, error) {
	return getPurchaseOrderLine(ctx, t.tx, id)
}

func (t *Tx) GetProgramEvent(ctx context.Context, id string) (*domain.ProgramEvent, error) {
	return getProgramEvent(ctx, t.tx, id)
}
