package translate

import (
	"context"

	"github.com/medstock/sitesync/internal/domain"
)

// fakeReadStore is an in-memory ReadStore for translator tests.
type fakeReadStore struct {
	names          map[string]*domain.Name
	stores         map[string]*domain.Store
	units          map[string]*domain.Unit
	items          map[string]*domain.Item
	stockLines     map[string]*domain.StockLine
	invoices       map[string]*domain.Invoice
	invoiceLines   map[string]*domain.InvoiceLine
	requisitions   map[string]*domain.Requisition
	reqLines       map[string]*domain.RequisitionLine
	purchaseOrders map[string]*domain.PurchaseOrder
	poLines        map[string]*domain.PurchaseOrderLine
	programEvents  map[string]*domain.ProgramEvent
}

func newFakeReadStore() *fakeReadStore {
	return &fakeReadStore{
		names:          make(map[string]*domain.Name),
		stores:         make(map[string]*domain.Store),
		units:          make(map[string]*domain.Unit),
		items:          make(map[string]*domain.Item),
		stockLines:     make(map[string]*domain.StockLine),
		invoices:       make(map[string]*domain.Invoice),
		invoiceLines:   make(map[string]*domain.InvoiceLine),
		requisitions:   make(map[string]*domain.Requisition),
		reqLines:       make(map[string]*domain.RequisitionLine),
		purchaseOrders: make(map[string]*domain.PurchaseOrder),
		poLines:        make(map[string]*domain.PurchaseOrderLine),
		programEvents:  make(map[string]*domain.ProgramEvent),
	}
}

func (f *fakeReadStore) GetName(ctx context.Context, id string) (*domain.Name, error) {
	return f.names[id], nil
}

func (f *fakeReadStore) GetStore(ctx context.Context, id string) (*domain.Store, error) {
	return f.stores[id], nil
}

func (f *fakeReadStore) GetUnit(ctx context.Context, id string) (*domain.Unit, error) {
	return f.units[id], nil
}

func (f *fakeReadStore) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	return f.items[id], nil
}

func (f *fakeReadStore) GetStockLine(ctx context.Context, id string) (*domain.StockLine, error) {
	return f.stockLines[id], nil
}

func (f *fakeReadStore) GetInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	return f.invoices[id], nil
}

func (f *fakeReadStore) GetInvoiceLine(ctx context.Context, id string) (*domain.InvoiceLine, error) {
	return f.invoiceLines[id], nil
}

func (f *fakeReadStore) GetRequisition(ctx context.Context, id string) (*domain.Requisition, error) {
	return f.requisitions[id], nil
}

func (f *fakeReadStore) GetRequisitionLine(ctx context.Context, id string) (*domain.RequisitionLine, error) {
	return f.reqLines[id], nil
}

func (f *fakeReadStore) GetPurchaseOrder(ctx context.Context, id string) (*domain.PurchaseOrder, error) {
	return f.purchaseOrders[id], nil
}

func (f *fakeReadStore) GetPurchaseOrderLine(ctx context.Context, id string) (*domain.PurchaseOrderLine, error) {
	return f.poLines[id], nil
}

func (f *fakeReadStore) GetProgramEvent(ctx context.Context, id string) (*domain.ProgramEvent, error) {
	return f.programEvents[id], nil
}

// withCatalog seeds the references most document translators need.
func (f *fakeReadStore) withCatalog() *fakeReadStore {
	f.names["name1"] = &domain.Name{ID: "name1", Name: "Central Medical Store", Code: "CMS", Type: domain.NameTypeFacility, IsSupplier: true}
	f.stores["store1"] = &domain.Store{ID: "store1", NameID: "name1", Code: "GEN", SiteID: 2, Mode: domain.StoreModeStore}
	f.units["unit1"] = &domain.Unit{ID: "unit1", Name: "tablet"}
	f.items["item1"] = &domain.Item{ID: "item1", Name: "Amoxicillin 250mg", Code: "amox250", Type: domain.ItemTypeStock, DefaultPackSize: 100}
	return f
}
