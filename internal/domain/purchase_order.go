package domain

import "time"

// PurchaseOrderStatus is the domain status progression for orders
// placed with external suppliers.
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusNew        PurchaseOrderStatus = "new"
	PurchaseOrderStatusAuthorised PurchaseOrderStatus = "authorised"
	PurchaseOrderStatusConfirmed  PurchaseOrderStatus = "confirmed"
	PurchaseOrderStatusFinalised  PurchaseOrderStatus = "finalised"
)

// PurchaseOrder is an order placed with an external supplier.
type PurchaseOrder struct {
	ID                   string
	PurchaseOrderNumber  int64
	StoreID              string
	SupplierID           string
	Status               PurchaseOrderStatus
	Reference            *string
	Comment              *string
	CreatedDatetime      time.Time
	AuthorisedDatetime   *time.Time
	ConfirmedDatetime    *time.Time
	FinalisedDatetime    *time.Time
	ExpectedDeliveryDate *time.Time
}

func (PurchaseOrder) Table() string   { return TablePurchaseOrder }
func (p PurchaseOrder) RowID() string { return p.ID }

// PurchaseOrderLine is one item line of a purchase order.
type PurchaseOrderLine struct {
	ID                     string
	PurchaseOrderID        string
	ItemID                 string
	LineNumber             int64
	RequestedPackSize      float64
	RequestedNumberOfUnits float64
	ReceivedNumberOfUnits  float64
	PricePerPack           float64
	RequestedDeliveryDate  *time.Time
}

func (PurchaseOrderLine) Table() string   { return TablePurchaseOrderLine }
func (l PurchaseOrderLine) RowID() string { return l.ID }
