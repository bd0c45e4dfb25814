package domain

import "time"

// InvoiceType is the richer domain classification of a transaction.
type InvoiceType string

const (
	InvoiceTypeInboundShipment  InvoiceType = "inbound_shipment"
	InvoiceTypeOutboundShipment InvoiceType = "outbound_shipment"
	InvoiceTypeSupplierReturn   InvoiceType = "supplier_return"
	InvoiceTypeCustomerReturn   InvoiceType = "customer_return"
	InvoiceTypeRepack           InvoiceType = "repack"
	InvoiceTypePrescription     InvoiceType = "prescription"
)

// IsOutbound reports whether stock leaves the store for this type.
// The status progression and the legacy confirm-date semantics differ
// between the outbound and inbound families.
func (t InvoiceType) IsOutbound() bool {
	switch t {
	case InvoiceTypeOutboundShipment, InvoiceTypeSupplierReturn, InvoiceTypePrescription:
		return true
	case InvoiceTypeInboundShipment, InvoiceTypeCustomerReturn, InvoiceTypeRepack:
		return false
	}
	return false
}

// InvoiceStatus is the domain status progression.
type InvoiceStatus string

const (
	InvoiceStatusNew       InvoiceStatus = "new"
	InvoiceStatusAllocated InvoiceStatus = "allocated"
	InvoiceStatusPicked    InvoiceStatus = "picked"
	InvoiceStatusShipped   InvoiceStatus = "shipped"
	InvoiceStatusDelivered InvoiceStatus = "delivered"
	InvoiceStatusVerified  InvoiceStatus = "verified"
)

// InvoiceMode distinguishes store and dispensary transactions.
type InvoiceMode string

const (
	InvoiceModeStore      InvoiceMode = "store"
	InvoiceModeDispensary InvoiceMode = "dispensary"
)

// Invoice is a transaction header (shipment, return, prescription, …).
type Invoice struct {
	ID                string
	StoreID           string
	NameID            string
	InvoiceNumber     int64
	Type              InvoiceType
	Status            InvoiceStatus
	Mode              InvoiceMode
	UserID            *string
	TheirReference    *string
	Comment           *string
	OnHold            bool
	Colour            *string
	CreatedDatetime   time.Time
	AllocatedDatetime *time.Time
	PickedDatetime    *time.Time
	ShippedDatetime   *time.Time
	DeliveredDatetime *time.Time
	VerifiedDatetime  *time.Time
}

func (Invoice) Table() string   { return TableInvoice }
func (i Invoice) RowID() string { return i.ID }

// InvoiceLineType classifies a transaction line.
type InvoiceLineType string

const (
	InvoiceLineTypeStockIn          InvoiceLineType = "stock_in"
	InvoiceLineTypeStockOut         InvoiceLineType = "stock_out"
	InvoiceLineTypeUnallocatedStock InvoiceLineType = "unallocated_stock"
	InvoiceLineTypeService          InvoiceLineType = "service"
)

// InvoiceLine is one line of a transaction.
type InvoiceLine struct {
	ID               string
	InvoiceID        string
	ItemID           string
	ItemName         string
	ItemCode         string
	StockLineID      *string
	Type             InvoiceLineType
	Batch            *string
	ExpiryDate       *time.Time
	PackSize         float64
	NumberOfPacks    float64
	CostPricePerPack float64
	SellPricePerPack float64
	Note             *string
}

func (InvoiceLine) Table() string   { return TableInvoiceLine }
func (l InvoiceLine) RowID() string { return l.ID }
