package domain

import "time"

// Unit is a unit of measure for items.
type Unit struct {
	ID          string
	Name        string
	Description string
	Index       int
}

func (Unit) Table() string   { return TableUnit }
func (u Unit) RowID() string { return u.ID }

// ItemType classifies an item.
type ItemType string

const (
	ItemTypeStock    ItemType = "stock"
	ItemTypeService  ItemType = "service"
	ItemTypeNonStock ItemType = "non_stock"
)

// Item is a catalogue entry for something a store can hold or charge for.
type Item struct {
	ID              string
	Name            string
	Code            string
	UnitID          *string
	Type            ItemType
	DefaultPackSize float64
}

func (Item) Table() string   { return TableItem }
func (i Item) RowID() string { return i.ID }

// StockLine is one batch of stock held by a store.
type StockLine struct {
	ID               string
	ItemID           string
	StoreID          string
	SupplierID       *string
	Batch            *string
	ExpiryDate       *time.Time
	PackSize         float64
	AvailablePacks   float64
	TotalPacks       float64
	CostPricePerPack float64
	SellPricePerPack float64
	OnHold           bool
}

func (StockLine) Table() string   { return TableStockLine }
func (s StockLine) RowID() string { return s.ID }
