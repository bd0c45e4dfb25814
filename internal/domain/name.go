package domain

import "time"

// NameType classifies a name row.
type NameType string

const (
	NameTypeFacility NameType = "facility"
	NameTypePatient  NameType = "patient"
	NameTypeStore    NameType = "store"
	// NameTypeInventoryAdjustment marks the built-in adjustment names the
	// central server uses for stock corrections.
	NameTypeInventoryAdjustment NameType = "inventory_adjustment"
)

// Name is a customer, supplier, facility or patient known to the site.
type Name struct {
	ID              string
	Name            string
	Code            string
	Type            NameType
	IsCustomer      bool
	IsSupplier      bool
	CreatedDatetime *time.Time
}

func (Name) Table() string        { return TableName }
func (n Name) RowID() string      { return n.ID }
func (n Name) IsAdjustment() bool { return n.Type == NameTypeInventoryAdjustment }

// StoreMode selects how a store operates.
type StoreMode string

const (
	StoreModeStore      StoreMode = "store"
	StoreModeDispensary StoreMode = "dispensary"
)

// Store is one physical or logical store at a site.
type Store struct {
	ID     string
	NameID string
	Code   string
	SiteID int
	Mode   StoreMode
}

func (Store) Table() string   { return TableStore }
func (s Store) RowID() string { return s.ID }
