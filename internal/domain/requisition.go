package domain

import "time"

// RequisitionType distinguishes orders we raise from orders we fill.
type RequisitionType string

const (
	// RequisitionTypeRequest is an internal order raised by this store
	// against a supplying store.
	RequisitionTypeRequest RequisitionType = "request"
	// RequisitionTypeResponse is a customer's order this store fills.
	RequisitionTypeResponse RequisitionType = "response"
)

// RequisitionStatus is the domain status progression. Request
// requisitions move Draft→Sent; response requisitions move New→Finalised.
type RequisitionStatus string

const (
	RequisitionStatusDraft     RequisitionStatus = "draft"
	RequisitionStatusNew       RequisitionStatus = "new"
	RequisitionStatusSent      RequisitionStatus = "sent"
	RequisitionStatusFinalised RequisitionStatus = "finalised"
)

// Requisition is an order header.
type Requisition struct {
	ID                    string
	RequisitionNumber     int64
	StoreID               string
	NameID                string
	Type                  RequisitionType
	Status                RequisitionStatus
	TheirReference        *string
	Comment               *string
	Colour                *string
	MaxMonthsOfStock      float64
	MinMonthsOfStock      float64
	CreatedDatetime       time.Time
	SentDatetime          *time.Time
	FinalisedDatetime     *time.Time
	ExpectedDeliveryDate  *time.Time
}

func (Requisition) Table() string   { return TableRequisition }
func (r Requisition) RowID() string { return r.ID }

// RequisitionLine is one item line of a requisition.
type RequisitionLine struct {
	ID                        string
	RequisitionID             string
	ItemID                    string
	RequestedQuantity         float64
	SuggestedQuantity         float64
	SupplyQuantity            float64
	AvailableStockOnHand      float64
	AverageMonthlyConsumption float64
	Comment                   *string
}

func (RequisitionLine) Table() string   { return TableRequisitionLine }
func (l RequisitionLine) RowID() string { return l.ID }
