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

// requisitionRow is the legacy wire shape of a requisition record.
type requisitionRow struct {
	ID               string      `json:"ID"`
	SerialNumber     int64       `json:"serial_number"`
	NameID           string      `json:"name_ID"`
	StoreID          string      `json:"store_ID"`
	Type             string      `json:"type"`
	Status           string      `json:"status"`
	DateEntered      legacy.Date `json:"date_entered"`
	Comment          string      `json:"comment"`
	RequesterRef     string      `json:"requester_reference"`
	MaxMonthsOfStock float64     `json:"months_of_stock"`
	MinMonthsOfStock float64     `json:"thresholdMOS"`

	OMType                 string      `json:"om_type,omitempty"`
	OMStatus               string      `json:"om_status,omitempty"`
	OMColour               string      `json:"om_colour,omitempty"`
	OMCreatedDatetime      *time.Time  `json:"om_created_datetime,omitempty"`
	OMSentDatetime         *time.Time  `json:"om_sent_datetime,omitempty"`
	OMFinalisedDatetime    *time.Time  `json:"om_finalised_datetime,omitempty"`
	OMExpectedDeliveryDate legacy.Date `json:"om_expected_delivery_date,omitempty"`
}

// requisitionTypeFromLegacy maps the legacy requisition type set. Imprest
// and stock-history requisitions are legacy-only workflows.
func requisitionTypeFromLegacy(t string) (domain.RequisitionType, bool) {
	switch t {
	case "request":
		return domain.RequisitionTypeRequest, true
	case "response":
		return domain.RequisitionTypeResponse, true
	case "im", "sh":
		return "", false
	}
	return "", false
}

func requisitionTypeToLegacy(t domain.RequisitionType) string {
	switch t {
	case domain.RequisitionTypeRequest:
		return "request"
	case domain.RequisitionTypeResponse:
		return "response"
	}
	return ""
}

// requisitionStatusFromLegacy is type-indexed: the same legacy code
// lands on different domain statuses for request and response
// requisitions. wp/wf are web states with no domain representation.
func requisitionStatusFromLegacy(status string, reqType domain.RequisitionType) (domain.RequisitionStatus, bool) {
	if reqType == domain.RequisitionTypeRequest {
		switch status {
		case "nw", "sg":
			return domain.RequisitionStatusDraft, true
		case "cn", "fn":
			// A request is immutable locally once sent; central
			// finalisation adds nothing the domain tracks.
			return domain.RequisitionStatusSent, true
		case "wp", "wf":
			return "", false
		}
		return "", false
	}

	switch status {
	case "nw", "sg", "cn":
		return domain.RequisitionStatusNew, true
	case "fn":
		return domain.RequisitionStatusFinalised, true
	case "wp", "wf":
		return "", false
	}
	return "", false
}

// requisitionStatusToLegacy collapses the domain progression. The
// collapse differs per type, mirroring the pull expansion.
func requisitionStatusToLegacy(status domain.RequisitionStatus, reqType domain.RequisitionType) string {
	if reqType == domain.RequisitionTypeRequest {
		switch status {
		case domain.RequisitionStatusDraft, domain.RequisitionStatusNew:
			return "sg"
		case domain.RequisitionStatusSent:
			return "cn"
		case domain.RequisitionStatusFinalised:
			return "fn"
		}
		return "sg"
	}

	switch status {
	case domain.RequisitionStatusDraft, domain.RequisitionStatusNew, domain.RequisitionStatusSent:
		return "sg"
	case domain.RequisitionStatusFinalised:
		return "fn"
	}
	return "sg"
}

// RequisitionTranslator syncs the legacy requisition table.
type RequisitionTranslator struct{}

func NewRequisitionTranslator() *RequisitionTranslator { return &RequisitionTranslator{} }

func (t *RequisitionTranslator) Table() string { return LegacyTableRequisition }
func (t *RequisitionTranslator) PullDependencies() []string {
	return []string{LegacyTableName, LegacyTableStore}
}
func (t *RequisitionTranslator) ChangelogCategory() string { return domain.TableRequisition }

func (t *RequisitionTranslator) TryTranslateFromUpsert(ctx context.Context, rs ReadStore, rec *legacy.Record) (PullResult, error) {
	var row requisitionRow
	if err := json.Unmarshal(rec.Data, &row); err != nil {
		return PullResult{}, decodeErr(rec.Table, rec.ID, err)
	}

	reqType, ok := requisitionTypeFromLegacy(row.Type)
	if !ok {
		return PullIgnored(fmt.Sprintf("requisition type %q not represented", row.Type)), nil
	}
	if row.OMType != "" {
		reqType = domain.RequisitionType(row.OMType)
	}

	var status domain.RequisitionStatus
	if row.OMStatus != "" {
		status = domain.RequisitionStatus(row.OMStatus)
	} else {
		status, ok = requisitionStatusFromLegacy(row.Status, reqType)
		if !ok {
			return PullIgnored(fmt.Sprintf("requisition status %q not represented", row.Status)), nil
		}
	}

	name, err := rs.GetName(ctx, row.NameID)
	if err != nil {
		return PullResult{}, err
	}
	if name == nil {
		return PullResult{}, missingDepErr(rec.Table, rec.ID, fmt.Errorf("name %q not found", row.NameID))
	}
	st, err := rs.GetStore(ctx, row.StoreID)
	if err != nil {
		return PullResult{}, err
	}
	if st == nil {
		return PullResult{}, missingDepErr(rec.Table, rec.ID, fmt.Errorf("store %q not found", row.StoreID))
	}

	created := legacy.DateTimeOrDate(row.OMCreatedDatetime, row.DateEntered, 0)
	if created == nil {
		return PullResult{}, decodeErr(rec.Table, rec.ID, fmt.Errorf("date_entered unset"))
	}

	req := domain.Requisition{
		ID:                   row.ID,
		RequisitionNumber:    row.SerialNumber,
		StoreID:              row.StoreID,
		NameID:               row.NameID,
		Type:                 reqType,
		Status:               status,
		TheirReference:       legacy.OptionalString(row.RequesterRef),
		Comment:              legacy.OptionalString(row.Comment),
		Colour:               legacy.OptionalString(row.OMColour),
		MaxMonthsOfStock:     row.MaxMonthsOfStock,
		MinMonthsOfStock:     row.MinMonthsOfStock,
		CreatedDatetime:      *created,
		SentDatetime:         row.OMSentDatetime,
		FinalisedDatetime:    row.OMFinalisedDatetime,
		ExpectedDeliveryDate: legacy.MidnightTime(row.OMExpectedDeliveryDate),
	}

	// The legacy schema has no sent/finalised dates; synthesize from the
	// entry date when the status says the transition happened.
	if req.SentDatetime == nil && (status == domain.RequisitionStatusSent || status == domain.RequisitionStatusFinalised) {
		req.SentDatetime = created
	}
	if req.FinalisedDatetime == nil && status == domain.RequisitionStatusFinalised {
		req.FinalisedDatetime = created
	}

	return PullUpsert(req), nil
}

func (t *RequisitionTranslator) TryTranslateFromDelete(ctx context.Context, rs ReadStore, rec *legacy.Record) (PullResult, error) {
	return PullDelete(domain.TableRequisition, rec.ID), nil
}

func (t *RequisitionTranslator) TryTranslateToUpsert(ctx context.Context, rs ReadStore, entry sync.ChangelogRow) (PushResult, error) {
	req, err := rs.GetRequisition(ctx, entry.RecordID)
	if err != nil {
		return PushResult{}, err
	}
	if req == nil {
		return PushResult{}, inconsistentErr(LegacyTableRequisition, entry.RecordID, fmt.Errorf("requisition %q not found", entry.RecordID))
	}

	// Draft requests are local working state; the central server only
	// sees them once sent.
	if req.Type == domain.RequisitionTypeRequest && req.Status == domain.RequisitionStatusDraft {
		return PushIgnored("draft request requisitions stay local"), nil
	}

	row := requisitionRow{
		ID:               req.ID,
		SerialNumber:     req.RequisitionNumber,
		NameID:           req.NameID,
		StoreID:          req.StoreID,
		Type:             requisitionTypeToLegacy(req.Type),
		Status:           requisitionStatusToLegacy(req.Status, req.Type),
		DateEntered:      legacy.DateOf(req.CreatedDatetime),
		Comment:          legacy.StringOrEmpty(req.Comment),
		RequesterRef:     legacy.StringOrEmpty(req.TheirReference),
		MaxMonthsOfStock: req.MaxMonthsOfStock,
		MinMonthsOfStock: req.MinMonthsOfStock,

		OMType:                 string(req.Type),
		OMStatus:               string(req.Status),
		OMColour:               legacy.StringOrEmpty(req.Colour),
		OMCreatedDatetime:      &req.CreatedDatetime,
		OMSentDatetime:         req.SentDatetime,
		OMFinalisedDatetime:    req.FinalisedDatetime,
		OMExpectedDeliveryDate: legacy.DateOnly(req.ExpectedDeliveryDate),
	}

	rec, err := legacy.MarshalRow(LegacyTableRequisition, req.ID, row)
	if err != nil {
		return PushResult{}, err
	}
	return PushRecords(rec), nil
}

func (t *RequisitionTranslator) TryTranslateToDelete(ctx context.Context, rs ReadStore, entry sync.ChangelogRow) (PushResult, error) {
	return PushRecords(legacy.NewDelete(LegacyTableRequisition, entry.RecordID)), nil
}
