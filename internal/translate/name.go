package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/medstock/sitesync/internal/domain"
	"github.com/medstock/sitesync/internal/legacy"
	"github.com/medstock/sitesync/internal/sync"
	"github.com/medstock/sitesync/internal/validation"
)

// nameRow is the legacy wire shape of a name record.
type nameRow struct {
	ID        string      `json:"ID"`
	Name      string      `json:"name"`
	Code      string      `json:"code"`
	Type      string      `json:"type"`
	Customer  bool        `json:"customer"`
	Supplier  bool        `json:"supplier"`
	DateAdded legacy.Date `json:"date_added"`

	OMCreatedDatetime *time.Time `json:"om_created_datetime,omitempty"`
}

// nameTypeFromLegacy maps the closed legacy name type set. Total over the
// source: every variant maps or is a deliberate ignore (empty result).
func nameTypeFromLegacy(t string) (domain.NameType, bool) {
	switch t {
	case "facility":
		return domain.NameTypeFacility, true
	case "patient":
		return domain.NameTypePatient, true
	case "store":
		return domain.NameTypeStore, true
	case "invad":
		return domain.NameTypeInventoryAdjustment, true
	case "build", "repack":
		// Manufacturing names have no local representation.
		return "", false
	}
	return "", false
}

// NameTranslator syncs the legacy name table. Central-owned: pull only.
type NameTranslator struct{}

func NewNameTranslator() *NameTranslator { return &NameTranslator{} }

func (t *NameTranslator) Table() string             { return LegacyTableName }
func (t *NameTranslator) PullDependencies() []string { return nil }
func (t *NameTranslator) ChangelogCategory() string  { return "" }

func (t *NameTranslator) TryTranslateFromUpsert(ctx context.Context, rs ReadStore, rec *legacy.Record) (PullResult, error) {
	var row nameRow
	if err := json.Unmarshal(rec.Data, &row); err != nil {
		return PullResult{}, decodeErr(rec.Table, rec.ID, err)
	}
	if err := validation.WireText("name", row.Name); err != nil {
		return PullResult{}, decodeErr(rec.Table, rec.ID, err)
	}
	if err := validation.WireText("code", row.Code); err != nil {
		return PullResult{}, decodeErr(rec.Table, rec.ID, err)
	}

	nameType, ok := nameTypeFromLegacy(row.Type)
	if !ok {
		return PullIgnored(fmt.Sprintf("name type %q not represented", row.Type)), nil
	}

	created := row.OMCreatedDatetime
	if created == nil {
		created = legacy.MidnightTime(row.DateAdded)
	}

	return PullUpsert(domain.Name{
		ID:              row.ID,
		Name:            row.Name,
		Code:            row.Code,
		Type:            nameType,
		IsCustomer:      row.Customer,
		IsSupplier:      row.Supplier,
		CreatedDatetime: created,
	}), nil
}

func (t *NameTranslator) TryTranslateFromDelete(ctx context.Context, rs ReadStore, rec *legacy.Record) (PullResult, error) {
	return PullDelete(domain.TableName, rec.ID), nil
}

func (t *NameTranslator) TryTranslateToUpsert(ctx context.Context, rs ReadStore, entry sync.ChangelogRow) (PushResult, error) {
	return PushIgnored("names are central-owned"), nil
}

func (t *NameTranslator) TryTranslateToDelete(ctx context.Context, rs ReadStore, entry sync.ChangelogRow) (PushResult, error) {
	return PushIgnored("names are central-owned"), nil
}
