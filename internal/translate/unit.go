package translate

import (
	"context"
	"encoding/json"

	"github.com/medstock/sitesync/internal/domain"
	"github.com/medstock/sitesync/internal/legacy"
	"github.com/medstock/sitesync/internal/sync"
)

// unitRow is the legacy wire shape of a unit record.
type unitRow struct {
	ID          string `json:"ID"`
	Units       string `json:"units"`
	Comment     string `json:"comment"`
	OrderNumber int    `json:"order_number"`
}

// UnitTranslator syncs the legacy unit table. Central-owned: pull only.
type UnitTranslator struct{}

func NewUnitTranslator() *UnitTranslator { return &UnitTranslator{} }

func (t *UnitTranslator) Table() string              { return LegacyTableUnit }
func (t *UnitTranslator) PullDependencies() []string { return nil }
func (t *UnitTranslator) ChangelogCategory() string  { return "" }

func (t *UnitTranslator) TryTranslateFromUpsert(ctx context.Context, rs ReadStore, rec *legacy.Record) (PullResult, error) {
	var row unitRow
	if err := json.Unmarshal(rec.Data, &row); err != nil {
		return PullResult{}, decodeErr(rec.Table, rec.ID, err)
	}

	return PullUpsert(domain.Unit{
		ID:          row.ID,
		Name:        row.Units,
		Description: row.Comment,
		Index:       row.OrderNumber,
	}), nil
}

func (t *UnitTranslator) TryTranslateFromDelete(ctx context.Context, rs ReadStore, rec *legacy.Record) (PullResult, error) {
	return PullDelete(domain.TableUnit, rec.ID), nil
}

func (t *UnitTranslator) TryTranslateToUpsert(ctx context.Context, rs ReadStore, entry sync.ChangelogRow) (PushResult, error) {
	return PushIgnored("units are central-owned"), nil
}

func (t *UnitTranslator) TryTranslateToDelete(ctx context.Context, rs ReadStore, entry sync.ChangelogRow) (PushResult, error) {
	return PushIgnored("units are central-owned"), nil
}
