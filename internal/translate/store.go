package translate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/medstock/sitesync/internal/domain"
	"github.com/medstock/sitesync/internal/legacy"
	"github.com/medstock/sitesync/internal/sync"
)

// storeRow is the legacy wire shape of a store record.
type storeRow struct {
	ID       string `json:"ID"`
	NameID   string `json:"name_ID"`
	Code     string `json:"code"`
	SiteID   int    `json:"sync_id_remote_site"`
	Mode     string `json:"store_mode"`
	Disabled bool   `json:"disabled"`
}

// storeModeFromLegacy maps the legacy store_mode set. The central server
// also carries drug-registration and hospital-info-system stores; those
// have no local representation.
func storeModeFromLegacy(mode string) (domain.StoreMode, bool) {
	switch mode {
	case "store", "supervisor":
		return domain.StoreModeStore, true
	case "dispensary":
		return domain.StoreModeDispensary, true
	case "drug_registration", "his":
		return "", false
	}
	return "", false
}

// StoreTranslator syncs the legacy store table. Central-owned: pull only.
type StoreTranslator struct{}

func NewStoreTranslator() *StoreTranslator { return &StoreTranslator{} }

func (t *StoreTranslator) Table() string { return LegacyTableStore }
func (t *StoreTranslator) PullDependencies() []string {
	return []string{LegacyTableName}
}
func (t *StoreTranslator) ChangelogCategory() string { return "" }

func (t *StoreTranslator) TryTranslateFromUpsert(ctx context.Context, rs ReadStore, rec *legacy.Record) (PullResult, error) {
	var row storeRow
	if err := json.Unmarshal(rec.Data, &row); err != nil {
		return PullResult{}, decodeErr(rec.Table, rec.ID, err)
	}

	mode, ok := storeModeFromLegacy(row.Mode)
	if !ok {
		return PullIgnored(fmt.Sprintf("store mode %q not represented", row.Mode)), nil
	}
	if row.Disabled {
		return PullIgnored("store is disabled"), nil
	}

	name, err := rs.GetName(ctx, row.NameID)
	if err != nil {
		return PullResult{}, err
	}
	if name == nil {
		return PullResult{}, missingDepErr(rec.Table, rec.ID, fmt.Errorf("name %q not found", row.NameID))
	}

	return PullUpsert(domain.Store{
		ID:     row.ID,
		NameID: row.NameID,
		Code:   row.Code,
		SiteID: row.SiteID,
		Mode:   mode,
	}), nil
}

func (t *StoreTranslator) TryTranslateFromDelete(ctx context.Context, rs ReadStore, rec *legacy.Record) (PullResult, error) {
	return PullDelete(domain.TableStore, rec.ID), nil
}

func (t *StoreTranslator) TryTranslateToUpsert(ctx context.Context, rs ReadStore, entry sync.ChangelogRow) (PushResult, error) {
	return PushIgnored("stores are central-owned"), nil
}

func (t *StoreTranslator) TryTranslateToDelete(ctx context.Context, rs ReadStore, entry sync.ChangelogRow) (PushResult, error) {
	return PushIgnored("stores are central-owned"), nil
}
