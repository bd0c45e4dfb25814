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

// programEventRow is the wire shape of a program event. Program events
// are native to the current schema, so the wire payload is already the
// domain shape; there are no legacy quirks to translate around beyond
// the patient reference.
type programEventRow struct {
	ID                  string          `json:"id"`
	PatientID           string          `json:"patient_ID"`
	ContextID           string          `json:"context_ID"`
	Type                string          `json:"type"`
	DocumentName        string          `json:"document_name"`
	Datetime            time.Time       `json:"datetime"`
	ActiveStartDatetime time.Time       `json:"active_start_datetime"`
	ActiveEndDatetime   time.Time       `json:"active_end_datetime"`
	Data                json.RawMessage `json:"data"`
}

// ProgramEventTranslator syncs program events in both directions.
type ProgramEventTranslator struct{}

func NewProgramEventTranslator() *ProgramEventTranslator { return &ProgramEventTranslator{} }

func (t *ProgramEventTranslator) Table() string { return LegacyTableProgramEvent }
func (t *ProgramEventTranslator) PullDependencies() []string {
	return []string{LegacyTableName}
}
func (t *ProgramEventTranslator) ChangelogCategory() string { return domain.TableProgramEvent }

func (t *ProgramEventTranslator) TryTranslateFromUpsert(ctx context.Context, rs ReadStore, rec *legacy.Record) (PullResult, error) {
	var row programEventRow
	if err := json.Unmarshal(rec.Data, &row); err != nil {
		return PullResult{}, decodeErr(rec.Table, rec.ID, err)
	}

	patient, err := rs.GetName(ctx, row.PatientID)
	if err != nil {
		return PullResult{}, err
	}
	if patient == nil {
		return PullResult{}, missingDepErr(rec.Table, rec.ID, fmt.Errorf("patient %q not found", row.PatientID))
	}

	return PullUpsert(domain.ProgramEvent{
		ID:                  row.ID,
		PatientID:           row.PatientID,
		ContextID:           row.ContextID,
		Type:                row.Type,
		DocumentName:        legacy.OptionalString(row.DocumentName),
		Datetime:            row.Datetime,
		ActiveStartDatetime: row.ActiveStartDatetime,
		ActiveEndDatetime:   row.ActiveEndDatetime,
		Data:                row.Data,
	}), nil
}

func (t *ProgramEventTranslator) TryTranslateFromDelete(ctx context.Context, rs ReadStore, rec *legacy.Record) (PullResult, error) {
	return PullDelete(domain.TableProgramEvent, rec.ID), nil
}

func (t *ProgramEventTranslator) TryTranslateToUpsert(ctx context.Context, rs ReadStore, entry sync.ChangelogRow) (PushResult, error) {
	ev, err := rs.GetProgramEvent(ctx, entry.RecordID)
	if err != nil {
		return PushResult{}, err
	}
	if ev == nil {
		return PushResult{}, inconsistentErr(LegacyTableProgramEvent, entry.RecordID, fmt.Errorf("program event %q not found", entry.RecordID))
	}

	row := programEventRow{
		ID:                  ev.ID,
		PatientID:           ev.PatientID,
		ContextID:           ev.ContextID,
		Type:                ev.Type,
		DocumentName:        legacy.StringOrEmpty(ev.DocumentName),
		Datetime:            ev.Datetime,
		ActiveStartDatetime: ev.ActiveStartDatetime,
		ActiveEndDatetime:   ev.ActiveEndDatetime,
		Data:                ev.Data,
	}

	rec, err := legacy.MarshalRow(LegacyTableProgramEvent, ev.ID, row)
	if err != nil {
		return PushResult{}, err
	}
	return PushRecords(rec), nil
}

func (t *ProgramEventTranslator) TryTranslateToDelete(ctx context.Context, rs ReadStore, entry sync.ChangelogRow) (PushResult, error) {
	return PushRecords(legacy.NewDelete(LegacyTableProgramEvent, entry.RecordID)), nil
}
