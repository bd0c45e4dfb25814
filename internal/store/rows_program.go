package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/medstock/sitesync/internal/domain"
)

func upsertProgramEvent(ctx context.Context, q querier, e *domain.ProgramEvent) error {
	var data any
	if len(e.Data) > 0 {
		data = string(e.Data)
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO program_event (
			id, patient_id, context_id, type, document_name,
			datetime, active_start_datetime, active_end_datetime, data
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			patient_id = excluded.patient_id,
			context_id = excluded.context_id,
			type = excluded.type,
			document_name = excluded.document_name,
			datetime = excluded.datetime,
			active_start_datetime = excluded.active_start_datetime,
			active_end_datetime = excluded.active_end_datetime,
			data = excluded.data
	`, e.ID, e.PatientID, e.ContextID, e.Type, nullableString(e.DocumentName),
		formatTime(e.Datetime), formatTime(e.ActiveStartDatetime),
		formatTime(e.ActiveEndDatetime), data)
	if err != nil {
		return fmt.Errorf("upsert program event %s: %w", e.ID, err)
	}
	return nil
}

func getProgramEvent(ctx context.Context, q querier, id string) (*domain.ProgramEvent, error) {
	var e domain.ProgramEvent
	var documentName, data sql.NullString
	var datetime, activeStart, activeEnd string
	err := q.QueryRowContext(ctx, `
		SELECT id, patient_id, context_id, type, document_name,
			datetime, active_start_datetime, active_end_datetime, data
		FROM program_event WHERE id = ?
	`, id).Scan(&e.ID, &e.PatientID, &e.ContextID, &e.Type, &documentName,
		&datetime, &activeStart, &activeEnd, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get program event %s: %w", id, err)
	}

	e.DocumentName = optionalString(documentName)
	if e.Datetime, err = parseTime(datetime); err != nil {
		return nil, err
	}
	if e.ActiveStartDatetime, err = parseTime(activeStart); err != nil {
		return nil, err
	}
	if e.ActiveEndDatetime, err = parseTime(activeEnd); err != nil {
		return nil, err
	}
	if data.Valid {
		e.Data = []byte(data.String)
	}
	return &e, nil
}
