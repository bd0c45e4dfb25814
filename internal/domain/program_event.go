package domain

import (
	"encoding/json"
	"time"
)

// ProgramEvent records a health-program milestone for a patient, e.g. an
// enrolment or an encounter status change. Unlike the legacy tables,
// program events are native to the current schema: the wire payload is
// already the domain shape.
type ProgramEvent struct {
	ID                  string
	PatientID           string
	ContextID           string
	Type                string
	DocumentName        *string
	Datetime            time.Time
	ActiveStartDatetime time.Time
	ActiveEndDatetime   time.Time
	Data                json.RawMessage
}

func (ProgramEvent) Table() string   { return TableProgramEvent }
func (e ProgramEvent) RowID() string { return e.ID }
