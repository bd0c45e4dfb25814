// Package legacy models the wire format exchanged with the central
// server: one JSON row per record, table names and field names exactly
// as the decades-old central schema spells them. The conventions here
// (zero dates, empty-string-as-absent, om_* extension fields) are load
// bearing for every translator and must not be "fixed".
package legacy

import (
	"encoding/json"

	"github.com/medstock/sitesync/internal/sync"
)

// Record is a single wire row, inbound or outbound.
type Record struct {
	ID     string          `json:"ID"`
	Table  string          `json:"table_name"`
	Action sync.Action     `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// NewUpsert builds an outbound upsert record from an already-marshalled
// row payload.
func NewUpsert(table, id string, data json.RawMessage) Record {
	return Record{ID: id, Table: table, Action: sync.ActionUpsert, Data: data}
}

// NewDelete builds an outbound delete record. Deletes carry no payload.
func NewDelete(table, id string) Record {
	return Record{ID: id, Table: table, Action: sync.ActionDelete}
}

// MarshalRow marshals a wire row struct into a Record payload.
func MarshalRow(table, id string, row any) (Record, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return Record{}, err
	}
	return NewUpsert(table, id, data), nil
}

// OptionalString applies the empty-string-means-absent convention.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringOrEmpty is the push-side inverse of OptionalString.
func StringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
