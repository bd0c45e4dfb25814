package sync

import (
	"encoding/json"
	"time"
)

// Action identifies what a sync record does to its target row.
type Action string

const (
	ActionUpsert Action = "upsert"
	ActionDelete Action = "delete"
)

// BufferRow is one inbound wire record staged for integration.
// The transport layer inserts these on receipt; the pull pipeline
// marks them processed once integrated or permanently ignored, and the
// vacuum worker removes them after the retention window. The buffer makes
// no uniqueness promise for (table_name, record_id); latest wins.
type BufferRow struct {
	ID         string          `json:"id"`
	RecordID   string          `json:"record_id"`
	TableName  string          `json:"table_name"`
	Action     Action          `json:"action"`
	Data       json.RawMessage `json:"data"`
	ReceivedAt time.Time       `json:"received_at"`
}

// ChangelogRow is one append-only record of a local mutation.
// Cursor is monotonic and site-scoped; the push pipeline never deletes
// changelog rows, only advances a stored cursor past them.
type ChangelogRow struct {
	Cursor    int64  `json:"cursor"`
	TableName string `json:"table_name"`
	RecordID  string `json:"record_id"`
	Action    Action `json:"action"`
}

// RunKind distinguishes pull and push sync runs.
type RunKind string

const (
	RunPull RunKind = "pull"
	RunPush RunKind = "push"
)

// RunStatus is the terminal state of a sync run.
type RunStatus string

const (
	RunStatusOK     RunStatus = "ok"
	RunStatusFailed RunStatus = "failed"
)

// Run records one pull or push run for operator visibility.
type Run struct {
	ID         string    `json:"id"`
	Kind       RunKind   `json:"kind"`
	Status     RunStatus `json:"status"`
	Integrated int       `json:"integrated"`
	Ignored    int       `json:"ignored"`
	Pushed     int       `json:"pushed"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Meta keys stored in sync_meta.
const (
	MetaPushCursor    = "push_cursor"
	MetaLastPullRunID = "last_pull_run_id"
	MetaLastPushRunID = "last_push_run_id"
)
