package translate

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a translation failure.
type ErrorKind int

const (
	// KindDecode means the wire JSON did not match the expected shape.
	// Always fatal to the record; surfaced, never swallowed.
	KindDecode ErrorKind = iota

	// KindMissingDependency means a referenced row is not in the store.
	// Fatal to the pull batch: applying would break the foreign-key graph.
	KindMissingDependency

	// KindInconsistentState means the domain row behind a changelog entry
	// vanished before push translation. A store bug, never retried silently.
	KindInconsistentState
)

func (k ErrorKind) String() string {
	switch k {
	case KindDecode:
		return "decode"
	case KindMissingDependency:
		return "missing dependency"
	case KindInconsistentState:
		return "inconsistent state"
	}
	return "unknown"
}

// Sentinels for errors.Is matching on the kind.
var (
	ErrDecode            = errors.New("wire record decode failed")
	ErrMissingDependency = errors.New("referenced row missing")
	ErrInconsistentState = errors.New("domain row missing for changelog entry")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindDecode:
		return ErrDecode
	case KindMissingDependency:
		return ErrMissingDependency
	case KindInconsistentState:
		return ErrInconsistentState
	}
	return nil
}

// Error is a translation failure for a single record.
type Error struct {
	Kind     ErrorKind
	Table    string
	RecordID string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("translate %s %s: %s: %v", e.Table, e.RecordID, e.Kind, e.Err)
	}
	return fmt.Sprintf("translate %s %s: %s", e.Table, e.RecordID, e.Kind)
}

// Unwrap exposes both the kind sentinel and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	errs := []error{e.Kind.sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func decodeErr(table, id string, cause error) error {
	return &Error{Kind: KindDecode, Table: table, RecordID: id, Err: cause}
}

func missingDepErr(table, id string, cause error) error {
	return &Error{Kind: KindMissingDependency, Table: table, RecordID: id, Err: cause}
}

func inconsistentErr(table, id string, cause error) error {
	return &Error{Kind: KindInconsistentState, Table: table, RecordID: id, Err: cause}
}
