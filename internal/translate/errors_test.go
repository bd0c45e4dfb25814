package translate

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorMatchesKindSentinelAndCause(t *testing.T) {
	cause := fmt.Errorf("name %q not found", "n1")
	err := missingDepErr("transact", "t1", cause)

	if !errors.Is(err, ErrMissingDependency) {
		t.Error("errors.Is(err, ErrMissingDependency) = false")
	}
	if errors.Is(err, ErrDecode) || errors.Is(err, ErrInconsistentState) {
		t.Error("error matches the wrong sentinel")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want cause reachable through Unwrap")
	}

	var terr *Error
	if !errors.As(err, &terr) {
		t.Fatal("errors.As(err, *Error) = false")
	}
	if terr.Kind != KindMissingDependency || terr.Table != "transact" || terr.RecordID != "t1" {
		t.Errorf("error = %+v", terr)
	}
}

func TestErrorMessageNamesRecord(t *testing.T) {
	err := decodeErr("item", "i9", errors.New("unexpected end of JSON input"))

	msg := err.Error()
	for _, want := range []string{"item", "i9", "decode", "unexpected end"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestErrorKindString(t *testing.T) {
	kinds := map[ErrorKind]string{
		KindDecode:            "decode",
		KindMissingDependency: "missing dependency",
		KindInconsistentState: "inconsistent state",
	}
	for kind, want := range kinds {
		if got := kind.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", kind, got, want)
		}
	}
}
