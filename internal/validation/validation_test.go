package validation

import "testing"

func TestUTF8(t *testing.T) {
	if err := UTF8("name", "Amoxicillin 250mg"); err != nil {
		t.Errorf("UTF8() = %v, want nil", err)
	}
	if err := UTF8("name", string([]byte{0xff, 0xfe})); err == nil {
		t.Error("UTF8() = nil for invalid bytes")
	}
}

func TestNoNullBytes(t *testing.T) {
	if err := NoNullBytes("comment", "plain text"); err != nil {
		t.Errorf("NoNullBytes() = %v, want nil", err)
	}
	if err := NoNullBytes("comment", "bad\x00text"); err == nil {
		t.Error("NoNullBytes() = nil for embedded null")
	}
}

func TestRequired(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{value: "x", valid: true},
		{value: "", valid: false},
		{value: "   ", valid: false},
		{value: "\t\n", valid: false},
	}
	for _, tt := range tests {
		err := Required("code", tt.value)
		if tt.valid && err != nil {
			t.Errorf("Required(%q) = %v, want nil", tt.value, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("Required(%q) = nil, want error", tt.value)
		}
	}
}

func TestWireText(t *testing.T) {
	if err := WireText("name", "ok"); err != nil {
		t.Errorf("WireText() = %v, want nil", err)
	}
	if err := WireText("name", "bad\x00"); err == nil {
		t.Error("WireText() = nil for null byte")
	}
	if err := WireText("name", string([]byte{0xc3, 0x28})); err == nil {
		t.Error("WireText() = nil for invalid UTF-8")
	}
}

func TestCollector(t *testing.T) {
	var c Collector
	if c.HasErrors() {
		t.Error("empty collector reports errors")
	}

	c.Add(nil)
	if c.HasErrors() {
		t.Error("nil add counted as an error")
	}

	c.Add(Required("code", ""))
	c.Add(NoNullBytes("comment", "x\x00"))
	if !c.HasErrors() {
		t.Fatal("collector missed added errors")
	}
	errs := c.Errors()
	if len(errs) != 2 {
		t.Fatalf("Errors() = %d entries, want 2", len(errs))
	}
	if errs[0].Field != "code" || errs[1].Field != "comment" {
		t.Errorf("fields = %q, %q", errs[0].Field, errs[1].Field)
	}
}
