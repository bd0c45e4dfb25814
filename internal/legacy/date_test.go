package legacy

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantZero bool
		want     Date
	}{
		{name: "normal date", input: `"2024-01-05"`, want: NewDate(2024, time.January, 5)},
		{name: "zero date sentinel", input: `"0000-00-00"`, wantZero: true},
		{name: "empty string", input: `""`, wantZero: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			if err := json.Unmarshal([]byte(tt.input), &d); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.input, err)
			}
			if tt.wantZero {
				if !d.IsZero() {
					t.Errorf("Unmarshal(%s) = %v, want zero", tt.input, d)
				}
				return
			}
			if !d.Equal(tt.want.Time) {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, d, tt.want)
			}
		})
	}
}

func TestDate_UnmarshalJSON_Invalid(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"05/01/2024"`), &d); err == nil {
		t.Error("Unmarshal of malformed date should fail")
	}
}

func TestDate_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2024, time.January, 5))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(b) != `"2024-01-05"` {
		t.Errorf("Marshal() = %s, want \"2024-01-05\"", b)
	}

	b, err = json.Marshal(Date{})
	if err != nil {
		t.Fatalf("Marshal(zero) error = %v", err)
	}
	if string(b) != `"0000-00-00"` {
		t.Errorf("Marshal(zero) = %s, want \"0000-00-00\"", b)
	}
}

func TestSecondsOf(t *testing.T) {
	ts := time.Date(2024, time.March, 10, 14, 30, 15, 0, time.UTC)
	if got := SecondsOf(ts); got != 14*3600+30*60+15 {
		t.Errorf("SecondsOf() = %d, want 52215", got)
	}
}

func TestDateTime(t *testing.T) {
	d := NewDate(2024, time.January, 5)
	got := DateTime(d, 3600)
	want := time.Date(2024, time.January, 5, 1, 0, 0, 0, time.UTC)
	if got == nil || !got.Equal(want) {
		t.Errorf("DateTime() = %v, want %v", got, want)
	}

	if DateTime(Date{}, 3600) != nil {
		t.Error("DateTime(zero date) should be nil regardless of seconds")
	}
}

func TestDateTimeOrDate_PrefersOMTimestamp(t *testing.T) {
	om := time.Date(2024, time.January, 5, 9, 45, 30, 0, time.UTC)
	got := DateTimeOrDate(&om, NewDate(2023, time.May, 1), 60)
	if got == nil || !got.Equal(om) {
		t.Errorf("DateTimeOrDate() = %v, want om timestamp %v", got, om)
	}

	got = DateTimeOrDate(nil, NewDate(2023, time.May, 1), 60)
	want := time.Date(2023, time.May, 1, 0, 1, 0, 0, time.UTC)
	if got == nil || !got.Equal(want) {
		t.Errorf("DateTimeOrDate(nil om) = %v, want %v", got, want)
	}
}

func TestSplitDateTime_RoundTrip(t *testing.T) {
	ts := time.Date(2024, time.June, 3, 16, 20, 5, 0, time.UTC)
	d, s := SplitDateTime(&ts)
	if back := DateTime(d, s); back == nil || !back.Equal(ts) {
		t.Errorf("DateTime(SplitDateTime(%v)) = %v", ts, back)
	}

	d, s = SplitDateTime(nil)
	if !d.IsZero() || s != 0 {
		t.Errorf("SplitDateTime(nil) = %v, %d, want zero values", d, s)
	}
}

func TestMidnightTime(t *testing.T) {
	got := MidnightTime(NewDate(2024, time.January, 5))
	want := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	if got == nil || !got.Equal(want) {
		t.Errorf("MidnightTime() = %v, want %v", got, want)
	}
	if MidnightTime(Date{}) != nil {
		t.Error("MidnightTime(zero) should be nil")
	}
}

func TestOptionalString(t *testing.T) {
	if OptionalString("") != nil {
		t.Error("OptionalString(\"\") should be nil")
	}
	if got := OptionalString("x"); got == nil || *got != "x" {
		t.Errorf("OptionalString(\"x\") = %v", got)
	}
	if StringOrEmpty(nil) != "" {
		t.Error("StringOrEmpty(nil) should be \"\"")
	}
	if got := StringOrEmpty(OptionalString("y")); got != "y" {
		t.Errorf("StringOrEmpty round trip = %q", got)
	}
}
