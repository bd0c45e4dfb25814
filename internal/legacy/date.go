package legacy

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	dateLayout = "2006-01-02"
	zeroDate   = "0000-00-00"
)

// Date is a legacy calendar date. The central schema encodes an unset
// date as "0000-00-00" (sometimes ""), which decodes to the zero Date.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar date.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, m, d)
}

// UnmarshalJSON accepts "YYYY-MM-DD", "0000-00-00", "" and null.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" || s == zeroDate {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("parse legacy date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// MarshalJSON encodes the zero Date as "0000-00-00".
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return json.Marshal(zeroDate)
	}
	return json.Marshal(d.Format(dateLayout))
}

// Seconds is a legacy time of day: whole seconds since midnight.
type Seconds int

// SecondsOf extracts the time-of-day component of a timestamp.
func SecondsOf(t time.Time) Seconds {
	u := t.UTC()
	return Seconds(u.Hour()*3600 + u.Minute()*60 + u.Second())
}

// Duration converts to a time.Duration offset from midnight.
func (s Seconds) Duration() time.Duration {
	return time.Duration(s) * time.Second
}

// DateTime combines a legacy date and time-of-day into a timestamp.
// Returns nil when the date is unset; the time-of-day alone carries no
// information in that case.
func DateTime(d Date, s Seconds) *time.Time {
	if d.IsZero() {
		return nil
	}
	t := d.Add(s.Duration())
	return &t
}

// DateTimeOrDate prefers the om_* full timestamp when present and falls
// back to the legacy date/seconds pair otherwise.
func DateTimeOrDate(om *time.Time, d Date, s Seconds) *time.Time {
	if om != nil {
		return om
	}
	return DateTime(d, s)
}

// SplitDateTime is the push-side inverse of DateTime.
func SplitDateTime(t *time.Time) (Date, Seconds) {
	if t == nil {
		return Date{}, 0
	}
	return DateOf(*t), SecondsOf(*t)
}

// DateOnly drops the time-of-day; used for fields where the central
// schema stores a bare date. The sub-day precision is declared lossy.
func DateOnly(t *time.Time) Date {
	if t == nil {
		return Date{}
	}
	return DateOf(*t)
}

// MidnightTime lifts a bare legacy date to a timestamp at 00:00:00.
func MidnightTime(d Date) *time.Time {
	return DateTime(d, 0)
}
