package services

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/diewo77/go-demenagement/internal/finance"
	"github.com/shopspring/decimal"
)

// Amount is a money value typed by a user: a JSON number or a string such as
// "1 200,50". Unparsable input is kept as Invalid so it can be reported as a
// field violation instead of a decoding failure.
type Amount struct {
	Value   decimal.Decimal
	Set     bool
	Invalid bool
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	*a = Amount{}
	raw, ok := rawScalar(b)
	if !ok {
		return nil
	}
	a.Set = true
	v, err := finance.ParseAmount(raw)
	if err != nil {
		a.Invalid = true
		return nil
	}
	a.Value = v
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Set || a.Invalid {
		return []byte("null"), nil
	}
	return a.Value.MarshalJSON()
}

// Rate is a tax rate typed as 0.2, "20" or "20%".
type Rate struct {
	Value   decimal.Decimal
	Set     bool
	Invalid bool
}

func (r *Rate) UnmarshalJSON(b []byte) error {
	*r = Rate{}
	raw, ok := rawScalar(b)
	if !ok {
		return nil
	}
	r.Set = true
	v, err := finance.ParseTaxRate(raw)
	if err != nil {
		r.Invalid = true
		return nil
	}
	r.Value = v
	return nil
}

func (r Rate) MarshalJSON() ([]byte, error) {
	if !r.Set || r.Invalid {
		return []byte("null"), nil
	}
	return r.Value.MarshalJSON()
}

// Date accepts "2006-01-02", "2006-01-02T15:04" or RFC 3339. Date-only and
// zone-less values are read in the local zone until In pins them to the
// application zone.
type Date struct {
	Time    time.Time
	Set     bool
	Invalid bool
	Raw     string
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"}

func (d *Date) UnmarshalJSON(b []byte) error {
	*d = Date{}
	raw, ok := rawScalar(b)
	if !ok {
		return nil
	}
	d.Set = true
	d.Raw = raw
	t, err := ParseDate(raw, time.Local)
	if err != nil {
		d.Invalid = true
		return nil
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Set || d.Invalid {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time)
}

// In reads the typed value again in loc. Values carrying an explicit offset
// are unchanged.
func (d Date) In(loc *time.Location) Date {
	if !d.Set || d.Invalid || d.Raw == "" || loc == nil {
		return d
	}
	if t, err := ParseDate(d.Raw, loc); err == nil {
		d.Time = t
	}
	return d
}

// Ptr returns the time, or nil when unset.
func (d Date) Ptr() *time.Time {
	if !d.Set || d.Invalid {
		return nil
	}
	t := d.Time
	return &t
}

// ParseDate parses s with the accepted date layouts.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if layout == time.RFC3339Nano {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, loc)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// rawScalar returns the text of a JSON string or number. ok is false for null
// and empty strings.
func rawScalar(b []byte) (string, bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return "", false
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return string(b), true
		}
		if strings.TrimSpace(s) == "" {
			return "", false
		}
		return s, true
	}
	return string(b), true
}
