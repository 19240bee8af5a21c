package coerce

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// String is a text cell. Null markers decode to null; anything else is kept
// verbatim.
type String struct {
	V     string
	Valid bool
}

func (s *String) UnmarshalCSV(b []byte) error {
	raw := string(b)
	if IsNull(raw) {
		*s = String{}
		return nil
	}
	*s = String{V: raw, Valid: true}
	return nil
}

// Value returns the string, or nil when null.
func (s String) Value() any {
	if !s.Valid {
		return nil
	}
	return s.V
}

// Int is an integer cell. Integral floats such as "3.0" are accepted because
// spreadsheet exports write counts that way once a column holds a blank.
type Int struct {
	V     int64
	Valid bool
}

func (i *Int) UnmarshalCSV(b []byte) error {
	*i = Int{}
	raw := strings.TrimSpace(string(b))
	if IsNull(raw) {
		return nil
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*i = Int{V: n, Valid: true}
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) ||
		f >= math.MaxInt64 || f < math.MinInt64 {
		return nil
	}
	*i = Int{V: int64(f), Valid: true}
	return nil
}

// Value returns the value as int64, or nil when null.
func (i Int) Value() any {
	if !i.Valid {
		return nil
	}
	return i.V
}

// Int32Value returns the value as int32 for 32-bit integer columns. Values
// that do not fit are null.
func (i Int) Int32Value() any {
	if !i.Valid || i.V > math.MaxInt32 || i.V < math.MinInt32 {
		return nil
	}
	return int32(i.V)
}

// Float is a double-precision cell. NaN and infinities are null.
type Float struct {
	V     float64
	Valid bool
}

func (f *Float) UnmarshalCSV(b []byte) error {
	*f = Float{}
	raw := strings.TrimSpace(string(b))
	if IsNull(raw) {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*f = Float{V: v, Valid: true}
	return nil
}

// Value returns the float64, or nil when null.
func (f Float) Value() any {
	if !f.Valid {
		return nil
	}
	return f.V
}

// Decimal is a fixed-point cell kept as its validated literal so NUMERIC
// columns receive the digits exactly as written.
type Decimal struct {
	V     string
	Valid bool
}

func (d *Decimal) UnmarshalCSV(b []byte) error {
	*d = Decimal{}
	raw := strings.TrimSpace(string(b))
	if IsNull(raw) {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*d = Decimal{V: raw, Valid: true}
	return nil
}

// Value returns the decimal literal, or nil when null.
func (d Decimal) Value() any {
	if !d.Valid {
		return nil
	}
	return d.V
}

var (
	trueWords  = map[string]bool{"true": true, "t": true, "yes": true, "y": true, "1": true, "on": true}
	falseWords = map[string]bool{"false": true, "f": true, "no": true, "n": true, "0": true, "off": true}
)

// Bool is a boolean cell. Unrecognised words are null.
type Bool struct {
	V     bool
	Valid bool
}

func (v *Bool) UnmarshalCSV(b []byte) error {
	*v = Bool{}
	raw := strings.ToLower(strings.TrimSpace(string(b)))
	switch {
	case trueWords[raw]:
		*v = Bool{V: true, Valid: true}
	case falseWords[raw]:
		*v = Bool{V: false, Valid: true}
	case raw == "1.0":
		*v = Bool{V: true, Valid: true}
	case raw == "0.0":
		*v = Bool{V: false, Valid: true}
	}
	return nil
}

// Value returns the bool, or nil when null.
func (v Bool) Value() any {
	if !v.Valid {
		return nil
	}
	return v.V
}

// timeLayouts are tried in order. Layouts without a zone are read as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// Time is a timestamp cell.
type Time struct {
	V     time.Time
	Valid bool
}

func (t *Time) UnmarshalCSV(b []byte) error {
	*t = Time{}
	raw := strings.TrimSpace(string(b))
	if IsNull(raw) {
		return nil
	}
	if v, ok := ParseTime(raw); ok {
		*t = Time{V: v, Valid: true}
	}
	return nil
}

// Value returns the time.Time, or nil when null.
func (t Time) Value() any {
	if !t.Valid {
		return nil
	}
	return t.V
}

// ParseTime parses raw with the first matching layout.
func ParseTime(raw string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if v, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return v, true
		}
	}
	return time.Time{}, false
}
