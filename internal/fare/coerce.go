package fare

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

var nullLiteral = []byte("null")

// Number is a tolerant numeric field. It accepts JSON numbers, numeric
// strings and null. Anything else decodes as an absent value.
type Number struct {
	value float64
	valid bool
}

// NumberOf returns a present Number holding v.
func NumberOf(v float64) Number {
	return Number{value: v, valid: true}
}

// UnmarshalJSON implements json.Unmarshaler and never fails.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, nullLiteral) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*n = Number{value: v, valid: true}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.valid {
		return nullLiteral, nil
	}
	return []byte(strconv.FormatFloat(n.value, 'f', -1, 64)), nil
}

// Valid reports whether the field carried a usable number.
func (n Number) Valid() bool { return n.valid }

// Float returns the value, or zero when absent.
func (n Number) Float() float64 {
	if !n.valid {
		return 0
	}
	return n.value
}

// Int returns the value truncated toward zero, or zero when absent.
func (n Number) Int() int {
	return int(n.Float())
}

// MaxCount caps passenger counts so price lines cannot overflow.
const MaxCount = 1000

// Count returns the value as a count in [0, MaxCount]. Fractions are
// truncated toward zero, so 1.5 counts as 1.
func (n Number) Count() int {
	v := n.Float()
	switch {
	case v <= 0:
		return 0
	case v >= MaxCount:
		return MaxCount
	}
	return int(v)
}

// IntPtr returns the truncated value, or nil when absent.
func (n Number) IntPtr() *int {
	if !n.valid {
		return nil
	}
	v := int(n.value)
	return &v
}

// FloatPtr returns the value, or nil when absent.
func (n Number) FloatPtr() *float64 {
	if !n.valid {
		return nil
	}
	v := n.value
	return &v
}

// Text is a tolerant string field. Providers send codes such as flight
// numbers either as strings or as bare numbers.
type Text string

// UnmarshalJSON implements json.Unmarshaler and never fails.
func (t *Text) UnmarshalJSON(data []byte) error {
	*t = ""
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, nullLiteral) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*t = Text(strings.TrimSpace(s))
		}
	case '{', '[':
	default:
		*t = Text(data)
	}
	return nil
}

// String returns the field as a plain string.
func (t Text) String() string { return string(t) }

// Flag is a tolerant boolean. It accepts booleans, "true"/"false" strings
// and 0/1 numbers.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler and never fails.
func (f *Flag) UnmarshalJSON(data []byte) error {
	*f = false
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	switch strings.ToLower(raw) {
	case "true", "1", "y", "yes":
		*f = true
	}
	return nil
}

// Timestamp is a tolerant instant. Providers send epoch milliseconds as a
// number or numeric string; RFC 3339 strings are accepted as well.
type Timestamp struct {
	t     time.Time
	valid bool
}

// TimestampOf returns a present Timestamp holding t in UTC.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp{t: t.UTC(), valid: true}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// UnmarshalJSON implements json.Unmarshaler and never fails.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	*ts = Timestamp{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, nullLiteral) {
		return nil
	}

	if data[0] != '"' {
		var n Number
		_ = n.UnmarshalJSON(data)
		if n.Valid() {
			*ts = TimestampOf(time.UnixMilli(int64(n.Float())))
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*ts = TimestampOf(time.UnixMilli(ms))
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*ts = TimestampOf(t)
			return nil
		}
	}
	return nil
}

// Valid reports whether the field carried a usable instant.
func (ts Timestamp) Valid() bool { return ts.valid }

// Time returns the instant, or the zero time when absent.
func (ts Timestamp) Time() time.Time { return ts.t }

// Ptr returns the instant, or nil when absent.
func (ts Timestamp) Ptr() *time.Time {
	if !ts.valid {
		return nil
	}
	t := ts.t
	return &t
}

// cents converts an amount to integer cents, rounding half away from zero.
// Amounts outside the int64 range saturate; NaN converts to zero.
func cents(v float64) int64 {
	c := math.Round(v * 100)
	switch {
	case math.IsNaN(c):
		return 0
	case c >= math.MaxInt64:
		return math.MaxInt64
	case c <= math.MinInt64:
		return math.MinInt64
	}
	return int64(c)
}

// amount converts integer cents back to a decimal amount.
func amount(c int64) float64 {
	return float64(c) / 100
}
