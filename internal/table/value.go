package table

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumeric
	KindTemporal
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumeric:
		return "numeric"
	case KindTemporal:
		return "temporal"
	case KindOther:
		return "other"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a single cell. The zero Value is Null.
type Value struct {
	kind Kind
	num  float64
	ts   time.Time
	text string
}

// Null returns the null marker.
func Null() Value { return Value{} }

// Numeric wraps a number. NaN carries no value and is stored as Null.
func Numeric(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: KindNumeric, num: f}
}

// Temporal wraps a point in time.
func Temporal(t time.Time) Value { return Value{kind: KindTemporal, ts: t} }

// Other wraps any text that is neither numeric nor temporal. The empty string is a value, not null.
func Other(s string) Value { return Value{kind: KindOther, text: s} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float returns the number held by a Numeric value.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumeric {
		return 0, false
	}
	return v.num, true
}

// Time returns the instant held by a Temporal value.
func (v Value) Time() (time.Time, bool) {
	if v.kind != KindTemporal {
		return time.Time{}, false
	}
	return v.ts, true
}

// Text returns the string held by an Other value.
func (v Value) Text() (string, bool) {
	if v.kind != KindOther {
		return "", false
	}
	return v.text, true
}

// String renders the value for reports. Null renders as "null".
func (v Value) String() string {
	switch v.kind {
	case KindNumeric:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindTemporal:
		if v.ts.Hour() == 0 && v.ts.Minute() == 0 && v.ts.Second() == 0 && v.ts.Nanosecond() == 0 {
			return v.ts.Format("2006-01-02")
		}
		return v.ts.Format(time.RFC3339)
	case KindOther:
		return v.text
	default:
		return "null"
	}
}

// MarshalText lets encoders emit the same form as String.
func (v Value) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// Key is a comparable identity for distinct counting. Every null maps to the same key.
type Key struct {
	kind Kind
	num  float64
	unix int64
	text string
}

func (v Value) Key() Key {
	switch v.kind {
	case KindNumeric:
		n := v.num
		if n == 0 {
			n = 0 // fold -0 into +0
		}
		return Key{kind: KindNumeric, num: n}
	case KindTemporal:
		return Key{kind: KindTemporal, unix: v.ts.UnixNano()}
	case KindOther:
		return Key{kind: KindOther, text: v.text}
	default:
		return Key{}
	}
}

// Compare orders two non-null values: -1, 0 or +1. Values of different kinds order by
// kind (numeric, temporal, other). Null sorts before everything; callers skip nulls.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}
	switch a.kind {
	case KindNumeric:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	case KindTemporal:
		return a.ts.Compare(b.ts)
	case KindOther:
		return strings.Compare(a.text, b.text)
	default:
		return 0
	}
}
