package statstables

import (
	"fmt"
	"math"
	"strconv"
)

type valueKind uint8

const (
	kindMissing valueKind = iota
	kindNumber
	kindString
)

// Value is a single raw datum: a number, a string, or missing.
// The zero Value is missing.
type Value struct {
	kind valueKind
	num  float64
	str  string
}

// Num returns a numeric Value. NaN is treated as missing.
func Num(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: kindNumber, num: f}
}

// Str returns a string Value.
func Str(s string) Value { return Value{kind: kindString, str: s} }

// Missing returns the missing-value sentinel.
func Missing() Value { return Value{} }

// ValueOf converts common Go values: nil becomes missing, integer and float
// types become numbers, strings stay strings, and anything else is rendered
// with fmt into a string Value.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Missing()
	case Value:
		return x
	case float64:
		return Num(x)
	case float32:
		return Num(float64(x))
	case int:
		return Num(float64(x))
	case int8:
		return Num(float64(x))
	case int16:
		return Num(float64(x))
	case int32:
		return Num(float64(x))
	case int64:
		return Num(float64(x))
	case uint:
		return Num(float64(x))
	case uint8:
		return Num(float64(x))
	case uint16:
		return Num(float64(x))
	case uint32:
		return Num(float64(x))
	case uint64:
		return Num(float64(x))
	case string:
		return Str(x)
	case fmt.Stringer:
		return Str(x.String())
	default:
		return Str(fmt.Sprint(x))
	}
}

// Values converts each element with [ValueOf].
func Values(vs ...any) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = ValueOf(v)
	}
	return out
}

// Floats wraps a float slice, mapping NaN to missing.
func Floats(fs ...float64) []Value {
	out := make([]Value, len(fs))
	for i, f := range fs {
		out[i] = Num(f)
	}
	return out
}

// IsMissing reports whether v is the missing sentinel.
func (v Value) IsMissing() bool { return v.kind == kindMissing }

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool { return v.kind == kindNumber }

// IsString reports whether v holds a string.
func (v Value) IsString() bool { return v.kind == kindString }

// Float returns the numeric value and whether v is a number.
func (v Value) Float() (float64, bool) { return v.num, v.kind == kindNumber }

// Text returns the string value and whether v is a string.
func (v Value) Text() (string, bool) { return v.str, v.kind == kindString }

// String implements fmt.Stringer for debugging; it is not the display form.
func (v Value) String() string {
	switch v.kind {
	case kindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case kindString:
		return v.str
	default:
		return "<missing>"
	}
}

// ParseValue interprets raw text from a file: empty text and the common
// missing markers ("NA", "NaN", "null") become missing, text that parses as
// a float becomes a number, anything else stays a string.
func ParseValue(s string) Value {
	switch s {
	case "", "NA", "N/A", "NaN", "nan", "null", "NULL":
		return Missing()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Num(f)
	}
	return Str(s)
}
