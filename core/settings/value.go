package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"feature-manifest/core/utils"
)

// ErrUnsupportedValue is returned when a raw value cannot be represented as a Value.
var ErrUnsupportedValue = errors.New("unsupported setting value")

// Kind is the type tag of a Value.
type Kind uint8

const (
	// KindAbsent marks a key that is not present in a settings mapping.
	KindAbsent Kind = iota
	KindNull
	KindString
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "absent"
	}
}

// Value is an immutable setting value. The zero Value is Absent.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

// Absent is returned by Settings.Get for keys that are not present.
var Absent = Value{}

// String creates a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number creates a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Bool creates a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Null creates an explicit null value. Null is present, unlike Absent.
func Null() Value { return Value{kind: KindNull} }

// Kind returns the type tag.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v is the Absent sentinel.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Num returns the numeric payload and whether v is a number.
func (v Value) Num() (float64, bool) { return v.num, v.kind == KindNumber }

// Truth returns the boolean payload and whether v is a bool.
func (v Value) Truth() (bool, bool) { return v.b, v.kind == KindBool }

// Equal reports whether both values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	default:
		return true
	}
}

// String renders the value the way it would appear in a query string.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNull:
		return "null"
	default:
		return ""
	}
}

// Any returns the Go representation of the value (nil for null and absent).
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	default:
		return nil
	}
}

// MarshalJSON encodes the value as the matching JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// UnmarshalJSON decodes a JSON scalar. Objects and arrays are rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// FromAny converts a decoded scalar (YAML, JSON, database column) into a Value.
func FromAny(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v, nil
	case string:
		return String(v), nil
	case []byte:
		return String(utils.ToString(v)), nil
	case bool:
		return Bool(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil || !finite(f) {
			return Absent, fmt.Errorf("%w: %q", ErrUnsupportedValue, v.String())
		}
		return Number(f), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		f := utils.ToFloat(v)
		if !finite(f) {
			return Absent, fmt.Errorf("%w: %v", ErrUnsupportedValue, v)
		}
		return Number(f), nil
	default:
		return Absent, fmt.Errorf("%w: %T", ErrUnsupportedValue, raw)
	}
}

// Parse interprets a raw text value such as a query parameter or a --set flag.
// "true" and "false" become booleans, "null" becomes Null, numerals become numbers
// and everything else stays a string. NaN and infinities are not numerals.
func Parse(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	switch strings.ToLower(trimmed) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	case "null":
		return Null()
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && trimmed != "" && finite(f) {
		return Number(f)
	}
	return String(raw)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
