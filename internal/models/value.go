// ABOUTME: Tagged Value type for day-entry values (null, number, or boolean).
// ABOUTME: Includes JSON/YAML codecs and boundary parsing from text and decoded JSON.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValueKind discriminates the Value union.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindNumber
	KindBool
)

// Value is a single logged value: Null, a number, or a boolean.
// The zero Value is Null.
type Value struct {
	kind ValueKind
	num  float64
	b    bool
}

// Null is the absent value.
var Null = Value{}

// Number returns a numeric Value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Bool returns a boolean Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Kind returns the value's discriminator.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether no value is recorded.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float returns the numeric payload and whether the value is a number.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Boolean returns the boolean payload and whether the value is a boolean.
func (v Value) Boolean() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Present reports whether the value counts toward a streak: true, or a number above zero.
func (v Value) Present() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.num > 0
	}
	return false
}

// Matches reports whether the value may be stored under a metric of type t.
// Null matches every type.
func (v Value) Matches(t MetricType) bool {
	switch v.kind {
	case KindNull:
		return true
	case KindNumber:
		return t == MetricNumber
	case KindBool:
		return t == MetricBoolean
	}
	return false
}

// String renders the value for display.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	}
	return ""
}

// Interface returns nil, float64, or bool.
func (v Value) Interface() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	}
	return nil
}

// MarshalJSON encodes the value as null, a number, or a boolean.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return nil, fmt.Errorf("marshal value: non-finite number")
		}
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts null, a number, or a boolean.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = Null
	case bytes.Equal(data, []byte("true")):
		*v = Bool(true)
	case bytes.Equal(data, []byte("false")):
		*v = Bool(false)
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("%w: %s", ErrValueType, string(data))
		}
		*v = Number(f)
	}
	return nil
}

// MarshalYAML encodes the value as a YAML null, float, or bool.
func (v Value) MarshalYAML() (any, error) {
	return v.Interface(), nil
}

// UnmarshalYAML accepts a YAML null, number, or bool scalar.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d", ErrValueType, node.Line)
	}
	switch node.Tag {
	case "!!null":
		*v = Null
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		*v = Bool(b)
	case "!!int", "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return err
		}
		*v = Number(f)
	default:
		return fmt.Errorf("%w: %q", ErrValueType, node.Value)
	}
	return nil
}

// ParseValue converts free text into a Value for a metric of type t.
// Empty text and "null" yield Null.
func ParseValue(t MetricType, raw string) (Value, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" || s == "null" {
		return Null, nil
	}
	switch t {
	case MetricBoolean:
		switch s {
		case "true", "yes", "y", "1", "on", "done":
			return Bool(true), nil
		case "false", "no", "n", "0", "off":
			return Bool(false), nil
		}
		return Null, fmt.Errorf("%w: %q is not a yes/no value", ErrValueType, raw)
	case MetricNumber:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return Null, fmt.Errorf("%w: %q is not a number", ErrValueType, raw)
		}
		return Number(f), nil
	}
	return Null, fmt.Errorf("%w: unknown metric type %q", ErrValueType, t)
}

// CoerceValue converts a decoded JSON value (nil, bool, float64, int, or string)
// into a Value for a metric of type t.
func CoerceValue(t MetricType, raw any) (Value, error) {
	var v Value
	switch x := raw.(type) {
	case nil:
		return Null, nil
	case Value:
		v = x
	case bool:
		v = Bool(x)
	case float64:
		v = Number(x)
	case float32:
		v = Number(float64(x))
	case int:
		v = Number(float64(x))
	case int64:
		v = Number(float64(x))
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Null, fmt.Errorf("%w: %q", ErrValueType, x.String())
		}
		v = Number(f)
	case string:
		return ParseValue(t, x)
	default:
		return Null, fmt.Errorf("%w: unsupported %T", ErrValueType, raw)
	}

	// A boolean metric logged as 0/1 is common from chat input.
	if t == MetricBoolean && v.kind == KindNumber && (v.num == 0 || v.num == 1) {
		return Bool(v.num == 1), nil
	}
	if !v.Matches(t) {
		return Null, fmt.Errorf("%w: %v for %s metric", ErrValueType, raw, t)
	}
	return v, nil
}
