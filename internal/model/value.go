package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	// KindNull is the JSON null literal.
	KindNull Kind = iota

	// KindBool is a JSON true or false.
	KindBool

	// KindNumber is a JSON number, kept as its literal text.
	KindNumber

	// KindString is a JSON string.
	KindString

	// KindArray is a JSON array.
	KindArray

	// KindObject is a JSON object.
	KindObject
)

// String returns the lowercase JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a JSON value as a tagged union.
// Scan payloads are loosely shaped, so callers inspect Kind or use the
// As* accessors instead of relying on nil checks.
//
// The zero Value is null.
type Value struct {
	kind   Kind
	b      bool
	num    json.Number
	str    string
	items  []Value
	fields map[string]Value
}

// NullValue returns the null value.
func NullValue() Value {
	return Value{kind: KindNull}
}

// BoolValue wraps a boolean.
func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// NumberValue wraps a number literal.
func NumberValue(n json.Number) Value {
	return Value{kind: KindNumber, num: n}
}

// StringValue wraps a string.
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// ArrayValue wraps a list of values.
func ArrayValue(items ...Value) Value {
	return Value{kind: KindArray, items: items}
}

// ObjectValue wraps a set of named values.
// A nil map is treated as an empty object.
func ObjectValue(fields map[string]Value) Value {
	if fields == nil {
		fields = make(map[string]Value)
	}
	return Value{kind: KindObject, fields: fields}
}

// FromAny converts the result of decoding JSON into an interface{} with
// json.Decoder.UseNumber enabled.
func FromAny(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(t), nil
	case json.Number:
		return NumberValue(t), nil
	case float64:
		return NumberValue(json.Number(fmt.Sprint(t))), nil
	case string:
		return StringValue(t), nil
	case []any:
		items := make([]Value, 0, len(t))
		for _, item := range t {
			converted, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			items = append(items, converted)
		}
		return ArrayValue(items...), nil
	case map[string]any:
		fields := make(map[string]Value, len(t))
		for key, item := range t {
			converted, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			fields[key] = converted
		}
		return ObjectValue(fields), nil
	default:
		return Value{}, fmt.Errorf("unsupported JSON value of type %T", v)
	}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is the null literal.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsBool returns the boolean and true if v is a bool.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsNumber returns the number literal and true if v is a number.
func (v Value) AsNumber() (json.Number, bool) {
	return v.num, v.kind == KindNumber
}

// AsString returns the string and true if v is a string.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsArray returns the items and true if v is an array.
func (v Value) AsArray() ([]Value, bool) {
	return v.items, v.kind == KindArray
}

// AsObject returns the fields and true if v is an object.
func (v Value) AsObject() (map[string]Value, bool) {
	return v.fields, v.kind == KindObject
}

// Lookup returns the named field of an object.
// It reports false for missing keys and for values that are not objects.
func (v Value) Lookup(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	field, ok := v.fields[key]
	return field, ok
}

// Truthy reports whether v counts as set.
// null, false, numeric zero and the empty string are falsy.
// Arrays and objects are always truthy, even when empty.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindNumber:
		f, err := v.num.Float64()
		if err != nil {
			return v.num != ""
		}
		return f != 0
	case KindString:
		return v.str != ""
	case KindArray, KindObject:
		return true
	default:
		return false
	}
}

// Display renders v for a text slot the way string concatenation would
// in a browser: numbers in shortest form, arrays joined with commas and
// objects as "[object Object]".
func (v Value) Display() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return formatNumber(v.num)
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNull:
		return "null"
	case KindArray:
		parts := make([]string, len(v.items))
		for i, item := range v.items {
			if item.kind != KindNull {
				parts[i] = item.Display()
			}
		}
		return strings.Join(parts, ",")
	default:
		return "[object Object]"
	}
}

// formatNumber prints n without a trailing ".0" and switches to exponent
// notation below 1e-6 and from 1e21 up.
func formatNumber(n json.Number) string {
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return n.String()
	}

	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// MarshalJSON encodes v back into standard JSON.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		return []byte(v.num.String()), nil
	case KindString:
		return json.Marshal(v.str)
	case KindArray:
		if v.items == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.items)
	case KindObject:
		if v.fields == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.fields)
	default:
		return nil, fmt.Errorf("cannot marshal value of kind %s", v.kind)
	}
}
