package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies how a parameter's value and default are typed and edited.
//
// The set of kinds is closed. Code that handles parameters switches over the
// constants below; anything else found in a document is reported as
// ErrUnknownParameterType by validation instead of being edited as text.
type Kind string

const (
	// KindString is free text.
	KindString Kind = "string"
	// KindInt is a whole number, optionally bounded by a Range.
	KindInt Kind = "int"
	// KindFloat is a floating point number, optionally bounded by a Range.
	KindFloat Kind = "float"
	// KindBool is true or false.
	KindBool Kind = "bool"
	// KindColor is a colour stored as "#rrggbb".
	KindColor Kind = "color"
	// KindDropdown is one string out of the parameter's Options.
	KindDropdown Kind = "dropdown"
)

// Kinds lists every recognised kind in display order.
var Kinds = []Kind{KindString, KindInt, KindFloat, KindBool, KindColor, KindDropdown}

// Valid reports whether k is one of the recognised kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindString, KindInt, KindFloat, KindBool, KindColor, KindDropdown:
		return true
	}
	return false
}

// Numeric reports whether k carries a number and may have a Range.
func (k Kind) Numeric() bool {
	return k == KindInt || k == KindFloat
}

// ParseValue converts user supplied text into a value of kind k.
//
// The result has the Go type used for that kind everywhere in this package:
//   - KindString, KindDropdown: string
//   - KindInt: int64
//   - KindFloat: float64
//   - KindBool: bool
//   - KindColor: string, normalised to "#rrggbb"
//
// Example:
//
//	v, err := ParseValue(KindInt, "42")   // int64(42)
//	v, err := ParseValue(KindColor, "red") // "#ff0000"
func ParseValue(k Kind, text string) (any, error) {
	switch k {
	case KindString, KindDropdown:
		return text, nil
	case KindInt:
		i, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an int", ErrTypeMismatch, text)
		}
		return i, nil
	case KindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a float", ErrTypeMismatch, text)
		}
		return f, nil
	case KindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a bool", ErrTypeMismatch, text)
		}
		return b, nil
	case KindColor:
		return NormalizeColor(text)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownParameterType, string(k))
	}
}

// coerce converts a decoded JSON value or a Go value into the type used for k.
func coerce(k Kind, v any) (any, error) {
	switch k {
	case KindInt:
		switch n := v.(type) {
		case json.Number:
			if i, err := n.Int64(); err == nil {
				return i, nil
			}
			f, err := n.Float64()
			if err != nil {
				return nil, fmt.Errorf("%w: %s is not a number", ErrTypeMismatch, n)
			}
			return integral(f)
		case int:
			return int64(n), nil
		case int32:
			return int64(n), nil
		case int64:
			return n, nil
		case float64:
			return integral(n)
		}
	case KindFloat:
		switch n := v.(type) {
		case json.Number:
			f, err := n.Float64()
			if err != nil {
				return nil, fmt.Errorf("%w: %s is not a number", ErrTypeMismatch, n)
			}
			return f, nil
		case int:
			return float64(n), nil
		case int32:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case float32:
			return float64(n), nil
		case float64:
			return n, nil
		}
	case KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case KindString, KindDropdown, KindColor:
		if s, ok := v.(string); ok {
			return s, nil
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownParameterType, string(k))
	}
	return nil, fmt.Errorf("%w: %s parameter cannot hold %T", ErrTypeMismatch, k, v)
}

func integral(f float64) (any, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %v is not a whole number", ErrTypeMismatch, f)
	}
	return int64(f), nil
}

// decodeRaw decodes raw JSON keeping numbers as json.Number.
func decodeRaw(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// decodeValue decodes a stored value for kind k. Values that do not match
// the kind are still returned, in their plain JSON shape.
func decodeValue(k Kind, raw json.RawMessage) (any, bool) {
	v, err := decodeRaw(raw)
	if err != nil || v == nil {
		return nil, false
	}
	if typed, err := coerce(k, v); err == nil {
		return typed, true
	}
	return plain(v), true
}

// plain replaces json.Number with int64 or float64, recursively.
func plain(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case []any:
		for i := range t {
			t[i] = plain(t[i])
		}
	case map[string]any:
		for k := range t {
			t[k] = plain(t[k])
		}
	}
	return v
}

// encodeValue renders v for kind k. Floats always carry a decimal point so
// that a float parameter set to 1 is written back as 1.0.
func encodeValue(k Kind, v any) (json.RawMessage, error) {
	if f, ok := v.(float64); ok && k == KindFloat {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: %v cannot be stored", ErrTypeMismatch, f)
		}
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return json.RawMessage(s), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return data, nil
}
