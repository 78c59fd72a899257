package model

import (
	"encoding/json"
	"fmt"
	"math"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Field names recognised inside a parameter object.
const (
	FieldType     = "type"
	FieldValue    = "value"
	FieldDefault  = "default"
	FieldAuto     = "auto"
	FieldOptions  = "options"
	FieldRange    = "range"
	FieldAdvanced = "advanced"
)

// Parameter is a single named setting as stored in a section:
//
//	{
//	    "type": "float",
//	    "value": 0.5,
//	    "default": 1.0,
//	    "auto": false,
//	    "range": [0.0, 1.0]
//	}
//
// Parameter keeps every field as raw JSON in document order, so fields this
// package does not know about survive a load/save round-trip untouched and
// unmodified numbers keep their original spelling. The typed accessors decode
// on demand.
//
// The presence of the "auto" field is the only signal that auto mode is
// supported. See Auto.
type Parameter struct {
	fields *orderedmap.OrderedMap[string, json.RawMessage]
	raw    json.RawMessage
}

// NewParameter creates a parameter of kind k whose value and default are both
// def.
//
// Example:
//
//	p, err := NewParameter(KindInt, 10)
//	// {"type": "int", "value": 10, "default": 10}
func NewParameter(k Kind, def any) (*Parameter, error) {
	p := &Parameter{fields: orderedmap.New[string, json.RawMessage]()}
	p.fields.Set(FieldType, mustMarshal(string(k)))

	v, err := p.check(def)
	if err != nil {
		return nil, err
	}
	raw, err := encodeValue(k, v)
	if err != nil {
		return nil, err
	}
	p.fields.Set(FieldValue, raw)
	p.fields.Set(FieldDefault, raw)
	return p, nil
}

func (p *Parameter) init() {
	if p.fields == nil {
		p.fields = orderedmap.New[string, json.RawMessage]()
	}
}

// Field returns the raw JSON stored under name.
func (p *Parameter) Field(name string) (json.RawMessage, bool) {
	if p == nil || p.fields == nil {
		return nil, false
	}
	return p.fields.Get(name)
}

// SetField stores raw JSON under name. New fields are appended after the
// existing ones.
func (p *Parameter) SetField(name string, raw json.RawMessage) {
	p.init()
	p.fields.Set(name, raw)
}

// DeleteField removes name from the parameter.
func (p *Parameter) DeleteField(name string) {
	if p.fields != nil {
		p.fields.Delete(name)
	}
}

// Fields returns the field names in document order.
func (p *Parameter) Fields() []string {
	if p == nil || p.fields == nil {
		return nil
	}
	names := make([]string, 0, p.fields.Len())
	for pair := p.fields.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Type returns the parameter's kind. A missing "type" field means
// KindString. The result may be an unrecognised kind; check it with Valid.
func (p *Parameter) Type() Kind {
	raw, ok := p.Field(FieldType)
	if !ok {
		return KindString
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return Kind(string(raw))
	}
	return Kind(s)
}

// Value returns the stored "value" decoded for the parameter's kind.
// The second result is false when the field is missing or null.
func (p *Parameter) Value() (any, bool) {
	raw, ok := p.Field(FieldValue)
	if !ok {
		return nil, false
	}
	return decodeValue(p.Type(), raw)
}

// HasValue reports whether the parameter has a "value" field.
func (p *Parameter) HasValue() bool {
	_, ok := p.Field(FieldValue)
	return ok
}

// Default returns the stored "default" decoded for the parameter's kind.
// It ignores "auto" and "value" entirely.
func (p *Parameter) Default() (any, bool) {
	raw, ok := p.Field(FieldDefault)
	if !ok {
		return nil, false
	}
	return decodeValue(p.Type(), raw)
}

// Auto reports whether auto mode is enabled and whether it is supported at
// all. A parameter without an "auto" field never supports it, whatever else
// is stored.
func (p *Parameter) Auto() (enabled, supported bool) {
	raw, ok := p.Field(FieldAuto)
	if !ok {
		return false, false
	}
	v, err := decodeRaw(raw)
	if err != nil {
		return false, true
	}
	return truthy(v), true
}

// Effective resolves the value a consumer should use:
//   - auto mode enabled: absent, the consumer computes the value itself
//   - "value" present: the value (absent if it is null)
//   - otherwise: the default
func (p *Parameter) Effective() (any, bool) {
	if enabled, _ := p.Auto(); enabled {
		return nil, false
	}
	if p.HasValue() {
		return p.Value()
	}
	return p.Default()
}

// Options returns the allowed choices of a dropdown parameter.
func (p *Parameter) Options() []string {
	raw, ok := p.Field(FieldOptions)
	if !ok {
		return nil
	}
	var opts []string
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil
	}
	return opts
}

// Range returns the numeric bounds of an int or float parameter. Missing
// bounds are nil.
func (p *Parameter) Range() Range {
	raw, ok := p.Field(FieldRange)
	if !ok {
		return Range{}
	}
	var bounds []*float64
	if err := json.Unmarshal(raw, &bounds); err != nil {
		return Range{}
	}
	var r Range
	if len(bounds) > 0 {
		r.Min = bounds[0]
	}
	if len(bounds) > 1 {
		r.Max = bounds[1]
	}
	return r
}

// Advanced reports the "advanced" visibility hint.
func (p *Parameter) Advanced() bool {
	raw, ok := p.Field(FieldAdvanced)
	if !ok {
		return false
	}
	v, err := decodeRaw(raw)
	if err != nil {
		return false
	}
	return truthy(v)
}

// SetValue checks v against the parameter's kind, range and options and
// stores it as the new "value". Colours are normalised to "#rrggbb".
func (p *Parameter) SetValue(v any) error {
	checked, err := p.check(v)
	if err != nil {
		return err
	}
	raw, err := encodeValue(p.Type(), checked)
	if err != nil {
		return err
	}
	p.SetField(FieldValue, raw)
	return nil
}

// SetAuto turns auto mode on or off. It fails with ErrAutoUnsupported when
// the parameter has no "auto" field.
func (p *Parameter) SetAuto(enabled bool) error {
	if _, supported := p.Auto(); !supported {
		return ErrAutoUnsupported
	}
	p.SetField(FieldAuto, mustMarshal(enabled))
	return nil
}

// Reset restores "value" from "default" and, when auto mode is supported,
// switches it off. Without a default the value is removed, so that reads
// fall back to the (missing) default as well.
func (p *Parameter) Reset() {
	if def, ok := p.Field(FieldDefault); ok {
		p.SetField(FieldValue, append(json.RawMessage(nil), def...))
	} else {
		p.DeleteField(FieldValue)
	}
	if _, supported := p.Auto(); supported {
		p.SetField(FieldAuto, mustMarshal(false))
	}
}

// Opaque reports whether the section entry was not a JSON object. Opaque
// entries are written back verbatim and are never looked up as parameters.
func (p *Parameter) Opaque() bool {
	return p != nil && p.raw != nil
}

// Clone returns a deep copy of p.
func (p *Parameter) Clone() *Parameter {
	c := &Parameter{fields: orderedmap.New[string, json.RawMessage]()}
	if p == nil {
		return c
	}
	if p.raw != nil {
		c.raw = append(json.RawMessage(nil), p.raw...)
	}
	if p.fields == nil {
		return c
	}
	for pair := p.fields.Oldest(); pair != nil; pair = pair.Next() {
		c.fields.Set(pair.Key, append(json.RawMessage(nil), pair.Value...))
	}
	return c
}

// check converts v to the parameter's kind and enforces range, options and
// colour syntax.
func (p *Parameter) check(v any) (any, error) {
	k := p.Type()
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParameterType, string(k))
	}

	typed, err := coerce(k, v)
	if err != nil {
		return nil, err
	}

	switch k {
	case KindInt:
		if r := p.Range(); !r.Contains(float64(typed.(int64))) {
			return nil, fmt.Errorf("%w: %d not in %s", ErrOutOfRange, typed, r)
		}
	case KindFloat:
		if r := p.Range(); !r.Contains(typed.(float64)) {
			return nil, fmt.Errorf("%w: %v not in %s", ErrOutOfRange, typed, r)
		}
	case KindColor:
		return NormalizeColor(typed.(string))
	case KindDropdown:
		if opts := p.Options(); len(opts) > 0 && !contains(opts, typed.(string)) {
			return nil, fmt.Errorf("%w: %q", ErrNotAnOption, typed)
		}
	case KindString, KindBool:
	}
	return typed, nil
}

// MarshalJSON implements json.Marshaler.
func (p *Parameter) MarshalJSON() ([]byte, error) {
	if p.raw != nil {
		return p.raw, nil
	}
	p.init()
	return p.fields.MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler. Anything other than an object
// is kept as an opaque entry.
func (p *Parameter) UnmarshalJSON(data []byte) error {
	p.fields = orderedmap.New[string, json.RawMessage]()
	p.raw = nil
	if !isObject(data) {
		p.raw = append(json.RawMessage(nil), data...)
		return nil
	}
	return p.fields.UnmarshalJSON(data)
}

// Range bounds a numeric parameter. Either bound may be unset.
type Range struct {
	Min *float64
	Max *float64
}

// Contains reports whether f lies within the bounds, inclusive.
func (r Range) Contains(f float64) bool {
	if math.IsNaN(f) {
		return false
	}
	if r.Min != nil && f < *r.Min {
		return false
	}
	if r.Max != nil && f > *r.Max {
		return false
	}
	return true
}

func (r Range) String() string {
	bound := func(b *float64) string {
		if b == nil {
			return "null"
		}
		return fmt.Sprint(*b)
	}
	return "[" + bound(r.Min) + ", " + bound(r.Max) + "]"
}

// truthy follows JSON-ish truthiness: false, 0, "", null and empty
// containers are false.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
