package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Section is a named group of parameters, shown as one tab by an editor.
// Parameters keep their document order.
//
// An entry of a block that is not a JSON object, such as a hand-written
// "_comment" string, is decoded as an opaque Section: it holds no
// parameters, is skipped by lookups and is written back verbatim.
type Section struct {
	params *orderedmap.OrderedMap[string, *Parameter]
	raw    json.RawMessage
}

// NewSection returns an empty section.
func NewSection() *Section {
	return &Section{params: orderedmap.New[string, *Parameter]()}
}

func (s *Section) init() {
	if s.params == nil {
		s.params = orderedmap.New[string, *Parameter]()
	}
}

// Opaque reports whether the entry was not a JSON object.
func (s *Section) Opaque() bool {
	return s != nil && s.raw != nil
}

// Names returns the parameter names in document order, including opaque
// entries.
func (s *Section) Names() []string {
	if s == nil || s.params == nil {
		return nil
	}
	names := make([]string, 0, s.params.Len())
	for pair := s.params.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Len returns the number of parameters.
func (s *Section) Len() int {
	if s == nil || s.params == nil {
		return 0
	}
	return s.params.Len()
}

// Parameter looks up a parameter by name. Null and opaque entries count as
// missing.
func (s *Section) Parameter(name string) (*Parameter, bool) {
	if s == nil || s.params == nil {
		return nil, false
	}
	p, ok := s.params.Get(name)
	if !ok || p == nil || p.Opaque() {
		return nil, false
	}
	return p, true
}

// Set adds or replaces a parameter. Replacing keeps the original position.
// Setting a parameter on an opaque section turns it into a regular one.
func (s *Section) Set(name string, p *Parameter) {
	s.raw = nil
	s.init()
	s.params.Set(name, p)
}

// Clone returns a deep copy of s.
func (s *Section) Clone() *Section {
	c := NewSection()
	if s == nil {
		return c
	}
	if s.raw != nil {
		c.raw = append(json.RawMessage(nil), s.raw...)
	}
	if s.params == nil {
		return c
	}
	for pair := s.params.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == nil {
			c.params.Set(pair.Key, nil)
			continue
		}
		c.params.Set(pair.Key, pair.Value.Clone())
	}
	return c
}

// MarshalJSON implements json.Marshaler.
func (s *Section) MarshalJSON() ([]byte, error) {
	if s.raw != nil {
		return s.raw, nil
	}
	s.init()
	return s.params.MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler. Anything other than an object
// is kept as an opaque entry.
func (s *Section) UnmarshalJSON(data []byte) error {
	s.params = orderedmap.New[string, *Parameter]()
	s.raw = nil
	if !isObject(data) {
		s.raw = append(json.RawMessage(nil), data...)
		return nil
	}
	return s.params.UnmarshalJSON(data)
}

func isObject(data []byte) bool {
	data = bytes.TrimLeft(data, " \t\r\n")
	return len(data) > 0 && data[0] == '{'
}

// Block is the unit that is loaded and saved: a mapping from section name to
// Section, in document order.
//
// A Block also resolves parameters by path, the same way a consumer asks the
// store for a setting:
//
//	block.Get("display", "opacity")     // effective value, honouring auto
//	block.Default("display", "opacity") // stored default
//
// A path addresses a parameter as [section, parameter]. Any other path, or a
// path whose keys do not exist, resolves to absent and never fails.
type Block struct {
	sections *orderedmap.OrderedMap[string, *Section]
}

// NewBlock returns an empty block.
func NewBlock() *Block {
	return &Block{sections: orderedmap.New[string, *Section]()}
}

// ParseBlock decodes a block from JSON.
func ParseBlock(data []byte) (*Block, error) {
	b := NewBlock()
	if err := json.Unmarshal(data, b); err != nil {
		return nil, fmt.Errorf("parse block: %w", err)
	}
	return b, nil
}

func (b *Block) init() {
	if b.sections == nil {
		b.sections = orderedmap.New[string, *Section]()
	}
}

// Names returns the section names in document order, including opaque
// entries.
func (b *Block) Names() []string {
	if b == nil || b.sections == nil {
		return nil
	}
	names := make([]string, 0, b.sections.Len())
	for pair := b.sections.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Len returns the number of sections.
func (b *Block) Len() int {
	if b == nil || b.sections == nil {
		return 0
	}
	return b.sections.Len()
}

// Section looks up a section by name. Null and opaque entries count as
// missing.
func (b *Block) Section(name string) (*Section, bool) {
	if b == nil || b.sections == nil {
		return nil, false
	}
	s, ok := b.sections.Get(name)
	if !ok || s == nil || s.Opaque() {
		return nil, false
	}
	return s, true
}

// Set adds or replaces a section. Replacing keeps the original position.
func (b *Block) Set(name string, s *Section) {
	b.init()
	b.sections.Set(name, s)
}

// Parameter looks up a parameter by section and name.
func (b *Block) Parameter(section, name string) (*Parameter, bool) {
	s, ok := b.Section(section)
	if !ok {
		return nil, false
	}
	return s.Parameter(name)
}

// Get returns the effective value of the parameter at path. It is absent
// when the path does not resolve or auto mode is enabled. See
// Parameter.Effective.
func (b *Block) Get(path ...string) (any, bool) {
	p, ok := b.lookup(path)
	if !ok {
		return nil, false
	}
	return p.Effective()
}

// Default returns the stored default of the parameter at path, ignoring
// auto mode and the current value.
func (b *Block) Default(path ...string) (any, bool) {
	p, ok := b.lookup(path)
	if !ok {
		return nil, false
	}
	return p.Default()
}

func (b *Block) lookup(path []string) (*Parameter, bool) {
	if len(path) != 2 {
		return nil, false
	}
	return b.Parameter(path[0], path[1])
}

// Clone returns a deep copy of b.
func (b *Block) Clone() *Block {
	c := NewBlock()
	if b == nil || b.sections == nil {
		return c
	}
	for pair := b.sections.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == nil {
			c.sections.Set(pair.Key, nil)
			continue
		}
		c.sections.Set(pair.Key, pair.Value.Clone())
	}
	return c
}

// MarshalJSON implements json.Marshaler.
func (b *Block) MarshalJSON() ([]byte, error) {
	b.init()
	return b.sections.MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler. The input must be an object;
// entries that are not objects become opaque sections.
func (b *Block) UnmarshalJSON(data []byte) error {
	b.sections = orderedmap.New[string, *Section]()
	return b.sections.UnmarshalJSON(data)
}
