package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Indent is the indentation used when a document is written to disk.
const Indent = "    "

// Document is the whole settings file: a JSON object mapping block names to
// blocks.
//
// Blocks are kept as raw JSON and decoded only when asked for, so a block that
// is never touched is written back exactly as it was read (modulo
// whitespace), whatever it contains. Top-level key order is preserved.
type Document struct {
	blocks *orderedmap.OrderedMap[string, json.RawMessage]
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{blocks: orderedmap.New[string, json.RawMessage]()}
}

// ParseDocument decodes a document. The input must be valid JSON whose top
// level is an object.
//
// Example:
//
//	doc, err := ParseDocument([]byte(`{"ui": {"display": {}}}`))
//	block, err := doc.Block("ui")
func ParseDocument(data []byte) (*Document, error) {
	if !json.Valid(data) {
		return nil, errors.New("invalid JSON")
	}
	d := NewDocument()
	if err := d.blocks.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("top level must be an object: %w", err)
	}
	return d, nil
}

func (d *Document) init() {
	if d.blocks == nil {
		d.blocks = orderedmap.New[string, json.RawMessage]()
	}
}

// Names returns the block names in document order.
func (d *Document) Names() []string {
	if d == nil || d.blocks == nil {
		return nil
	}
	names := make([]string, 0, d.blocks.Len())
	for pair := d.blocks.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Len returns the number of blocks.
func (d *Document) Len() int {
	if d == nil || d.blocks == nil {
		return 0
	}
	return d.blocks.Len()
}

// Has reports whether the document contains name.
func (d *Document) Has(name string) bool {
	_, ok := d.Raw(name)
	return ok
}

// Raw returns the undecoded JSON of a block.
func (d *Document) Raw(name string) (json.RawMessage, bool) {
	if d == nil || d.blocks == nil {
		return nil, false
	}
	return d.blocks.Get(name)
}

// Block decodes the named block. It returns ErrNotFound when the document
// has no such key.
func (d *Document) Block(name string) (*Block, error) {
	raw, ok := d.Raw(name)
	if !ok {
		return nil, fmt.Errorf("block %q: %w", name, ErrNotFound)
	}
	b, err := ParseBlock(raw)
	if err != nil {
		return nil, fmt.Errorf("block %q: %w", name, err)
	}
	return b, nil
}

// EnsureBlock adds an empty block under name unless it already exists.
// It reports whether the block was created.
func (d *Document) EnsureBlock(name string) bool {
	d.init()
	if _, ok := d.blocks.Get(name); ok {
		return false
	}
	d.blocks.Set(name, json.RawMessage("{}"))
	return true
}

// SetBlock replaces the named block, or appends it if the document does not
// have one yet. Other blocks are left untouched.
func (d *Document) SetBlock(name string, b *Block) error {
	if b == nil {
		b = NewBlock()
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode block %q: %w", name, err)
	}
	d.init()
	d.blocks.Set(name, raw)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d *Document) MarshalJSON() ([]byte, error) {
	d.init()
	return d.blocks.MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Document) UnmarshalJSON(data []byte) error {
	d.blocks = orderedmap.New[string, json.RawMessage]()
	return d.blocks.UnmarshalJSON(data)
}

// Encode renders the document the way it is written to disk: indented with
// Indent, keys in document order, terminated by a newline.
func (d *Document) Encode() ([]byte, error) {
	compact, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", Indent); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
