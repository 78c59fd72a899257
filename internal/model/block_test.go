package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const uiBlock = `{
	"display": {
		"opacity": {"type": "float", "value": 0.5, "default": 1.0},
		"width": {"type": "int", "value": 7, "default": 10, "auto": true},
		"title": {"type": "string", "default": "untitled"}
	},
	"colors": {
		"line": {"type": "color", "value": "#1f77b4", "default": "#ff7f0e"}
	}
}`

func TestBlock_Get(t *testing.T) {
	b, err := ParseBlock([]byte(uiBlock))
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   []string
		want   any
		wantOK bool
	}{
		{"value", []string{"display", "opacity"}, 0.5, true},
		{"auto hides value", []string{"display", "width"}, nil, false},
		{"default fallback", []string{"display", "title"}, "untitled", true},
		{"colour", []string{"colors", "line"}, "#1f77b4", true},
		{"missing parameter", []string{"display", "height"}, nil, false},
		{"missing section", []string{"audio", "volume"}, nil, false},
		{"short path", []string{"display"}, nil, false},
		{"long path", []string{"display", "opacity", "value"}, nil, false},
		{"empty path", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := b.Get(tt.path...)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBlock_Default(t *testing.T) {
	b, err := ParseBlock([]byte(uiBlock))
	require.NoError(t, err)

	got, ok := b.Default("display", "opacity")
	require.True(t, ok)
	assert.Equal(t, 1.0, got)

	got, ok = b.Default("display", "width")
	require.True(t, ok)
	assert.Equal(t, int64(10), got)

	_, ok = b.Default("display", "missing")
	assert.False(t, ok)

	_, ok = b.Default("display")
	assert.False(t, ok)
}

func TestBlock_NullEntriesAreAbsent(t *testing.T) {
	b, err := ParseBlock([]byte(`{"a": null, "b": {"p": null}}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, b.Names())
	_, ok := b.Section("a")
	assert.False(t, ok)
	_, ok = b.Get("a", "p")
	assert.False(t, ok)
	_, ok = b.Get("b", "p")
	assert.False(t, ok)
}

func TestBlock_KeepsOrder(t *testing.T) {
	src := `{"zeta":{"b":{"type":"int","value":1},"a":{"type":"int","value":2}},"alpha":{}}`
	b, err := ParseBlock([]byte(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha"}, b.Names())
	s, ok := b.Section("zeta")
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, s.Names())

	out, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, src, string(out))
}

func TestBlock_Clone(t *testing.T) {
	b, err := ParseBlock([]byte(uiBlock))
	require.NoError(t, err)

	c := b.Clone()
	p, ok := c.Parameter("display", "opacity")
	require.True(t, ok)
	require.NoError(t, p.SetValue(0.25))

	got, _ := b.Get("display", "opacity")
	assert.Equal(t, 0.5, got)
	got, _ = c.Get("display", "opacity")
	assert.Equal(t, 0.25, got)
}

func TestBlock_Set(t *testing.T) {
	b := NewBlock()
	s := NewSection()
	p, err := NewParameter(KindBool, true)
	require.NoError(t, err)
	s.Set("enabled", p)
	b.Set("general", s)

	got, ok := b.Get("general", "enabled")
	require.True(t, ok)
	assert.Equal(t, true, got)
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, 1, s.Len())
}

func TestParseBlock_OpaqueEntries(t *testing.T) {
	src := `{"_comment":"edited by hand","display":{"version":3,"opacity":{"type":"float","value":0.5,"default":1.0}},"list":[1,2]}`
	b, err := ParseBlock([]byte(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"_comment", "display", "list"}, b.Names())
	_, ok := b.Section("_comment")
	assert.False(t, ok)
	_, ok = b.Section("list")
	assert.False(t, ok)

	s, ok := b.Section("display")
	require.True(t, ok)
	assert.Equal(t, []string{"version", "opacity"}, s.Names())
	_, ok = s.Parameter("version")
	assert.False(t, ok)

	_, ok = b.Get("display", "version")
	assert.False(t, ok)
	_, ok = b.Default("_comment", "x")
	assert.False(t, ok)
	v, ok := b.Get("display", "opacity")
	require.True(t, ok)
	assert.Equal(t, 0.5, v)

	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, src, string(data))

	data, err = json.Marshal(b.Clone())
	require.NoError(t, err)
	assert.Equal(t, src, string(data))
}

func TestSection_SetOnOpaque(t *testing.T) {
	b, err := ParseBlock([]byte(`{"s": "later"}`))
	require.NoError(t, err)

	p, err := NewParameter(KindInt, 1)
	require.NoError(t, err)
	b.sections.Value("s").Set("p", p)

	_, ok := b.Parameter("s", "p")
	assert.True(t, ok)
	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, `{"s":{"p":{"type":"int","value":1,"default":1}}}`, string(data))
}

func TestParseBlock_Errors(t *testing.T) {
	for _, src := range []string{`[]`, `"s"`, `{"s": {"p": 1}`, `nope`} {
		t.Run(src, func(t *testing.T) {
			_, err := ParseBlock([]byte(src))
			assert.Error(t, err)
		})
	}
}
