package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/settings-manager/internal/model"
)

const testDocument = `{
	"ui": {
		"display": {
			"opacity": {"type": "float", "value": 0.5, "default": 1.0},
			"width": {"type": "int", "value": 7, "default": 10, "auto": true}
		}
	},
	"other": {"general": {"name": {"type": "string", "value": "x"}}}
}`

func TestSelectDocument(t *testing.T) {
	doc, err := model.ParseDocument([]byte(testDocument))
	require.NoError(t, err)

	tests := []struct {
		selector string
		want     []any
	}{
		{"$.ui.display.opacity.value", []any{0.5}},
		{"$.ui.display.width.default", []any{int64(10)}},
		{"$.other.general.name.type", []any{"string"}},
		{"$.missing.anything", []any{}},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			got, err := SelectDocument(doc, tt.selector)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestSelectDocument_Wildcard(t *testing.T) {
	doc, err := model.ParseDocument([]byte(testDocument))
	require.NoError(t, err)

	got, err := SelectDocument(doc, "$.ui.display.*.type")
	require.NoError(t, err)
	assert.ElementsMatch(t, []any{"float", "int"}, got)

	got, err = SelectDocument(doc, "$..default")
	require.NoError(t, err)
	assert.ElementsMatch(t, []any{1.0, int64(10)}, got)
}

func TestSelect_InvalidSelector(t *testing.T) {
	_, err := SelectJSON([]byte(`{}`), "$[")
	assert.Error(t, err)
}

func TestSelectJSON_InvalidJSON(t *testing.T) {
	_, err := SelectJSON([]byte(`{"a":`), "$.a")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "0.5", Format(0.5))
	assert.Equal(t, `"x"`, Format("x"))

	out := Format(map[string]any{"b": int64(2), "a": int64(1)})
	assert.JSONEq(t, `{"a": 1, "b": 2}`, out)
	assert.Contains(t, out, "\n    \"a\"")
	assert.Less(t, strings.Index(out, `"a"`), strings.Index(out, `"b"`))
}
