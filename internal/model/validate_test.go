package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		block   string
		wantErr error
	}{
		{
			name:  "valid",
			block: uiBlock,
		},
		{
			name:    "unknown type",
			block:   `{"s": {"p": {"type": "slider", "value": 1}}}`,
			wantErr: ErrUnknownParameterType,
		},
		{
			name:    "dropdown without options",
			block:   `{"s": {"p": {"type": "dropdown", "value": "a"}}}`,
			wantErr: ErrMissingOptions,
		},
		{
			name:    "empty option",
			block:   `{"s": {"p": {"type": "dropdown", "value": "a", "options": ["a", ""]}}}`,
			wantErr: ErrNotAnOption,
		},
		{
			name:    "value not an option",
			block:   `{"s": {"p": {"type": "dropdown", "value": "z", "default": "a", "options": ["a", "b"]}}}`,
			wantErr: ErrNotAnOption,
		},
		{
			name:    "out of range",
			block:   `{"s": {"p": {"type": "int", "value": 20, "default": 5, "range": [0, 10]}}}`,
			wantErr: ErrOutOfRange,
		},
		{
			name:    "bad default colour",
			block:   `{"s": {"p": {"type": "color", "value": "#000000", "default": "nocolor"}}}`,
			wantErr: ErrInvalidColor,
		},
		{
			name:    "type mismatch",
			block:   `{"s": {"p": {"type": "bool", "value": "yes"}}}`,
			wantErr: ErrTypeMismatch,
		},
		{
			name:    "null parameter",
			block:   `{"s": {"p": null}}`,
			wantErr: ErrNotAnObject,
		},
		{
			name:    "scalar parameter",
			block:   `{"s": {"p": 3}}`,
			wantErr: ErrNotAnObject,
		},
		{
			name:  "null value is allowed",
			block: `{"s": {"p": {"type": "int", "value": null, "default": 1}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ParseBlock([]byte(tt.block))
			require.NoError(t, err)

			err = Validate(b)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)

			var perr *ParamError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, "s", perr.Section)
			assert.Equal(t, "p", perr.Name)
		})
	}
}

func TestValidate_ReportsEveryParameter(t *testing.T) {
	b, err := ParseBlock([]byte(`{
		"a": {"x": {"type": "slider"}},
		"b": {"y": {"type": "int", "value": 1.5}}
	}`))
	require.NoError(t, err)

	err = Validate(b)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownParameterType)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.Contains(t, err.Error(), "a/x")
	assert.Contains(t, err.Error(), "b/y")
}
