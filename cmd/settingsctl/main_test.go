package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/settings-manager/internal/model"
	"github.com/handiism/settings-manager/internal/store"
)

const testDocument = `{
    "ui": {
        "display": {
            "opacity": {"type": "float", "value": 0.5, "default": 1.0, "range": [0.0, 1.0]},
            "width": {"type": "int", "value": 7, "default": 10, "auto": true},
            "debug": {"type": "bool", "value": false, "default": false, "advanced": true}
        },
        "colors": {
            "line": {"type": "color", "value": "#000000", "default": "#1f77b4"}
        }
    },
    "other": {}
}`

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestGetAndDefault(t *testing.T) {
	path := writeSettings(t, testDocument)

	out, _, err := run(t, "--file", path, "--block", "ui", "get", "display", "opacity")
	require.NoError(t, err)
	assert.Equal(t, "0.5\n", out)

	out, _, err = run(t, "-f", path, "-b", "ui", "default", "display", "opacity")
	require.NoError(t, err)
	assert.Equal(t, "1.0\n", out)

	out, errOut, err := run(t, "-f", path, "-b", "ui", "get", "display", "width")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "auto")

	_, _, err = run(t, "-f", path, "-b", "ui", "get", "--strict", "display", "width")
	assert.ErrorIs(t, err, errAbsent)

	_, _, err = run(t, "-f", path, "-b", "ui", "default", "--strict", "display", "missing")
	assert.ErrorIs(t, err, errAbsent)
}

func TestBlockFromEnv(t *testing.T) {
	path := writeSettings(t, testDocument)
	t.Setenv("SETTINGS_FILE", path)
	t.Setenv("SETTINGS_BLOCK", "ui")

	out, _, err := run(t, "get", "colors", "line")
	require.NoError(t, err)
	assert.Equal(t, "#000000\n", out)
}

func TestNoBlock(t *testing.T) {
	path := writeSettings(t, testDocument)
	_, _, err := run(t, "--file", path, "get", "display", "opacity")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no block selected")
}

func TestMissingFile(t *testing.T) {
	_, _, err := run(t, "--file", filepath.Join(t.TempDir(), "nope.json"), "blocks")
	var rerr *store.ReadError
	assert.ErrorAs(t, err, &rerr)
}

func TestSet(t *testing.T) {
	path := writeSettings(t, testDocument)

	out, _, err := run(t, "-f", path, "-b", "ui", "set", "display", "opacity", "0.8")
	require.NoError(t, err)
	assert.Contains(t, out, "display/opacity = 0.8")
	assert.Contains(t, out, "saved 1 change(s) to ui")

	_, _, err = run(t, "-f", path, "-b", "ui", "set", "colors", "line", "SteelBlue")
	require.NoError(t, err)

	st, err := store.New(path, "ui")
	require.NoError(t, err)
	v, _ := st.Get("display", "opacity")
	assert.Equal(t, 0.8, v)
	v, _ = st.Get("colors", "line")
	assert.Equal(t, "#4682b4", v)
	raw, ok := st.Document().Raw("other")
	require.True(t, ok)
	assert.Equal(t, "{}", string(raw))

	_, _, err = run(t, "-f", path, "-b", "ui", "set", "display", "opacity", "2")
	assert.ErrorIs(t, err, model.ErrOutOfRange)

	_, _, err = run(t, "-f", path, "-b", "ui", "set", "display", "nope", "2")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAuto(t *testing.T) {
	path := writeSettings(t, testDocument)

	_, _, err := run(t, "-f", path, "-b", "ui", "auto", "display", "width", "off")
	require.NoError(t, err)
	out, _, err := run(t, "-f", path, "-b", "ui", "get", "display", "width")
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)

	_, _, err = run(t, "-f", path, "-b", "ui", "auto", "display", "opacity", "on")
	assert.ErrorIs(t, err, model.ErrAutoUnsupported)

	_, _, err = run(t, "-f", path, "-b", "ui", "auto", "display", "width", "maybe")
	assert.Error(t, err)
}

func TestReset(t *testing.T) {
	path := writeSettings(t, testDocument)

	_, _, err := run(t, "-f", path, "-b", "ui", "reset")
	assert.Error(t, err)
	_, _, err = run(t, "-f", path, "-b", "ui", "reset", "--all", "display")
	assert.Error(t, err)

	_, _, err = run(t, "-f", path, "-b", "ui", "reset", "display", "opacity")
	require.NoError(t, err)
	out, _, err := run(t, "-f", path, "-b", "ui", "get", "display", "opacity")
	require.NoError(t, err)
	assert.Equal(t, "1.0\n", out)

	_, _, err = run(t, "-f", path, "-b", "ui", "reset", "--all")
	require.NoError(t, err)
	out, _, err = run(t, "-f", path, "-b", "ui", "get", "display", "width")
	require.NoError(t, err)
	assert.Equal(t, "10\n", out)
	out, _, err = run(t, "-f", path, "-b", "ui", "get", "colors", "line")
	require.NoError(t, err)
	assert.Equal(t, "#1f77b4\n", out)
}

func TestBlocks(t *testing.T) {
	path := writeSettings(t, testDocument)

	out, _, err := run(t, "-f", path, "-b", "other", "blocks")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ui", lines[0])
	assert.Contains(t, lines[1], "other")
	assert.Contains(t, lines[1], "(selected)")
}

func TestShow(t *testing.T) {
	path := writeSettings(t, testDocument)

	out, _, err := run(t, "-f", path, "-b", "ui", "show")
	require.NoError(t, err)
	for _, want := range []string{"display", "colors", "Parameter", "opacity", "width", "#1f77b4", "1 advanced parameter(s) hidden"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "debug")

	out, _, err = run(t, "-f", path, "-b", "ui", "show", "--advanced", "display")
	require.NoError(t, err)
	assert.Contains(t, out, "debug")
	assert.NotContains(t, out, "line")

	_, _, err = run(t, "-f", path, "-b", "ui", "show", "fonts")
	assert.ErrorIs(t, err, model.ErrNotFound)

	out, _, err = run(t, "-f", path, "-b", "fresh", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `block "fresh" is empty`)
}

func TestShow_SkipsNonSectionEntries(t *testing.T) {
	path := writeSettings(t, `{"ui": {"_comment": "edited by hand", "display": {"version": 3, "opacity": {"type": "float", "value": 0.5, "default": 1.0}}}}`)

	out, _, err := run(t, "-f", path, "-b", "ui", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "opacity")
	assert.NotContains(t, out, "_comment")
	assert.NotContains(t, out, "version")

	_, _, err = run(t, "-f", path, "-b", "ui", "show", "_comment")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestQuery(t *testing.T) {
	path := writeSettings(t, testDocument)

	out, _, err := run(t, "-f", path, "query", "$.ui.display.opacity.value")
	require.NoError(t, err)
	assert.Equal(t, "0.5\n", out)

	_, _, err = run(t, "-f", path, "query", "$[")
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	good := writeSettings(t, testDocument)
	bad := writeSettings(t, `{"ui": {"s": {"p": {"type": "slider"}}}}`)

	out, _, err := run(t, "check", good)
	require.NoError(t, err)
	assert.Contains(t, out, "checked 1/1 file(s), 0 invalid")

	out, _, err = run(t, "check", "--concurrency", "2", good, bad)
	assert.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, bad)
	assert.Contains(t, out, "unknown parameter type")
	assert.Contains(t, out, "checked 2/2 file(s), 1 invalid")

	out, _, err = run(t, "-f", bad, "-b", "missing", "check", "--block-only")
	assert.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, "not found")
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "settingsctl dev\n", out)
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := run(t, "--log-level", "loud", "blocks")
	assert.Error(t, err)
}
