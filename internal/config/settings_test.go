package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings_Valid(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())
}

func TestLoad_Defaults(t *testing.T) {
	s, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("SETTINGS_FILE", "/tmp/custom.json")
	t.Setenv("SETTINGS_BLOCK", "ui")
	t.Setenv("SETTINGS_CONCURRENCY", "8")
	t.Setenv("SETTINGS_LOGGER_LEVEL", "debug")

	s, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.json", s.File)
	assert.Equal(t, "ui", s.Block)
	assert.Equal(t, 8, s.Concurrency)
	assert.Equal(t, "debug", s.Logger.Level)
	assert.Equal(t, "console", s.Logger.Format)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settingsctl.yaml")
	content := "file: app.json\nblock: plots\nlogger:\n  format: json\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "app.json", s.File)
	assert.Equal(t, "plots", s.Block)
	assert.Equal(t, "json", s.Logger.Format)
	assert.Equal(t, "warn", s.Logger.Level)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("SETTINGS_BLOCK", "from-env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("block", "", "")
	require.NoError(t, flags.Parse([]string{"--block", "from-flag"}))

	v := viper.New()
	require.NoError(t, v.BindPFlag("block", flags.Lookup("block")))

	s, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, "from-flag", s.Block)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad level", map[string]string{"SETTINGS_LOGGER_LEVEL": "loud"}},
		{"bad format", map[string]string{"SETTINGS_LOGGER_FORMAT": "xml"}},
		{"zero concurrency", map[string]string{"SETTINGS_CONCURRENCY": "0"}},
		{"too much concurrency", map[string]string{"SETTINGS_CONCURRENCY": "1000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(viper.New(), "")
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
