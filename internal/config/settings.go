package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by Load, e.g.
// SETTINGS_FILE or SETTINGS_LOGGER_LEVEL.
const EnvPrefix = "SETTINGS"

// Settings holds all configuration options of settingsctl.
type Settings struct {
	// File is the settings document to operate on.
	File string `mapstructure:"file" validate:"required"`
	// Block is the block key used when a command does not name one.
	Block string `mapstructure:"block"`
	// Concurrency bounds how many documents "check" validates at once.
	Concurrency int `mapstructure:"concurrency" validate:"min=1,max=64"`

	Logger LoggerConfig `mapstructure:"logger"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
	// Output is "stdout", "stderr" or a file path.
	Output string `mapstructure:"output" validate:"required"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		File:        "settings.json",
		Concurrency: 4,
		Logger: LoggerConfig{
			Level:  "warn",
			Format: "console",
			Output: "stderr",
		},
	}
}

// Load resolves settings from, in increasing priority: defaults, a config
// file, a .env file in the working directory, SETTINGS_* environment
// variables and any flags already bound to v.
//
// configFile may be empty, in which case settingsctl.{yaml,json,toml} is
// looked up in the working directory and the user config directory; not
// finding one is not an error. v may be nil.
func Load(v *viper.Viper, configFile string) (*Settings, error) {
	if v == nil {
		v = viper.New()
	}

	// .env is optional
	_ = godotenv.Load()

	setDefaults(v, DefaultSettings())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("settingsctl")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "settings-manager"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &s, nil
}

func setDefaults(v *viper.Viper, d *Settings) {
	v.SetDefault("file", d.File)
	v.SetDefault("block", d.Block)
	v.SetDefault("concurrency", d.Concurrency)

	v.SetDefault("logger.level", d.Logger.Level)
	v.SetDefault("logger.format", d.Logger.Format)
	v.SetDefault("logger.output", d.Logger.Output)
}

var validate = validator.New()

// Validate checks the settings against their struct tags.
func (s *Settings) Validate() error {
	return validate.Struct(s)
}
