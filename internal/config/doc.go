// Package config provides configuration management for settingsctl.
//
// This package handles:
//   - Default configuration values
//   - Loading from a config file, .env, environment variables and flags
//   - Validation of the resolved values
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// File: settings.json, Concurrency: 4, Logger: warn/console/stderr
//
// # Loading
//
// Load layers every source on a viper instance. Flags are bound by the caller
// before Load runs:
//
//	v := viper.New()
//	_ = v.BindPFlag("file", cmd.Flags().Lookup("file"))
//	settings, err := config.Load(v, "")
//
// # Environment Variables
//
// Every key can be set with a SETTINGS_ variable, nested keys joined by an
// underscore:
//
//	SETTINGS_FILE=/etc/app/settings.json
//	SETTINGS_BLOCK=ui
//	SETTINGS_CONCURRENCY=8
//	SETTINGS_LOGGER_LEVEL=debug
//	SETTINGS_LOGGER_FORMAT=json
package config
