package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/handiism/settings-manager/internal/config"
	"github.com/handiism/settings-manager/internal/logger"
	"github.com/handiism/settings-manager/internal/store"
)

var (
	// errAbsent is returned by get/default --strict when there is no value.
	// Nothing is printed for it.
	errAbsent = errors.New("value is absent")
	// errInvalid is returned by check when a document did not validate.
	errInvalid = errors.New("invalid settings found")
)

// app holds what every command needs once flags and config are resolved.
type app struct {
	v          *viper.Viper
	configFile string

	settings *config.Settings
	log      *logger.Logger

	out    io.Writer
	errOut io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "settingsctl",
		Short: "Inspect and edit JSON settings files",
		Long: `settingsctl reads and edits block-structured JSON settings files.

A settings file maps block names to blocks, blocks map section names to
sections and sections map parameter names to parameters with a type, a
value, a default and optionally an auto flag, options and a range.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Close()
			}
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringP("file", "f", "", "settings file (default \"settings.json\")")
	flags.StringP("block", "b", "", "block key")
	flags.StringVar(&a.configFile, "config", "", "config file (default: settingsctl.{yaml,json,toml} in . or the user config dir)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: console, json")

	_ = a.v.BindPFlag("file", flags.Lookup("file"))
	_ = a.v.BindPFlag("block", flags.Lookup("block"))
	_ = a.v.BindPFlag("logger.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("logger.format", flags.Lookup("log-format"))

	root.AddCommand(
		newBlocksCmd(a),
		newShowCmd(a),
		newGetCmd(a),
		newDefaultCmd(a),
		newSetCmd(a),
		newAutoCmd(a),
		newResetCmd(a),
		newQueryCmd(a),
		newCheckCmd(a),
		newVersionCmd(a),
	)
	return root
}

func (a *app) init() error {
	settings, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	log, err := logger.New(settings.Logger)
	if err != nil {
		return err
	}
	a.settings = settings
	a.log = log
	a.log.Debugw("configuration loaded", "file", settings.File, "block", settings.Block)
	return nil
}

// openStore opens the configured file without selecting a block.
func (a *app) openStore() (*store.Store, error) {
	return store.New(a.settings.File, "", store.WithLogger(a.log))
}

// openBlock opens the configured file and loads the configured block.
func (a *app) openBlock() (*store.Store, error) {
	if a.settings.Block == "" {
		return nil, fmt.Errorf("no block selected, use --block or SETTINGS_BLOCK")
	}
	return store.New(a.settings.File, a.settings.Block, store.WithLogger(a.log))
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
