package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/handiism/settings-manager/internal/check"
	"github.com/handiism/settings-manager/internal/editor"
	"github.com/handiism/settings-manager/internal/model"
	"github.com/handiism/settings-manager/internal/query"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func newBlocksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "blocks",
		Short: "List the blocks of the settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			for _, name := range st.Document().Names() {
				if name == a.settings.Block {
					a.printf("%s %s\n", name, dimStyle.Render("(selected)"))
					continue
				}
				a.printf("%s\n", name)
			}
			return nil
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	var advanced bool
	cmd := &cobra.Command{
		Use:   "show [section]",
		Short: "Show the parameters of the selected block",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openBlock()
			if err != nil {
				return err
			}
			block := st.Block()

			var names []string
			if len(args) == 1 {
				if _, ok := block.Section(args[0]); !ok {
					return &model.ParamError{Section: args[0], Err: model.ErrNotFound}
				}
				names = args
			} else {
				// entries that are not sections are not shown
				for _, name := range block.Names() {
					if _, ok := block.Section(name); ok {
						names = append(names, name)
					}
				}
			}
			if len(names) == 0 {
				a.printf("%s\n", dimStyle.Render(fmt.Sprintf("block %q is empty", st.BlockKey())))
				return nil
			}
			for i, name := range names {
				section, _ := block.Section(name)
				if i > 0 {
					a.printf("\n")
				}
				a.printf("%s", renderSection(name, section, advanced))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&advanced, "advanced", "a", false, "also show advanced parameters")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "get SECTION PARAM",
		Short: "Print the effective value of a parameter",
		Long: `Print the effective value of a parameter.

Nothing is printed when the parameter is in auto mode or does not exist;
with --strict the command then exits with status 1.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openBlock()
			if err != nil {
				return err
			}
			v, ok := st.Get(args...)
			if !ok {
				if p, found := st.Block().Parameter(args[0], args[1]); found {
					if enabled, _ := p.Auto(); enabled {
						fmt.Fprintln(a.errOut, dimStyle.Render("auto"))
					}
				}
				if strict {
					return errAbsent
				}
				return nil
			}
			a.printf("%s\n", plainValue(v))
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with status 1 when there is no value")
	return cmd
}

func newDefaultCmd(a *app) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "default SECTION PARAM",
		Short: "Print the default value of a parameter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openBlock()
			if err != nil {
				return err
			}
			v, ok := st.GetDefault(args...)
			if !ok {
				if strict {
					return errAbsent
				}
				return nil
			}
			a.printf("%s\n", plainValue(v))
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with status 1 when there is no default")
	return cmd
}

// edit opens an editor session on the selected block, runs fn and commits.
func (a *app) edit(fn func(*editor.Session) error) error {
	st, err := a.openBlock()
	if err != nil {
		return err
	}
	sess, err := editor.Open(st, "", editor.WithLogger(a.log), editor.WithEvents(func(e editor.Event) {
		switch e.Kind {
		case editor.EventChanged, editor.EventReset:
			a.printf("%s\n", e.Message)
		case editor.EventApplied:
			a.printf("%s\n", successStyle.Render(e.Message))
		}
	}))
	if err != nil {
		return err
	}
	if err := fn(sess); err != nil {
		sess.Cancel()
		return err
	}
	return sess.Commit()
}

func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set SECTION PARAM VALUE",
		Short: "Set the value of a parameter",
		Long: `Set the value of a parameter.

VALUE is parsed according to the parameter's type: whole numbers for int,
numbers for float, true/false for bool, #rgb, #rrggbb or a colour name for
color, one of the options for dropdown.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(func(sess *editor.Session) error {
				return sess.SetText(args[0], args[1], args[2])
			})
		},
	}
}

func newAutoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "auto SECTION PARAM on|off",
		Short:     "Switch auto mode of a parameter",
		Args:      cobra.ExactArgs(3),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := parseSwitch(args[2])
			if err != nil {
				return err
			}
			return a.edit(func(sess *editor.Session) error {
				return sess.SetAuto(args[0], args[1], enabled)
			})
		},
	}
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
	return b, nil
}

func newResetCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "reset [SECTION [PARAM...]]",
		Short: "Reset parameters to their defaults",
		Long: `Reset parameters to their defaults and switch auto mode off.

With SECTION and PARAMs only those parameters are reset, with SECTION alone
the whole section, with --all every section of the block.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case all && len(args) > 0:
				return fmt.Errorf("--all takes no arguments")
			case !all && len(args) == 0:
				return fmt.Errorf("name a section or use --all")
			}
			return a.edit(func(sess *editor.Session) error {
				if all {
					return sess.ResetAll()
				}
				return sess.Reset(args[0], args[1:]...)
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "reset every section")
	return cmd
}

func newQueryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "query JSONPATH",
		Short: "Evaluate a JSONPath expression over the whole settings file",
		Example: `  settingsctl query '$.ui.display.opacity.value'
  settingsctl query '$..[?(@.auto == true)]'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			matches, err := query.SelectDocument(st.Document(), args[0])
			if err != nil {
				return err
			}
			for _, m := range matches {
				a.printf("%s\n", query.Format(m))
			}
			return nil
		},
	}
}

func newCheckCmd(a *app) *cobra.Command {
	var (
		verbose   bool
		blockOnly bool
		plain     bool
	)
	cmd := &cobra.Command{
		Use:   "check [FILE...]",
		Short: "Validate settings files",
		Long: `Validate settings files. Without arguments the configured file is checked.

Every parameter of every block is checked for a known type, options on
dropdowns, values within range and options, and valid colours.

On a terminal progress is drawn as a live progress bar; --plain prints one
line per event instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				paths = []string{a.settings.File}
			}

			opts := []check.Option{check.WithLogger(a.log)}
			if blockOnly {
				if a.settings.Block == "" {
					return fmt.Errorf("--block-only needs --block")
				}
				opts = append(opts, check.WithBlock(a.settings.Block))
			}

			newManager := func(onProgress func(check.ProgressEvent)) *check.Manager {
				return check.NewManager(a.settings.Concurrency, onProgress, opts...)
			}

			var (
				manager *check.Manager
				results []check.Result
				err     error
			)
			if isTerminal(a.errOut) && !plain {
				manager, results, err = runCheckLive(cmd.Context(), a.errOut, paths, verbose, newManager)
			} else {
				manager = newManager(func(event check.ProgressEvent) {
					if event.Level == check.LevelVerbose && !verbose {
						return
					}
					fmt.Fprintln(a.errOut, progressLine(event))
				})
				results, err = manager.Run(cmd.Context(), paths)
			}
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.OK() {
					continue
				}
				failed++
				a.printf("%s\n", errorStyle.Render(r.Path))
				for _, line := range strings.Split(r.Err.Error(), "\n") {
					a.printf("  %s\n", line)
				}
			}
			checked, total := manager.GetProgress()
			a.printf("%s\n", infoStyle.Render(fmt.Sprintf("checked %d/%d file(s), %d invalid", checked, total, failed)))
			if failed > 0 {
				return errInvalid
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show every file as it is checked")
	cmd.Flags().BoolVar(&blockOnly, "block-only", false, "check only the block selected with --block")
	cmd.Flags().BoolVar(&plain, "plain", false, "print progress line by line even on a terminal")
	cmd.Flags().Int("concurrency", 0, "files to check in parallel")
	_ = a.v.BindPFlag("concurrency", cmd.Flags().Lookup("concurrency"))
	return cmd
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// version needs no configuration
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			a.printf("settingsctl %s\n", version)
		},
	}
}
