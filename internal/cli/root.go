// Package cli implements the livraria command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	applog "github.com/mesh-intelligence/livraria/internal/log"
	"github.com/mesh-intelligence/livraria/pkg/livraria"
	"github.com/mesh-intelligence/livraria/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	home      string
	jsonMode  bool
}

// app carries the flags and the resolved configuration of one invocation.
type app struct {
	flags     rootFlags
	configDir string
	cfg       types.Config
}

// NewRootCmd creates the top-level "livraria" command with global flags
// and all subcommands registered. Without a subcommand it runs the
// interactive menu.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:     "livraria",
		Short:   "Bookstore catalog with CSV transfer and automatic backups",
		Long:    "Livraria keeps a catalog of books in a local SQLite store, snapshots\nthe store after every change, and moves the catalog to and from CSV.",
		Version: livraria.Version,
		Args:    usageArgs(cobra.NoArgs),
		// Errors are printed once by Execute.
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runMenu,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/livraria)")
	root.PersistentFlags().StringVar(&a.flags.home, "home", "", "home for data, backups and exports (default: $XDG_DATA_HOME/livraria)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(a.newInitCmd())
	root.AddCommand(a.newAddCmd())
	root.AddCommand(a.newListCmd())
	root.AddCommand(a.newSearchCmd())
	root.AddCommand(a.newUpdatePriceCmd())
	root.AddCommand(a.newDeleteCmd())
	root.AddCommand(a.newExportCmd())
	root.AddCommand(a.newImportCmd())
	root.AddCommand(a.newBackupCmd())
	root.AddCommand(a.newBackupsCmd())

	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return run(NewRootCmd(), os.Args[1:], os.Stderr)
}

// run executes root with args. The log file sink is closed on every path,
// including failed commands, which skip cobra's post-run hooks.
func run(root *cobra.Command, args []string, stderr io.Writer) int {
	defer func() { _ = applog.Close() }()

	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	code := exitCode(err)
	applog.L().Debug("command failed", slog.Any("err", err), slog.Int("exit_code", code))
	fmt.Fprintln(stderr, "livraria:", err)
	return code
}

// usageError marks bad flags and arguments.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// usageArgs wraps a cobra argument validator so its errors count as user
// errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// exitCode maps an error to exitUserError for bad input and missing
// records, exitSysError otherwise.
func exitCode(err error) int {
	var uerr usageError
	switch {
	case err == nil:
		return exitSuccess
	case errors.As(err, &uerr),
		errors.Is(err, types.ErrValidation),
		errors.Is(err, types.ErrParse),
		errors.Is(err, types.ErrNotFound):
		return exitUserError
	default:
		return exitSysError
	}
}
