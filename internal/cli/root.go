// Package cli implements the specbook command-line interface. Every
// invocation resolves its directories, loads config.yaml, opens one session,
// runs a single operation and closes the session again.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/specbook/internal/logging"
	"github.com/mesh-intelligence/specbook/internal/session"
	"github.com/mesh-intelligence/specbook/internal/tabular"
	"github.com/mesh-intelligence/specbook/pkg/store"
	"github.com/mesh-intelligence/specbook/pkg/types"
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
	dataDir   string
	jsonMode  bool
	verbose   bool
}

// app is the state shared by the commands of one invocation.
type app struct {
	flags rootFlags

	cfg      types.Config
	logLevel slog.Level
}

// skipConfig marks commands that run without loading config.yaml.
const skipConfig = "skip-config"

// NewRootCmd creates the top-level "specbook" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "specbook",
		Short: "Author manual test specifications",
		Long: "specbook keeps a catalog of named test parameters, a library of command\n" +
			"templates and a suite of test cases whose descriptions are derived from\n" +
			"the steps and the catalog.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipConfig] != "" {
				return nil
			}
			return a.loadSettings()
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.specbook)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&a.flags.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(newVersionCmd())
	root.AddCommand(a.newInitCmd())
	root.AddCommand(a.newParamCmd())
	root.AddCommand(a.newCommandCmd())
	root.AddCommand(a.newTestCmd())
	root.AddCommand(a.newHistoryCmd())

	return root
}

// Execute runs the root command against the process arguments and exits
// with the matching code.
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}

// Run executes one command line and returns its exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return exitCode(err)
}

// usageError marks a bad command line.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// usagef returns a usageError with a formatted message.
func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// userErrors are failures caused by the request rather than the system.
var userErrors = []error{
	types.ErrNameCollision,
	types.ErrNotFound,
	types.ErrProtectedColumn,
	types.ErrIndexOutOfRange,
	types.ErrNothingCopied,
	types.ErrInvalidName,
	types.ErrIncompleteSelection,
	types.ErrInvalidDirection,
	types.ErrInvalidImport,
	types.ErrBackendEmpty,
	types.ErrBackendUnknown,
	types.ErrBaselineEmpty,
	tabular.ErrUnsupportedFormat,
}

// exitCode maps err to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ue usageError
	if errors.As(err, &ue) {
		return exitUserError
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}

// checkArgs wraps a cobra positional-argument check so its failure counts
// as a usage error.
func checkArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// withSession opens a session on the configured store, runs fn and closes
// the session.
func (a *app) withSession(cmd *cobra.Command, fn func(s *session.Session) error) (err error) {
	st, err := store.Open(a.cfg)
	if err != nil {
		return err
	}
	logger := logging.NewWriter(cmd.ErrOrStderr(), a.logLevel)
	s, err := session.Open(a.cfg, st, logger)
	if err != nil {
		_ = st.Detach()
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(s)
}
