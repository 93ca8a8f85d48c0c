// Package cli implements the boardctl command tree.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/BakaI9/excalidraw/internal/metrics"
	"github.com/BakaI9/excalidraw/pkg/types"
)

// Version is the boardctl version, overridden at link time.
var Version = "0.1.0"

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// flags holds the global flag values.
type flags struct {
	configDir string
	dataDir   string
	json      bool
	metrics   bool
}

// app is the state shared by every command in one invocation.
type app struct {
	out    io.Writer
	errOut io.Writer
	flags  flags

	configDir string
	v         *viper.Viper
	logger    *zap.Logger
	metrics   *metrics.Collector
}

// NewRootCmd builds the boardctl command tree writing to out and errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "boardctl",
		Short:         "boardctl edits element boards from the command line",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			defer func() { _ = a.logger.Sync() }()
			if a.flags.metrics || (a.v != nil && a.v.GetBool(cfgKeyMetrics)) {
				return a.printMetrics()
			}
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	pf.BoolVar(&a.flags.json, "json", false, "output as JSON")
	pf.BoolVar(&a.flags.metrics, "metrics", false, "print engine counters after the command")

	root.AddCommand(
		newVersionCmd(a),
		newInitCmd(a),
		newAddCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newMutateCmd(a),
		newDuplicateCmd(a),
		newDragDuplicateCmd(a),
		newCheckCmd(a),
		newLinksCmd(a),
	)
	return root
}

// Execute runs boardctl with args and returns the process exit code.
func Execute(args []string) int {
	cmd := NewRootCmd(os.Stdout, os.Stderr)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "boardctl:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// setup loads configuration and builds the logger and metrics collector.
func (a *app) setup() error {
	configDir, err := resolveConfigDir(a.flags.configDir)
	if err != nil {
		return err
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	logger, err := newLogger(a.errOut, v.GetString(cfgKeyLogLevel), v.GetBool(cfgKeyDevelopment))
	if err != nil {
		return userError(err)
	}
	a.configDir = configDir
	a.v = v
	a.logger = logger
	a.metrics = metrics.NewCollector()
	return nil
}

// exitError carries the exit code for an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// userError marks err as caused by the user's input. Invariant violations
// keep the system error code.
func userError(err error) error {
	if err == nil {
		return nil
	}
	code := exitUserError
	if errors.Is(err, types.ErrInvariant) {
		code = exitSysError
	}
	return &exitError{code: code, err: err}
}

// userErrors are the sentinels that mean the request itself was wrong.
var userErrors = []error{
	types.ErrNotFound,
	types.ErrInvalidID,
	types.ErrInvalidData,
	types.ErrInvalidType,
	types.ErrDuplicateID,
	types.ErrUnknownField,
	types.ErrReadOnlyField,
	types.ErrTypeMismatch,
	types.ErrEmptySelection,
	types.ErrSceneBounds,
	types.ErrBackendEmpty,
	types.ErrBackendUnknown,
	types.ErrConfigInvalid,
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}

// userArgs wraps a cobra argument validator so its failures exit with the
// user error code.
func userArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return userError(fn(cmd, args))
	}
}
