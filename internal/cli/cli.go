package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"
)

// Exit codes.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError is an error that carries the process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: ExitUsage, Message: err.Error()}
}

func failure(err error) error {
	return &ExitError{Code: ExitFailure, Message: err.Error()}
}

type globalFlags struct {
	logLevel  string
	logFormat string
}

// NewRootCmd builds the shadergen command tree. Command output goes to outW,
// logs and diagnostics to errW.
func NewRootCmd(outW, errW io.Writer) *cobra.Command {
	var g globalFlags
	root := &cobra.Command{
		Use:   "shadergen",
		Short: "Compile shader variant declarations into Go code",
		Long: `shadergen reads shader variant declarations (*.wgslv), preprocesses the
referenced shader templates once per variant and writes a Go file with a
closed enumeration of every variant and its final source.

Typical use is from a go:generate directive:

  //go:generate shadergen generate -i fractal.wgslv -o fractal_variants.go`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "logging level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "text", "log output format: text or json")

	root.AddCommand(newGenerateCmd(&g), newCheckCmd())
	return root
}

// Execute runs the command line with args. Every returned error is an
// *ExitError.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCmd(outW, errW)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	// Anything cobra rejects before running a command is a usage problem.
	return usageError(err)
}
