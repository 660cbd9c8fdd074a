package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// NewRootCommand builds the pipecanvas command tree. Command output goes to
// outW; logs go to errW.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "pipecanvas",
		Short: "PipeCanvas - a workflow graph designer engine.",
		Long: `PipeCanvas serves the workflow graph engine behind a visual pipeline editor.
Modules are loaded from HCL or YAML manifests; the renderer talks to the
engine over socket.io.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	root.AddCommand(
		newServeCommand(outW, errW),
		newCatalogCommand(outW, errW),
		newProbeCommand(outW),
	)
	return root
}

// Execute runs the command line in args.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
