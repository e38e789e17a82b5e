package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/dclfront/internal/app"
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

// withUsage turns argument validation failures into usage errors.
func withUsage(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, a []string) error {
		if err := validate(cmd, a); err != nil {
			return usageError(err)
		}
		return nil
	}
}

// globalFlags are shared by every command.
type globalFlags struct {
	schemaPaths []string
	logLevel    string
	logFormat   string
	output      string
	workers     int
	color       bool
	width       uint
}

// Execute runs the command line args and returns an *ExitError for any
// outcome that needs a non-zero exit code.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	if strings.HasPrefix(err.Error(), "unknown command") {
		return usageError(err)
	}
	return &ExitError{Code: 1, Message: err.Error()}
}

// NewRootCommand builds the dclfront command tree.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "dclfront",
		Short: "Static analysis for declarative build model documents",
		Long: `dclfront resolves declarative build model documents against a host model
without executing them. It reports problems per statement and previews the
object graph a document describes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringSliceVarP(&flags.schemaPaths, "schema", "s", nil, "Host model manifest file or directory (.hcl, .yaml). Repeatable.")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&flags.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	pf.StringVarP(&flags.output, "output", "o", "text", "Result format. Options: 'text' or 'json'.")
	pf.IntVar(&flags.workers, "workers", 0, "Number of documents analyzed concurrently. 0 uses every CPU.")
	pf.BoolVar(&flags.color, "color", false, "Colorize diagnostics.")
	pf.UintVar(&flags.width, "width", 100, "Wrap width for diagnostic text.")

	root.AddCommand(
		newCheckCommand(flags, errW),
		newPreviewCommand(flags, errW),
		newSchemaCommand(flags),
	)
	return root
}

// newApp validates flags and builds the application. Logs go to errW so
// that command output stays machine readable.
func newApp(cmd *cobra.Command, flags *globalFlags, extra func(*app.Config)) (*app.App, error) {
	cfg := app.Config{
		SchemaPaths:  flags.schemaPaths,
		LogLevel:     strings.ToLower(flags.logLevel),
		LogFormat:    strings.ToLower(flags.logFormat),
		OutputFormat: strings.ToLower(flags.output),
		Workers:      flags.workers,
		Color:        flags.color,
		Width:        flags.width,
	}
	if extra != nil {
		extra(&cfg)
	}

	validated, err := app.NewConfig(cfg)
	if err != nil {
		return nil, usageError(err)
	}
	a, err := app.NewApp(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), validated)
	if err != nil {
		return nil, fmt.Errorf("startup failed: %w", err)
	}
	return a, nil
}
