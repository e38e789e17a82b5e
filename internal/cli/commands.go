package cli

import (
	"fmt"
	"io"

	"github.com/specialistvlad/dclfront/internal/app"
	"github.com/spf13/cobra"
)

func newCheckCommand(flags *globalFlags, errW io.Writer) *cobra.Command {
	var warnOverrides bool

	cmd := &cobra.Command{
		Use:   "check PATH...",
		Short: "Report problems in documents",
		Long:  "Analyzes every .dcl document under the given files or directories and prints diagnostics. Exits with code 1 if any error was found.",
		Args:  withUsage(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags, func(c *app.Config) { c.WarnOverrides = warnOverrides })
			if err != nil {
				return err
			}
			summary, err := a.Check(cmd.Context(), args)
			if err != nil {
				return err
			}
			fmt.Fprintln(errW, formatSummary(summary))
			if summary.Errors > 0 {
				return &ExitError{Code: 1, Message: fmt.Sprintf("check failed with %s", plural(summary.Errors, "error"))}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&warnOverrides, "warn-overrides", false, "Warn about assignments that a later assignment overrides.")
	return cmd
}

func newPreviewCommand(flags *globalFlags, errW io.Writer) *cobra.Command {
	var selection string

	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Print the object graph a document describes",
		Long:  "Resolves a single document and prints the objects and properties it configures. Nothing is executed.",
		Args:  withUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags, nil)
			if err != nil {
				return err
			}
			hasErrors, err := a.Preview(cmd.Context(), args[0], selection)
			if err != nil {
				return err
			}
			if hasErrors {
				fmt.Fprintln(errW, warningStyle.Render("! document has errors; the preview omits failed statements"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&selection, "path", "", "Only print the object at this path, e.g. server or dependencies[0].")
	return cmd
}

func newSchemaCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the loaded host model",
		Args:  withUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, flags, nil)
			if err != nil {
				return err
			}
			return a.DescribeSchema()
		},
	}
}
