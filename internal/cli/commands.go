package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/paramkit/internal/app"
	"github.com/spf13/cobra"
)

func newSchemasCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "schemas",
		Aliases: []string{"ls"},
		Short:   "List schemas and their parameters",
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.newApp(cmd, 0)
			if err != nil {
				return err
			}
			return a.ListSchemas(cmd.Context())
		},
	}
}

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "check SCHEMA VALUES_FILE...",
		Short: "Validate values files against a schema",
		Long: `Validate one or more values files against a schema.

Every file is checked on its own, concurrently. Valid files are printed as
a table of the resulting parameters; invalid ones list every problem found.
The command fails if any file is invalid.

Examples:
  paramkit check netperf values/lab1.hcl values/lab2.hcl
  paramkit check --workers 4 netperf values/*.hcl`,
		Args: usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd, workers)
			if err != nil {
				return err
			}
			return a.Check(cmd.Context(), args[0], args[1:]...)
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of files checked concurrently. 0 checks all at once.")
	return cmd
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export SCHEMA VALUES_FILE",
		Short: "Validate a values file and write it as a bundle",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd, 0)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, func(w io.Writer) error {
				return a.Export(cmd.Context(), args[0], args[1], w)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the bundle to this file instead of standard output.")
	return cmd
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	var importOpts app.ImportOptions

	cmd := &cobra.Command{
		Use:   "import BUNDLE_FILE",
		Short: "Read a bundle and print its parameters",
		Long: `Read a bundle written by export and print its parameters.

Use - to read the bundle from standard input.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd, 0)
			if err != nil {
				return err
			}

			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			return a.Import(cmd.Context(), r, importOpts)
		},
	}
	cmd.Flags().BoolVar(&importOpts.Verify, "verify", false, "Validate every value against the schema again.")
	cmd.Flags().BoolVar(&importOpts.AsValues, "hcl", false, "Print the parameters as a values file.")
	return cmd
}

func newTemplateCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "template SCHEMA",
		Aliases: []string{"init"},
		Short:   "Write a values file skeleton for a schema",
		Args:    usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd, 0)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, func(w io.Writer) error {
				return a.Template(cmd.Context(), args[0], w)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the template to this file instead of standard output.")
	return cmd
}

// writeOutput runs write against the command's output, or against the file
// at path when it is set. A file is removed again if write fails.
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(cmd.OutOrStdout())
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		return errors.Join(err, f.Close(), os.Remove(path))
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
