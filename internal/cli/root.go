package cli

import (
	"context"
	"io"

	"github.com/specialistvlad/paramkit/internal/app"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	schemasPath string
	logLevel    string
	logFormat   string
}

// newApp validates the flags and loads the application. Results are
// written to the command's output and logs to its error stream.
func (o *rootOptions) newApp(cmd *cobra.Command, workers int) (*app.App, error) {
	cfg, err := app.NewConfig(app.Config{
		SchemasPath: o.schemasPath,
		LogLevel:    o.logLevel,
		LogFormat:   o.logFormat,
		Workers:     workers,
	})
	if err != nil {
		return nil, usageError(err)
	}
	return app.NewApp(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg)
}

// NewRootCommand builds the paramkit command tree.
func NewRootCommand(version string) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "paramkit",
		Short: "Declare, validate and ship typed test parameters",
		Long: `paramkit checks parameter values against typed schemas.

Schemas are declared in HCL files under the schemas directory. Values files
are plain HCL attribute files; valid parameter sets can be exported as YAML
bundles and imported again on another host.`,
		Version:       version,
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetVersionTemplate(`{{printf "paramkit version %s\n" .Version}}`)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.schemasPath, "schemas", "s", "schemas", "Path to a schema file or a directory of .hcl schema files.")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.StringVar(&opts.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")

	root.AddCommand(
		newSchemasCmd(opts),
		newCheckCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newTemplateCmd(opts),
	)
	return root
}

// Execute runs the command line args against a fresh command tree.
func Execute(ctx context.Context, version string, args []string, outW, errW io.Writer) error {
	if args == nil {
		// cobra reads os.Args for nil args.
		args = []string{}
	}
	root := NewRootCommand(version)
	root.SetArgs(args)
	root.SetOut(outW)
	root.SetErr(errW)
	return root.ExecuteContext(ctx)
}
