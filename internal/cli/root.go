package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/pkg/logger"
)

const defaultURL = "http://localhost:8080"

type rootOptions struct {
	url     string
	output  string
	verbose bool
}

// NewRootCommand builds the taskboard command tree.
func NewRootCommand(version string) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "taskboard",
		Short:         "Taskboard - personal tasks and categories from the terminal",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	url := os.Getenv("TASKBOARD_URL")
	if url == "" {
		url = defaultURL
	}
	root.PersistentFlags().StringVar(&opts.url, "url", url, "Taskboard service URL (env TASKBOARD_URL)")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", formatText, "Output format (text, yaml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(shellCmd(opts))
	root.AddCommand(versionCmd(version))
	return root
}

// Execute runs the root command.
func Execute(version string) error {
	if err := NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func versionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taskboard %s\n", version)
		},
	}
}

func shellCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session",
		Long: `Start an interactive session against the taskboard service.

Type "help" inside the shell for the list of commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != formatText && opts.output != formatYAML {
				return fmt.Errorf("unknown output format %q", opts.output)
			}
			log, err := newLogger(opts.verbose)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			app := NewApp(Options{
				BaseURL: opts.url,
				Output:  opts.output,
				Logger:  log,
			}, cmd.OutOrStdout())
			ctx := cmd.Context()
			app.Start(ctx)
			defer app.Close()

			return app.Shell(ctx, cmd.InOrStdin(), true)
		},
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logger.New(logger.Config{Level: level, Encoding: "console", Output: os.Stderr})
}
