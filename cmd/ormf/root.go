// Root command definition for ormf CLI
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sonemaro/ormf/internal/config"
	"github.com/sonemaro/ormf/internal/format"
	"github.com/sonemaro/ormf/internal/pipeline"
)

// Execute runs the root command - this is the main entry point
func Execute() error {
	rootCmd := newRootCmd()
	return rootCmd.Execute()
}

// newRootCmd creates and configures the root command
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ormf",
		Short: "Filter the OpenRouter model catalog",
		Long: `ormf fetches the OpenRouter model listing, sorts it by a field,
keeps the models whose ids match every keep pattern and none of the
remove patterns, and prints the result.

Patterns are comma-separated RE2 expressions anchored at the start of
the model id.

Examples:
  ormf
  ormf --n 5 --return-format json
  ormf --keep-regexes 'google/.*' --remove-regexes ''
  ormf --profile wide`,
		Args:          cobra.NoArgs,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeApp(cmd, false)
		},
		RunE: runFilter,
	}

	// Add flags
	addRootFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(profileCmd())

	return rootCmd
}

// addRootFlags adds command-line flags to the root command. Filter flags
// are persistent so config and profile subcommands see them too.
func addRootFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	formats := make([]string, 0, len(format.Formats()))
	for _, f := range format.Formats() {
		formats = append(formats, string(f))
	}

	pf := cmd.PersistentFlags()
	pf.Int("n", d.Filter.N, "Number of models to return, -1 for all")
	pf.String("return-format", d.Filter.ReturnFormat, "Output format ("+strings.Join(formats, ", ")+")")
	pf.String("keep-regexes", d.Filter.KeepRegexes, "Comma-separated patterns a model id must all match")
	pf.String("remove-regexes", d.Filter.RemoveRegexes, "Comma-separated patterns that drop a model id")
	pf.String("sort-key", d.Filter.SortKey, "Field to sort by, descending; empty keeps listing order")
	pf.String("openrouter-endpoint", d.Provider.Endpoint, "API base URL")
	pf.String("model-url", d.Provider.ModelURL, "Listing path below the endpoint")
	pf.Duration("timeout", d.Provider.Timeout, "Request timeout, 0 to disable")
	pf.String("log-level", d.Log.Level, "Log level (debug, info, warn, error)")

	pf.StringVar(&configPath, "config", "", "Config file (default "+config.DefaultPath()+")")
	pf.StringVarP(&profileName, "profile", "p", "", "Configuration profile to use")
	pf.BoolVar(&noColor, "no-color", false, "Disable colored output")
}

// runFilter handles the root command execution
func runFilter(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cmd.ErrOrStderr())
	if cfg.ActiveProfile != "" {
		logger.Debug().Str("profile", cfg.ActiveProfile).Msg("profile applied")
	}

	runner := pipeline.NewRunner(newClient(logger), logger)
	out, err := runner.Run(ctx, cfg.Options())
	if err != nil {
		return err
	}

	text, err := out.Console()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
