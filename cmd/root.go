package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/penwyp/claudestat/config"
	"github.com/penwyp/claudestat/internal"
	"github.com/penwyp/claudestat/logging"
	"github.com/penwyp/claudestat/output"
)

// rootOptions holds flags that only select the config file; everything else is
// read back through config.FlagSource.
type rootOptions struct {
	cfgFile string
}

// Execute builds the command tree and runs it
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "claudestat",
		Short: "Usage and cost report for Claude Code session logs",
		Long: `claudestat reads the JSONL session logs under ~/.claude/projects and reports
token usage and cost by model, project, session and day.

Examples:
  claudestat                          # Last 30 days as tables
  claudestat -r 7d -o summary         # Last week, compact text
  claudestat -r all -o json > u.json  # Everything as JSON
  claudestat -d /backup/projects      # Another data directory`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfiguration(cmd, opts)
			if err != nil {
				return err
			}

			ctx, stop := internal.SignalContext(cmd.Context())
			defer stop()

			analyzer, err := internal.NewAnalyzer(cfg)
			if err != nil {
				return fmt.Errorf("failed to create analyzer: %w", err)
			}

			result, err := analyzer.Analyze(ctx)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			return render(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, result)
		},
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default is $HOME/.claudestat.yaml)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-file", "", "write logs to this file instead of stderr")
	flags.Bool("debug", false, "enable debug mode")
	flags.StringP("data-dir", "d", "", "root directory of the session logs (default ~/.claude/projects)")
	flags.Int("workers", 0, "number of files read in parallel (default: number of CPUs)")
	flags.StringP("range", "r", "", "time range (all, 7d, 30d)")
	flags.String("timezone", "", "timezone used for daily grouping (default UTC)")
	flags.StringP("output", "o", "", "output format (table, json, csv, summary)")
	flags.IntP("limit", "n", 0, "maximum rows per breakdown")

	rootCmd.AddCommand(newWatchCmd(opts))
	rootCmd.AddCommand(newExportCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// loadConfiguration merges defaults, config files, environment and the command's
// flags, then starts the global logger.
func loadConfiguration(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.NewDefaultLoader(opts.cfgFile, cmd.Flags()).LoadWithDefaults()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.Debug.Enabled {
		cfg.App.LogLevel = "debug"
	}
	logging.InitLogger(cfg.App.LogLevel, cfg.App.LogFile, cfg.Debug.Enabled)
	logging.LogDebugf("configuration: data=%s range=%s output=%s workers=%d",
		cfg.Data.Root, cfg.Report.Range, cfg.Report.Output, cfg.Data.Workers)

	return cfg, nil
}

// render writes result in the configured output format
func render(w, errW io.Writer, cfg *config.Config, result *internal.Result) error {
	formatter, err := output.NewFormatter(cfg.Report.Output, cfg.Report.Limit)
	if err != nil {
		return err
	}

	// CSV has nowhere to carry the notice
	if result.Notice != "" && cfg.Report.Output == output.FormatCSV {
		fmt.Fprintln(errW, result.Notice)
	}

	return formatter.Format(w, result.Report())
}
