package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/penwyp/claudestat/config"
	"github.com/penwyp/claudestat/internal"
	"github.com/penwyp/claudestat/output"
)

const clearScreen = "\x1b[H\x1b[2J"

func newWatchCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render the report whenever a session log changes",
		Long: `Render the report, then reload all logs and render it again each time a
session log under the data directory is created or modified. Press Ctrl+C to exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfiguration(cmd, root)
			if err != nil {
				return err
			}

			ctx, stop := internal.SignalContext(cmd.Context())
			defer stop()

			w := cmd.OutOrStdout()
			app, err := internal.NewApplication(cfg, func(result *internal.Result) error {
				return renderWatch(w, cmd.ErrOrStderr(), cfg, result)
			})
			if err != nil {
				return err
			}
			return app.Run(ctx)
		},
	}

	cmd.Flags().Duration("debounce", 0, fmt.Sprintf("quiet period before reloading after a change (default %v)", config.DefaultConfig().Watch.Debounce))
	return cmd
}

// renderWatch redraws the screen for text formats; JSON and CSV are appended as a stream
func renderWatch(w, errW io.Writer, cfg *config.Config, result *internal.Result) error {
	text := cfg.Report.Output == output.FormatTable || cfg.Report.Output == output.FormatSummary
	if text {
		if _, err := io.WriteString(w, clearScreen); err != nil {
			return err
		}
	}

	if err := render(w, errW, cfg, result); err != nil {
		return err
	}

	if text {
		_, err := fmt.Fprintf(w, "\nWatching %s · updated %s · Ctrl+C to exit\n",
			result.Root, result.GeneratedAt.Format(time.TimeOnly))
		return err
	}
	return nil
}
