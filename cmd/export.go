package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/penwyp/claudestat/internal"
)

type exportOptions struct {
	format    string
	compress  bool
	overwrite bool
}

func newExportCmd(root *rootOptions) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export [output-file]",
		Short: "Export the deduplicated usage records",
		Long: `Export every usage record in the selected time range, most recent first.
Without an output file the records are written to stdout.

Examples:
  claudestat export usage.csv                     # All records from the last 30 days
  claudestat export -r all -f json usage.json     # Everything as JSON
  claudestat export -r 7d --compress week.csv     # Writes week.csv.gz`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfiguration(cmd, root)
			if err != nil {
				return err
			}

			ctx, stop := internal.SignalContext(cmd.Context())
			defer stop()

			exporter, err := internal.NewExporter(cfg)
			if err != nil {
				return fmt.Errorf("failed to create exporter: %w", err)
			}

			options := internal.ExportOptions{
				Format:    opts.format,
				Writer:    cmd.OutOrStdout(),
				Compress:  opts.compress,
				Overwrite: opts.overwrite,
			}
			if len(args) == 1 {
				options.OutputFile = args[0]
			}

			result, err := exporter.Export(ctx, options)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			errW := cmd.ErrOrStderr()
			if result.Notice != "" {
				fmt.Fprintln(errW, result.Notice)
			}
			if result.OutputFile != "" {
				fmt.Fprintf(errW, "Exported %d records to %s (%d bytes, %v)\n",
					result.RecordCount, result.OutputFile, result.FileSize, result.Duration.Round(time.Millisecond))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", internal.ExportCSV, "export format (csv, json)")
	cmd.Flags().BoolVar(&opts.compress, "compress", false, "gzip the output")
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "overwrite an existing output file")

	return cmd
}
