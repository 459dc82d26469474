package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"testtrail/internal/ingest"
	"testtrail/pkg/logging"
)

func newRecordCmd() *cobra.Command {
	var flags recordFlags
	var jobs int

	cmd := &cobra.Command{
		Use:   "record [files...]",
		Short: "Write reports from recorded runner event streams",
		Long: `Reads runner events, one JSON object per line, and writes the test reports.

Without arguments events are read from standard input, so the runner's
forwarder can be piped straight in. With arguments every file is processed
concurrently, each on its own recorder.

Recording only happens when enabled, in the configuration or with --enable.`,
		Example: `  node forward-events.js | testtrail record --enable --file
  testtrail record --enable --file --console spool/*.jsonl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			setup, err := newRecorderSetup(cmd, &flags)
			if err != nil {
				return err
			}
			defer setup.Close()

			if !setup.options.Enabled {
				logging.Warn("CLI", "Recording is disabled, events are read but nothing is written (use --enable)")
			}

			ctx := cmd.Context()
			start := time.Now()
			if len(args) == 0 {
				stream := ingest.NewStream(setup.factory(ctx))
				if err := stream.Process(ctx, cmd.InOrStdin()); err != nil {
					return fmt.Errorf("failed to record events: %w", err)
				}
				logging.Info("CLI", "Recorded %d runs in %s", len(stream.Runs()), logging.Since(start))
				return nil
			}

			if err := ingest.ProcessFiles(ctx, args, setup.factory(ctx), jobs); err != nil {
				return fmt.Errorf("failed to record events: %w", err)
			}
			logging.Info("CLI", "Recorded %d files in %s", len(args), logging.Since(start))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "Maximum number of files processed at once (0 for no limit)")
	return cmd
}
