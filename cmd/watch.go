package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"testtrail/internal/ingest"
)

func newWatchCmd() *cobra.Command {
	var flags recordFlags
	var quiet bool

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Follow a spool directory of runner event streams",
		Long: `Follows a directory the runner's forwarder writes *.jsonl event streams to
and writes reports as soon as each test finishes. Files already in the
directory are read first. Stops on Ctrl+C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setup, err := newRecorderSetup(cmd, &flags)
			if err != nil {
				return err
			}
			defer setup.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			dir := args[0]
			w := ingest.NewWatcher(dir, setup.factory(ctx))

			var s *spinner.Spinner
			if !quiet && !setup.options.WriteToConsole {
				s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
				s.Suffix = fmt.Sprintf(" Waiting for events in %s...", dir)
				s.Start()
				defer s.Stop()
			}

			total := 0
			w.Notify = func(path string, lines int) {
				total += lines
				if s != nil {
					s.Lock()
					s.Suffix = fmt.Sprintf(" %d events, last from %s", total, filepath.Base(path))
					s.Unlock()
				}
			}

			return w.Run(ctx)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not show a progress spinner")
	return cmd
}
