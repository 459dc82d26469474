package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"testtrail/internal/bridge"
	"testtrail/internal/config"
	"testtrail/internal/ingest"
	"testtrail/internal/recorder"
	"testtrail/internal/template"
	"testtrail/pkg/logging"
)

// recordFlags are the config overrides shared by record and watch.
type recordFlags struct {
	logsDir string
	layout  string
	enable  bool
	console bool
	file    bool
	color   bool
}

func (f *recordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.logsDir, "logs-dir", "", "Report directory (overrides logsDir)")
	cmd.Flags().StringVar(&f.layout, "layout", "", "Report layout: spec or test (overrides layout)")
	cmd.Flags().BoolVar(&f.enable, "enable", false, "Enable recording regardless of the configuration")
	cmd.Flags().BoolVar(&f.console, "console", false, "Mirror test progress to the console")
	cmd.Flags().BoolVar(&f.file, "file", false, "Write JSON reports")
	cmd.Flags().BoolVar(&f.color, "color", isTerminal(os.Stdout), "Color test states in console output")
}

// apply overrides cfg with the flags that were set on cmd.
func (f *recordFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("logs-dir") {
		cfg.LogsDir = f.logsDir
	}
	if flags.Changed("layout") {
		cfg.Layout = f.layout
	}
	if flags.Changed("enable") {
		cfg.Enabled = f.enable
	}
	if flags.Changed("console") {
		cfg.WriteToConsole = f.console
	}
	if flags.Changed("file") {
		cfg.WriteToFile = f.file
	}
}

// recorderSetup is everything needed to create one recorder per run.
type recorderSetup struct {
	options recorder.Options
	ledger  *recorder.Ledger
	console recorder.Console
	closer  io.Closer
}

// newRecorderSetup loads the configuration, applies the flag overrides and
// connects the console. Configuration problems are returned as
// *config.ConfigurationError.
func newRecorderSetup(cmd *cobra.Command, flags *recordFlags) (*recorderSetup, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	flags.apply(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return nil, &config.ConfigurationError{
			FilePath:  configPath,
			ErrorType: "validation",
			Message:   err.Error(),
		}
	}

	if !debug {
		applyLogConfig(cmd, cfg.Log)
	}

	opts, err := cfg.RecorderOptions(template.New())
	if err != nil {
		return nil, &config.ConfigurationError{
			FilePath:  configPath,
			ErrorType: "validation",
			Message:   err.Error(),
		}
	}

	setup := &recorderSetup{options: opts, ledger: recorder.NewLedger()}
	if !opts.WriteToConsole {
		return setup, nil
	}

	switch cfg.Bridge.Transport {
	case config.TransportStreamableHTTP:
		endpoint := cfg.Bridge.Endpoint
		if endpoint == "" {
			endpoint = config.DefaultBridgeEndpoint
		}
		client, err := bridge.Dial(cmd.Context(), endpoint, rootCmd.Version)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to console bridge at %s: %w", endpoint, err)
		}
		setup.console = client
		setup.closer = client
		logging.Info("CLI", "Mirroring console output to %s", endpoint)
	default:
		setup.console = bridge.NewPrinter(cmd.OutOrStdout(), bridge.WithColor(flags.color))
	}
	return setup, nil
}

// applyLogConfig re-initializes logging from the configuration file. The
// --log-format flag wins over the file.
func applyLogConfig(cmd *cobra.Command, lc config.LogConfig) {
	level, err := logging.ParseLevel(lc.Level)
	if err != nil {
		logging.Warn("CLI", "Ignoring log level from configuration: %v", err)
		return
	}
	format := logging.Format(logFormat)
	if !cmd.Flags().Changed("log-format") && lc.Format != "" {
		format = logging.Format(lc.Format)
	}
	if format != logging.FormatJSON {
		format = logging.FormatText
	}
	logging.Init(format, level, cmd.ErrOrStderr())
}

// factory returns an ingest.Factory that builds recorders with the setup.
func (s *recorderSetup) factory(ctx context.Context) ingest.Factory {
	return func(runID string) (*recorder.Recorder, error) {
		options := []recorder.Option{recorder.WithContext(ctx), recorder.WithLedger(s.ledger)}
		if s.console != nil {
			options = append(options, recorder.WithConsole(s.console))
		}
		rec, err := recorder.New(s.options, options...)
		if err != nil {
			return nil, err
		}
		logging.Debug("CLI", "created recorder for run %s", runID)
		return rec, nil
	}
}

func (s *recorderSetup) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
