package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"testtrail/internal/config"
	"testtrail/pkg/logging"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeConfig indicates the configuration could not be loaded.
	ExitCodeConfig = 2
)

var (
	// configPath points at an explicit testtrail.yaml.
	configPath string
	// debug enables verbose logging.
	debug bool
	// logFormat selects text or json diagnostic logs.
	logFormat string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "testtrail",
	Short: "Record the commands each end-to-end test ran",
	Long: `testtrail records the commands every end-to-end test issued and writes one
JSON report per spec file, so a failing CI run can be read without a video.

Events are forwarded by the runner as JSON lines and fed to 'testtrail record'
or 'testtrail watch'. Progress can be mirrored to the terminal directly or
through 'testtrail bridge'.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging()
	},
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "testtrail version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		var cfgErr *config.ConfigurationError
		if errors.As(err, &cfgErr) {
			fmt.Fprintln(os.Stderr, cfgErr.DetailedError())
		}
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	var cfgErr *config.ConfigurationError
	if errors.As(err, &cfgErr) {
		return ExitCodeConfig
	}
	return ExitCodeError
}

func initLogging() error {
	level := logging.LevelInfo
	if debug {
		level = logging.LevelDebug
	}

	switch logging.Format(logFormat) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("unknown log format %q (use text or json)", logFormat)
	}
	logging.Init(logging.Format(logFormat), level, os.Stderr)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the configuration file (default ./testtrail.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", string(logging.FormatText), "Diagnostic log format: text or json")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
	rootCmd.AddCommand(newRecordCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newBridgeCmd())
	rootCmd.AddCommand(newShowCmd())
}
