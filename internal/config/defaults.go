package config

const (
	// ConfigFileName is looked up in the working directory.
	ConfigFileName = "testtrail.yaml"

	// DefaultLogsDir is where reports go unless configured otherwise.
	DefaultLogsDir = "cypress/logs"

	ModeRun  = "run"
	ModeOpen = "open"

	TransportInProcess     = ""
	TransportStreamableHTTP = "streamable-http"

	// DefaultBridgeEndpoint is the bridge address used when none is set.
	DefaultBridgeEndpoint = "http://localhost:8099/mcp"
)

// GetDefaultConfig returns the default configuration. Every switch is off.
func GetDefaultConfig() Config {
	return Config{
		LogsDir: DefaultLogsDir,
		Layout:  "spec",
		Mode:    ModeRun,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
