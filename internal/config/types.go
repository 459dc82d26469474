package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config is the testtrail configuration file.
type Config struct {
	// Enabled is the master switch. Nothing is recorded unless it is set.
	Enabled bool `yaml:"enabled"`
	// WriteToConsole mirrors commands and failure summaries while tests run.
	WriteToConsole bool `yaml:"writeToConsole"`
	// WriteToFile persists one JSON report per spec.
	WriteToFile bool `yaml:"writeToFile"`

	// LogsDir is the report directory. It may contain template expressions.
	LogsDir string `yaml:"logsDir,omitempty"`
	// Layout is "spec" (one file per spec) or "test" (one file per test).
	Layout string `yaml:"layout,omitempty"`

	SpecRoots          []string `yaml:"specRoots,omitempty"`
	SpecExtensions     []string `yaml:"specExtensions,omitempty"`
	NetworkInstruments []string `yaml:"networkInstruments,omitempty"`

	// Retries mirrors the runner's retries setting: a number, or an object
	// with runMode and openMode.
	Retries Retries `yaml:"retries,omitempty"`
	// Mode is the runner mode, "run" or "open".
	Mode string `yaml:"mode,omitempty"`

	Bridge BridgeConfig `yaml:"bridge,omitempty"`
	Log    LogConfig    `yaml:"log,omitempty"`
}

// BridgeConfig selects where console output goes.
type BridgeConfig struct {
	// Transport is "" for in-process printing or "streamable-http" to send
	// console tasks to a running bridge.
	Transport string `yaml:"transport,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Retries is the runner's retry budget.
type Retries struct {
	RunMode  int `yaml:"runMode"`
	OpenMode int `yaml:"openMode"`
	set      bool
}

// UnmarshalYAML accepts either a plain number, applied to both modes, or a
// mapping with runMode and openMode. Non-numeric values count as zero.
func (r *Retries) UnmarshalYAML(node *yaml.Node) error {
	*r = Retries{}
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil
		}
		var n int
		if err := node.Decode(&n); err != nil {
			return nil
		}
		r.RunMode, r.OpenMode, r.set = n, n, true
		return nil
	case yaml.MappingNode:
		var raw map[string]interface{}
		if err := node.Decode(&raw); err != nil {
			return fmt.Errorf("invalid retries: %w", err)
		}
		r.RunMode = intValue(raw["runMode"])
		r.OpenMode = intValue(raw["openMode"])
		r.set = true
		return nil
	default:
		return fmt.Errorf("invalid retries: expected a number or a mapping at line %d", node.Line)
	}
}

// MarshalYAML writes the mapping form.
func (r Retries) MarshalYAML() (interface{}, error) {
	return map[string]int{"runMode": r.RunMode, "openMode": r.OpenMode}, nil
}

// IsZero reports whether retries were left unset.
func (r Retries) IsZero() bool {
	return !r.set && r.RunMode == 0 && r.OpenMode == 0
}

// Times returns the number of retries for the given runner mode.
func (r Retries) Times(mode string) int {
	if mode == ModeOpen {
		return r.OpenMode
	}
	return r.RunMode
}

func intValue(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
