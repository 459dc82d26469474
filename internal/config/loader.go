package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"testtrail/internal/recorder"
	"testtrail/internal/template"
	"testtrail/pkg/logging"
)

// LoadConfig reads the configuration file at configPath. An empty path means
// testtrail.yaml in the working directory. A missing file yields the defaults.
func LoadConfig(configPath string) (Config, error) {
	explicit := configPath != ""
	if !explicit {
		configPath = ConfigFileName
	}
	config := GetDefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			logging.Debug("ConfigLoader", "No %s found, using defaults", configPath)
			return config, nil
		}
		return Config{}, &ConfigurationError{
			FilePath:    configPath,
			ErrorType:   "io",
			Message:     "cannot read configuration file",
			Details:     err.Error(),
			Suggestions: []string{"check that the file exists and is readable"},
		}
	}
	return parse(configPath, data, config)
}

// Parse decodes a configuration document on top of the defaults.
func Parse(data []byte) (Config, error) {
	return parse("", data, GetDefaultConfig())
}

func parse(path string, data []byte, config Config) (Config, error) {
	if strings.TrimSpace(string(data)) != "" {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return Config{}, &ConfigurationError{
				FilePath:    path,
				ErrorType:   "parse",
				Message:     "malformed YAML",
				Details:     err.Error(),
				Suggestions: []string{"retries must be a number or a mapping with runMode and openMode"},
			}
		}
	}
	if err := config.Validate(); err != nil {
		return Config{}, &ConfigurationError{
			FilePath:  path,
			ErrorType: "validation",
			Message:   err.Error(),
		}
	}
	if path != "" {
		logging.Info("ConfigLoader", "Loaded configuration from %s", path)
	}
	return config, nil
}

// RecorderOptions converts the configuration into recorder options. The logs
// directory is rendered as a template, so it may refer to the environment.
func (c Config) RecorderOptions(engine *template.Engine) (recorder.Options, error) {
	opts := recorder.DefaultOptions()
	opts.Enabled = c.Enabled
	opts.WriteToConsole = c.WriteToConsole
	opts.WriteToFile = c.WriteToFile
	opts.Retries = c.Retries.Times(c.Mode)

	if c.Layout != "" {
		opts.Layout = recorder.Layout(c.Layout)
	}
	if len(c.SpecRoots) > 0 {
		opts.SpecRoots = c.SpecRoots
	}
	if len(c.SpecExtensions) > 0 {
		opts.SpecExtensions = c.SpecExtensions
	}
	if len(c.NetworkInstruments) > 0 {
		opts.NetworkInstruments = c.NetworkInstruments
	}

	if engine == nil {
		engine = template.New()
	}
	logsDir, err := engine.Render(c.LogsDir, nil)
	if err != nil {
		return recorder.Options{}, fmt.Errorf("failed to expand logsDir %q: %w", c.LogsDir, err)
	}
	opts.LogsDir = strings.TrimSpace(logsDir)
	return opts, nil
}
