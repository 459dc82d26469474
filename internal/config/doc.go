// Package config loads the testtrail configuration.
//
// Configuration lives in a single YAML file, testtrail.yaml in the working
// directory unless another path is given with the --config flag. A missing
// default file is not an error: every output switch starts off, so an
// unconfigured project records nothing.
//
// # Example
//
//	enabled: true
//	writeToConsole: true
//	writeToFile: true
//	logsDir: 'cypress/logs/{{ env "CI_JOB_ID" | default "local" }}'
//	layout: spec
//	retries:
//	  runMode: 2
//	  openMode: 0
//	mode: run
//	bridge:
//	  transport: streamable-http
//	  endpoint: http://localhost:8099/mcp
//
// The retries value follows the runner's own setting and may also be a plain
// number, which applies to run mode only.
//
// Errors found while loading are returned as *ConfigurationError so the CLI
// can print the file, the error type and suggestions.
package config
