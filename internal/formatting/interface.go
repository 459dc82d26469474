// Package formatting renders spec reports and console data for the CLI.
//
// Reports can be printed as a console tree, a table, JSON or YAML. The JSON
// form is byte for byte the persisted report, so piping it back into a file
// gives a report that reads back unchanged.
package formatting

import (
	"fmt"
	"io"

	"testtrail/internal/recorder"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatConsole OutputFormat = "console" // Simple console output
	FormatJSON    OutputFormat = "json"    // JSON output
	FormatYAML    OutputFormat = "yaml"    // YAML output
	FormatTable   OutputFormat = "table"   // Rich table output
)

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Color  bool // Enable colored output
}

// Formatter writes a spec report.
type Formatter interface {
	FormatReport(w io.Writer, report recorder.SpecReport) error
}

// ParseFormat returns the output format named s.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case FormatConsole, FormatJSON, FormatYAML, FormatTable:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use console, table, json or yaml)", s)
	}
}

// NewFormatter creates the appropriate formatter based on options
func NewFormatter(options Options) Formatter {
	switch options.Format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatConsole:
		return &ConsoleFormatter{options: options}
	case FormatTable:
		fallthrough
	default:
		return &TableFormatter{options: options}
	}
}
