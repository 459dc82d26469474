package formatting

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"testtrail/internal/recorder"
)

// YAMLFormatter provides YAML output formatting
type YAMLFormatter struct{}

func (f *YAMLFormatter) FormatReport(w io.Writer, report recorder.SpecReport) error {
	if report.Tests == nil {
		report.Tests = []recorder.TestProjection{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report as YAML: %w", err)
	}
	return enc.Close()
}
