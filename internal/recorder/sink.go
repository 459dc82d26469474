package recorder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Sink persists a spec report.
type Sink interface {
	// WriteReport replaces the content of path with the full report.
	WriteReport(report SpecReport, path string) error
}

// FileSink writes reports to the local file system.
type FileSink struct {
	dirPerm  os.FileMode
	filePerm os.FileMode
}

// NewFileSink creates a sink writing world-readable report files.
func NewFileSink() *FileSink {
	return &FileSink{
		dirPerm:  0o755,
		filePerm: 0o644,
	}
}

// WriteReport serializes report and overwrites path with it, creating parent
// directories as needed.
func (s *FileSink) WriteReport(report SpecReport, path string) error {
	data, err := MarshalReport(report)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), s.dirPerm); err != nil {
		return fmt.Errorf("failed to create logs directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, s.filePerm); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

// MarshalReport renders report as two-space indented JSON followed by a
// newline.
func MarshalReport(report SpecReport) ([]byte, error) {
	report = report.clone()
	for i := range report.Tests {
		if report.Tests[i].Commands == nil {
			report.Tests[i].Commands = make([]string, 0)
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return nil, fmt.Errorf("failed to encode report for %s: %w", report.Spec, err)
	}
	return buf.Bytes(), nil
}

// ReadReport loads a report previously written by FileSink.
func ReadReport(path string) (SpecReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SpecReport{}, fmt.Errorf("failed to read report %s: %w", path, err)
	}
	var report SpecReport
	if err := json.Unmarshal(data, &report); err != nil {
		return SpecReport{}, fmt.Errorf("failed to decode report %s: %w", path, err)
	}
	return report, nil
}
