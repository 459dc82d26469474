package formatting

import (
	"io"

	"testtrail/internal/recorder"
)

// JSONFormatter writes the report exactly as it is persisted.
type JSONFormatter struct{}

func (f *JSONFormatter) FormatReport(w io.Writer, report recorder.SpecReport) error {
	data, err := recorder.MarshalReport(report)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
