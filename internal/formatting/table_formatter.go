package formatting

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"testtrail/internal/recorder"
	tstrings "testtrail/pkg/strings"
)

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

func (f *TableFormatter) FormatReport(w io.Writer, report recorder.SpecReport) error {
	t := f.createTable(w)
	t.SetTitle(report.Spec)
	t.AppendHeader(table.Row{"#", "TEST", "COMMANDS", "ERROR"})

	failed := 0
	for i, test := range report.Tests {
		errText := tstrings.SingleLine(test.Error, tstrings.DefaultCellMaxLen)
		if errText != "" {
			failed++
			errText = f.paint(text.FgRed, errText)
		}
		t.AppendRow(table.Row{i + 1, test.Test, strings.Join(test.Commands, "\n"), errText})
		t.AppendSeparator()
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d tests", len(report.Tests)), "", fmt.Sprintf("%d failed", failed)})

	t.Render()
	return nil
}

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: 80},
		{Number: 4, WidthMax: 60},
	})
	return t
}

func (f *TableFormatter) paint(c text.Color, s string) string {
	if !f.options.Color {
		return s
	}
	return c.Sprint(s)
}
