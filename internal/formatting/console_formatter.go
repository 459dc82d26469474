package formatting

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/text"

	"testtrail/internal/recorder"
)

// ConsoleFormatter prints a report as an indented tree.
type ConsoleFormatter struct {
	options Options
}

func (f *ConsoleFormatter) FormatReport(w io.Writer, report recorder.SpecReport) error {
	if _, err := fmt.Fprintln(w, f.paint(text.Bold, report.Spec)); err != nil {
		return err
	}
	for i, t := range report.Tests {
		branch, indent := "├─", "│  "
		if i == len(report.Tests)-1 {
			branch, indent = "└─", "   "
		}

		title := t.Test
		if t.Error != "" {
			title = f.paint(text.FgRed, title)
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", branch, title); err != nil {
			return err
		}
		for _, c := range t.Commands {
			if _, err := fmt.Fprintf(w, "%s  %s\n", indent, c); err != nil {
				return err
			}
		}
		if t.Error != "" {
			if _, err := fmt.Fprintf(w, "%s  %s\n", indent, f.paint(text.FgRed, "error: "+t.Error)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *ConsoleFormatter) paint(c text.Color, s string) string {
	if !f.options.Color {
		return s
	}
	return c.Sprint(s)
}
