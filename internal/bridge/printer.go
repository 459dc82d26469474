package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/jedib0t/go-pretty/v6/text"

	"testtrail/internal/formatting"
	"testtrail/internal/recorder"
	"testtrail/internal/template"
)

// ErrUnknownTask is returned for task types and console methods the printer
// does not handle.
var ErrUnknownTask = errors.New("unknown console task")

const (
	// MethodLog prints data as is.
	MethodLog = "log"
	// MethodTable prints data as a table.
	MethodTable = "table"
)

// Default line formats. They are rendered with the task data.
const (
	DefaultStartFormat = `{{ .title }}{{ with .spec }} [{{ . }}]{{ end }}`
	DefaultStepFormat  = `├─ {{ .message }}{{ with .durationMs }} ({{ . }}ms){{ end }}`
	DefaultEndFormat   = `└─ {{ .state }}{{ if gt (int .attempt) 1 }} (attempt {{ .attempt }}){{ end }}{{ with .file }}, saved {{ . }}{{ end }}`
)

const failureFormat = `=== test failed ===
{{ .spec }}
=== title ===
{{ .title }}
{{- with .suite }}
suite {{ . }}
{{- end }}
{{ .test }}
=== error ===
{{ .error }}
=== commands ===
{{ join "\n" .commands }}`

const failureIndent = "   "

// Printer writes console tasks to a terminal.
type Printer struct {
	mu      sync.Mutex
	out     io.Writer
	engine  *template.Engine
	formats map[recorder.TaskType]string
	color   bool
}

// PrinterOption customizes a Printer.
type PrinterOption func(*Printer)

// WithFormat replaces the line format of a task type.
func WithFormat(taskType recorder.TaskType, format string) PrinterOption {
	return func(p *Printer) { p.formats[taskType] = format }
}

// WithColor turns colored state output on or off.
func WithColor(enabled bool) PrinterOption {
	return func(p *Printer) { p.color = enabled }
}

// NewPrinter creates a printer writing to out.
func NewPrinter(out io.Writer, opts ...PrinterOption) *Printer {
	p := &Printer{
		out:    out,
		engine: template.New(),
		formats: map[recorder.TaskType]string{
			recorder.TaskTestStart: DefaultStartFormat,
			recorder.TaskTestStep:  DefaultStepFormat,
			recorder.TaskTestEnd:   DefaultEndFormat,
		},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Task prints one line for task. A testEnd task that carries an error is
// followed by the failure details.
func (p *Printer) Task(_ context.Context, task recorder.Task) error {
	format, ok := p.formats[task.Type]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTask, task.Type)
	}

	line, err := p.engine.Render(format, task.Data)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", task.Type, err)
	}

	var failure string
	if task.Type == recorder.TaskTestEnd {
		line = p.paintState(task.Data, line)
		if msg, _ := task.Data["error"].(string); msg != "" {
			failure, err = p.engine.Render(failureFormat, task.Data)
			if err != nil {
				return fmt.Errorf("failed to render failure details: %w", err)
			}
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := fmt.Fprintln(p.out, line); err != nil {
		return err
	}
	if failure != "" {
		for _, l := range strings.Split(failure, "\n") {
			if _, err := fmt.Fprintln(p.out, failureIndent+l); err != nil {
				return err
			}
		}
	}
	return nil
}

// Console prints data with one of the plain console methods.
func (p *Printer) Console(method string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch method {
	case MethodLog:
		s, ok := data.(string)
		if !ok {
			s = formatting.PrettyJSON(data)
		}
		_, err := fmt.Fprintln(p.out, s)
		return err
	case MethodTable:
		return formatting.RenderDataTable(p.out, data)
	default:
		return fmt.Errorf("%w: console method %q", ErrUnknownTask, method)
	}
}

func (p *Printer) paintState(data map[string]any, line string) string {
	if !p.color {
		return line
	}
	state, _ := data["state"].(string)
	switch state {
	case "passed":
		return text.FgGreen.Sprint(line)
	case "failed":
		return text.FgRed.Sprint(line)
	default:
		return text.FgYellow.Sprint(line)
	}
}
