package bridge

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testtrail/internal/recorder"
)

func TestPrinter_TreeLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	ctx := context.Background()

	tasks := []recorder.Task{
		{Type: recorder.TaskTestStart, Data: map[string]any{"title": "Auth logs in", "spec": "auth"}},
		{Type: recorder.TaskTestStep, Data: map[string]any{"message": "visit /login", "durationMs": int64(12)}},
		{Type: recorder.TaskTestStep, Data: map[string]any{"message": "get #user", "durationMs": int64(0)}},
		{Type: recorder.TaskTestEnd, Data: map[string]any{"state": "passed", "attempt": 1, "file": "cypress/logs/auth.json"}},
	}
	for _, task := range tasks {
		require.NoError(t, p.Task(ctx, task))
	}

	want := strings.Join([]string{
		"Auth logs in [auth]",
		"├─ visit /login (12ms)",
		"├─ get #user",
		"└─ passed, saved cypress/logs/auth.json",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestPrinter_FailureDetails(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	err := p.Task(context.Background(), recorder.Task{
		Type: recorder.TaskTestEnd,
		Data: map[string]any{
			"spec":     "auth",
			"title":    "rejects",
			"suite":    "Auth",
			"test":     "Auth rejects",
			"state":    "failed",
			"attempt":  2,
			"error":    "boom",
			"commands": []string{"visit /login", "click #submit"},
		},
	})
	require.NoError(t, err)

	want := strings.Join([]string{
		"└─ failed (attempt 2)",
		"   === test failed ===",
		"   auth",
		"   === title ===",
		"   rejects",
		"   suite Auth",
		"   Auth rejects",
		"   === error ===",
		"   boom",
		"   === commands ===",
		"   visit /login",
		"   click #submit",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestPrinter_FailureWithoutSuite(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	// data decoded from JSON carries numbers as float64 and lists as []any
	err := p.Task(context.Background(), recorder.Task{
		Type: recorder.TaskTestEnd,
		Data: map[string]any{
			"spec":     "auth",
			"title":    "t",
			"test":     "t",
			"state":    "failed",
			"attempt":  float64(1),
			"error":    "boom",
			"commands": []any{"visit /"},
		},
	})
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "suite")
	assert.Contains(t, buf.String(), "   t\n   t\n")
	assert.Contains(t, buf.String(), "   visit /\n")
}

func TestPrinter_CustomFormat(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, WithFormat(recorder.TaskTestStep, `  - {{ .message | upper }}`))

	require.NoError(t, p.Task(context.Background(), recorder.Task{
		Type: recorder.TaskTestStep,
		Data: map[string]any{"message": "visit /"},
	}))
	assert.Equal(t, "  - VISIT /\n", buf.String())
}

func TestPrinter_Color(t *testing.T) {
	text.EnableColors()
	var buf bytes.Buffer
	p := NewPrinter(&buf, WithColor(true))

	require.NoError(t, p.Task(context.Background(), recorder.Task{
		Type: recorder.TaskTestEnd,
		Data: map[string]any{"state": "passed"},
	}))
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "└─ passed")
}

func TestPrinter_Errors(t *testing.T) {
	p := NewPrinter(&bytes.Buffer{})

	err := p.Task(context.Background(), recorder.Task{Type: "testFinish"})
	assert.ErrorIs(t, err, ErrUnknownTask)

	err = p.Console("warn", "x")
	assert.ErrorIs(t, err, ErrUnknownTask)

	p = NewPrinter(&bytes.Buffer{}, WithFormat(recorder.TaskTestStart, "{{ .title"))
	assert.Error(t, p.Task(context.Background(), recorder.Task{Type: recorder.TaskTestStart}))
}

func TestPrinter_Console(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	require.NoError(t, p.Console(MethodLog, "hello"))
	require.NoError(t, p.Console(MethodLog, map[string]any{"a": 1}))
	assert.Equal(t, "hello\n{\n  \"a\": 1\n}\n", buf.String())

	buf.Reset()
	require.NoError(t, p.Console(MethodTable, []any{map[string]any{"name": "visit"}}))
	assert.Contains(t, buf.String(), "visit")
}

func TestPrinter_ImplementsConsole(t *testing.T) {
	var _ recorder.Console = NewPrinter(&bytes.Buffer{})
	var _ recorder.Console = &Client{}
}
