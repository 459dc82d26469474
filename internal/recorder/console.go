package recorder

import "context"

// TaskType names a console task sent while a test runs.
type TaskType string

const (
	TaskTestStart TaskType = "testStart"
	TaskTestStep  TaskType = "testStep"
	TaskTestEnd   TaskType = "testEnd"
)

// Task is a single console message.
type Task struct {
	Type TaskType       `json:"type"`
	Data map[string]any `json:"data"`
}

// Console receives console tasks, in-process or across a bridge.
type Console interface {
	Task(ctx context.Context, task Task) error
}

func startTask(testTitle, specName string) Task {
	return Task{
		Type: TaskTestStart,
		Data: map[string]any{
			"title": testTitle,
			"spec":  specName,
		},
	}
}

func stepTask(entry CommandLogEntry) Task {
	return Task{
		Type: TaskTestStep,
		Data: map[string]any{
			"message":    entry.Message,
			"durationMs": entry.DurationMs,
		},
	}
}

// summaryTask carries the identity, error and command trace of a finished
// test.
func summaryTask(rec TestRecord, state string, path string) Task {
	data := map[string]any{
		"spec":     rec.SpecName,
		"title":    rec.Title,
		"test":     rec.TestName,
		"state":    state,
		"attempt":  rec.Attempt,
		"commands": rec.Messages(),
	}
	if rec.SuiteName != nil {
		data["suite"] = *rec.SuiteName
	}
	if msg := rec.ErrorText(); msg != "" {
		data["error"] = msg
	}
	if path != "" {
		data["file"] = path
	}
	return Task{Type: TaskTestEnd, Data: data}
}
