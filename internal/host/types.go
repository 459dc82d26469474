package host

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EventName identifies a host runner lifecycle or logging event.
type EventName string

const (
	// EventTestBeforeRun fires before a test body starts.
	EventTestBeforeRun EventName = "test:before:run"
	// EventTestAfterRun fires once a test and its hooks have finished.
	EventTestAfterRun EventName = "test:after:run"
	// EventLogAdded fires when the runner creates a new log entry.
	EventLogAdded EventName = "log:added"
	// EventLogChanged fires when an existing log entry is updated.
	EventLogChanged EventName = "log:changed"
)

// InstrumentCommand is the instrument tag of command log entries.
const InstrumentCommand = "command"

// TestState is the final state the runner assigned to a test.
type TestState string

const (
	TestPassed  TestState = "passed"
	TestFailed  TestState = "failed"
	TestPending TestState = "pending"
	TestSkipped TestState = "skipped"
)

// TestError is the failure attached to a test that did not pass.
type TestError struct {
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// TestInfo identifies the current test.
type TestInfo struct {
	FullTitle   string     `json:"fullTitle,omitempty"`
	Title       string     `json:"title"`
	ParentTitle *string    `json:"parentTitle,omitempty"`
	State       TestState  `json:"state,omitempty"`
	Err         *TestError `json:"err,omitempty"`
}

// QualifiedName returns the fully-qualified test name. When the runner did not
// supply one it is derived from the parent suite and the test title.
func (t TestInfo) QualifiedName() string {
	if t.FullTitle != "" {
		return t.FullTitle
	}
	if t.ParentTitle != nil && *t.ParentTitle != "" {
		return *t.ParentTitle + " " + t.Title
	}
	return t.Title
}

// SpecInfo identifies the spec file a test belongs to.
type SpecInfo struct {
	Name     string `json:"name,omitempty"`
	Relative string `json:"relative"`
	Absolute string `json:"absolute,omitempty"`
}

// LogEvent is the payload of log:added and log:changed.
//
// The runner may read the event again after a handler returns, so handlers
// that update Duration or WallClockStoppedAt do so in place.
type LogEvent struct {
	Instrument         string         `json:"instrument,omitempty"`
	Name               string         `json:"name,omitempty"`
	Message            string         `json:"message,omitempty"`
	ConsoleProps       map[string]any `json:"consoleProps,omitempty"`
	WallClockStartedAt Timestamp      `json:"wallClockStartedAt,omitzero"`
	WallClockStoppedAt Timestamp      `json:"wallClockStoppedAt,omitzero"`
	Duration           *int64         `json:"duration,omitempty"`
}

// IsCommand reports whether the event is a command carrying introspection data.
func (e *LogEvent) IsCommand() bool {
	return e != nil && e.Instrument == InstrumentCommand && e.ConsoleProps != nil
}

// Prop returns a console property rendered as a string, or "" when absent.
func (e *LogEvent) Prop(key string) string {
	if e == nil || e.ConsoleProps == nil {
		return ""
	}
	switch v := e.ConsoleProps[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Timestamp is a wall clock instant as reported by the runner. It accepts
// RFC 3339 strings and epoch milliseconds; anything else decodes as unset.
type Timestamp struct {
	time.Time
}

// At wraps t as a Timestamp.
func At(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	ts.Time = time.Time{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		ts.Time = parseTimestamp(s)
		return nil
	}

	var ms float64
	if err := json.Unmarshal(data, &ms); err == nil && ms > 0 {
		ts.Time = time.UnixMilli(int64(ms)).UTC()
	}
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.UTC().Format(time.RFC3339Nano))
}

func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil && ms > 0 {
		return time.UnixMilli(ms).UTC()
	}
	return time.Time{}
}
