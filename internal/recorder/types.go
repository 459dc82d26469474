package recorder

// State is the recording window state of a Session.
type State int

const (
	// StateIdle means no test is in flight; command events are dropped.
	StateIdle State = iota
	// StateRecording means a test is running and command events are buffered.
	StateRecording
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	default:
		return "unknown"
	}
}

// CommandLogEntry is one command observed while a test was running.
type CommandLogEntry struct {
	Message    string `json:"message"`
	DurationMs int64  `json:"durationMs"`
}

// TestRecord is the close-of-test view of a single test attempt.
type TestRecord struct {
	SpecName  string            `json:"specName"`
	SuiteName *string           `json:"suiteName"`
	TestName  string            `json:"testName"`
	Title     string            `json:"title"`
	Error     *string           `json:"error"`
	Commands  []CommandLogEntry `json:"commands"`
	Attempt   int               `json:"attempt"`
}

// ErrorText returns the failure message, or "" when the test did not fail.
func (r TestRecord) ErrorText() string {
	if r.Error == nil {
		return ""
	}
	return *r.Error
}

// Messages returns the command messages in arrival order.
func (r TestRecord) Messages() []string {
	out := make([]string, 0, len(r.Commands))
	for _, c := range r.Commands {
		out = append(out, c.Message)
	}
	return out
}

// Projection returns the persisted form of the record. Durations are not
// part of it.
func (r TestRecord) Projection() TestProjection {
	return TestProjection{
		Test:     r.TestName,
		Commands: r.Messages(),
		Error:    r.ErrorText(),
	}
}

// TestProjection is a test entry as written to a report file.
type TestProjection struct {
	Test     string   `json:"test" yaml:"test"`
	Commands []string `json:"commands" yaml:"commands"`
	Error    string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// SpecReport is the persisted report for one spec file. It holds every test
// finished so far in that spec.
type SpecReport struct {
	Spec  string           `json:"spec" yaml:"spec"`
	Tests []TestProjection `json:"tests" yaml:"tests"`
}

func (r SpecReport) clone() SpecReport {
	tests := make([]TestProjection, len(r.Tests))
	copy(tests, r.Tests)
	return SpecReport{Spec: r.Spec, Tests: tests}
}
