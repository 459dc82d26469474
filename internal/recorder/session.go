package recorder

import (
	"sync"

	"github.com/google/uuid"
)

// Session holds the state of one recording session: the command buffer of the
// test in flight, the recording window state, the retry table and the reports
// accumulated so far. All of it is guarded by a single mutex so that Append
// never interleaves with DrainAndReset or Start.
//
// A session is not tied to a process; parallel workers each own one.
type Session struct {
	mu       sync.Mutex
	id       string
	state    State
	commands []CommandLogEntry
	retries  map[string]int
	reports  map[string]*SpecReport
}

// NewSession creates an idle session with a fresh identifier.
func NewSession() *Session {
	return &Session{
		id:       uuid.New().String(),
		state:    StateIdle,
		commands: make([]CommandLogEntry, 0),
		retries:  make(map[string]int),
		reports:  make(map[string]*SpecReport),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current recording window state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start clears the buffer and opens the recording window.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = make([]CommandLogEntry, 0)
	s.state = StateRecording
}

// Stop closes the recording window. The buffer is kept until drained.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
}

// Append adds entry to the buffer. It is a no-op when the window is closed.
func (s *Session) Append(entry CommandLogEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRecording {
		return false
	}
	s.commands = append(s.commands, entry)
	return true
}

// Len returns the number of buffered entries.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.commands)
}

// DrainAndReset returns the buffered entries and empties the buffer.
func (s *Session) DrainAndReset() []CommandLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.commands
	s.commands = make([]CommandLogEntry, 0)
	return out
}

// BumpRetry increments the occurrence count of testName and returns it.
func (s *Session) BumpRetry(testName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retries[testName]++
	return s.retries[testName]
}

// Retries returns the occurrence count of testName.
func (s *Session) Retries(testName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.retries[testName]
}

// Accumulate appends test to the report stored under key, sets its spec name,
// and returns a snapshot of the whole report.
func (s *Session) Accumulate(key, spec string, test TestProjection) SpecReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, ok := s.reports[key]
	if !ok {
		report = &SpecReport{Tests: make([]TestProjection, 0, 1)}
		s.reports[key] = report
	}
	report.Spec = spec
	report.Tests = append(report.Tests, test)
	return report.clone()
}

// Report returns a snapshot of the report stored under key.
func (s *Session) Report(key string) (SpecReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	report, ok := s.reports[key]
	if !ok {
		return SpecReport{}, false
	}
	return report.clone(), true
}
