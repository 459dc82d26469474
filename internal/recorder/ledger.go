package recorder

import "sync"

// Ledger accumulates the tests written to each report file. Recorders that
// share a ledger append to the same report when they write to the same path,
// so the file holds every test finished in the process, whichever recorder
// finished it.
type Ledger struct {
	mu      sync.Mutex
	entries map[string]*ledgerEntry
}

type ledgerEntry struct {
	mu     sync.Mutex
	report SpecReport
}

// DefaultLedger is used by recorders created without WithLedger.
var DefaultLedger = NewLedger()

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{entries: make(map[string]*ledgerEntry)}
}

// Commit appends test to the report of path and writes the whole report with
// sink. Commits to the same path are serialized; the write happens under the
// same lock, so a file never goes back to an older state.
func (l *Ledger) Commit(path, spec string, test TestProjection, sink Sink) (SpecReport, error) {
	entry := l.entry(path)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.report.Spec = spec
	entry.report.Tests = append(entry.report.Tests, test)
	snapshot := entry.report.clone()
	return snapshot, sink.WriteReport(snapshot, path)
}

// Report returns a snapshot of the report accumulated for path.
func (l *Ledger) Report(path string) (SpecReport, bool) {
	l.mu.Lock()
	entry, ok := l.entries[path]
	l.mu.Unlock()
	if !ok {
		return SpecReport{}, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.report.clone(), true
}

func (l *Ledger) entry(path string) *ledgerEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.entries[path]
	if !ok {
		entry = &ledgerEntry{report: SpecReport{Tests: make([]TestProjection, 0, 1)}}
		l.entries[path] = entry
	}
	return entry
}
