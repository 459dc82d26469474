package recorder

import (
	"strings"
	"time"

	"testtrail/internal/host"
)

// Tap turns runner events into buffer mutations on a Session.
type Tap struct {
	session *Session
	now     func() time.Time
	network map[string]bool
}

// NewTap creates a tap feeding session. Log events whose name is listed in
// network get a method/URL qualifier appended to their message.
func NewTap(session *Session, now func() time.Time, network []string) *Tap {
	if now == nil {
		now = time.Now
	}
	names := make(map[string]bool, len(network))
	for _, n := range network {
		names[n] = true
	}
	return &Tap{
		session: session,
		now:     now,
		network: names,
	}
}

// OnTestStart opens the recording window with an empty buffer.
func (t *Tap) OnTestStart() {
	t.session.Start()
}

// OnTestEnd closes the recording window. It must run before the buffer is
// drained.
func (t *Tap) OnTestEnd() {
	t.session.Stop()
}

// OnLogAdded buffers a command event. It returns the entry and whether it was
// recorded.
func (t *Tap) OnLogAdded(ev *host.LogEvent) (CommandLogEntry, bool) {
	if !ev.IsCommand() {
		return CommandLogEntry{}, false
	}

	entry := CommandLogEntry{
		Message:    t.message(ev),
		DurationMs: elapsedMs(ev.WallClockStartedAt, host.At(t.now())),
	}
	if !t.session.Append(entry) {
		return CommandLogEntry{}, false
	}
	return entry, true
}

// OnLogChanged stamps the stop time and duration of a command event back onto
// the event.
func (t *Tap) OnLogChanged(ev *host.LogEvent) {
	if !ev.IsCommand() {
		return
	}

	stopped := ev.WallClockStoppedAt
	if stopped.IsZero() {
		stopped = host.At(t.now())
	}
	duration := elapsedMs(ev.WallClockStartedAt, stopped)

	ev.WallClockStoppedAt = stopped
	ev.Duration = &duration
	ev.ConsoleProps["Duration"] = duration
}

func (t *Tap) message(ev *host.LogEvent) string {
	parts := []string{ev.Name, ev.Message}
	if t.network[ev.Name] {
		parts = append(parts, networkQualifier(ev))
	}
	return joinNonEmpty(parts...)
}

// networkQualifier renders "[STUBBED ]METHOD URL" from the introspection data,
// or "" when neither method nor URL is known.
func networkQualifier(ev *host.LogEvent) string {
	method, url := ev.Prop("Method"), ev.Prop("URL")
	if method == "" && url == "" {
		return ""
	}
	var stub string
	if ev.Prop("Stubbed") == "Yes" {
		stub = "STUBBED"
	}
	return joinNonEmpty(stub, method, url)
}

func elapsedMs(start, stop host.Timestamp) int64 {
	if start.IsZero() || stop.IsZero() {
		return 0
	}
	ms := stop.Sub(start.Time).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
