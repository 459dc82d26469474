package recorder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testtrail/internal/host"
)

var baseTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func command(name, message string, startedAgo time.Duration) *host.LogEvent {
	return &host.LogEvent{
		Instrument:         host.InstrumentCommand,
		Name:               name,
		Message:            message,
		ConsoleProps:       map[string]any{},
		WallClockStartedAt: host.At(baseTime.Add(-startedAgo)),
	}
}

func TestTap_RecordsOnlyCommandsWithIntrospection(t *testing.T) {
	s := NewSession()
	tap := NewTap(s, fixedClock(baseTime), DefaultNetworkInstruments)
	tap.OnTestStart()

	events := []*host.LogEvent{
		command("visit", "/", 0),
		{Instrument: "route", Name: "route", ConsoleProps: map[string]any{}},
		{Instrument: host.InstrumentCommand, Name: "get", Message: ".no-props"},
		nil,
		command("click", "", 0),
		{Instrument: "agent", Name: "spy"},
		command("type", "password", 0),
	}

	want := 0
	for _, ev := range events {
		if ev.IsCommand() {
			want++
		}
		tap.OnLogAdded(ev)
	}

	got := s.DrainAndReset()
	require.Len(t, got, want)
	assert.Equal(t, []string{"visit /", "click", "type password"},
		TestRecord{Commands: got}.Messages())
}

func TestTap_IgnoresEventsOutsideWindow(t *testing.T) {
	s := NewSession()
	tap := NewTap(s, fixedClock(baseTime), nil)

	_, ok := tap.OnLogAdded(command("visit", "/", 0))
	assert.False(t, ok)

	tap.OnTestStart()
	tap.OnTestEnd()
	_, ok = tap.OnLogAdded(command("visit", "/", 0))
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestTap_NetworkQualifier(t *testing.T) {
	tests := []struct {
		name  string
		props map[string]any
		want  string
	}{
		{
			name:  "stubbed request",
			props: map[string]any{"Stubbed": "Yes", "Method": "GET", "URL": "/api/users"},
			want:  "xhr STUBBED GET /api/users",
		},
		{
			name:  "live request",
			props: map[string]any{"Stubbed": "No", "Method": "POST", "URL": "/api/login"},
			want:  "xhr POST /api/login",
		},
		{
			name:  "boolean stub flag",
			props: map[string]any{"Stubbed": true, "Method": "PUT", "URL": "/x"},
			want:  "xhr STUBBED PUT /x",
		},
		{
			name:  "no request details",
			props: map[string]any{"Stubbed": "Yes"},
			want:  "xhr",
		},
		{
			name:  "malformed details",
			props: map[string]any{"Method": []any{"GET"}, "URL": nil},
			want:  "xhr [GET]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession()
			tap := NewTap(s, fixedClock(baseTime), DefaultNetworkInstruments)
			tap.OnTestStart()

			ev := command("xhr", "", 0)
			ev.ConsoleProps = tt.props
			entry, ok := tap.OnLogAdded(ev)

			require.True(t, ok)
			assert.Equal(t, tt.want, entry.Message)
		})
	}
}

func TestTap_QualifierOnlyForNetworkInstruments(t *testing.T) {
	s := NewSession()
	tap := NewTap(s, fixedClock(baseTime), []string{"xhr"})
	tap.OnTestStart()

	ev := command("request", "/health", 0)
	ev.ConsoleProps = map[string]any{"Method": "GET", "URL": "/health"}
	entry, ok := tap.OnLogAdded(ev)

	require.True(t, ok)
	assert.Equal(t, "request /health", entry.Message)
}

func TestTap_Duration(t *testing.T) {
	s := NewSession()
	tap := NewTap(s, fixedClock(baseTime), nil)
	tap.OnTestStart()

	entry, _ := tap.OnLogAdded(command("visit", "/", 120*time.Millisecond))
	assert.Equal(t, int64(120), entry.DurationMs)

	entry, _ = tap.OnLogAdded(command("wait", "", -5*time.Second))
	assert.Equal(t, int64(0), entry.DurationMs, "start in the future clamps to zero")

	noStart := command("log", "hi", 0)
	noStart.WallClockStartedAt = host.Timestamp{}
	entry, _ = tap.OnLogAdded(noStart)
	assert.Equal(t, int64(0), entry.DurationMs)
}

func TestTap_OnLogChangedWritesBack(t *testing.T) {
	tap := NewTap(NewSession(), fixedClock(baseTime), nil)

	ev := command("get", ".btn", 250*time.Millisecond)
	tap.OnLogChanged(ev)

	require.NotNil(t, ev.Duration)
	assert.Equal(t, int64(250), *ev.Duration)
	assert.Equal(t, int64(250), ev.ConsoleProps["Duration"])
	assert.True(t, baseTime.Equal(ev.WallClockStoppedAt.Time))

	known := command("get", ".btn", 0)
	known.WallClockStoppedAt = host.At(baseTime.Add(40 * time.Millisecond))
	tap.OnLogChanged(known)
	assert.Equal(t, int64(40), *known.Duration)
}

func TestTap_OnLogChangedIgnoresNonCommands(t *testing.T) {
	tap := NewTap(NewSession(), fixedClock(baseTime), nil)

	ev := &host.LogEvent{Instrument: "route", ConsoleProps: map[string]any{}}
	tap.OnLogChanged(ev)
	assert.Nil(t, ev.Duration)
	assert.NotContains(t, ev.ConsoleProps, "Duration")

	assert.NotPanics(t, func() { tap.OnLogChanged(nil) })
}
