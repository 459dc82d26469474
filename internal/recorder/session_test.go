package recorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_AppendRequiresRecording(t *testing.T) {
	s := NewSession()
	assert.Equal(t, StateIdle, s.State())

	assert.False(t, s.Append(CommandLogEntry{Message: "visit /"}))
	assert.Equal(t, 0, s.Len())

	s.Start()
	assert.Equal(t, StateRecording, s.State())
	assert.True(t, s.Append(CommandLogEntry{Message: "visit /"}))
	assert.True(t, s.Append(CommandLogEntry{Message: "click"}))

	s.Stop()
	assert.False(t, s.Append(CommandLogEntry{Message: "late"}))
	assert.Equal(t, []CommandLogEntry{{Message: "visit /"}, {Message: "click"}}, s.DrainAndReset())
}

func TestSession_DrainAndResetIsIdempotent(t *testing.T) {
	s := NewSession()
	s.Start()
	s.Append(CommandLogEntry{Message: "get .btn", DurationMs: 3})

	first := s.DrainAndReset()
	second := s.DrainAndReset()

	assert.Len(t, first, 1)
	require.NotNil(t, second)
	assert.Empty(t, second)
}

func TestSession_StartClearsPreviousTest(t *testing.T) {
	s := NewSession()
	s.Start()
	s.Append(CommandLogEntry{Message: "left over"})

	s.Start()
	assert.Equal(t, 0, s.Len())
}

func TestSession_BumpRetry(t *testing.T) {
	s := NewSession()

	assert.Equal(t, 1, s.BumpRetry("Auth logs in"))
	assert.Equal(t, 2, s.BumpRetry("Auth logs in"))
	assert.Equal(t, 1, s.BumpRetry("Auth logs out"))
	assert.Equal(t, 2, s.Retries("Auth logs in"))
	assert.Equal(t, 0, s.Retries("unknown"))
}

func TestSession_AccumulateReturnsSnapshot(t *testing.T) {
	s := NewSession()

	first := s.Accumulate("auth", "auth", TestProjection{Test: "a", Commands: []string{}})
	second := s.Accumulate("auth", "auth", TestProjection{Test: "b", Commands: []string{}})

	assert.Len(t, first.Tests, 1)
	assert.Len(t, second.Tests, 2)

	second.Tests[0].Test = "mutated"
	stored, ok := s.Report("auth")
	require.True(t, ok)
	assert.Equal(t, "a", stored.Tests[0].Test)

	_, ok = s.Report("other")
	assert.False(t, ok)
}

func TestSession_IDsAreUnique(t *testing.T) {
	assert.NotEqual(t, NewSession().ID(), NewSession().ID())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "recording", StateRecording.String())
	assert.Equal(t, "unknown", State(7).String())
}
