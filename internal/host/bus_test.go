package host

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_EmitInRegistrationOrder(t *testing.T) {
	bus := NewBus()
	var got []string

	bus.On(EventLogAdded, func(p Payload) { got = append(got, "first:"+p.Log.Name) })
	bus.On(EventLogAdded, func(p Payload) { got = append(got, "second:"+p.Log.Name) })
	bus.On(EventLogChanged, func(p Payload) { got = append(got, "changed") })

	bus.Emit(EventLogAdded, Payload{Log: &LogEvent{Name: "visit"}})

	assert.Equal(t, []string{"first:visit", "second:visit"}, got)
	assert.Equal(t, 2, bus.Subscribers(EventLogAdded))
	assert.Equal(t, 0, bus.Subscribers(EventTestAfterRun))
}

func TestBus_FinalizersRunBeforeUserHooks(t *testing.T) {
	bus := NewBus()
	var order []string

	bus.AfterEach(func(TestInfo, SpecInfo) error {
		order = append(order, "user")
		return nil
	})
	bus.Finalizer(func(TestInfo, SpecInfo) error {
		order = append(order, "finalizer")
		return nil
	})

	require.NoError(t, bus.RunAfterEach(TestInfo{Title: "t"}, SpecInfo{}))
	assert.Equal(t, []string{"finalizer", "user"}, order)

	finalizers, afterEach := bus.Hooks()
	assert.Equal(t, 1, finalizers)
	assert.Equal(t, 1, afterEach)
}

func TestBus_RunAfterEachStopsOnError(t *testing.T) {
	bus := NewBus()
	boom := errors.New("disk full")
	userRan := false

	bus.Finalizer(func(TestInfo, SpecInfo) error { return boom })
	bus.AfterEach(func(TestInfo, SpecInfo) error {
		userRan = true
		return nil
	})

	err := bus.RunAfterEach(TestInfo{Title: "logs in"}, SpecInfo{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "logs in")
	assert.False(t, userRan)
}

func TestTestInfo_QualifiedName(t *testing.T) {
	suite := "Auth"
	empty := ""

	tests := []struct {
		name string
		info TestInfo
		want string
	}{
		{"full title wins", TestInfo{FullTitle: "Root Auth logs in", Title: "logs in", ParentTitle: &suite}, "Root Auth logs in"},
		{"derived from suite", TestInfo{Title: "logs in", ParentTitle: &suite}, "Auth logs in"},
		{"empty suite", TestInfo{Title: "logs in", ParentTitle: &empty}, "logs in"},
		{"no suite", TestInfo{Title: "logs in"}, "logs in"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.QualifiedName())
		})
	}
}

func TestLogEvent_DecodeTolerant(t *testing.T) {
	raw := `{
		"instrument": "command",
		"name": "xhr",
		"message": "",
		"consoleProps": {"Stubbed": true, "Method": "GET", "URL": "/users", "Status": 200},
		"wallClockStartedAt": "2024-03-01T10:00:00.000Z",
		"wallClockStoppedAt": {"not": "a time"}
	}`

	var ev LogEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &ev))

	assert.True(t, ev.IsCommand())
	assert.Equal(t, "Yes", ev.Prop("Stubbed"))
	assert.Equal(t, "GET", ev.Prop("Method"))
	assert.Equal(t, "200", ev.Prop("Status"))
	assert.Equal(t, "", ev.Prop("Missing"))
	assert.True(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC).Equal(ev.WallClockStartedAt.Time))
	assert.True(t, ev.WallClockStoppedAt.IsZero())
}

func TestTimestamp_EpochMillis(t *testing.T) {
	var ev LogEvent
	require.NoError(t, json.Unmarshal([]byte(`{"wallClockStartedAt": 1709287200000}`), &ev))
	assert.Equal(t, int64(1709287200000), ev.WallClockStartedAt.UnixMilli())

	out, err := json.Marshal(LogEvent{Name: "click"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"click"}`, string(out))
}

func TestLogEvent_NilSafe(t *testing.T) {
	var ev *LogEvent
	assert.False(t, ev.IsCommand())
	assert.Equal(t, "", ev.Prop("URL"))
}
