package ingest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"

	"testtrail/internal/host"
	"testtrail/internal/recorder"
	"testtrail/pkg/logging"
)

const subsystem = "Ingest"

// DefaultRun is the run id used for envelopes that do not name one.
const DefaultRun = "default"

// maxLineSize bounds a single envelope. Log events with large console props
// can be long, but never this long.
const maxLineSize = 16 * 1024 * 1024

// Envelope is one forwarded runner event.
type Envelope struct {
	Event host.EventName `json:"event"`
	Run   string         `json:"run,omitempty"`
	Test  *host.TestInfo `json:"test,omitempty"`
	Spec  *host.SpecInfo `json:"spec,omitempty"`
	Log   *host.LogEvent `json:"log,omitempty"`
}

// Factory creates the recorder for a run. It may be called from several
// goroutines at once.
type Factory func(runID string) (*recorder.Recorder, error)

type run struct {
	bus      *host.Bus
	recorder *recorder.Recorder
	spec     *host.SpecInfo
}

// Stream replays envelopes on one bus per run.
type Stream struct {
	factory Factory

	mu   sync.Mutex
	runs map[string]*run
}

// NewStream creates a stream that builds recorders with factory.
func NewStream(factory Factory) *Stream {
	return &Stream{
		factory: factory,
		runs:    make(map[string]*run),
	}
}

// Process reads envelopes from r until EOF. Malformed lines are logged and
// skipped. A recorder error, such as a failed report write, stops processing
// and is returned.
func (s *Stream) Process(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++
		if err := s.HandleLine(scanner.Bytes()); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read event stream: %w", err)
	}
	return nil
}

// HandleLine decodes and handles a single line. Blank and malformed lines are
// ignored.
func (s *Stream) HandleLine(line []byte) error {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil
	}

	var env Envelope
	if err := json.Unmarshal(line, &env); err != nil {
		logging.Warn(subsystem, "skipping malformed event: %v", err)
		return nil
	}
	if env.Event == "" {
		logging.Warn(subsystem, "skipping event without a name")
		return nil
	}
	return s.Handle(env)
}

// Handle replays env on the bus of its run. On test:after:run the after-each
// hooks run first, including the recorder's finish step, then the event is
// emitted.
func (s *Stream) Handle(env Envelope) error {
	id := env.Run
	if id == "" {
		id = DefaultRun
	}

	rn, err := s.run(id)
	if err != nil {
		return err
	}

	if env.Spec != nil {
		rn.spec = env.Spec
	} else if rn.spec != nil {
		env.Spec = rn.spec
	}

	payload := host.Payload{Test: env.Test, Spec: env.Spec, Log: env.Log}

	switch env.Event {
	case host.EventTestBeforeRun:
		if env.Test == nil {
			logging.Warn(subsystem, "run %s: %s without a test, skipping", id, env.Event)
			return nil
		}
	case host.EventTestAfterRun:
		if env.Test == nil {
			logging.Warn(subsystem, "run %s: %s without a test, skipping", id, env.Event)
			return nil
		}
		var spec host.SpecInfo
		if env.Spec != nil {
			spec = *env.Spec
		}
		if err := rn.bus.RunAfterEach(*env.Test, spec); err != nil {
			return fmt.Errorf("run %s: %w", id, err)
		}
	case host.EventLogAdded, host.EventLogChanged:
		if env.Log == nil {
			logging.Debug(subsystem, "run %s: %s without a log entry", id, env.Event)
		}
	default:
		logging.Debug(subsystem, "run %s: forwarding unknown event %s", id, env.Event)
	}

	rn.bus.Emit(env.Event, payload)
	return nil
}

// Recorder returns the recorder of a run, if the run has been seen.
func (s *Stream) Recorder(runID string) (*recorder.Recorder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rn, ok := s.runs[runID]
	if !ok {
		return nil, false
	}
	return rn.recorder, true
}

// Runs returns the ids of all runs seen so far, sorted.
func (s *Stream) Runs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.runs))
	for id := range s.runs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Stream) run(id string) (*run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rn, ok := s.runs[id]; ok {
		return rn, nil
	}

	rec, err := s.factory(id)
	if err != nil {
		return nil, fmt.Errorf("failed to create recorder for run %s: %w", id, err)
	}
	bus := host.NewBus()
	rec.Install(bus)

	rn := &run{bus: bus, recorder: rec}
	s.runs[id] = rn
	logging.Debug(subsystem, "new run %s (session %s)", id, rec.Session().ID())
	return rn, nil
}
