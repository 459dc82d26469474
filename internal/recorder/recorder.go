package recorder

import (
	"context"
	"fmt"
	"time"

	"testtrail/internal/host"
	"testtrail/pkg/logging"
)

const subsystem = "Recorder"

// DefaultLogsDir is where reports are written unless configured otherwise.
const DefaultLogsDir = "cypress/logs"

// DefaultNetworkInstruments are the log names treated as network requests.
var DefaultNetworkInstruments = []string{"xhr", "fetch"}

// Options configures a Recorder. The zero value is inert.
type Options struct {
	// Enabled is the master switch. A disabled recorder installs nothing.
	Enabled bool
	// WriteToConsole mirrors test progress and failure summaries to a Console.
	WriteToConsole bool
	// WriteToFile persists a JSON report after every test.
	WriteToFile bool

	LogsDir            string
	Layout             Layout
	SpecRoots          []string
	SpecExtensions     []string
	NetworkInstruments []string

	// Retries is the retry budget of the runner, used for attempt logging.
	Retries int
}

// DefaultOptions returns the defaults with every switch off.
func DefaultOptions() Options {
	return Options{
		LogsDir:            DefaultLogsDir,
		Layout:             LayoutSpec,
		NetworkInstruments: DefaultNetworkInstruments,
	}
}

// Host is the part of the runner a Recorder installs itself into.
type Host interface {
	On(name host.EventName, h host.Handler)
	Finalizer(h host.Hook)
}

// Option customizes a Recorder.
type Option func(*Recorder)

// WithSink replaces the file sink.
func WithSink(s Sink) Option {
	return func(r *Recorder) { r.sink = s }
}

// WithConsole sets the console that receives mirrored output.
func WithConsole(c Console) Option {
	return func(r *Recorder) { r.console = c }
}

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// WithSession makes the recorder use an existing session.
func WithSession(s *Session) Option {
	return func(r *Recorder) { r.session = s }
}

// WithLedger makes the recorder accumulate report files in l instead of
// DefaultLedger.
func WithLedger(l *Ledger) Option {
	return func(r *Recorder) { r.ledger = l }
}

// WithContext sets the context passed to console tasks.
func WithContext(ctx context.Context) Option {
	return func(r *Recorder) { r.ctx = ctx }
}

// Recorder captures the commands of each test and writes a report when the
// test finishes.
type Recorder struct {
	opts      Options
	session   *Session
	tap       *Tap
	assembler *Assembler
	sink      Sink
	ledger    *Ledger
	console   Console
	now       func() time.Time
	ctx       context.Context
}

// New creates a recorder. It fails with ErrMissingCapability when an enabled
// output has nothing to write to.
func New(opts Options, options ...Option) (*Recorder, error) {
	r := &Recorder{
		opts: opts,
		now:  time.Now,
		ctx:  context.Background(),
	}
	for _, o := range options {
		o(r)
	}

	if r.opts.Layout == "" {
		r.opts.Layout = LayoutSpec
	}
	if r.opts.NetworkInstruments == nil {
		r.opts.NetworkInstruments = DefaultNetworkInstruments
	}
	if r.session == nil {
		r.session = NewSession()
	}
	if r.sink == nil {
		r.sink = NewFileSink()
	}
	if r.ledger == nil {
		r.ledger = DefaultLedger
	}

	if r.opts.WriteToFile && r.opts.LogsDir == "" {
		return nil, fmt.Errorf("%w: writeToFile is set but no logs directory is configured", ErrMissingCapability)
	}
	if r.opts.WriteToConsole && r.console == nil {
		return nil, fmt.Errorf("%w: writeToConsole is set but no console is available", ErrMissingCapability)
	}

	r.tap = NewTap(r.session, r.now, r.opts.NetworkInstruments)
	r.assembler = NewAssembler(r.opts.SpecRoots, r.opts.SpecExtensions)
	return r, nil
}

// Session returns the session the recorder writes to.
func (r *Recorder) Session() *Session {
	return r.session
}

// Options returns the effective options.
func (r *Recorder) Options() Options {
	return r.opts
}

// Install subscribes the recorder to the runner's events and registers its
// finish step as an after-each finalizer. A disabled recorder installs
// nothing and Install returns false.
func (r *Recorder) Install(h Host) bool {
	if !r.opts.Enabled {
		logging.Debug(subsystem, "recorder disabled, no listeners installed")
		return false
	}

	h.On(host.EventTestBeforeRun, r.handleTestStart)
	h.On(host.EventLogAdded, r.handleLogAdded)
	h.On(host.EventLogChanged, r.handleLogChanged)
	h.Finalizer(func(test host.TestInfo, spec host.SpecInfo) error {
		_, err := r.Finish(test, spec)
		return err
	})

	logging.Debug(subsystem, "session %s will log commands", r.session.ID())
	return true
}

func (r *Recorder) handleTestStart(p host.Payload) {
	r.tap.OnTestStart()
	if p.Test != nil {
		logging.Debug(subsystem, "before test run %q", p.Test.QualifiedName())
	}

	if r.opts.WriteToConsole {
		var title, spec string
		if p.Test != nil {
			title = p.Test.QualifiedName()
		}
		if p.Spec != nil {
			spec = r.assembler.SpecName(*p.Spec)
		}
		r.mirror(startTask(title, spec))
	}
}

func (r *Recorder) handleLogAdded(p host.Payload) {
	entry, ok := r.tap.OnLogAdded(p.Log)
	if !ok {
		return
	}
	logging.Debug(subsystem, "command %q (%dms)", entry.Message, entry.DurationMs)
	if r.opts.WriteToConsole {
		r.mirror(stepTask(entry))
	}
}

func (r *Recorder) handleLogChanged(p host.Payload) {
	r.tap.OnLogChanged(p.Log)
}

// Finish closes the recording window for test, assembles its record, adds it
// to the spec report and writes the report. Write errors are returned as is.
func (r *Recorder) Finish(test host.TestInfo, spec host.SpecInfo) (TestRecord, error) {
	r.tap.OnTestEnd()

	name := test.QualifiedName()
	attempt := r.session.BumpRetry(name)
	commands := r.session.DrainAndReset()
	rec := r.assembler.Assemble(test, spec, commands, attempt)

	logging.Info(subsystem, "test %q finished %s (attempt %d/%d, %d commands)",
		name, stateOf(test), attempt, r.opts.Retries+1, len(rec.Commands))

	var path string
	writing := r.opts.Enabled && r.opts.WriteToFile
	if writing {
		var err error
		path, err = ReportPath(r.opts.LogsDir, r.opts.Layout, rec.SpecName, rec.TestName)
		if err != nil {
			return rec, err
		}
	}

	r.session.Accumulate(r.reportKey(rec), rec.SpecName, rec.Projection())

	if writing {
		report, err := r.ledger.Commit(path, rec.SpecName, rec.Projection(), r.sink)
		if err != nil {
			return rec, err
		}
		logging.Info(subsystem, "saving the log file %s (%d tests)", path, len(report.Tests))
	}

	if r.opts.Enabled && r.opts.WriteToConsole {
		r.mirror(summaryTask(rec, stateOf(test), path))
	}
	return rec, nil
}

// Report returns the report this recorder accumulated for a spec name. The
// report file may hold more tests when other recorders share its ledger.
func (r *Recorder) Report(specName string) (SpecReport, bool) {
	return r.session.Report(specName)
}

// TestReport returns the report of a single test written with the test
// layout.
func (r *Recorder) TestReport(specName, testName string) (SpecReport, bool) {
	return r.session.Report(testReportKey(specName, testName))
}

func (r *Recorder) reportKey(rec TestRecord) string {
	if r.opts.Layout == LayoutTest {
		return testReportKey(rec.SpecName, rec.TestName)
	}
	return rec.SpecName
}

func testReportKey(specName, testName string) string {
	return specName + "\x00" + testName
}

func (r *Recorder) mirror(task Task) {
	if r.console == nil {
		return
	}
	if err := r.console.Task(r.ctx, task); err != nil {
		logging.Warn(subsystem, "console task %s failed: %v", task.Type, err)
	}
}

func stateOf(test host.TestInfo) string {
	if test.State != "" {
		return string(test.State)
	}
	if ErrorText(test) != "" {
		return string(host.TestFailed)
	}
	return "unknown"
}
