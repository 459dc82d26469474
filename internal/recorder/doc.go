// Package recorder captures the commands a test issues and persists them,
// together with the test's failure, as a JSON report per spec file.
//
// A Recorder is installed into a runner's event bus. It opens a recording
// window on test:before:run, buffers every command log event while the window
// is open, and on the after-each finalizer closes the window, drains the
// buffer, assembles a TestRecord and rewrites the spec's report file with all
// tests finished so far:
//
//	rec, err := recorder.New(recorder.Options{
//	    Enabled:     true,
//	    WriteToFile: true,
//	    LogsDir:     "cypress/logs",
//	})
//	if err != nil {
//	    return err
//	}
//	rec.Install(bus)
//
// The persisted shape is
//
//	{"spec": "auth", "tests": [{"test": "Auth logs in", "commands": ["..."], "error": "..."}]}
//
// with "error" omitted for tests that did not fail. Command durations are
// kept on the in-memory TestRecord and sent to the console, but are not
// written to the report.
//
// All recording state lives in a Session. Give each parallel worker its own.
package recorder
