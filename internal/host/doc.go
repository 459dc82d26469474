// Package host models the parts of a test runner that testtrail observes.
//
// The runner itself lives outside this module. This package carries its event
// contract (test:before:run, log:added, log:changed, test:after:run), the log
// and test payload shapes that the runner attaches to those events, and a
// synchronous Bus that delivers them in the order they were emitted.
//
// After-each hooks are composed explicitly: finalizers registered with
// Bus.Finalizer always run before hooks registered with Bus.AfterEach, so a
// recorder can close its window before user teardown code executes.
package host
