// Package ingest feeds runner events recorded out of process into recorders.
//
// The runner side forwards every lifecycle and log event as one JSON object
// per line:
//
//	{"event":"test:before:run","run":"r1","test":{"title":"logs in"},"spec":{"relative":"cypress/e2e/auth.cy.js"}}
//	{"event":"log:added","run":"r1","log":{"instrument":"command","name":"visit","message":"/","consoleProps":{}}}
//	{"event":"test:after:run","run":"r1","test":{"title":"logs in","state":"passed"}}
//
// A Stream decodes those lines and replays them on a host.Bus. Lines are
// demultiplexed by run id, each run getting its own bus and recorder, so
// concurrent runs writing to the same stream never share a buffer. The last
// spec seen on a run is reused for events that do not carry one.
//
// ProcessFiles handles a batch of finished stream files concurrently. The
// Watcher follows a spool directory and feeds every *.jsonl file as it grows.
package ingest
