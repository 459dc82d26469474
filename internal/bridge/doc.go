// Package bridge prints recorder console tasks, in process or across an MCP
// connection.
//
// The Printer renders each task as one tree-indented line:
//
//	Auth logs in [auth]
//	├─ visit /login (12ms)
//	├─ get #user (3ms)
//	└─ passed, saved cypress/logs/auth.json
//
// A failed test is followed by its spec, title, error and command trace.
//
// The Server exposes the Printer as a single MCP tool named "console", which
// also accepts the plain log and table methods. The Client calls that tool
// and satisfies recorder.Console, so a recorder running in one process can
// mirror its output to a terminal owned by another.
package bridge
