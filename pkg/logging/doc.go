// Package logging provides the structured, subsystem-tagged logger used across
// testtrail.
//
// It is a thin layer over log/slog. Every entry carries a "subsystem" attribute
// so that recorder, ingest and bridge output can be filtered independently.
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Recorder", "saving the log file %s", path)
//	logging.Debug("Ingest", "run %s: %d envelopes", runID, n)
//	logging.Error("Sink", err, "failed to write report")
//
// Init selects between the text and JSON slog handlers. Until Init is called
// all log calls are dropped, which keeps library use silent by default.
//
// # Thread Safety
//
// Logging is safe for concurrent use. Re-initialization swaps the logger under
// a lock.
package logging
