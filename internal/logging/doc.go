// Package logging assembles the structured slog loggers used by deadair.
//
// It owns the console and JSON handlers, level parsing, and output fan-out
// to stdout/stderr and the log file, and exposes context-aware helpers so
// pipeline code tags every line with the run id, the file being cut, and the
// current stage. A no-op logger is provided for tests and wiring code that
// cannot fail.
package logging
