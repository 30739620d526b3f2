// Package logs reads the per-run log files written under logging.log_dir.
//
// It finds the newest run log, returns the last N lines with bounded memory,
// and follows a file for appended lines until the caller's context ends.
// FormatLine turns the JSON records written by logging.OpenRunLog back into
// single console lines.
package logs
