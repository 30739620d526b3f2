// Package silence turns ffmpeg silencedetect output into validated silence
// intervals.
//
// The extractor is a two-state line scanner: a silence_start event opens an
// interval and the next silence_end event closes it. Every closed interval is
// checked against the duration ffmpeg reported for it; a discrepancy larger
// than DurationTolerance means the log is corrupt and extraction stops.
//
// Key types:
//   - Interval: immutable start/end/duration triple built by NewInterval
//   - Extractor: configurable scanner returning a Result with warnings
//   - MalformedLogError, DurationMismatchError: typed failures
//
// Histogram buckets intervals by whole-second duration for reporting.
package silence
