// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video stream properties
//   - Format: container-level metadata (duration, size, bitrate)
//
// Entry points:
//   - Inspect: executes ffprobe and returns the parsed Result
//   - Duration: the container duration the cut planner needs, validated
package ffprobe
