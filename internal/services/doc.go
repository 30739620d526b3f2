// Package services defines shared utilities consumed by the cut pipeline
// and its external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, file paths, stage names, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent history statuses (failed vs review).
//
// Use these helpers when wiring new pipeline stages so error handling and
// observability stay uniform across the batch.
package services
