// Package config loads, normalizes, and validates deadair configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts),
// reads TOML files, and honours the DEADAIR_FFMPEG and DEADAIR_FFPROBE
// environment fallbacks. The Config type gathers every knob the CLI and
// the batch driver need so detection, cutting, and encoding settings are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
