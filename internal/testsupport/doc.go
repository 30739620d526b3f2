// Package testsupport builds temp-dir configs, ffmpeg/ffprobe stub scripts,
// and history stores for tests across deadair packages.
package testsupport
