package silencedetect

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

const sampleLog = `Input #0, mov,mp4,m4a,3gp,3g2,mj2, from 'talk.mp4':
[silencedetect @ 0x55d5c8a0] silence_start: 20
[silencedetect @ 0x55d5c8a0] silence_end: 24 | silence_duration: 4
`

// writeFFmpegStub writes a fake ffmpeg that prints sampleLog to stderr and
// appends its arguments to a calls file.
func writeFFmpegStub(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	calls := filepath.Join(dir, "calls")
	logFile := filepath.Join(dir, "log.txt")
	if err := os.WriteFile(logFile, []byte(sampleLog), 0o644); err != nil {
		t.Fatal(err)
	}
	script := "#!/bin/sh\necho \"$@\" >> " + calls + "\ncat " + logFile + " >&2\n"
	path := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path, calls
}

func countCalls(t *testing.T, calls string) int {
	t.Helper()
	data, err := os.ReadFile(calls)
	if os.IsNotExist(err) {
		return 0
	}
	if err != nil {
		t.Fatal(err)
	}
	return strings.Count(string(data), "\n")
}

func newVideo(t *testing.T) string {
	t.Helper()
	video := filepath.Join(t.TempDir(), "talk.mp4")
	if err := os.WriteFile(video, []byte("video"), 0o644); err != nil {
		t.Fatal(err)
	}
	return video
}

func TestArgs(t *testing.T) {
	got := Args("/videos/talk.mp4", -30, 3, 1)
	want := []string{
		"-hide_banner", "-nostats",
		"-i", "/videos/talk.mp4",
		"-map", "0:a:1",
		"-af", "silencedetect=noise=-30dB:d=3",
		"-f", "null", "-",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected args:\n got %v\nwant %v", got, want)
	}
}

func TestCachePath(t *testing.T) {
	if got := CachePath("/videos/talk.mp4", 3); got != "/videos/talk.mp4.sc3" {
		t.Fatalf("unexpected cache path %q", got)
	}
	if got := CachePath("/videos/talk.mp4", 2.5); got != "/videos/talk.mp4.sc2.5" {
		t.Fatalf("unexpected cache path %q", got)
	}
}

func TestDetectCachesLog(t *testing.T) {
	stub, calls := writeFFmpegStub(t)
	video := newVideo(t)
	opts := Options{FFmpegBinary: stub, NoiseDB: -30, MinSilence: 3, CacheEnabled: true, Timeout: time.Minute}

	first, err := New(opts, nil).Detect(context.Background(), video)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if first.Cached {
		t.Fatal("first run should not be a cache hit")
	}
	if !strings.Contains(first.Text, "silence_end: 24") {
		t.Fatalf("unexpected log text %q", first.Text)
	}
	if first.CachePath != video+".sc3" {
		t.Fatalf("unexpected cache path %q", first.CachePath)
	}

	second, err := New(opts, nil).Detect(context.Background(), video)
	if err != nil {
		t.Fatalf("Detect cached: %v", err)
	}
	if !second.Cached || second.Text != first.Text {
		t.Fatalf("expected identical cached log, got %+v", second)
	}
	if n := countCalls(t, calls); n != 1 {
		t.Fatalf("expected ffmpeg to run once, ran %d times", n)
	}

	opts.Refresh = true
	if _, err := New(opts, nil).Detect(context.Background(), video); err != nil {
		t.Fatalf("Detect refresh: %v", err)
	}
	if n := countCalls(t, calls); n != 2 {
		t.Fatalf("expected refresh to rerun ffmpeg, ran %d times", n)
	}
}

func TestDetectIgnoresCacheWithDifferentSettings(t *testing.T) {
	stub, calls := writeFFmpegStub(t)
	video := newVideo(t)
	opts := Options{FFmpegBinary: stub, NoiseDB: -30, MinSilence: 3, CacheEnabled: true}

	if _, err := New(opts, nil).Detect(context.Background(), video); err != nil {
		t.Fatal(err)
	}
	opts.NoiseDB = -40
	result, err := New(opts, nil).Detect(context.Background(), video)
	if err != nil {
		t.Fatal(err)
	}
	if result.Cached {
		t.Fatal("expected a miss when the noise threshold changes")
	}
	if n := countCalls(t, calls); n != 2 {
		t.Fatalf("expected two ffmpeg runs, got %d", n)
	}
}

func TestDetectWithoutCache(t *testing.T) {
	stub, _ := writeFFmpegStub(t)
	video := newVideo(t)
	result, err := New(Options{FFmpegBinary: stub, MinSilence: 3}, nil).Detect(context.Background(), video)
	if err != nil {
		t.Fatal(err)
	}
	if result.CachePath != "" {
		t.Fatalf("expected no cache path, got %q", result.CachePath)
	}
	if _, err := os.Stat(CachePath(video, 3)); !os.IsNotExist(err) {
		t.Fatal("expected no cache file when caching is disabled")
	}
}

func TestDetectReportsFailure(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffmpeg")
	script := "#!/bin/sh\necho 'Stream map 0:a:3 matches no streams.' >&2\nexit 1\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	_, err := New(Options{FFmpegBinary: stub, MinSilence: 3, AudioStream: 3}, nil).Detect(context.Background(), newVideo(t))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "matches no streams") {
		t.Fatalf("expected stderr tail in error, got %v", err)
	}
}

func TestDetectRequiresPath(t *testing.T) {
	if _, err := New(Options{}, nil).Detect(context.Background(), ""); !errors.Is(err, ErrEmptyPath) {
		t.Fatalf("expected ErrEmptyPath, got %v", err)
	}
}
