package ffprobe

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{Index: 0, CodecType: "video"},
			{Index: 1, CodecType: "audio", Channels: 2},
			{Index: 2, CodecType: "audio", Channels: 1},
		},
		Format: Format{Duration: "123.45", Size: "1000"},
	}
	if result.VideoStreamCount() != 1 {
		t.Fatalf("expected 1 video stream, got %d", result.VideoStreamCount())
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if stream, ok := result.AudioStream(1); !ok || stream.Index != 2 {
		t.Fatalf("expected second audio stream at index 2, got %+v %v", stream, ok)
	}
	if _, ok := result.AudioStream(2); ok {
		t.Fatal("expected no third audio stream")
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{Format: Format{Duration: "bad", Size: "-1"}}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
}

func writeStub(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffprobe")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestDurationFromStub(t *testing.T) {
	stub := writeStub(t, `cat <<'JSON'
{"streams":[{"index":0,"codec_type":"video"},{"index":1,"codec_type":"audio"}],"format":{"duration":"60.000000","format_name":"mov,mp4"}}
JSON
`)
	seconds, err := Duration(context.Background(), stub, "/videos/talk.mp4")
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if seconds != 60 {
		t.Fatalf("expected 60, got %v", seconds)
	}
}

func TestDurationRejectsMissingValue(t *testing.T) {
	stub := writeStub(t, `echo '{"streams":[],"format":{"duration":"N/A"}}'
`)
	if _, err := Duration(context.Background(), stub, "/videos/talk.mp4"); !errors.Is(err, ErrNoDuration) {
		t.Fatalf("expected ErrNoDuration, got %v", err)
	}
}

func TestInspectReportsFailure(t *testing.T) {
	stub := writeStub(t, `echo "talk.mp4: No such file or directory" >&2
exit 1
`)
	_, err := Inspect(context.Background(), stub, "/videos/talk.mp4")
	if err == nil {
		t.Fatal("expected error from failing ffprobe")
	}
}

func TestInspectRequiresPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "ffprobe", " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
