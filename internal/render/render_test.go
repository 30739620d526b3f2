package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"deadair/internal/filtergraph"
	"deadair/internal/services/drapto"
)

func testScript(t *testing.T) filtergraph.Script {
	t.Helper()
	g := filtergraph.New()
	src := g.Source(0, 0)
	head, err := g.Trim(src, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	tail, err := g.Trim(src, 20, 30)
	if err != nil {
		t.Fatal(err)
	}
	root, err := g.Concat(head, tail)
	if err != nil {
		t.Fatal(err)
	}
	return filtergraph.Assemble(root)
}

func TestOutputPath(t *testing.T) {
	got := OutputPath("/raw/day1/talk.mkv", "/out", "_silenced", ".mp4")
	if got != "/out/talk_silenced.mp4" {
		t.Fatalf("unexpected output path %q", got)
	}
}

func TestArgs(t *testing.T) {
	script := testScript(t)
	settings := Settings{VideoCodec: "libx264", Preset: "superfast", CRF: 18, AudioCodec: "aac", PixFmt: "yuv420p", ExtraArgs: []string{"-movflags", "+faststart"}}
	got := Args(settings, "/raw/talk.mp4", "/raw/talk.mp4.cfs", script, "/out/talk_silenced.mp4")
	want := []string{
		"-hide_banner", "-nostats", "-y",
		"-progress", "pipe:1",
		"-i", "/raw/talk.mp4",
		"-filter_complex_script", "/raw/talk.mp4.cfs",
		"-map", "[v3]", "-map", "[a3]",
		"-c:v", "libx264",
		"-preset", "superfast",
		"-crf", "18",
		"-c:a", "aac",
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		"/out/talk_silenced.mp4",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected args:\n got %v\nwant %v", got, want)
	}
}

func TestParseOutTime(t *testing.T) {
	tests := []struct {
		line string
		want float64
		ok   bool
	}{
		{"out_time_us=1500000", 1.5, true},
		{"out_time_ms=2000000", 2, true},
		{"out_time=00:00:01.500000", 0, false},
		{"out_time_us=N/A", 0, false},
		{"progress=continue", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseOutTime(tt.line)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseOutTime(%q) = %v, %v; want %v, %v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

// writeStub writes a fake ffmpeg that reports progress, logs to stderr, and
// writes its last argument as the output file.
func writeStub(t *testing.T, exitCode int) string {
	t.Helper()
	script := `#!/bin/sh
for a; do out=$a; done
echo "out_time_us=5000000"
echo "progress=continue"
echo "out_time_us=10000000"
echo "progress=end"
echo "encoder chatter" >&2
printf rendered > "$out"
exit ` + string(rune('0'+exitCode)) + "\n"
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "talk.mp4")
	if err := os.WriteFile(input, []byte("video"), 0o644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "out", "talk_silenced.mp4")
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(output, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := New(Settings{FFmpegBinary: writeStub(t, 0)}, nil)
	script := testScript(t)
	result, err := r.Render(context.Background(), Job{Input: input, Output: output, Script: script, ExpectedSeconds: 20})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil || string(data) != "rendered" {
		t.Fatalf("expected fresh output, got %q (%v)", data, err)
	}
	saved, err := os.ReadFile(result.ScriptPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(saved) != script.Text {
		t.Fatalf("script file mismatch: %q", saved)
	}
	logText, err := os.ReadFile(result.LogPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(logText), "encoder chatter") || !strings.Contains(string(logText), "progress=end") {
		t.Fatalf("expected stdout and stderr in log, got %q", logText)
	}
}

func TestRenderFailureRemovesOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "talk.mp4")
	output := filepath.Join(dir, "talk_silenced.mp4")

	r := New(Settings{FFmpegBinary: writeStub(t, 1)}, nil)
	result, err := r.Render(context.Background(), Job{Input: input, Output: output, Script: testScript(t)})
	if err == nil {
		t.Fatal("expected render failure")
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Fatal("expected partial output to be removed")
	}
	if _, statErr := os.Stat(result.LogPath); statErr != nil {
		t.Fatalf("expected log to be kept: %v", statErr)
	}
}

func TestRenderRejectsEmptyScript(t *testing.T) {
	r := New(Settings{}, nil)
	if _, err := r.Render(context.Background(), Job{Input: "in", Output: "out"}); !errors.Is(err, ErrEmptyScript) {
		t.Fatalf("expected ErrEmptyScript, got %v", err)
	}
}

type fakeArchiver struct {
	input, dir string
	err        error
}

func (f *fakeArchiver) Archive(_ context.Context, input, dir string, progress func(drapto.ProgressUpdate)) (string, error) {
	f.input, f.dir = input, dir
	progress(drapto.ProgressUpdate{Type: drapto.EventTypeEncodingProgress, Percent: 42})
	progress(drapto.ProgressUpdate{Type: drapto.EventTypeWarning, Message: "slow"})
	if f.err != nil {
		return "", f.err
	}
	return drapto.OutputPath(input, dir), nil
}

func TestArchiver(t *testing.T) {
	fake := &fakeArchiver{}
	a := NewArchiver(fake, "/archive", nil)
	out, err := a.Archive(context.Background(), "/out/talk_silenced.mp4")
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if out != "/archive/talk_silenced.mkv" || fake.dir != "/archive" {
		t.Fatalf("unexpected archive call: out=%s dir=%s", out, fake.dir)
	}

	fake.err = errors.New("encoder crashed")
	if _, err := a.Archive(context.Background(), "/out/talk_silenced.mp4"); !errors.Is(err, fake.err) {
		t.Fatalf("expected wrapped encoder error, got %v", err)
	}
}
