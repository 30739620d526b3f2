package drapto

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	draptolib "github.com/five82/drapto"
)

func TestOutputPath(t *testing.T) {
	got := OutputPath("/videos/out/talk_silenced.mp4", " /archive ")
	if got != filepath.Join("/archive", "talk_silenced.mkv") {
		t.Fatalf("unexpected archive path %q", got)
	}
}

func TestArchiveRequiresPaths(t *testing.T) {
	lib := NewLibrary()
	if _, err := lib.Archive(context.Background(), "", "/archive", nil); err == nil {
		t.Fatal("expected error for empty input")
	}
	if _, err := lib.Archive(context.Background(), "/videos/talk.mp4", " ", nil); err == nil {
		t.Fatal("expected error for empty output dir")
	}
}

func TestArchiveForwardsReporterEvents(t *testing.T) {
	lib := &Library{encode: func(_ context.Context, input, outputDir string, rep draptolib.Reporter) error {
		if rep == nil {
			t.Fatal("expected reporter when progress callback is set")
		}
		rep.EncodingStarted(240)
		eta := 2 * time.Minute
		rep.StageProgress(draptolib.StageProgress{Stage: "analysis", Percent: 50, Message: "probing", ETA: &eta})
		rep.Warning("high bitrate")
		return nil
	}}

	var updates []ProgressUpdate
	path, err := lib.Archive(context.Background(), "/videos/talk.mp4", "/archive", func(u ProgressUpdate) {
		updates = append(updates, u)
	})
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if path != filepath.Join("/archive", "talk.mkv") {
		t.Fatalf("unexpected path %q", path)
	}
	if len(updates) != 3 {
		t.Fatalf("expected 3 updates, got %d", len(updates))
	}
	if updates[0].Type != EventTypeEncodingStarted || updates[0].TotalFrames != 240 {
		t.Fatalf("unexpected first update %+v", updates[0])
	}
	if updates[1].ETA != 2*time.Minute || updates[1].Percent != 50 || updates[1].Stage != "analysis" {
		t.Fatalf("unexpected stage update %+v", updates[1])
	}
	if updates[2].Type != EventTypeWarning || updates[2].Message != "high bitrate" {
		t.Fatalf("unexpected warning update %+v", updates[2])
	}
	for _, u := range updates {
		if u.Timestamp.IsZero() {
			t.Fatal("expected timestamps on every update")
		}
	}
}

func TestArchivePropagatesEncodeError(t *testing.T) {
	boom := errors.New("encoder crashed")
	lib := &Library{encode: func(context.Context, string, string, draptolib.Reporter) error { return boom }}
	if _, err := lib.Archive(context.Background(), "/videos/talk.mp4", "/archive", nil); !errors.Is(err, boom) {
		t.Fatalf("expected encoder error, got %v", err)
	}
}

func TestReporterEncodingComplete(t *testing.T) {
	var got ProgressUpdate
	rep := newArchiveReporter(func(u ProgressUpdate) { got = u })
	rep.EncodingComplete(draptolib.EncodingOutcome{OriginalSize: 2000, EncodedSize: 500, OutputPath: "/archive/talk.mkv"})
	if got.Type != EventTypeEncodingComplete || got.Percent != 100 {
		t.Fatalf("unexpected completion update %+v", got)
	}
	if got.SizeReduction() != 75 || got.OutputPath != "/archive/talk.mkv" {
		t.Fatalf("unexpected completion sizes %+v", got)
	}

	rep.ValidationComplete(draptolib.ValidationSummary{Passed: true})
	if got.Type != EventTypeValidation || !got.ValidationPassed || len(got.FailedSteps) != 0 {
		t.Fatalf("unexpected validation update %+v", got)
	}
}

func TestSizeReduction(t *testing.T) {
	u := ProgressUpdate{OriginalSize: 1000, EncodedSize: 250}
	if u.SizeReduction() != 75 {
		t.Fatalf("expected 75%% reduction, got %v", u.SizeReduction())
	}
	if (ProgressUpdate{}).SizeReduction() != 0 {
		t.Fatal("expected zero reduction for unknown sizes")
	}
}
