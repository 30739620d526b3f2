package deps

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeScript(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckBinaries(t *testing.T) {
	present := writeScript(t, "present", "exit 0\n")
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Detail != "" {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}
}

func TestResolveBinary(t *testing.T) {
	present := writeScript(t, "ffprobe", "exit 0\n")
	if got := ResolveBinary(present, "ffprobe"); got != present {
		t.Fatalf("expected %s, got %s", present, got)
	}
	if got := ResolveBinary("", "clearly-not-present-binary"); got != "clearly-not-present-binary" {
		t.Fatalf("expected fallback, got %s", got)
	}
}

const filterListing = `Filters:
  T.. = Timeline support
  .S. = Slice threading
  ..C = Command support
  A = Audio input/output
  V = Video input/output
  N = Dynamic number and/or type of input/output
  | = Source or sink filter
 ... acrossfade        AA->A      Cross fade two input audio streams.
 T.. atrim             A->A       Pick one continuous section from the input, drop the rest.
 ... asetpts           A->A       Set PTS for the output audio frame.
 TSC silencedetect     A->A       Detect silence.
 ... concat            N->N       Concatenate audio and video streams.
`

func TestParseFilterList(t *testing.T) {
	filters := parseFilterList([]byte(filterListing))
	for _, name := range []string{"acrossfade", "atrim", "asetpts", "silencedetect", "concat"} {
		if _, ok := filters[name]; !ok {
			t.Errorf("expected %s in parsed filters", name)
		}
	}
	if _, ok := filters["="]; ok {
		t.Fatal("legend lines must not produce filters")
	}
}

func TestCheckFiltersReportsMissing(t *testing.T) {
	listing := filepath.Join(t.TempDir(), "filters.txt")
	if err := os.WriteFile(listing, []byte(filterListing), 0o644); err != nil {
		t.Fatal(err)
	}
	stub := writeScript(t, "ffmpeg", "cat "+listing+"\n")

	missing, err := CheckFilters(context.Background(), stub, []string{"silencedetect", "overlay", "concat"})
	if err != nil {
		t.Fatalf("CheckFilters: %v", err)
	}
	if len(missing) != 1 || missing[0] != "overlay" {
		t.Fatalf("expected only overlay missing, got %v", missing)
	}
}

func TestCheckFiltersPropagatesFailure(t *testing.T) {
	stub := writeScript(t, "ffmpeg", "exit 1\n")
	if _, err := CheckFilters(context.Background(), stub, RequiredFilters); err == nil {
		t.Fatal("expected error from failing ffmpeg")
	}
}
