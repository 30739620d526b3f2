package silence

import (
	"errors"
	"math"
	"strings"
	"testing"
)

const sampleLog = `ffmpeg version 6.1 Copyright (c) 2000-2023 the FFmpeg developers
Input #0, mov,mp4,m4a,3gp,3g2,mj2, from 'talk.mp4':
  Duration: 00:01:00.00, start: 0.000000, bitrate: 1205 kb/s
[silencedetect @ 0x55d0c8a4e940] silence_start: 10
[silencedetect @ 0x55d0c8a4e940] silence_end: 13.2 | silence_duration: 3.2
frame= 1500 fps=0.0 q=-0.0 size=N/A time=00:00:30.00 bitrate=N/A speed=60x
[silencedetect @ 0x55d0c8a4e940] silence_start: 20.5
[silencedetect @ 0x55d0c8a4e940] silence_end: 24.55 | silence_duration: 4.05
`

func TestExtractSinglePair(t *testing.T) {
	log := "[silencedetect @ 7f00aa] silence_start: 10.0\n[silencedetect @ 7f00aa] silence_end: 13.2 | silence_duration: 3.2\n"
	intervals, err := Extract(log)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(intervals) != 1 {
		t.Fatalf("expected 1 interval, got %d", len(intervals))
	}
	got := intervals[0]
	if got.Start() != 10.0 || got.End() != 13.2 || got.Duration() != 3.2 {
		t.Fatalf("unexpected interval: %v", got)
	}
}

func TestExtractIgnoresDiagnosticNoise(t *testing.T) {
	intervals, err := Extract(sampleLog)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(intervals) != 2 {
		t.Fatalf("expected 2 intervals, got %d", len(intervals))
	}
	for i, interval := range intervals {
		if diff := math.Abs(interval.Duration() - (interval.End() - interval.Start())); diff > DurationTolerance {
			t.Fatalf("interval %d violates tolerance: %v", i, interval)
		}
		if i > 0 && interval.Start() < intervals[i-1].Start() {
			t.Fatalf("intervals out of order: %v before %v", intervals[i-1], interval)
		}
	}
}

func TestExtractHandlesCRLFAndNegativeStart(t *testing.T) {
	log := "[silencedetect @ 0xabc] silence_start: -0.0213\r\n[silencedetect @ 0xabc] silence_end: 3.5 | silence_duration: 3.5213\r\n"
	intervals, err := Extract(log)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(intervals) != 1 || intervals[0].Start() != -0.0213 {
		t.Fatalf("unexpected intervals: %v", intervals)
	}
}

func TestExtractExponentTimestamps(t *testing.T) {
	tests := []struct {
		name                 string
		log                  string
		start, end, duration float64
	}{
		{
			name:     "small start",
			log:      "[silencedetect @ 0x1] silence_start: 2.08333e-05\n[silencedetect @ 0x1] silence_end: 3.50002 | silence_duration: 3.5\n",
			start:    2.08333e-05,
			end:      3.50002,
			duration: 3.5,
		},
		{
			name:     "large values",
			log:      "[silencedetect @ 0x1] silence_start: 1.23457e+06\n[silencedetect @ 0x1] silence_end: 1.23458e+06 | silence_duration: 10\n",
			start:    1.23457e+06,
			end:      1.23458e+06,
			duration: 10,
		},
		{
			name:     "exponent duration",
			log:      "[silencedetect @ 0x1] silence_start: 0\n[silencedetect @ 0x1] silence_end: 3E+00 | silence_duration: 3e0\n",
			start:    0,
			end:      3,
			duration: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intervals, err := Extract(tt.log)
			if err != nil {
				t.Fatalf("Extract returned error: %v", err)
			}
			if len(intervals) != 1 {
				t.Fatalf("expected 1 interval, got %d", len(intervals))
			}
			got := intervals[0]
			if got.Start() != tt.start || got.End() != tt.end || got.Duration() != tt.duration {
				t.Fatalf("unexpected interval: %v", got)
			}
		})
	}
}

func TestExtractDurationMismatchIsFatal(t *testing.T) {
	log := strings.Join([]string{
		"[silencedetect @ 0x1] silence_start: 5",
		"[silencedetect @ 0x1] silence_end: 9 | silence_duration: 3.5",
	}, "\n")
	for _, strict := range []bool{false, true} {
		_, err := NewExtractor(Options{Strict: strict}).Extract(log)
		if !errors.Is(err, ErrDurationMismatch) {
			t.Fatalf("strict=%v: expected duration mismatch, got %v", strict, err)
		}
		var mismatch *DurationMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("expected *DurationMismatchError, got %T", err)
		}
		if mismatch.Line != 2 {
			t.Fatalf("expected mismatch on line 2, got %d", mismatch.Line)
		}
	}
}

func TestExtractMalformedEvents(t *testing.T) {
	tests := []struct {
		name      string
		log       string
		intervals int
		warnings  int
	}{
		{
			name:      "end before start",
			log:       "[silencedetect @ 0x1] silence_end: 4 | silence_duration: 4\n[silencedetect @ 0x1] silence_start: 10\n[silencedetect @ 0x1] silence_end: 14 | silence_duration: 4",
			intervals: 1,
			warnings:  1,
		},
		{
			name:      "trailing start",
			log:       "[silencedetect @ 0x1] silence_start: 10\n[silencedetect @ 0x1] silence_end: 14 | silence_duration: 4\n[silencedetect @ 0x1] silence_start: 50",
			intervals: 1,
			warnings:  1,
		},
		{
			name:      "end precedes start",
			log:       "[silencedetect @ 0x1] silence_start: 10\n[silencedetect @ 0x1] silence_end: 9.95 | silence_duration: 0.05\n[silencedetect @ 0x1] silence_start: 20\n[silencedetect @ 0x1] silence_end: 24 | silence_duration: 4",
			intervals: 1,
			warnings:  1,
		},
		{
			name:      "overlapping interval",
			log:       "[silencedetect @ 0x1] silence_start: 10\n[silencedetect @ 0x1] silence_end: 14 | silence_duration: 4\n[silencedetect @ 0x1] silence_start: 12\n[silencedetect @ 0x1] silence_end: 16 | silence_duration: 4",
			intervals: 1,
			warnings:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewExtractor(Options{}).Extract(tt.log)
			if err != nil {
				t.Fatalf("lenient Extract returned error: %v", err)
			}
			if len(result.Intervals) != tt.intervals {
				t.Fatalf("expected %d intervals, got %d", tt.intervals, len(result.Intervals))
			}
			if len(result.Warnings) != tt.warnings {
				t.Fatalf("expected %d warnings, got %d", tt.warnings, len(result.Warnings))
			}

			_, err = NewExtractor(Options{Strict: true}).Extract(tt.log)
			if !errors.Is(err, ErrMalformedLog) {
				t.Fatalf("strict Extract: expected malformed log error, got %v", err)
			}
		})
	}
}

func TestExtractSecondStartIsIgnoredWhileAwaitingEnd(t *testing.T) {
	log := "[silencedetect @ 0x1] silence_start: 10\n[silencedetect @ 0x1] silence_start: 11\n[silencedetect @ 0x1] silence_end: 14 | silence_duration: 4"
	intervals, err := Extract(log)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(intervals) != 1 || intervals[0].Start() != 10 {
		t.Fatalf("expected first start to win, got %v", intervals)
	}
}

func TestExtractManyPairs(t *testing.T) {
	var b strings.Builder
	const pairs = 50
	for i := 0; i < pairs; i++ {
		start := float64(i * 10)
		b.WriteString("[silencedetect @ 0x1] silence_start: ")
		b.WriteString(formatSeconds(start))
		b.WriteString("\n[silencedetect @ 0x1] silence_end: ")
		b.WriteString(formatSeconds(start + 3.25))
		b.WriteString(" | silence_duration: 3.25\n")
	}
	intervals, err := Extract(b.String())
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(intervals) != pairs {
		t.Fatalf("expected %d intervals, got %d", pairs, len(intervals))
	}
}

func TestExtractEmptyLog(t *testing.T) {
	intervals, err := Extract("")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(intervals) != 0 {
		t.Fatalf("expected no intervals, got %v", intervals)
	}
}
