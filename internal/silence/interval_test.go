package silence

import (
	"errors"
	"strconv"
	"testing"
)

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func TestNewIntervalTolerance(t *testing.T) {
	tests := []struct {
		name               string
		start, end, report float64
		wantErr            error
	}{
		{name: "exact", start: 1, end: 4, report: 3},
		{name: "within tolerance", start: 1, end: 4, report: 3.09},
		{name: "beyond tolerance", start: 1, end: 4, report: 3.2, wantErr: ErrDurationMismatch},
		{name: "negative reported", start: 3, end: 4, report: -1, wantErr: ErrDurationMismatch},
		{name: "end before start", start: 4, end: 3.95, report: 0.05, wantErr: ErrMalformedLog},
		{name: "exponent start", start: 2.08333e-05, end: 3.50002, report: 3.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interval, err := NewInterval(tt.start, tt.end, tt.report)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if interval.Start() != tt.start || interval.End() != tt.end || interval.Duration() != tt.report {
				t.Fatalf("unexpected interval: %v", interval)
			}
		})
	}
}

func TestHistogram(t *testing.T) {
	mk := func(start, end float64) Interval {
		t.Helper()
		iv, err := NewInterval(start, end, end-start)
		if err != nil {
			t.Fatalf("NewInterval: %v", err)
		}
		return iv
	}
	intervals := []Interval{mk(0, 3.2), mk(10, 13.9), mk(20, 24), mk(30, 70)}
	counts := Histogram(intervals, 0)
	if len(counts) != DefaultHistogramBuckets {
		t.Fatalf("expected %d buckets, got %d", DefaultHistogramBuckets, len(counts))
	}
	if counts[3] != 2 {
		t.Fatalf("expected two silences in 3-4s bucket, got %d", counts[3])
	}
	if counts[4] != 1 {
		t.Fatalf("expected one silence in 4-5s bucket, got %d", counts[4])
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	if total != 3 {
		t.Fatalf("expected the 40s silence to fall outside the buckets, total=%d", total)
	}
}
