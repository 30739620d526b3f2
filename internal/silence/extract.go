package silence

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	silenceStartRE = regexp.MustCompile(`^\[silencedetect @ (?:0x)?[0-9a-fA-F]+\] silence_start: (-?[0-9.]+(?:[eE][-+]?[0-9]+)?)`)
	silenceEndRE   = regexp.MustCompile(`^\[silencedetect @ (?:0x)?[0-9a-fA-F]+\] silence_end: (-?[0-9.]+(?:[eE][-+]?[0-9]+)?) \| silence_duration: (-?[0-9.]+(?:[eE][-+]?[0-9]+)?)`)
)

// Options configures how the extractor treats events that cannot be paired.
type Options struct {
	// Strict turns unpaired end events, overlapping intervals and a trailing
	// start without an end into errors instead of warnings.
	Strict bool
}

// Result holds the extracted intervals and any events that were discarded.
type Result struct {
	Intervals []Interval
	Warnings  []*MalformedLogError
}

// Extractor parses silencedetect output.
type Extractor struct {
	opts Options
}

// NewExtractor constructs an extractor with the given options.
func NewExtractor(opts Options) *Extractor {
	return &Extractor{opts: opts}
}

// Extract parses logText with the default (lenient) options and returns the
// intervals only.
func Extract(logText string) ([]Interval, error) {
	result, err := NewExtractor(Options{}).Extract(logText)
	if err != nil {
		return nil, err
	}
	return result.Intervals, nil
}

type scanState int

const (
	awaitingStart scanState = iota
	awaitingEnd
)

// Extract scans logText line by line. Lines that match neither event
// pattern are ignored.
func (e *Extractor) Extract(logText string) (Result, error) {
	var (
		result       Result
		state        = awaitingStart
		pendingStart float64
		pendingLine  int
	)

	for idx, raw := range strings.Split(logText, "\n") {
		lineNo := idx + 1
		line := strings.TrimRight(raw, "\r")

		switch state {
		case awaitingStart:
			if m := silenceStartRE.FindStringSubmatch(line); m != nil {
				start, err := strconv.ParseFloat(m[1], 64)
				if err != nil {
					if werr := e.discard(&result, &MalformedLogError{Line: lineNo, Text: line, Reason: "unparseable silence_start"}); werr != nil {
						return Result{}, werr
					}
					continue
				}
				pendingStart = start
				pendingLine = lineNo
				state = awaitingEnd
				continue
			}
			if silenceEndRE.MatchString(line) {
				if werr := e.discard(&result, &MalformedLogError{Line: lineNo, Text: line, Reason: "silence_end without silence_start"}); werr != nil {
					return Result{}, werr
				}
			}

		case awaitingEnd:
			m := silenceEndRE.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			state = awaitingStart
			end, endErr := strconv.ParseFloat(m[1], 64)
			reported, durErr := strconv.ParseFloat(m[2], 64)
			if endErr != nil || durErr != nil {
				if werr := e.discard(&result, &MalformedLogError{Line: lineNo, Text: line, Reason: "unparseable silence_end"}); werr != nil {
					return Result{}, werr
				}
				continue
			}
			interval, err := NewInterval(pendingStart, end, reported)
			if err != nil {
				var malformed *MalformedLogError
				if errors.As(err, &malformed) {
					malformed.Line = lineNo
					malformed.Text = line
					if werr := e.discard(&result, malformed); werr != nil {
						return Result{}, werr
					}
					continue
				}
				var mismatch *DurationMismatchError
				if errors.As(err, &mismatch) {
					mismatch.Line = lineNo
				}
				return Result{}, err
			}
			if n := len(result.Intervals); n > 0 && interval.Start() < result.Intervals[n-1].End() {
				overlap := &MalformedLogError{Line: lineNo, Text: line, Reason: "interval overlaps " + result.Intervals[n-1].String()}
				if werr := e.discard(&result, overlap); werr != nil {
					return Result{}, werr
				}
				continue
			}
			result.Intervals = append(result.Intervals, interval)
		}
	}

	if state == awaitingEnd {
		trailing := &MalformedLogError{
			Line:   pendingLine,
			Reason: "silence_start at " + strconv.FormatFloat(pendingStart, 'f', -1, 64) + " has no silence_end",
		}
		if werr := e.discard(&result, trailing); werr != nil {
			return Result{}, werr
		}
	}

	return result, nil
}

// discard records a malformed event as a warning, or returns it when strict.
func (e *Extractor) discard(result *Result, malformed *MalformedLogError) error {
	if e.opts.Strict {
		return malformed
	}
	result.Warnings = append(result.Warnings, malformed)
	return nil
}
