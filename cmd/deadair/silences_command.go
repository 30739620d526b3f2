package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"deadair/internal/silence"
	"deadair/internal/silencedetect"
)

func newSilencesCommand(ctx *commandContext) *cobra.Command {
	var logPath string
	var buckets int
	var refresh bool
	var list bool

	cmd := &cobra.Command{
		Use:   "silences [video]",
		Short: "Show a histogram of silence lengths",
		Long: "Survey silence lengths in a video (or a saved silencedetect log) to help\n" +
			"choose detection.min_silence_seconds.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var text string
			switch {
			case strings.TrimSpace(logPath) != "":
				text, err = readLog(logPath)
				if err != nil {
					return err
				}
			case len(args) == 1:
				logger, err := ctx.ensureLogger()
				if err != nil {
					return err
				}
				detector := silencedetect.New(silencedetect.Options{
					FFmpegBinary: cfg.FFmpegBinary(),
					NoiseDB:      cfg.Detection.NoiseDB,
					MinSilence:   cfg.Detection.MinSilenceSeconds,
					AudioStream:  cfg.Cut.AudioStream,
					CacheEnabled: cfg.Detection.CacheEnabled,
					Refresh:      refresh,
					Timeout:      cfg.DetectTimeout(),
				}, logger)
				result, err := detector.Detect(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				text = result.Text
			default:
				return errors.New("provide a video path or --log")
			}

			extracted, err := silence.NewExtractor(silence.Options{Strict: cfg.Cut.StrictLog}).Extract(text)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if list {
				fmt.Fprintln(out, renderIntervals(extracted.Intervals))
			}
			renderHistogram(out, extracted.Intervals, buckets)
			return nil
		},
	}

	cmd.Flags().StringVar(&logPath, "log", "", "Read a saved silencedetect log ('-' for stdin)")
	cmd.Flags().IntVar(&buckets, "buckets", silence.DefaultHistogramBuckets, "Number of one-second buckets")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Ignore cached silencedetect logs and rerun detection")
	cmd.Flags().BoolVar(&list, "list", false, "Also list every interval")
	return cmd
}

func renderHistogram(w io.Writer, intervals []silence.Interval, buckets int) {
	counts := silence.Histogram(intervals, buckets)
	peak := 0
	for _, c := range counts {
		peak = max(peak, c)
	}
	rows := make([][]string, 0, len(counts))
	for i, c := range counts {
		if c == 0 {
			continue
		}
		rows = append(rows, []string{fmt.Sprintf("%d-%ds", i, i+1), strconv.Itoa(c), bar(c, peak, 40)})
	}
	total := 0.0
	for _, interval := range intervals {
		total += interval.Duration()
	}
	fmt.Fprintln(w, renderTable([]string{"Length", "Count", ""}, rows, []columnAlignment{alignRight, alignRight, alignLeft}))
	fmt.Fprintf(w, "%s totalling %s\n", pluralize(len(intervals), "silence", "silences"), formatSeconds(total))
}

func renderIntervals(intervals []silence.Interval) string {
	rows := make([][]string, 0, len(intervals))
	for i, interval := range intervals {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(interval.Start(), 'f', 3, 64),
			strconv.FormatFloat(interval.End(), 'f', 3, 64),
			strconv.FormatFloat(interval.Duration(), 'f', 3, 64),
		})
	}
	return renderTable([]string{"#", "Start", "End", "Duration"}, rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight})
}

func bar(n, peak, width int) string {
	if peak <= 0 || n <= 0 {
		return ""
	}
	return strings.Repeat("#", max(1, n*width/peak))
}
