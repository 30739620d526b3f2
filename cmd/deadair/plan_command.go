package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"deadair/internal/cutplan"
	"deadair/internal/filtergraph"
	"deadair/internal/workflow"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var logPath string
	var duration float64
	var refresh bool
	var showSegments bool
	var writePath string

	cmd := &cobra.Command{
		Use:   "plan [video]",
		Short: "Print the filter script for a video without rendering",
		Long: "Print the filter_complex script and -map labels deadair would render.\n\n" +
			"Pass a video to probe and detect silence, or --log with --duration to plan\n" +
			"from a saved silencedetect log without running ffmpeg.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var result workflow.PlanResult
			switch {
			case strings.TrimSpace(logPath) != "":
				if duration <= 0 {
					return errors.New("--duration is required with --log")
				}
				text, err := readLog(logPath)
				if err != nil {
					return err
				}
				result, err = workflow.BuildPlan(text, duration, workflow.PlanOptionsFromConfig(cfg))
				if err != nil {
					return err
				}
				reportWarnings(cmd.ErrOrStderr(), result)
			case len(args) == 1:
				logger, err := ctx.ensureLogger()
				if err != nil {
					return err
				}
				manager := workflow.NewManager(cfg, nil, logger, workflow.WithRefresh(refresh))
				result, err = manager.Plan(cmd.Context(), args[0])
				if err != nil {
					return err
				}
			default:
				return errors.New("provide a video path or --log with --duration")
			}

			out := cmd.OutOrStdout()
			if showSegments {
				fmt.Fprintln(out, renderSegments(result.Segments))
			}
			printScript(out, result.Script)
			fmt.Fprintf(out, "# %s, %s kept, %s removed\n",
				pluralize(len(result.Intervals), "silence", "silences"),
				formatSeconds(result.Summary.KeptSeconds),
				formatSeconds(result.Summary.RemovedSeconds))

			if strings.TrimSpace(writePath) != "" {
				if err := result.Script.WriteFile(writePath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote filter script to %s\n", writePath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&logPath, "log", "", "Plan from a saved silencedetect log ('-' for stdin)")
	cmd.Flags().Float64Var(&duration, "duration", 0, "Source duration in seconds (with --log)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Ignore cached silencedetect logs and rerun detection")
	cmd.Flags().BoolVar(&showSegments, "segments", false, "Print the planned segments as a table")
	cmd.Flags().StringVarP(&writePath, "write", "w", "", "Also write the script to this file")
	return cmd
}

func readLog(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read log from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read log: %w", err)
	}
	return string(data), nil
}

func reportWarnings(w io.Writer, result workflow.PlanResult) {
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "warning: %v\n", warning)
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintf(w, "warning: %s discarded; set cut.strict_log to fail instead\n",
			pluralize(len(result.Warnings), "event", "events"))
	}
}

func printScript(w io.Writer, script filtergraph.Script) {
	for _, filter := range script.Filters {
		fmt.Fprintln(w, filter)
	}
	fmt.Fprintf(w, "# map: %s\n", strings.Join(script.MapArgs(), " "))
}

func renderSegments(segments []cutplan.Segment) string {
	rows := make([][]string, 0, len(segments))
	for i, seg := range segments {
		row := []string{fmt.Sprintf("%d", i+1), seg.Kind.String()}
		switch seg.Kind {
		case cutplan.KindClip:
			row = append(row, seg.Clip.String(), "", formatSeconds(seg.Clip.Duration()))
		case cutplan.KindCrossfade:
			row = append(row, seg.FadeOut.String(), seg.FadeIn.String(), formatSeconds(seg.FadeIn.Duration()))
		}
		rows = append(rows, row)
	}
	return renderTable(
		[]string{"#", "Kind", "Span", "Fade In", "Length"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
	)
}
