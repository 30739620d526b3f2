package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"deadair/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool
	var raw bool

	cmd := &cobra.Command{
		Use:   "logs [run-id]",
		Short: "Show the log of the latest (or a given) batch run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var path string
			if len(args) == 1 {
				path = logs.RunLogPath(cfg.Paths.LogDir, strings.TrimSpace(args[0]))
				if _, err := os.Stat(path); err != nil {
					return fmt.Errorf("run log %s: %w", path, err)
				}
			} else {
				path, err = logs.Latest(cfg.Paths.LogDir)
				if errors.Is(err, logs.ErrNoLogs) {
					fmt.Fprintf(cmd.OutOrStdout(), "No run logs in %s\n", cfg.Paths.LogDir)
					return nil
				}
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			emit := func(line string) {
				if !raw {
					line = logs.FormatLine(line)
				}
				fmt.Fprintln(out, line)
			}

			tail, offset, err := logs.Last(path, lines)
			if err != nil {
				return err
			}
			for _, line := range tail {
				emit(line)
			}
			if !follow {
				return nil
			}
			return logs.Follow(cmd.Context(), path, offset, 500*time.Millisecond, emit)
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing lines as they are written")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print JSON records without formatting")
	return cmd
}
