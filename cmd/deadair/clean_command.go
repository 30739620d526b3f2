package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"deadair/internal/logging"
	"deadair/internal/sidecar"
	"deadair/internal/workflow"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var minAge time.Duration
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove cache logs and filter scripts left behind by finished videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			lock, err := workflow.AcquireBatchLock(cfg.LockPath())
			if err != nil {
				return err
			}
			defer func() {
				if err := lock.Unlock(); err != nil {
					logger.Warn("failed to release batch lock", logging.Error(err))
				}
			}()

			result, err := sidecar.Clean(cmd.Context(), cfg.Paths.InputDir, sidecar.Options{MinAge: minAge, DryRun: dryRun}, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			verb := "Removed"
			if dryRun {
				verb = "Would remove"
				for _, file := range result.Removed {
					fmt.Fprintln(out, file.Path)
				}
			}
			fmt.Fprintf(out, "%s %s (%s)\n", verb,
				pluralize(len(result.Removed), "orphaned sidecar", "orphaned sidecars"),
				formatBytes(result.Bytes))
			if len(result.Errors) > 0 {
				return fmt.Errorf("%s could not be removed", pluralize(len(result.Errors), "file", "files"))
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&minAge, "min-age", time.Hour, "Only remove orphans older than this")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "List orphans without removing them")
	return cmd
}
