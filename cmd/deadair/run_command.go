package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"deadair/internal/workflow"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var refresh bool
	var workers int
	var noPreflight bool

	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Cut silence from every video in the input directory or the given paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				if workers < 1 {
					return fmt.Errorf("--workers must be at least 1")
				}
				cfg.Workflow.Workers = workers
			}

			files, err := workflow.ResolveInputs(args, cfg.Paths.InputDir, cfg.Cut.Extensions)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintf(out, "No videos found (extensions %v)\n", cfg.Cut.Extensions)
				return nil
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			opts := []workflow.ManagerOption{workflow.WithRefresh(refresh)}
			if noPreflight {
				opts = append(opts, workflow.WithoutPreflight())
			}
			manager := workflow.NewManager(cfg, store, logger, opts...)
			summary, err := manager.Run(cmd.Context(), files)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(summary.Results))
			for _, r := range summary.Results {
				rows = append(rows, resultRow(r))
			}
			fmt.Fprintln(out, renderTable(
				[]string{"File", "Status", "Silences", "Removed", "Output"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			fmt.Fprintln(out, summary.String())
			if summary.Failed > 0 {
				return fmt.Errorf("%d conversion(s) failed; see %s", summary.Failed, cfg.Paths.LogDir)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Ignore cached silencedetect logs and rerun detection")
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "Files to process in parallel (overrides workflow.workers)")
	cmd.Flags().BoolVar(&noPreflight, "no-preflight", false, "Skip binary and directory checks")
	return cmd
}

func resultRow(r workflow.FileResult) []string {
	status := titleStatus(string(r.Status))
	if r.Skipped {
		status = "Skipped"
	}
	output := ""
	switch {
	case r.Err != nil:
		output = r.Err.Error()
	case !r.Skipped && r.Output != "":
		output = filepath.Base(r.Output)
	}
	silences := ""
	removed := ""
	if !r.Skipped && r.Err == nil {
		silences = strconv.Itoa(r.Silences)
		removed = formatSeconds(r.Summary.RemovedSeconds)
	}
	return []string{filepath.Base(r.Source), status, silences, removed, output}
}
