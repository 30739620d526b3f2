package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"deadair/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var statuses []string
	var runID string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := history.Filter{RunID: strings.TrimSpace(runID), Limit: limit}
			for _, raw := range statuses {
				status, ok := history.ParseStatus(raw)
				if !ok {
					return fmt.Errorf("unknown status %q (valid: %s)", raw, statusList())
				}
				filter.Statuses = append(filter.Statuses, status)
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No conversions recorded")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, historyRow(rec))
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Status", "File", "Silences", "Removed", "Elapsed", "Started"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&statuses, "status", "s", nil, "Filter by status (repeatable)")
	cmd.Flags().StringVar(&runID, "run", "", "Only show records from this batch run id")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum records to show (0 for all)")
	return cmd
}

func historyRow(rec history.Record) []string {
	file := truncate(rec.SourcePath, 48)
	silences, removed := "", ""
	if rec.Status == history.StatusCompleted {
		silences = strconv.Itoa(rec.Silences)
		removed = formatSeconds(rec.RemovedSeconds)
	}
	status := titleStatus(string(rec.Status))
	if rec.ErrorMessage != "" {
		status += ": " + truncate(rec.ErrorMessage, 40)
	}
	return []string{
		strconv.FormatInt(rec.ID, 10),
		status,
		file,
		silences,
		removed,
		formatElapsed(rec.Elapsed()),
		formatTime(rec.StartedAt),
	}
}

func statusList() string {
	names := make([]string, 0, len(history.AllStatuses()))
	for _, s := range history.AllStatuses() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}
