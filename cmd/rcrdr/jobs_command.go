package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"rcrdr/internal/history"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Show recent job history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open job history: %w", err)
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), limitFlag)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No jobs recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				path := rec.OutputPath
				if rec.InputPath != "" {
					path = rec.InputPath + " -> " + rec.OutputPath
				}
				rows = append(rows, []string{
					strconv.FormatInt(rec.ID, 10),
					rec.Kind,
					path,
					rec.Status,
					rec.Reason,
					rec.UpdatedAt.Local().Format("2006-01-02 15:04:05"),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Kind", "Path", "Status", "Reason", "Updated"},
				rows,
				true,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limitFlag, "limit", "n", 20, "Maximum number of jobs to show (0 shows all retained)")
	return cmd
}
