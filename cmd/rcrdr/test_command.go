package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"rcrdr/internal/config"
	"rcrdr/internal/jobs"
)

func newTestCommand(ctx *commandContext) *cobra.Command {
	var keepFlag bool

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run a short diagnostic capture and verify the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withController(func(ctrl *jobs.Controller, cfg *config.Config) error {
				output := filepath.Join(cfg.Paths.OutputDir,
					fmt.Sprintf("rcrdr_selftest_%s.mp4", time.Now().Format("20060102_150405")))

				outcome, err := runJob(cmd, ctrl, jobs.Params{
					Kind:       jobs.KindTest,
					OutputPath: output,
				})
				if err != nil {
					return err
				}
				if outcome.Status != jobs.StatusCompleted {
					return fmt.Errorf("capture test failed: %s", outcome.Reason)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Capture pipeline OK (%ds sample verified)\n", cfg.Workflow.TestDurationSeconds)
				if keepFlag {
					fmt.Fprintf(out, "Sample kept at %s\n", output)
					return nil
				}
				if err := os.Remove(output); err != nil {
					fmt.Fprintf(out, "Could not remove sample %s: %v\n", output, err)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&keepFlag, "keep", false, "Keep the test recording instead of deleting it")
	return cmd
}
