package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rcrdr/internal/config"
	"rcrdr/internal/jobs"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var inputFlag string
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a recording to an animated GIF",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withController(func(ctrl *jobs.Controller, cfg *config.Config) error {
				input := strings.TrimSpace(inputFlag)
				output := strings.TrimSpace(outputFlag)
				if output == "" {
					output = gifOutputName(input)
				}

				outcome, err := runJob(cmd, ctrl, jobs.Params{
					Kind:       jobs.KindConvert,
					InputPath:  input,
					OutputPath: output,
				})
				if err != nil {
					return err
				}
				if outcome.Status != jobs.StatusCompleted {
					return fmt.Errorf("conversion failed: %s", outcome.Reason)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "GIF written to %s\n", output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&inputFlag, "input", "i", "", "Recording to convert")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "GIF output path (default: input path with .gif extension)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func gifOutputName(inputPath string) string {
	stem := inputPath
	if idx := strings.LastIndex(inputPath, "."); idx > strings.LastIndexAny(inputPath, `/\`) {
		stem = inputPath[:idx]
	}
	return stem + ".gif"
}
