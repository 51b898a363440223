package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"rcrdr/internal/config"
	"rcrdr/internal/jobs"
)

func newRecordCommand(ctx *commandContext) *cobra.Command {
	var outputFlag string
	var durationFlag uint
	var fpsFlag int

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Capture the screen to an mp4 file",
		Long: "Captures the screen with ffmpeg. With --duration the recording stops on its own;\n" +
			"without it, recording continues until Ctrl+C.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withController(func(ctrl *jobs.Controller, cfg *config.Config) error {
				output := strings.TrimSpace(outputFlag)
				if output == "" {
					output = filepath.Join(cfg.Paths.OutputDir, defaultRecordingName(time.Now()))
				}

				outcome, err := runJob(cmd, ctrl, jobs.Params{
					Kind:            jobs.KindRecord,
					OutputPath:      output,
					DurationSeconds: durationFlag,
					FPS:             fpsFlag,
				})
				if err != nil {
					return err
				}
				if outcome.Status != jobs.StatusCompleted {
					return fmt.Errorf("recording failed: %s", outcome.Reason)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Recording saved to %s\n", output)
				if s := outcome.Suggestion; s != nil {
					fmt.Fprintf(out, "Convert it with: rcrdr convert -i %s -o %s\n", s.ConvertInput, s.ConvertOutput)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file path (default: recording_<timestamp>.mp4 in the output directory)")
	cmd.Flags().UintVarP(&durationFlag, "duration", "d", 0, "Recording duration in seconds (0 records until Ctrl+C)")
	cmd.Flags().IntVar(&fpsFlag, "fps", 0, "Capture frame rate (default from configuration)")
	return cmd
}

func defaultRecordingName(now time.Time) string {
	return "recording_" + now.Format("20060102_150405") + ".mp4"
}
