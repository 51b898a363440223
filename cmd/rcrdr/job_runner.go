package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"rcrdr/internal/jobs"
	"rcrdr/internal/progress"
)

// runJob drives one job to its terminal state: it starts the job, polls its
// diagnostic stream on the configured cadence, renders progress, and turns
// Ctrl+C into a graceful stop request. The terminal state is held briefly so
// trailing diagnostics are drained before the display is finalized.
func runJob(cmd *cobra.Command, ctrl *jobs.Controller, params jobs.Params) (*jobs.Outcome, error) {
	ctx, stopSignals := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	token, err := ctrl.Start(ctx, params)
	if err != nil {
		return nil, err
	}

	if !params.Bounded() {
		fmt.Fprintln(cmd.OutOrStdout(), "Recording... press Ctrl+C to stop")
		go func() {
			<-ctx.Done()
			// Terminal jobs reject the stop request; nothing to do then.
			_ = ctrl.RequestStop(token)
		}()
	}

	render := newProgressRenderer(cmd.OutOrStdout())
	ticker := time.NewTicker(ctrl.PollInterval())
	defer ticker.Stop()

	for range ticker.C {
		lines, err := ctrl.Poll(token)
		if err != nil {
			return nil, err
		}
		printErrorLines(cmd.ErrOrStderr(), lines)
		if prog, err := ctrl.Progress(token); err == nil {
			render.update(prog)
		}

		outcome, err := ctrl.Outcome(token)
		if err != nil {
			return nil, err
		}
		if outcome == nil {
			continue
		}

		holdUntil := time.Now().Add(ctrl.CompletionHold())
		for time.Now().Before(holdUntil) {
			if trailing, err := ctrl.Poll(token); err == nil {
				printErrorLines(cmd.ErrOrStderr(), trailing)
			}
			time.Sleep(ctrl.PollInterval())
		}
		if outcome.Status == jobs.StatusCompleted {
			render.update(1.0)
		}
		render.finish()
		return outcome, nil
	}
	return nil, nil
}

// printErrorLines surfaces error-looking diagnostics while the job runs; the
// rest of the stream stays quiet. Classification is a display heuristic only.
func printErrorLines(out io.Writer, lines []string) {
	for _, line := range lines {
		if progress.IsError(line) {
			fmt.Fprintln(out, line)
		}
	}
}
