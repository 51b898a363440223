package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"rcrdr/internal/logging"
)

// Failure markers distinguishable via errors.Is.
var (
	// ErrSpawn indicates the external process could not be started at all.
	ErrSpawn = errors.New("spawn failed")
	// ErrProcess indicates the external process ran and exited unsuccessfully.
	ErrProcess = errors.New("process failed")
)

const pumpChunkSize = 1024

// Runner owns one external encoder process per call. It never leaks a
// process: every exit path, including errors and forced termination, performs
// the final reap.
type Runner struct {
	binary string
	poll   time.Duration
	grace  time.Duration
	logger *slog.Logger
}

// NewRunner constructs a runner for the given binary. poll is the stop-flag
// and liveness polling interval; grace is the window between the graceful
// interrupt and forced termination.
func NewRunner(binary string, poll, grace time.Duration, logger *slog.Logger) *Runner {
	if poll <= 0 {
		poll = 100 * time.Millisecond
	}
	if grace < 0 {
		grace = 0
	}
	return &Runner{
		binary: binary,
		poll:   poll,
		grace:  grace,
		logger: logging.NewComponentLogger(logger, "supervisor"),
	}
}

// RunBounded spawns the process and blocks until it exits on its own. Stderr
// is captured in full and forwarded to sink line by line after the fact. No
// stop flag is consulted; the process bounds itself.
func (r *Runner) RunBounded(ctx context.Context, args []string, sink func(string)) error {
	cmd := exec.CommandContext(ctx, r.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	r.logger.Debug("spawning bounded job", logging.String("binary", r.binary))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSpawn, r.binary, err)
	}
	waitErr := cmd.Wait()

	if sink != nil {
		for _, line := range strings.Split(stderr.String(), "\n") {
			if line = strings.TrimRight(line, "\r"); line != "" {
				sink(line)
			}
		}
	}

	if waitErr != nil {
		return fmt.Errorf("%w: %v: %s", ErrProcess, waitErr, tail(stderr.String(), 4))
	}
	return nil
}

// RunStreaming spawns the process with stderr piped, pumps the stream into
// sink from a dedicated goroutine, and polls the stop flag alongside process
// liveness. Whichever comes first, stop request or natural exit, ends the wait
// loop; a stop request (or context cancellation) triggers the interruption
// protocol: interrupt first, wait the grace window so the encoder can finalize
// its container, and only then force-terminate if still alive.
func (r *Runner) RunStreaming(ctx context.Context, args []string, stop *StopFlag, sink func(string)) error {
	cmd := exec.Command(r.binary, args...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("%w: stderr pipe: %v", ErrSpawn, err)
	}

	r.logger.Debug("spawning streaming job", logging.String("binary", r.binary))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSpawn, r.binary, err)
	}

	// Single reap point: the pump drains stderr to end-of-stream, then Wait
	// reaps. Every path below receives from done exactly once.
	done := make(chan error, 1)
	go func() {
		pump(stderr, sink)
		done <- cmd.Wait()
	}()

	exited := false
	var waitErr error
wait:
	for {
		select {
		case waitErr = <-done:
			exited = true
			break wait
		case <-ctx.Done():
			break wait
		case <-time.After(r.poll):
			if !stop.Engaged() {
				break wait
			}
		}
	}

	if exited {
		if waitErr != nil {
			return fmt.Errorf("%w: %v", ErrProcess, waitErr)
		}
		return nil
	}

	started := time.Now()
	if err := interrupt(cmd); err != nil {
		r.logger.Debug("graceful interrupt unavailable", logging.Error(err))
	}
	select {
	case <-done:
	case <-time.After(r.grace):
		r.logger.Debug("grace window elapsed, terminating",
			logging.Duration("grace", r.grace),
			logging.Duration("elapsed", time.Since(started)),
		)
		_ = cmd.Process.Kill()
		<-done
	}
	// An interrupted encoder exits non-zero by convention; the stop was
	// requested, so that status is not a job failure.
	return nil
}

// pump copies the diagnostic stream into sink in fixed-size chunks, decoding
// permissively. Read errors end the stream; they are not a job failure.
func pump(stream io.Reader, sink func(string)) {
	buf := make([]byte, pumpChunkSize)
	for {
		n, err := stream.Read(buf)
		if n > 0 && sink != nil {
			sink(string(buf[:n]))
		}
		if err != nil {
			return
		}
	}
}

func tail(output string, lines int) string {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return "(no diagnostic output)"
	}
	split := strings.Split(trimmed, "\n")
	if len(split) > lines {
		split = split[len(split)-lines:]
	}
	return strings.TrimSpace(strings.Join(split, "\n"))
}
