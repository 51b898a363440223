package ffprobe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Verification failure reasons, distinguishable via errors.Is so callers can
// surface actionable messages.
var (
	ErrUnreadable       = errors.New("file is not accessible")
	ErrEmptyFile        = errors.New("file is empty")
	ErrInvalidContainer = errors.New("not a valid media container")
	ErrBadDuration      = errors.New("container reports no positive duration")
	ErrProbeFailed      = errors.New("probe tool failed")
)

// Duration executes ffprobe against the provided path and returns the container
// duration in seconds. The probe requests a single machine-parseable value.
func Duration(ctx context.Context, binary string, path string) (float64, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, errors.New("ffprobe duration: empty path")
	}

	cmd := exec.CommandContext(ctx, binary,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return 0, fmt.Errorf("%w: %s", ErrInvalidContainer, probeDetail(exitErr))
		}
		return 0, fmt.Errorf("%w: %v", ErrProbeFailed, err)
	}

	value := strings.TrimSpace(string(output))
	duration, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: unparsable duration %q", ErrBadDuration, value)
	}
	return duration, nil
}

// Verify checks that path names a usable media artifact: it must exist with a
// non-zero size and ffprobe must report a positive container duration. A nil
// return means the artifact is valid; otherwise the error wraps one of the
// sentinel reasons above. Safe to call repeatedly and concurrently.
func Verify(ctx context.Context, binary string, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnreadable, path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	duration, err := Duration(ctx, binary, path)
	if err != nil {
		return err
	}
	if duration <= 0 {
		return fmt.Errorf("%w: %s reports %.3fs", ErrBadDuration, path, duration)
	}
	return nil
}

// Valid is a convenience wrapper over Verify for callers that only need the
// boolean answer.
func Valid(ctx context.Context, binary string, path string) bool {
	return Verify(ctx, binary, path) == nil
}

func probeDetail(exitErr *exec.ExitError) string {
	detail := strings.TrimSpace(string(exitErr.Stderr))
	if detail != "" {
		return detail
	}
	return exitErr.String()
}
