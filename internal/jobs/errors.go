package jobs

import (
	"errors"
	"fmt"
	"strings"

	"rcrdr/internal/capture"
)

var (
	// ErrToolUnavailable means a required external binary is not on the
	// execution path. Fatal for the session; no job is ever spawned.
	ErrToolUnavailable = errors.New("tool unavailable")
	// ErrVerification means the process reported success but the artifact on
	// disk is unusable.
	ErrVerification = errors.New("verification failed")
	// ErrJobActive is returned when a job is requested while another occupies
	// the session.
	ErrJobActive = errors.New("a job is already active")
	// ErrUnknownJob is returned for a token that does not match the session's
	// current job.
	ErrUnknownJob = errors.New("unknown job token")
	// ErrSessionLocked means another process holds the session lock.
	ErrSessionLocked = errors.New("another session is active")
)

// Wrap builds an error message that includes job context while tagging it
// with the provided marker for later status classification. The marker should
// be one of the exported sentinel errors, or a capture sentinel.
func Wrap(marker error, kind Kind, operation, message string, err error) error {
	detail := buildDetail(string(kind), operation, message)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureReason flattens a job error into the human-readable reason string
// recorded on the Failed state.
func FailureReason(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrToolUnavailable):
		return "tool unavailable: " + trimSentinel(err, ErrToolUnavailable)
	case errors.Is(err, capture.ErrSpawn):
		return "spawn failed: " + trimSentinel(err, capture.ErrSpawn)
	case errors.Is(err, capture.ErrProcess):
		return "process failed: " + trimSentinel(err, capture.ErrProcess)
	case errors.Is(err, ErrVerification):
		return "verification failed: " + trimSentinel(err, ErrVerification)
	default:
		return err.Error()
	}
}

func buildDetail(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}
	if len(kept) == 0 {
		return "job failure"
	}
	return strings.Join(kept, ": ")
}

// trimSentinel strips the leading sentinel text so the reason does not repeat
// its own classification.
func trimSentinel(err, marker error) string {
	msg := err.Error()
	prefix := marker.Error() + ": "
	if strings.HasPrefix(msg, prefix) {
		return msg[len(prefix):]
	}
	return msg
}
