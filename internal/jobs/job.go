package jobs

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"rcrdr/internal/capture"
)

// Kind identifies what the external process is asked to do.
type Kind string

const (
	KindRecord  Kind = "record"
	KindConvert Kind = "convert"
	KindTest    Kind = "test"
)

// Params describes one job request. Immutable once the job starts.
type Params struct {
	Kind       Kind
	OutputPath string
	// InputPath is consumed by conversion jobs only.
	InputPath string
	// DurationSeconds of zero means unbounded; the job runs until a stop is
	// requested.
	DurationSeconds uint
	FPS             int
}

// Bounded reports whether the job limits its own runtime and therefore has
// no manual-stop path.
func (p Params) Bounded() bool {
	switch p.Kind {
	case KindTest:
		return true
	case KindRecord:
		return p.DurationSeconds > 0
	default:
		return false
	}
}

// Suggestion carries the follow-on conversion paths seeded when a recording
// completes.
type Suggestion struct {
	ConvertInput  string
	ConvertOutput string
}

// Outcome is the terminal result of a job.
type Outcome struct {
	Status     Status
	Reason     string
	Suggestion *Suggestion
}

type job struct {
	token        uuid.UUID
	params       Params
	status       Status
	reason       string
	progress     float64
	completed    bool
	totalSeconds float64
	startedAt    time.Time
	stop         *capture.StopFlag
	lines        *lineBuffer
	suggestion   *Suggestion
	done         chan struct{}
}

// chainSuggestion derives the follow-on conversion paths from a completed
// recording's output: same file stem, gif extension.
func chainSuggestion(outputPath string) *Suggestion {
	stem := outputPath
	if idx := strings.LastIndex(outputPath, "."); idx > strings.LastIndexAny(outputPath, `/\`) {
		stem = outputPath[:idx]
	}
	return &Suggestion{
		ConvertInput:  outputPath,
		ConvertOutput: stem + ".gif",
	}
}
