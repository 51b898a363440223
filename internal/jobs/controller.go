package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"rcrdr/internal/capture"
	"rcrdr/internal/config"
	"rcrdr/internal/deps"
	"rcrdr/internal/history"
	"rcrdr/internal/logging"
	"rcrdr/internal/media/ffprobe"
	"rcrdr/internal/progress"
)

const persistTimeout = 5 * time.Second

// Controller owns the session's single job slot. It starts jobs, polls their
// diagnostic stream, drives the stop protocol, and reports terminal outcomes.
// Exactly one job occupies the Starting..Verifying range at a time; a new
// request is only accepted once the previous job is terminal.
type Controller struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *history.Store
	lock   *flock.Flock

	mu      sync.Mutex
	current *job
}

// NewController acquires the session lock and returns a controller ready to
// accept jobs. store may be nil; history recording is then skipped.
func NewController(cfg *config.Config, logger *slog.Logger, store *history.Store) (*Controller, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	lock := flock.New(filepath.Join(cfg.Paths.LogDir, "rcrdr.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire session lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrSessionLocked, lock.Path())
	}

	return &Controller{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "jobs"),
		store:  store,
		lock:   lock,
	}, nil
}

// Close releases the session lock. Any active job keeps running; callers
// should wait for a terminal outcome first.
func (c *Controller) Close() error {
	if c.lock == nil {
		return nil
	}
	return c.lock.Unlock()
}

// Start validates the request, probes tool availability, and launches the
// job's worker. The returned token identifies the job for Poll, RequestStop,
// and Outcome. When the required tools are missing the job is recorded as
// Failed immediately and no process is spawned; the classification error is
// also returned to the caller.
func (c *Controller) Start(ctx context.Context, params Params) (uuid.UUID, error) {
	if err := c.validate(params); err != nil {
		return uuid.Nil, err
	}
	if params.FPS <= 0 {
		params.FPS = c.cfg.Recording.FPS
	}
	if params.Kind == KindTest && params.DurationSeconds == 0 {
		params.DurationSeconds = uint(c.cfg.Workflow.TestDurationSeconds)
	}

	c.mu.Lock()
	if c.current != nil && !c.current.status.Terminal() {
		c.mu.Unlock()
		return uuid.Nil, ErrJobActive
	}
	j := &job{
		token:  uuid.New(),
		params: params,
		status: StatusStarting,
		stop:   capture.NewStopFlag(),
		lines:  &lineBuffer{},
		done:   make(chan struct{}),
	}
	c.current = j
	c.mu.Unlock()

	c.logger.Info("job requested",
		logging.String("token", j.token.String()),
		logging.String("kind", string(params.Kind)),
		logging.String("output", params.OutputPath),
	)
	c.record(j)

	if err := c.probeTools(params.Kind); err != nil {
		c.fail(j, err)
		close(j.done)
		return j.token, err
	}

	j.totalSeconds = c.totalSeconds(ctx, params)
	j.startedAt = time.Now()

	go c.run(j)
	return j.token, nil
}

// Poll drains the job's buffered diagnostic lines, feeding each through the
// progress and completion heuristics. Non-blocking; an empty slice means
// nothing new arrived since the last poll.
func (c *Controller) Poll(token uuid.UUID) ([]string, error) {
	j, err := c.lookup(token)
	if err != nil {
		return nil, err
	}

	lines := splitChunks(j.lines.Drain())

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, line := range lines {
		if est, ok := progress.Estimate(line, j.totalSeconds); ok && est > j.progress {
			j.progress = est
		}
		if progress.IsCompletion(line) {
			j.completed = true
			j.progress = 1.0
		}
	}
	return lines, nil
}

// Progress returns the job's current fractional progress estimate. It only
// reaches 1.0 once a completion marker has been observed.
func (c *Controller) Progress(token uuid.UUID) (float64, error) {
	j, err := c.lookup(token)
	if err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return j.progress, nil
}

// RequestStop asks a running unbounded job to stop. The flag is one-shot;
// the worker observes it within a poll interval and runs the interruption
// protocol before the job is considered stopped.
func (c *Controller) RequestStop(token uuid.UUID) error {
	j, err := c.lookup(token)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if j.status != StatusRunning {
		status := j.status
		c.mu.Unlock()
		return fmt.Errorf("cannot stop job in state %s", status)
	}
	if j.params.Bounded() {
		c.mu.Unlock()
		return errors.New("bounded jobs stop on their own")
	}
	elapsed := time.Since(j.startedAt)
	c.mu.Unlock()

	if min := time.Duration(c.cfg.Workflow.MinimumRecordSeconds) * time.Second; elapsed < min {
		c.logger.Warn("stop requested before minimum record time",
			logging.Duration("elapsed", elapsed),
			logging.Duration("minimum", min),
		)
	}
	j.stop.RequestStop()
	c.transition(j, StatusStopping)
	return nil
}

// Outcome returns the terminal result for the job, or nil while it is still
// in flight.
func (c *Controller) Outcome(token uuid.UUID) (*Outcome, error) {
	j, err := c.lookup(token)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !j.status.Terminal() {
		return nil, nil
	}
	return &Outcome{Status: j.status, Reason: j.reason, Suggestion: j.suggestion}, nil
}

// Done returns a channel closed when the job's worker has finished, terminal
// state included.
func (c *Controller) Done(token uuid.UUID) (<-chan struct{}, error) {
	j, err := c.lookup(token)
	if err != nil {
		return nil, err
	}
	return j.done, nil
}

// PollInterval is the configured controller polling cadence.
func (c *Controller) PollInterval() time.Duration {
	return time.Duration(c.cfg.Workflow.PollIntervalMillis) * time.Millisecond
}

// CompletionHold is how long terminal state should stay visible before the
// caller cleans up its display.
func (c *Controller) CompletionHold() time.Duration {
	return time.Duration(c.cfg.Workflow.CompletionHoldMillis) * time.Millisecond
}

// run is the job worker: it drives the external process to completion,
// verifies the artifact, and settles the terminal state.
func (c *Controller) run(j *job) {
	defer close(j.done)

	c.transition(j, StatusRunning)

	args, bounded := c.arguments(j.params)
	runner := capture.NewRunner(
		c.cfg.FFmpegBinary(),
		c.PollInterval(),
		time.Duration(c.cfg.Workflow.StopGraceMillis)*time.Millisecond,
		c.logger,
	)

	var runErr error
	if bounded {
		runErr = runner.RunBounded(context.Background(), args, j.lines.Append)
	} else {
		runErr = runner.RunStreaming(context.Background(), args, j.stop, j.lines.Append)
		c.transition(j, StatusStopping)
	}
	c.transition(j, StatusVerifying)

	if runErr != nil {
		c.fail(j, runErr)
		return
	}

	verifyCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := ffprobe.Verify(verifyCtx, c.cfg.FFprobeBinary(), j.params.OutputPath); err != nil {
		c.fail(j, Wrap(ErrVerification, j.params.Kind, "verify", j.params.OutputPath, err))
		return
	}

	c.complete(j)
}

func (c *Controller) arguments(params Params) (args []string, bounded bool) {
	settings := capture.Settings{
		CaptureSource: c.cfg.Recording.CaptureSource,
		Preset:        c.cfg.Recording.Preset,
		CRF:           c.cfg.Recording.CRF,
	}
	switch params.Kind {
	case KindConvert:
		return capture.GIFArgs(params.InputPath, params.OutputPath, c.cfg.Conversion.FPS, c.cfg.Conversion.Width), false
	case KindTest:
		return capture.TestArgs(params.OutputPath, settings, int(params.DurationSeconds)), true
	default:
		req := capture.Request{
			OutputPath:      params.OutputPath,
			DurationSeconds: params.DurationSeconds,
			FPS:             params.FPS,
		}
		return capture.RecordArgs(req, settings), params.Bounded()
	}
}

func (c *Controller) probeTools(kind Kind) error {
	if !deps.IsAvailable(c.cfg.FFmpegBinary()) {
		return Wrap(ErrToolUnavailable, kind, "probe", c.cfg.FFmpegBinary()+" not found on PATH", nil)
	}
	if !deps.IsAvailable(c.cfg.FFprobeBinary()) {
		return Wrap(ErrToolUnavailable, kind, "probe", c.cfg.FFprobeBinary()+" not found on PATH", nil)
	}
	return nil
}

// totalSeconds picks the denominator for progress estimation: the explicit
// duration limit when bounded, the probed input duration for conversions
// (falling back to the configured assumption), zero otherwise. A zero total
// disables estimation; progress then moves only on the completion marker.
func (c *Controller) totalSeconds(ctx context.Context, params Params) float64 {
	if params.DurationSeconds > 0 {
		return float64(params.DurationSeconds)
	}
	if params.Kind == KindConvert {
		if dur, err := ffprobe.Duration(ctx, c.cfg.FFprobeBinary(), params.InputPath); err == nil && dur > 0 {
			return dur
		}
		return float64(c.cfg.Conversion.AssumedDurationSeconds)
	}
	return 0
}

func (c *Controller) validate(params Params) error {
	switch params.Kind {
	case KindRecord, KindConvert, KindTest:
	default:
		return fmt.Errorf("unknown job kind %q", params.Kind)
	}
	if strings.TrimSpace(params.OutputPath) == "" {
		return errors.New("output path is required")
	}
	if params.Kind == KindConvert && strings.TrimSpace(params.InputPath) == "" {
		return errors.New("conversion requires an input path")
	}
	return nil
}

func (c *Controller) lookup(token uuid.UUID) (*job, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil || c.current.token != token {
		return nil, ErrUnknownJob
	}
	return c.current, nil
}

// transition applies a lifecycle edge, tolerating same-state repeats. An
// invalid edge is logged and ignored rather than applied.
func (c *Controller) transition(j *job, to Status) {
	c.mu.Lock()
	from := j.status
	if from == to || from.Terminal() {
		c.mu.Unlock()
		return
	}
	if !ValidTransition(from, to) {
		c.mu.Unlock()
		c.logger.Warn("invalid transition ignored",
			logging.String("from", string(from)),
			logging.String("to", string(to)),
		)
		return
	}
	j.status = to
	c.mu.Unlock()

	c.logger.Debug("job transition",
		logging.String("token", j.token.String()),
		logging.String("from", string(from)),
		logging.String("to", string(to)),
	)
	c.persist(j)
}

func (c *Controller) fail(j *job, err error) {
	reason := FailureReason(err)
	c.mu.Lock()
	j.status = StatusFailed
	j.reason = reason
	c.mu.Unlock()

	c.logger.Error("job failed",
		logging.String("token", j.token.String()),
		logging.String("reason", reason),
	)
	c.persist(j)
}

func (c *Controller) complete(j *job) {
	c.mu.Lock()
	j.status = StatusCompleted
	j.progress = 1.0
	if j.params.Kind == KindRecord {
		j.suggestion = chainSuggestion(j.params.OutputPath)
	}
	c.mu.Unlock()

	c.logger.Info("job completed",
		logging.String("token", j.token.String()),
		logging.String("output", j.params.OutputPath),
	)
	c.persist(j)
}

// record inserts the job into the history store; history is best-effort and
// never fails the job.
func (c *Controller) record(j *job) {
	if c.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if _, err := c.store.Add(ctx, j.token.String(), string(j.params.Kind), j.params.OutputPath, j.params.InputPath, string(j.status)); err != nil {
		c.logger.Warn("record job history", logging.Error(err))
	}
}

func (c *Controller) persist(j *job) {
	if c.store == nil {
		return
	}
	c.mu.Lock()
	status := j.status
	reason := j.reason
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := c.store.UpdateStatus(ctx, j.token.String(), string(status), reason); err != nil {
		c.logger.Warn("persist job status", logging.Error(err))
	}
}

// splitChunks rebuilds displayable lines from raw stream chunks. The encoder
// redraws its status line with carriage returns, so both separators count.
func splitChunks(chunks []string) []string {
	if len(chunks) == 0 {
		return nil
	}
	lines := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		for _, line := range strings.FieldsFunc(chunk, func(r rune) bool {
			return r == '\n' || r == '\r'
		}) {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines
}
