package capture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"rcrdr/internal/logging"
)

func writeScript(t *testing.T, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stubs require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

type lineCollector struct {
	mu    sync.Mutex
	parts []string
}

func (c *lineCollector) sink(chunk string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parts = append(c.parts, chunk)
}

func (c *lineCollector) joined() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.Join(c.parts, "")
}

func newTestRunner(binary string, poll, grace time.Duration) *Runner {
	return NewRunner(binary, poll, grace, logging.NewNop())
}

func TestRunStreamingNaturalExit(t *testing.T) {
	script := writeScript(t, "encoder", `
echo "frame=1 time=00:00:01.00 bitrate=500kbits/s" >&2
echo "frame=2 time=00:00:02.00 bitrate=500kbits/s" >&2
echo "conversion completed successfully" >&2
exit 0
`)
	r := newTestRunner(script, 20*time.Millisecond, 200*time.Millisecond)
	var c lineCollector
	if err := r.RunStreaming(context.Background(), nil, NewStopFlag(), c.sink); err != nil {
		t.Fatalf("RunStreaming: %v", err)
	}

	out := c.joined()
	first := strings.Index(out, "time=00:00:01.00")
	second := strings.Index(out, "time=00:00:02.00")
	marker := strings.Index(out, "conversion completed successfully")
	if first < 0 || second < 0 || marker < 0 {
		t.Fatalf("missing stream output, got %q", out)
	}
	if !(first < second && second < marker) {
		t.Fatalf("stream order violated: %q", out)
	}
}

func TestRunStreamingStopRequest(t *testing.T) {
	script := writeScript(t, "encoder", `
trap 'exit 0' INT
while :; do sleep 0.05; done
`)
	r := newTestRunner(script, 20*time.Millisecond, 2*time.Second)
	stop := NewStopFlag()
	done := make(chan error, 1)
	start := time.Now()
	go func() { done <- r.RunStreaming(context.Background(), nil, stop, nil) }()

	time.Sleep(50 * time.Millisecond)
	stop.RequestStop()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("stop-requested run must not fail: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after stop request")
	}
	if elapsed := time.Since(start); elapsed >= 2*time.Second {
		t.Fatalf("graceful exit should beat the grace window, took %v", elapsed)
	}
}

func TestRunStreamingForceTerminatesAfterGrace(t *testing.T) {
	script := writeScript(t, "encoder", `
trap '' INT
while :; do sleep 0.05; done
`)
	grace := 300 * time.Millisecond
	r := newTestRunner(script, 20*time.Millisecond, grace)
	stop := NewStopFlag()
	start := time.Now()
	go func() {
		time.Sleep(50 * time.Millisecond)
		stop.RequestStop()
	}()
	if err := r.RunStreaming(context.Background(), nil, stop, nil); err != nil {
		t.Fatalf("forced termination must not surface as failure: %v", err)
	}
	if elapsed := time.Since(start); elapsed < grace {
		t.Fatalf("terminated before the grace window elapsed: %v < %v", elapsed, grace)
	}
}

func TestRunStreamingContextCancel(t *testing.T) {
	script := writeScript(t, "encoder", `
trap 'exit 0' INT
while :; do sleep 0.05; done
`)
	r := newTestRunner(script, 20*time.Millisecond, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.RunStreaming(ctx, nil, NewStopFlag(), nil) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("cancelled run must not fail: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancellation")
	}
}

func TestRunStreamingSpawnFailure(t *testing.T) {
	r := newTestRunner(filepath.Join(t.TempDir(), "missing"), 20*time.Millisecond, time.Second)
	err := r.RunStreaming(context.Background(), nil, NewStopFlag(), nil)
	if !errors.Is(err, ErrSpawn) {
		t.Fatalf("err = %v, want ErrSpawn", err)
	}
}

func TestRunBoundedSuccess(t *testing.T) {
	script := writeScript(t, "encoder", `
echo "frame=1 time=00:00:01.00 bitrate=500kbits/s" >&2
exit 0
`)
	r := newTestRunner(script, 20*time.Millisecond, time.Second)
	var c lineCollector
	if err := r.RunBounded(context.Background(), nil, c.sink); err != nil {
		t.Fatalf("RunBounded: %v", err)
	}
	if !strings.Contains(c.joined(), "time=00:00:01.00") {
		t.Fatalf("stderr not forwarded, got %q", c.joined())
	}
}

func TestRunBoundedNonZeroExit(t *testing.T) {
	script := writeScript(t, "encoder", `
echo "Unknown encoder 'libx999'" >&2
exit 1
`)
	r := newTestRunner(script, 20*time.Millisecond, time.Second)
	err := r.RunBounded(context.Background(), nil, nil)
	if !errors.Is(err, ErrProcess) {
		t.Fatalf("err = %v, want ErrProcess", err)
	}
	if !strings.Contains(err.Error(), "libx999") {
		t.Fatalf("diagnostic tail missing from error: %v", err)
	}
}

func TestRunBoundedSpawnFailure(t *testing.T) {
	r := newTestRunner(filepath.Join(t.TempDir(), "missing"), 20*time.Millisecond, time.Second)
	err := r.RunBounded(context.Background(), nil, nil)
	if !errors.Is(err, ErrSpawn) {
		t.Fatalf("err = %v, want ErrSpawn", err)
	}
}
