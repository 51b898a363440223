package ffprobe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func writeProbeStub(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffprobe")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("write probe stub: %v", err)
	}
	return path
}

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "artifact.mp4")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

func TestVerifyMissingFile(t *testing.T) {
	err := Verify(context.Background(), "ffprobe", filepath.Join(t.TempDir(), "absent.mp4"))
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
}

func TestVerifyEmptyFile(t *testing.T) {
	path := writeArtifact(t, "")
	err := Verify(context.Background(), "ffprobe", path)
	if !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
}

func TestVerifyAcceptsPositiveDuration(t *testing.T) {
	stub := writeProbeStub(t, `echo "12.480000"`)
	path := writeArtifact(t, "not really video")
	if err := Verify(context.Background(), stub, path); err != nil {
		t.Fatalf("expected valid artifact, got %v", err)
	}
	if !Valid(context.Background(), stub, path) {
		t.Fatal("Valid should agree with Verify")
	}
}

func TestVerifyRejectsZeroDuration(t *testing.T) {
	stub := writeProbeStub(t, `echo "0.000000"`)
	path := writeArtifact(t, "content")
	err := Verify(context.Background(), stub, path)
	if !errors.Is(err, ErrBadDuration) {
		t.Fatalf("expected ErrBadDuration, got %v", err)
	}
}

func TestVerifyRejectsUnparsableDuration(t *testing.T) {
	stub := writeProbeStub(t, `echo "N/A"`)
	path := writeArtifact(t, "content")
	err := Verify(context.Background(), stub, path)
	if !errors.Is(err, ErrBadDuration) {
		t.Fatalf("expected ErrBadDuration, got %v", err)
	}
}

func TestVerifyRejectsProbeFailure(t *testing.T) {
	stub := writeProbeStub(t, `echo "Invalid data found" >&2; exit 1`)
	path := writeArtifact(t, "content")
	err := Verify(context.Background(), stub, path)
	if !errors.Is(err, ErrInvalidContainer) {
		t.Fatalf("expected ErrInvalidContainer, got %v", err)
	}
}

func TestDurationParsesValue(t *testing.T) {
	stub := writeProbeStub(t, `echo "3.140000"`)
	path := writeArtifact(t, "content")
	duration, err := Duration(context.Background(), stub, path)
	if err != nil {
		t.Fatalf("Duration failed: %v", err)
	}
	if duration < 3.13 || duration > 3.15 {
		t.Fatalf("unexpected duration: %f", duration)
	}
}

func TestDurationRequiresPath(t *testing.T) {
	if _, err := Duration(context.Background(), "ffprobe", "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestVerifyConcurrent(t *testing.T) {
	stub := writeProbeStub(t, `echo "5.0"`)
	path := writeArtifact(t, "content")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := Verify(context.Background(), stub, path); err != nil {
				t.Errorf("concurrent verify failed: %v", err)
			}
		}()
	}
	wg.Wait()
}
