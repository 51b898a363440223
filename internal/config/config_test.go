package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rcrdr/internal/config"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Recording.FPS != 30 {
		t.Fatalf("unexpected default fps: %d", cfg.Recording.FPS)
	}
	if cfg.FFmpegBinary() != "ffmpeg" || cfg.FFprobeBinary() != "ffprobe" {
		t.Fatalf("unexpected default binaries: %s / %s", cfg.FFmpegBinary(), cfg.FFprobeBinary())
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`output_dir = "` + filepath.Join(dir, "out") + `"`,
		`log_dir = "` + filepath.Join(dir, "logs") + `"`,
		"[recording]",
		"fps = 60",
		`preset = "Fast"`,
		"[workflow]",
		"stop_grace_ms = 750",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %s to be used, got %s exists=%v", path, resolved, exists)
	}
	if cfg.Recording.FPS != 60 {
		t.Fatalf("fps override not applied: %d", cfg.Recording.FPS)
	}
	if cfg.Recording.Preset != "fast" {
		t.Fatalf("preset not normalized: %q", cfg.Recording.Preset)
	}
	if cfg.Workflow.StopGraceMillis != 750 {
		t.Fatalf("stop grace override not applied: %d", cfg.Workflow.StopGraceMillis)
	}
	if cfg.Workflow.PollIntervalMillis != 100 {
		t.Fatalf("expected default poll interval, got %d", cfg.Workflow.PollIntervalMillis)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[recording]\nfps = 0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for fps = 0")
	}

	if err := os.WriteFile(path, []byte("[recording]\npreset = \"blazing\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for unknown preset")
	}
}

func TestMissingConfigUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nope.toml")
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("config file should not exist")
	}
	if cfg.Conversion.Width != 640 {
		t.Fatalf("expected default width, got %d", cfg.Conversion.Width)
	}
}

func TestCreateSample(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[recording]") {
		t.Fatal("sample config missing recording section")
	}
}
