package testsupport

import (
	"path/filepath"
	"testing"

	"rcrdr/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "recordings")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Workflow.PollIntervalMillis = 20
	cfg.Workflow.StopGraceMillis = 300

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithTools overrides the external binary paths on the test config.
func WithTools(ffmpeg, ffprobe string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Tools.FFmpegBinary = ffmpeg
		cfg.Tools.FFprobeBinary = ffprobe
	}
}
