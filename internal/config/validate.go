package config

import (
	"fmt"
	"strings"
)

var knownPresets = map[string]struct{}{
	"ultrafast": {},
	"superfast": {},
	"veryfast":  {},
	"faster":    {},
	"fast":      {},
	"medium":    {},
	"slow":      {},
	"slower":    {},
	"veryslow":  {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRecording(); err != nil {
		return err
	}
	if err := c.validateConversion(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateRecording() error {
	if c.Recording.FPS <= 0 {
		return fmt.Errorf("recording.fps must be positive, got %d", c.Recording.FPS)
	}
	if c.Recording.CRF < 0 || c.Recording.CRF > 51 {
		return fmt.Errorf("recording.crf must be within 0..51, got %d", c.Recording.CRF)
	}
	if preset := c.Recording.Preset; preset != "" {
		if _, ok := knownPresets[preset]; !ok {
			return fmt.Errorf("recording.preset: unknown x264 preset %q", preset)
		}
	}
	return nil
}

func (c *Config) validateConversion() error {
	if c.Conversion.FPS <= 0 {
		return fmt.Errorf("conversion.fps must be positive, got %d", c.Conversion.FPS)
	}
	if c.Conversion.Width <= 0 {
		return fmt.Errorf("conversion.width must be positive, got %d", c.Conversion.Width)
	}
	if c.Conversion.AssumedDurationSeconds <= 0 {
		return fmt.Errorf("conversion.assumed_duration_seconds must be positive, got %d", c.Conversion.AssumedDurationSeconds)
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.PollIntervalMillis <= 0 {
		return fmt.Errorf("workflow.poll_interval_ms must be positive, got %d", c.Workflow.PollIntervalMillis)
	}
	if c.Workflow.StopGraceMillis < 0 {
		return fmt.Errorf("workflow.stop_grace_ms must not be negative, got %d", c.Workflow.StopGraceMillis)
	}
	if c.Workflow.CompletionHoldMillis < 0 {
		return fmt.Errorf("workflow.completion_hold_ms must not be negative, got %d", c.Workflow.CompletionHoldMillis)
	}
	if c.Workflow.TestDurationSeconds <= 0 {
		return fmt.Errorf("workflow.test_duration_seconds must be positive, got %d", c.Workflow.TestDurationSeconds)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
