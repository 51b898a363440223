package capture

import (
	"fmt"
	"runtime"
	"strconv"
)

// Settings carries the ffmpeg invocation knobs sourced from configuration.
type Settings struct {
	CaptureSource string // overrides the per-OS grab source when non-empty
	Preset        string
	CRF           int
}

// Request describes one screen-capture job. DurationSeconds of zero means the
// capture runs until a stop is requested.
type Request struct {
	OutputPath      string
	DurationSeconds uint
	FPS             int
}

// grabFormat returns the ffmpeg input format and default source identifier for
// the build's operating system. The source differs per platform; the format
// flag selection is a configuration concern kept out of the supervisor loop.
func grabFormat(goos string) (format, source string) {
	switch goos {
	case "windows":
		return "gdigrab", "desktop"
	case "darwin":
		return "avfoundation", "1:none"
	default:
		return "x11grab", ":0.0"
	}
}

// RecordArgs builds the ffmpeg argument vector for a screen capture.
func RecordArgs(req Request, s Settings) []string {
	return recordArgs(req, s, runtime.GOOS)
}

func recordArgs(req Request, s Settings, goos string) []string {
	format, source := grabFormat(goos)
	if s.CaptureSource != "" {
		source = s.CaptureSource
	}

	args := []string{
		"-y",
		"-f", format,
		"-framerate", strconv.Itoa(req.FPS),
		"-i", source,
	}
	if goos == "darwin" {
		// avfoundation capture requires this input pixel format.
		args = append(args, "-pix_fmt", "uyvy422")
	}

	preset := s.Preset
	if preset == "" {
		preset = "medium"
	}
	args = append(args,
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-preset", preset,
		"-crf", strconv.Itoa(s.CRF),
	)

	if req.DurationSeconds > 0 {
		args = append(args, "-t", strconv.FormatUint(uint64(req.DurationSeconds), 10))
	}

	return append(args, req.OutputPath)
}

// GIFArgs builds the ffmpeg argument vector for a video-to-GIF conversion
// using a two-pass palette filter chain.
func GIFArgs(inputPath, outputPath string, fps, width int) []string {
	filter := fmt.Sprintf(
		"fps=%d,scale=%d:-1:flags=lanczos,split[s0][s1];[s0]palettegen[p];[s1][p]paletteuse",
		fps, width,
	)
	return []string{
		"-y",
		"-i", inputPath,
		"-vf", filter,
		"-loop", "0",
		outputPath,
	}
}

// TestArgs builds the argument vector for a short diagnostic capture: fast
// preset, reduced quality, fixed duration.
func TestArgs(outputPath string, s Settings, durationSeconds int) []string {
	req := Request{
		OutputPath:      outputPath,
		DurationSeconds: uint(durationSeconds),
		FPS:             30,
	}
	s.Preset = "ultrafast"
	s.CRF = 28
	return RecordArgs(req, s)
}
