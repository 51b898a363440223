// Package progress extracts best-effort progress estimates from ffmpeg
// diagnostic output.
//
// ffmpeg emits no structured status format, so recognition is substring-based
// by design. Keeping the heuristics behind this package means the job state
// machine never touches raw line scanning; if the tool ever grows a structured
// status channel, only this package changes.
package progress

import (
	"strconv"
	"strings"
)

const (
	timeMarker    = "time="
	bitrateMarker = "bitrate="

	// Cap below 1.0: the estimate never self-reports completion. Reaching
	// 100% is signaled only by an explicit completion marker line.
	maxRatio = 0.95
)

// completionMarkers are the phrases ffmpeg-driving code emits when an
// operation has actually finished.
var completionMarkers = []string{
	"conversion completed successfully",
	"recording completed successfully",
}

// Estimate derives a fractional progress value from a raw diagnostic line and
// an assumed total duration in seconds. A line qualifies only when it carries
// both a time and a bitrate marker; the timestamp after the time marker must
// parse as HOURS:MINUTES:SECONDS with an optional fraction. The result is
// clamped to [0, 0.95]. The boolean reports whether the line carried progress
// data at all.
func Estimate(line string, assumedTotalSeconds float64) (float64, bool) {
	if assumedTotalSeconds <= 0 {
		return 0, false
	}
	if !strings.Contains(line, bitrateMarker) {
		return 0, false
	}
	idx := strings.Index(line, timeMarker)
	if idx < 0 {
		return 0, false
	}

	token := line[idx+len(timeMarker):]
	if end := strings.IndexFunc(token, isSpace); end >= 0 {
		token = token[:end]
	}

	elapsed, ok := parseClock(token)
	if !ok {
		return 0, false
	}

	ratio := elapsed / assumedTotalSeconds
	if ratio < 0 {
		ratio = 0
	}
	if ratio > maxRatio {
		ratio = maxRatio
	}
	return ratio, true
}

// IsCompletion reports whether the line is an explicit operation-completed
// marker. This is the only way an operation reads as 100% done.
func IsCompletion(line string) bool {
	lowered := strings.ToLower(line)
	for _, marker := range completionMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// IsError is a blunt heuristic for diagnostic lines worth surfacing to the
// user. It never decides job failure; exit codes do that.
func IsError(line string) bool {
	return strings.Contains(strings.ToLower(line), "error")
}

// parseClock parses HOURS:MINUTES:SECONDS(.fraction). Exactly three
// colon-separated fields; anything else is not progress data.
func parseClock(token string) (float64, bool) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 {
		return 0, false
	}
	hours, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, false
	}
	if hours < 0 || minutes < 0 || seconds < 0 {
		return 0, false
	}
	return hours*3600 + minutes*60 + seconds, true
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}
