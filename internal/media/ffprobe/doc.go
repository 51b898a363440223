// Package ffprobe verifies media artifacts by probing their container duration.
//
// The probe asks ffprobe for a single machine-parseable value rather than the
// full JSON document; rcrdr only needs to know the artifact exists, has bytes,
// and carries a positive-duration stream. Each verification failure carries a
// distinct sentinel error so callers can log an actionable reason.
package ffprobe
