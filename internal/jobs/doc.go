// Package jobs implements the job lifecycle: a polling controller that owns
// the session's single job slot, the state machine it drives, the diagnostic
// line channel between worker and controller, and the error taxonomy mapping
// external-tool failures to terminal reasons.
package jobs
