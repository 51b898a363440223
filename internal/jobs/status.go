package jobs

// Status represents a job's position in its lifecycle.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusStarting  Status = "starting"
	StatusRunning   Status = "running"
	StatusStopping  Status = "stopping"
	StatusVerifying Status = "verifying"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the status ends a job's lifecycle.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Active reports whether the status occupies the controller session.
func (s Status) Active() bool {
	switch s {
	case StatusStarting, StatusRunning, StatusStopping, StatusVerifying:
		return true
	default:
		return false
	}
}

// ValidTransition enforces the allowed lifecycle edges. Bounded jobs move
// from Running straight to Verifying since they have no manual-stop path;
// failure is reachable from every non-terminal state.
func ValidTransition(from, to Status) bool {
	if to == StatusFailed {
		return from != StatusCompleted
	}
	switch from {
	case StatusIdle:
		return to == StatusStarting
	case StatusStarting:
		return to == StatusRunning
	case StatusRunning:
		return to == StatusStopping || to == StatusVerifying
	case StatusStopping:
		return to == StatusVerifying
	case StatusVerifying:
		return to == StatusCompleted
	default:
		return false
	}
}
