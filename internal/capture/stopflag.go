package capture

import "sync/atomic"

// StopFlag is the single piece of mutable state shared between the controller
// and a job's monitoring loop. It starts engaged; the controller clears it at
// most once to request a stop, and the monitoring loop polls it. Once cleared
// it is never re-engaged.
type StopFlag struct {
	engaged atomic.Bool
}

// NewStopFlag returns an engaged flag.
func NewStopFlag() *StopFlag {
	f := &StopFlag{}
	f.engaged.Store(true)
	return f
}

// RequestStop clears the flag. Calling it again is a no-op.
func (f *StopFlag) RequestStop() {
	if f == nil {
		return
	}
	f.engaged.Store(false)
}

// Engaged reports whether the job should keep running.
func (f *StopFlag) Engaged() bool {
	if f == nil {
		return true
	}
	return f.engaged.Load()
}
