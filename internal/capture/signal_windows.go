//go:build windows

package capture

import (
	"errors"
	"os/exec"
)

// interrupt has no portable console-signal delivery on this platform; the
// caller falls through to the grace window and forced termination.
func interrupt(cmd *exec.Cmd) error {
	return errors.New("graceful interrupt not supported on windows")
}
