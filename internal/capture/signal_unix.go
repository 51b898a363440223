//go:build unix

package capture

import (
	"os/exec"

	"golang.org/x/sys/unix"
)

// interrupt delivers SIGINT so the encoder can flush and finalize its output
// container before exiting.
func interrupt(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return unix.Kill(cmd.Process.Pid, unix.SIGINT)
}
