//go:build unix

package tools

import (
	"os/exec"
	"syscall"
)

// setProcessGroup starts cmd in its own process group. Cancelling kills the
// whole group so commands spawned by the shell die with it.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
