//go:build !windows

package shell

import (
	"os/exec"
	"syscall"
	"time"
)

// configureProcessGroup puts the child in its own process group so a
// timeout can reap any subprocesses it spawned, not just the shell
// itself.
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcessGroup signals the process group rooted at pid: SIGTERM,
// then SIGKILL after a short grace period if it's still alive.
func killProcessGroup(pid int) {
	syscall.Kill(-pid, syscall.SIGTERM) //nolint:errcheck
	time.Sleep(killGrace)
	syscall.Kill(-pid, syscall.SIGKILL) //nolint:errcheck
}
