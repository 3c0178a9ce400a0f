//go:build windows

package shell

import (
	"fmt"
	"os/exec"
)

// configureProcessGroup is a no-op on Windows; cmd.exe children are
// cleaned up via taskkill in killProcessGroup instead of a POSIX
// process group.
func configureProcessGroup(cmd *exec.Cmd) {}

// killProcessGroup force-kills the process tree rooted at pid.
func killProcessGroup(pid int) {
	exec.Command("taskkill", "/pid", fmt.Sprint(pid), "/f", "/t").Run() //nolint:errcheck
}
