//go:build !windows

package zest

import (
	"os/exec"
	"syscall"
)

// setDetachAttrs puts the daemon in its own process group so terminal
// signals aimed at the caller do not reach it. The handle stays attached
// so stop() can wait for the process to exit.
func setDetachAttrs(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
