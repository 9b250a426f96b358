//go:build windows

package zest

import (
	"os/exec"
	"syscall"
)

// CREATE_NEW_PROCESS_GROUP detaches the daemon from the caller's console
// control events.
const createNewProcessGroup = 0x00000200

func setDetachAttrs(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: createNewProcessGroup}
}
