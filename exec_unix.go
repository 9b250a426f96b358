//go:build !windows

package zest

import (
	"os"
	"syscall"
)

// Passthrough replaces the current process image with the daemon binary,
// forwarding args unmodified. On success it does not return.
func Passthrough(binary string, args []string) error {
	argv := append([]string{binary}, args...)
	return syscall.Exec(binary, argv, os.Environ())
}
