//go:build windows

package zest

import (
	"errors"
	"os"
	"os/exec"
)

// Passthrough runs the daemon binary with args and exits with its exit
// code. Windows has no execve, so the closest equivalent is spawn-and-exit.
// Returns only when the binary could not be started.
func Passthrough(binary string, args []string) error {
	cmd := exec.Command(binary, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.ExitCode())
	}
	if err != nil {
		return err
	}
	os.Exit(0)
	return nil
}
