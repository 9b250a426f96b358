package zest

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// daemonBinaryName is the name of the daemon executable.
const daemonBinaryName = "zest"

// binaryLocator finds the daemon executable. The lookup functions are
// injectable for tests; production instances use the OS-backed defaults.
type binaryLocator struct {
	// execDir returns the directory of the currently running executable.
	execDir func() (string, error)

	// homeDir returns the current user's home directory.
	homeDir func() (string, error)

	// lookPath resolves a name against PATH.
	lookPath func(name string) (string, error)

	// selfPath returns the path of the currently running executable.
	selfPath func() (string, error)
}

// newBinaryLocator creates a locator backed by the real OS lookups.
func newBinaryLocator() *binaryLocator {
	return &binaryLocator{
		execDir: func() (string, error) {
			self, err := os.Executable()
			if err != nil {
				return "", err
			}
			return filepath.Dir(self), nil
		},
		homeDir:  os.UserHomeDir,
		lookPath: exec.LookPath,
		selfPath: os.Executable,
	}
}

// LocateBinary finds the daemon executable. Deterministic search order,
// first match wins:
//
//  1. a _bin directory bundled alongside the current executable
//  2. a PATH lookup, excluding the currently running executable itself
//  3. ~/.local/bin
//
// Performs no spawning or network access. Returns ErrBinaryNotFound listing
// the searched locations when every candidate misses.
func LocateBinary() (string, error) {
	return newBinaryLocator().locate()
}

// SearchLocations returns the locations LocateBinary would check, in order.
// Used by the CLI passthrough to report a failed search.
func SearchLocations() []string {
	return newBinaryLocator().locations()
}

func (l *binaryLocator) locate() (string, error) {
	if p := l.bundledPath(); p != "" && isExecutable(p) {
		return p, nil
	}

	if p, err := l.lookPath(daemonBinaryName); err == nil && !l.isSelf(p) {
		return p, nil
	}

	if p := l.userLocalPath(); p != "" && isExecutable(p) {
		return p, nil
	}

	return "", fmt.Errorf("%w (searched: %s)", ErrBinaryNotFound, strings.Join(l.locations(), ", "))
}

func (l *binaryLocator) locations() []string {
	var locations []string
	if p := l.bundledPath(); p != "" {
		locations = append(locations, p)
	}
	locations = append(locations, "PATH")
	if p := l.userLocalPath(); p != "" {
		locations = append(locations, p)
	}
	return locations
}

// bundledPath returns the path a bundled binary would have, or "" when the
// current executable cannot be resolved.
func (l *binaryLocator) bundledPath() string {
	dir, err := l.execDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "_bin", daemonBinaryName)
}

// userLocalPath returns the well-known user-local binary path, or "" when
// the home directory cannot be resolved.
func (l *binaryLocator) userLocalPath() string {
	home, err := l.homeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "bin", daemonBinaryName)
}

// isSelf reports whether path refers to the currently running executable.
// A PATH hit on the launcher itself would recurse forever.
func (l *binaryLocator) isSelf(path string) bool {
	self, err := l.selfPath()
	if err != nil {
		return false
	}
	return resolvePath(path) == resolvePath(self)
}

// resolvePath normalizes a path for identity comparison.
func resolvePath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path
}

// isExecutable reports whether path is a regular file with an execute bit.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return info.Mode().Perm()&0111 != 0
}
