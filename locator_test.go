package zest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// locatorFixture wires a binaryLocator to temp directories so each search
// location can be populated or left empty per test.
type locatorFixture struct {
	locator *binaryLocator
	bundled string
	onPath  string
	local   string
}

func newLocatorFixture(t *testing.T, bundled, onPath, userLocal bool) *locatorFixture {
	t.Helper()

	execDir := t.TempDir()
	home := t.TempDir()
	f := &locatorFixture{}

	if bundled {
		f.bundled = writeExecutable(t, filepath.Join(execDir, "_bin"), daemonBinaryName)
	}
	if onPath {
		f.onPath = writeExecutable(t, t.TempDir(), daemonBinaryName)
	}
	if userLocal {
		f.local = writeExecutable(t, filepath.Join(home, ".local", "bin"), daemonBinaryName)
	}

	f.locator = &binaryLocator{
		execDir: func() (string, error) { return execDir, nil },
		homeDir: func() (string, error) { return home, nil },
		lookPath: func(name string) (string, error) {
			if f.onPath == "" {
				return "", errors.New("not found in PATH")
			}
			return f.onPath, nil
		},
		selfPath: func() (string, error) { return filepath.Join(execDir, "launcher"), nil },
	}

	return f
}

func writeExecutable(t *testing.T, dir, name string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLocatePrefersBundledBinary(t *testing.T) {
	f := newLocatorFixture(t, true, true, true)

	got, err := f.locator.locate()
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if got != f.bundled {
		t.Errorf("got %q, want bundled %q", got, f.bundled)
	}
}

func TestLocateFallsBackToPath(t *testing.T) {
	f := newLocatorFixture(t, false, true, true)

	got, err := f.locator.locate()
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if got != f.onPath {
		t.Errorf("got %q, want PATH binary %q", got, f.onPath)
	}
}

func TestLocateSkipsSelf(t *testing.T) {
	f := newLocatorFixture(t, false, false, true)

	// PATH resolves to the running executable itself; it must be skipped
	// in favor of the user-local binary.
	self, _ := f.locator.selfPath()
	f.onPath = writeExecutable(t, filepath.Dir(self), "launcher")
	f.locator.selfPath = func() (string, error) { return f.onPath, nil }

	got, err := f.locator.locate()
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if got != f.local {
		t.Errorf("got %q, want user-local %q", got, f.local)
	}
}

func TestLocateUsesUserLocalBin(t *testing.T) {
	f := newLocatorFixture(t, false, false, true)

	got, err := f.locator.locate()
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if got != f.local {
		t.Errorf("got %q, want %q", got, f.local)
	}
}

func TestLocateNotFound(t *testing.T) {
	f := newLocatorFixture(t, false, false, false)

	_, err := f.locator.locate()
	if !errors.Is(err, ErrBinaryNotFound) {
		t.Fatalf("got %v, want ErrBinaryNotFound", err)
	}
	// The error reports every searched location.
	for _, loc := range f.locator.locations() {
		if !strings.Contains(err.Error(), loc) {
			t.Errorf("error %q missing location %q", err.Error(), loc)
		}
	}
}

func TestLocateIgnoresNonExecutableBundled(t *testing.T) {
	f := newLocatorFixture(t, true, true, false)
	if err := os.Chmod(f.bundled, 0644); err != nil {
		t.Fatal(err)
	}

	got, err := f.locator.locate()
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if got != f.onPath {
		t.Errorf("got %q, want PATH binary %q", got, f.onPath)
	}
}

func TestSearchLocationsOrder(t *testing.T) {
	f := newLocatorFixture(t, false, false, false)

	locations := f.locator.locations()
	if len(locations) != 3 {
		t.Fatalf("got %d locations, want 3: %v", len(locations), locations)
	}
	if !strings.HasSuffix(locations[0], filepath.Join("_bin", daemonBinaryName)) {
		t.Errorf("first location should be the bundled path, got %q", locations[0])
	}
	if locations[1] != "PATH" {
		t.Errorf("second location should be PATH, got %q", locations[1])
	}
	if !strings.HasSuffix(locations[2], filepath.Join(".local", "bin", daemonBinaryName)) {
		t.Errorf("third location should be user-local bin, got %q", locations[2])
	}
}
