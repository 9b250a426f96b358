package zest

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
)

// Downloader fetches a repo at a revision and returns the local snapshot
// path. An empty revision means the downloader's default.
//
// Instead of patching a foreign library at runtime, acceleration is
// expressed as a capability: wrap an existing Downloader with WithFallback
// so the daemon is tried first and the original is used whenever
// acceleration fails or returns no path.
type Downloader interface {
	Download(ctx context.Context, repo, revision string) (string, error)
}

// acceleratedDownloader pulls through the zest daemon.
type acceleratedDownloader struct {
	manager Manager
}

// NewAcceleratedDownloader returns a Downloader that pulls through the
// daemon managed by m, starting it on first use.
func NewAcceleratedDownloader(m Manager) Downloader {
	return &acceleratedDownloader{manager: m}
}

func (d *acceleratedDownloader) Download(ctx context.Context, repo, revision string) (string, error) {
	var opts []PullOption
	if revision != "" {
		opts = append(opts, WithRevision(revision))
	}
	return d.manager.Pull(ctx, repo, opts...)
}

// fallbackDownloader tries primary and falls back on any failure.
type fallbackDownloader struct {
	primary  Downloader
	fallback Downloader
}

// WithFallback returns a Downloader that tries primary first and invokes
// fallback with identical arguments whenever primary returns an error or an
// empty path. Errors from primary never escape; only the fallback's own
// result is reported.
func WithFallback(primary, fallback Downloader) Downloader {
	return &fallbackDownloader{primary: primary, fallback: fallback}
}

func (d *fallbackDownloader) Download(ctx context.Context, repo, revision string) (string, error) {
	path, err := d.primary.Download(ctx, repo, revision)
	if err == nil && path != "" {
		return path, nil
	}
	return d.fallback.Download(ctx, repo, revision)
}

// Process-wide default downloader. Enable swaps it for an accelerated
// chain and records the original so Disable can restore it; the state only
// ever moves idle -> enabled -> idle.
var (
	patchMu           sync.Mutex
	defaultDownloader Downloader
	originalDefault   Downloader
	patched           bool
)

// SetDefaultDownloader registers the process-wide default Downloader used
// by the package-level Download function. Call this with the direct,
// unaccelerated implementation before Enable.
func SetDefaultDownloader(d Downloader) {
	patchMu.Lock()
	defer patchMu.Unlock()
	defaultDownloader = d
}

// DefaultDownloader returns the current process-wide default Downloader.
func DefaultDownloader() Downloader {
	patchMu.Lock()
	defer patchMu.Unlock()
	return defaultDownloader
}

// Enable installs accelerated downloading as the process-wide default.
// The current default becomes the fallback and is recorded so Disable can
// restore it. Idempotent: enabling while already enabled is a no-op.
func Enable(m Manager) {
	patchMu.Lock()
	defer patchMu.Unlock()

	if patched {
		return
	}

	originalDefault = defaultDownloader
	accelerated := NewAcceleratedDownloader(m)
	if originalDefault != nil {
		defaultDownloader = WithFallback(accelerated, originalDefault)
	} else {
		defaultDownloader = accelerated
	}
	patched = true
}

// Disable restores the default Downloader recorded by Enable.
// A safe no-op when acceleration was never enabled; callable any number of
// times.
func Disable() {
	patchMu.Lock()
	defer patchMu.Unlock()

	if !patched {
		return
	}

	defaultDownloader = originalDefault
	originalDefault = nil
	patched = false
}

// Download fetches a repo using the process-wide default Downloader.
func Download(ctx context.Context, repo, revision string) (string, error) {
	d := DefaultDownloader()
	if d == nil {
		return "", errors.New("zest: no downloader configured")
	}
	return d.Download(ctx, repo, revision)
}

// EnableFromEnvironment activates accelerated downloading when the ZEST
// environment variable is set to 1, true, or yes. Intended to be called
// once at process start. Every failure is swallowed: a missing binary or an
// unhealthy daemon must never break the embedding process.
func EnableFromEnvironment() {
	switch strings.TrimSpace(os.Getenv("ZEST")) {
	case "1", "true", "yes":
	default:
		return
	}

	cfg, err := LoadConfig("")
	if err != nil {
		return
	}

	m, err := NewManager(cfg)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.StartupTimeout+healthTimeout)
	defer cancel()
	if err := m.EnsureRunning(ctx); err != nil {
		return
	}

	Enable(m)
}
