package zest

import (
	"context"
	"errors"
	"fmt"
)

// Manager provides programmatic access to the zest daemon.
// All methods are safe for concurrent use.
// For CLI integration, use NewCommand instead.
type Manager interface {
	// EnsureRunning makes sure a healthy daemon is reachable, spawning one
	// if needed. Idempotent: a daemon that already answers the health probe
	// is never spawned again. Returns ErrBinaryNotFound if the daemon
	// executable cannot be located, ErrStartupTimeout if a spawned daemon
	// never reports healthy.
	EnsureRunning(ctx context.Context) error

	// Pull downloads a repo through the daemon and returns the local
	// snapshot path. The daemon is started first if needed. An empty path
	// with a nil error means the daemon reported success without a path.
	// Returns ErrDownloadFailed if the daemon rejects the request.
	Pull(ctx context.Context, repo string, opts ...PullOption) (string, error)

	// Status returns the daemon's status as an opaque map. The daemon is
	// started first if needed. The contents are never interpreted here.
	Status(ctx context.Context) (map[string]any, error)

	// Stop asks the daemon to shut down. Best-effort: a daemon that is
	// already gone is not an error. If this Manager spawned the daemon, its
	// exit is awaited with a bounded timeout.
	Stop(ctx context.Context) error

	// Path returns the most recent local snapshot directory for a repo.
	// Purely local; never contacts the daemon.
	// Returns ErrNotDownloaded when no snapshot exists.
	Path(repo string) (string, error)
}

// Ensure manager implements Manager interface.
var _ Manager = (*manager)(nil)

// NewManager creates a new Manager with the given configuration.
// A zero Config is valid and uses all defaults.
func NewManager(cfg Config, opts ...ManagerOption) (Manager, error) {
	if cfg.HTTPPort == 0 {
		cfg.HTTPPort = DefaultHTTPPort
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, errors.New("zest: invalid HTTP port")
	}
	if cfg.StartupTimeout == 0 {
		cfg.StartupTimeout = DefaultStartupTimeout
	}
	if cfg.PullTimeout == 0 {
		cfg.PullTimeout = DefaultPullTimeout
	}

	mcfg := newManagerConfig()
	for _, opt := range opts {
		opt(mcfg)
	}

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", cfg.HTTPPort)
	client := newControlClient(baseURL, mcfg.httpClient, mcfg.logger)
	client.pullTimeout = cfg.PullTimeout

	srv := newServer(client, cfg.HTTPPort, mcfg.logger)
	srv.startupTimeout = cfg.StartupTimeout
	if cfg.BinaryPath != "" {
		binary := cfg.BinaryPath
		srv.locate = func() (string, error) { return binary, nil }
	}

	return &manager{
		cfg:    cfg,
		client: client,
		server: srv,
		logger: mcfg.logger,
	}, nil
}
