package zest

import (
	"context"
)

// manager is the concrete implementation of the Manager interface.
type manager struct {
	// cfg holds the module configuration.
	cfg Config

	// client issues pull/status/stop/health calls to the daemon API.
	client *controlClient

	// server owns the daemon process lifecycle.
	server *server

	// logger receives diagnostic messages. May be nil.
	logger Logger
}

// EnsureRunning makes sure a healthy daemon is reachable.
func (m *manager) EnsureRunning(ctx context.Context) error {
	return m.server.ensureRunning(ctx)
}

// Pull downloads a repo through the daemon and returns the snapshot path.
func (m *manager) Pull(ctx context.Context, repo string, opts ...PullOption) (string, error) {
	if err := validateRepo(repo); err != nil {
		return "", err
	}

	cfg := newPullConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if err := m.server.ensureRunning(ctx); err != nil {
		return "", err
	}

	return m.client.pull(ctx, repo, cfg.revision, cfg.progressFn)
}

// Status returns the daemon's status as an opaque map.
func (m *manager) Status(ctx context.Context) (map[string]any, error) {
	if err := m.server.ensureRunning(ctx); err != nil {
		return nil, err
	}

	return m.client.status(ctx)
}

// Stop asks the daemon to shut down.
func (m *manager) Stop(ctx context.Context) error {
	return m.server.stop(ctx)
}

// Path returns the most recent local snapshot directory for a repo.
func (m *manager) Path(repo string) (string, error) {
	if err := validateRepo(repo); err != nil {
		return "", err
	}

	root := m.cfg.CacheDir
	if root == "" {
		var err error
		root, err = defaultCacheRoot()
		if err != nil {
			return "", err
		}
	}

	return latestSnapshot(root, repo)
}
