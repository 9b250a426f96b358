package zest

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// server owns the daemon process lifecycle: ensure-running, startup health
// polling, and stop. It holds a process handle only for daemons it spawned
// itself; an already-running daemon found healthy is used but never owned.
type server struct {
	// client issues health, stop, and other API calls.
	client *controlClient

	// logger receives diagnostic messages. May be nil.
	logger Logger

	// locate finds the daemon binary. Defaults to LocateBinary.
	locate func() (string, error)

	// spawn starts the daemon process. Injectable for tests.
	spawn func(binary string, port int) (*exec.Cmd, error)

	// port is the HTTP port passed to the daemon's serve command.
	port int

	// startupTimeout bounds the health poll loop after a spawn.
	startupTimeout time.Duration

	// pollInterval is the fixed interval between startup health probes.
	pollInterval time.Duration

	// stopWait bounds how long stop waits for a spawned process to exit.
	stopWait time.Duration

	// group collapses concurrent startup attempts into one.
	group singleflight.Group

	// mu guards cmd and startedAt.
	mu sync.Mutex

	// cmd is the spawned process handle, nil when this server did not
	// spawn the daemon.
	cmd *exec.Cmd

	// startedAt records when the process was spawned.
	startedAt time.Time
}

// newServer creates a lifecycle manager for the daemon behind client.
func newServer(client *controlClient, port int, logger Logger) *server {
	return &server{
		client:         client,
		logger:         logger,
		locate:         LocateBinary,
		spawn:          spawnDaemon,
		port:           port,
		startupTimeout: DefaultStartupTimeout,
		pollInterval:   startupPollInterval,
		stopWait:       stopWaitTimeout,
	}
}

// ensureRunning makes sure a healthy daemon is reachable. If a health probe
// already succeeds it returns immediately with zero spawn attempts.
// Otherwise it locates the binary, spawns it, and polls the health endpoint
// until it succeeds or the startup deadline elapses. Concurrent callers
// share a single startup attempt.
func (s *server) ensureRunning(ctx context.Context) error {
	if s.client.health(ctx) {
		return nil
	}

	_, err, _ := s.group.Do("startup", func() (any, error) {
		return nil, s.start(ctx)
	})
	return err
}

func (s *server) start(ctx context.Context) error {
	// A concurrent caller may have completed startup while this one was
	// queued behind the singleflight.
	if s.client.health(ctx) {
		return nil
	}

	binary, err := s.locate()
	if err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Debug("starting daemon", "binary", binary, "port", s.port)
	}

	cmd, err := s.spawn(binary, s.port)
	if err != nil {
		return fmt.Errorf("spawning daemon: %w", err)
	}

	s.mu.Lock()
	s.cmd = cmd
	s.startedAt = time.Now()
	s.mu.Unlock()

	return s.waitForHealth(ctx)
}

// waitForHealth polls the health probe at a fixed interval until it
// succeeds or the startup deadline elapses.
func (s *server) waitForHealth(ctx context.Context) error {
	deadline := time.Now().Add(s.startupTimeout)
	for time.Now().Before(deadline) {
		if s.client.health(ctx) {
			if s.logger != nil {
				s.logger.Info("daemon healthy", "port", s.port)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}

	return fmt.Errorf("%w: not healthy after %s", ErrStartupTimeout, s.startupTimeout)
}

// stop sends a best-effort stop request, swallowing connection errors (the
// daemon may already be gone), then waits a bounded time for a spawned
// process to exit and clears the handle.
func (s *server) stop(ctx context.Context) error {
	if err := s.client.stopRequest(ctx); err != nil && !errors.Is(err, ErrConnectionUnavailable) {
		return err
	}

	s.mu.Lock()
	cmd := s.cmd
	s.cmd = nil
	s.startedAt = time.Time{}
	s.mu.Unlock()

	if cmd == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-done:
	case <-time.After(s.stopWait):
		if s.logger != nil {
			s.logger.Warn("daemon did not exit within stop deadline", "pid", cmd.Process.Pid)
		}
	}

	return nil
}

// spawnDaemon starts the daemon with "serve --http-port <port>", its output
// streams discarded and its process group detached from the caller's.
func spawnDaemon(binary string, port int) (*exec.Cmd, error) {
	cmd := exec.Command(binary, "serve", "--http-port", strconv.Itoa(port))
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	setDetachAttrs(cmd)

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return cmd, nil
}
