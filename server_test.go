package zest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// daemonStub simulates the daemon's health endpoint: unhealthy until a
// spawn flips it, counting spawn attempts.
type daemonStub struct {
	healthy atomic.Bool
	spawns  atomic.Int32
}

func (d *daemonStub) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/health":
			if d.healthy.Load() {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.WriteHeader(http.StatusServiceUnavailable)
		case "/v1/stop":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func (d *daemonStub) spawn(binary string, port int) (*exec.Cmd, error) {
	d.spawns.Add(1)
	d.healthy.Store(true)
	return nil, nil
}

func newTestServer(t *testing.T, stub *daemonStub) (*server, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(stub.handler())
	t.Cleanup(ts.Close)

	client := newControlClient(ts.URL, http.DefaultClient, nil)
	s := newServer(client, DefaultHTTPPort, nil)
	s.locate = func() (string, error) { return "/opt/zest/bin/zest", nil }
	s.spawn = stub.spawn
	s.startupTimeout = time.Second
	s.pollInterval = 20 * time.Millisecond
	return s, ts
}

func TestEnsureRunningAlreadyHealthy(t *testing.T) {
	stub := &daemonStub{}
	stub.healthy.Store(true)
	s, _ := newTestServer(t, stub)

	for i := 0; i < 2; i++ {
		if err := s.ensureRunning(context.Background()); err != nil {
			t.Fatalf("ensureRunning: %v", err)
		}
	}

	if got := stub.spawns.Load(); got != 0 {
		t.Errorf("spawned %d times against a healthy daemon, want 0", got)
	}
}

func TestEnsureRunningSpawnsAndWaits(t *testing.T) {
	stub := &daemonStub{}
	s, _ := newTestServer(t, stub)

	if err := s.ensureRunning(context.Background()); err != nil {
		t.Fatalf("ensureRunning: %v", err)
	}

	if got := stub.spawns.Load(); got != 1 {
		t.Errorf("spawned %d times, want 1", got)
	}
}

func TestEnsureRunningStartupTimeout(t *testing.T) {
	stub := &daemonStub{}
	s, _ := newTestServer(t, stub)

	// Spawning never makes the daemon healthy.
	s.spawn = func(binary string, port int) (*exec.Cmd, error) {
		stub.spawns.Add(1)
		return nil, nil
	}
	s.startupTimeout = 300 * time.Millisecond
	s.pollInterval = 50 * time.Millisecond

	start := time.Now()
	err := s.ensureRunning(context.Background())
	elapsed := time.Since(start)

	if !errors.Is(err, ErrStartupTimeout) {
		t.Fatalf("got %v, want ErrStartupTimeout", err)
	}
	// Must give up within the deadline plus one poll interval (plus probe
	// round trips against the local test server).
	if elapsed > s.startupTimeout+s.pollInterval+300*time.Millisecond {
		t.Errorf("gave up after %s, want about %s", elapsed, s.startupTimeout)
	}
}

func TestEnsureRunningBinaryNotFound(t *testing.T) {
	stub := &daemonStub{}
	s, _ := newTestServer(t, stub)
	s.locate = func() (string, error) { return "", ErrBinaryNotFound }

	err := s.ensureRunning(context.Background())
	if !errors.Is(err, ErrBinaryNotFound) {
		t.Fatalf("got %v, want ErrBinaryNotFound", err)
	}
	if got := stub.spawns.Load(); got != 0 {
		t.Errorf("spawned %d times despite missing binary, want 0", got)
	}
}

func TestEnsureRunningConcurrentSingleSpawn(t *testing.T) {
	stub := &daemonStub{}
	s, _ := newTestServer(t, stub)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.ensureRunning(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("caller %d: %v", i, err)
		}
	}
	if got := stub.spawns.Load(); got != 1 {
		t.Errorf("spawned %d times under concurrent callers, want 1", got)
	}
}

func TestStopSwallowsConnectionRefused(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()

	client := newControlClient(ts.URL, http.DefaultClient, nil)
	s := newServer(client, DefaultHTTPPort, nil)

	if err := s.stop(context.Background()); err != nil {
		t.Errorf("stop against a gone daemon: %v, want nil", err)
	}
}

func TestStopWaitsForSpawnedProcess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a unix sleep process")
	}

	stub := &daemonStub{}
	stub.healthy.Store(true)
	s, _ := newTestServer(t, stub)

	cmd := exec.Command("sleep", "0.05")
	if err := cmd.Start(); err != nil {
		t.Fatal(err)
	}
	s.mu.Lock()
	s.cmd = cmd
	s.startedAt = time.Now()
	s.mu.Unlock()

	if err := s.stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd != nil {
		t.Error("process handle not cleared after stop")
	}
}

func TestStopWithoutSpawnedProcess(t *testing.T) {
	stub := &daemonStub{}
	stub.healthy.Store(true)
	s, _ := newTestServer(t, stub)

	if err := s.stop(context.Background()); err != nil {
		t.Errorf("stop: %v", err)
	}
}
