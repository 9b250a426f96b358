package zest

import (
	"net/http"
	"time"
)

// Defaults for the daemon control plane.
const (
	// DefaultHTTPPort is the port the daemon's HTTP API listens on.
	DefaultHTTPPort = 9847

	// DefaultRevision is the revision pulled when none is specified.
	DefaultRevision = "main"

	// DefaultStartupTimeout is how long EnsureRunning waits for a spawned
	// daemon to report healthy.
	DefaultStartupTimeout = 5 * time.Second

	// DefaultPullTimeout bounds a single pull request.
	DefaultPullTimeout = 30 * time.Minute
)

// Short-path timeouts. The health probe never retries on its own; the
// startup poll loop retries it at startupPollInterval until its deadline.
const (
	healthTimeout       = 2 * time.Second
	statusTimeout       = 5 * time.Second
	startupPollInterval = 200 * time.Millisecond
	stopWaitTimeout     = 5 * time.Second
)

// PullOption configures a pull operation.
type PullOption func(*pullConfig)

// pullConfig holds configuration for a pull operation.
type pullConfig struct {
	// revision is the revision to pull.
	revision string

	// progressFn is called with the daemon's decoded pull response.
	progressFn func(map[string]any)
}

// newPullConfig returns a pullConfig with default values.
func newPullConfig() *pullConfig {
	return &pullConfig{
		revision: DefaultRevision,
	}
}

// WithRevision sets the revision to pull. Default is DefaultRevision.
func WithRevision(revision string) PullOption {
	return func(c *pullConfig) {
		if revision != "" {
			c.revision = revision
		}
	}
}

// WithProgress sets a callback invoked with the daemon's decoded pull
// response payload once the request completes.
func WithProgress(fn func(map[string]any)) PullOption {
	return func(c *pullConfig) {
		c.progressFn = fn
	}
}

// ManagerOption configures a Manager.
type ManagerOption func(*managerConfig)

// managerConfig holds configuration for Manager construction.
type managerConfig struct {
	// httpClient is used for all HTTP requests to the daemon.
	httpClient HTTPClient

	// logger receives diagnostic log messages.
	logger Logger
}

// newManagerConfig returns a managerConfig with default values.
func newManagerConfig() *managerConfig {
	return &managerConfig{
		httpClient: http.DefaultClient,
	}
}

// WithHTTPClient sets a custom HTTP client for daemon requests.
// Useful for testing with mock servers or customizing transports.
// If not set, http.DefaultClient is used.
func WithHTTPClient(client HTTPClient) ManagerOption {
	return func(c *managerConfig) {
		c.httpClient = client
	}
}

// WithLogger sets a logger for diagnostic output.
// If not set, logging is disabled.
func WithLogger(logger Logger) ManagerOption {
	return func(c *managerConfig) {
		c.logger = logger
	}
}

// HTTPClient is the interface for HTTP operations.
// *http.Client satisfies this interface.
type HTTPClient interface {
	// Do sends an HTTP request and returns an HTTP response.
	Do(req *http.Request) (*http.Response, error)
}

// Logger is the interface for diagnostic logging.
// Compatible with slog, zap, logrus, and other structured loggers.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, keysAndValues ...any)

	// Error logs an error-level message with optional key-value pairs.
	Error(msg string, keysAndValues ...any)
}
