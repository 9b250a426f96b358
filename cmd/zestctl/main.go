// Command zestctl is the control-plane CLI for the zest daemon.
// It speaks to the daemon's local HTTP API and never performs transfers
// itself.
//
// Configuration is loaded from ~/.config/zest/config.yaml (override the
// path with ZEST_CONFIG) plus environment variables:
//   - ZEST_HTTP_PORT: daemon HTTP API port (default 9847)
//   - ZEST_BINARY: explicit daemon binary path
//   - ZEST_CACHE_DIR: hub cache root for snapshot path resolution
//   - ZEST: set to 1 to enable accelerated downloads process-wide
//   - ZEST_DEBUG: set to 1 for debug logging
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	zest "github.com/praveer13/zest"
)

// CLI exit codes for standardized error reporting.
const (
	// ExitSuccess indicates the operation completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitInvalidArgs indicates invalid command line arguments.
	ExitInvalidArgs = 2

	// ExitBinaryNotFound indicates the daemon executable was not found.
	ExitBinaryNotFound = 3

	// ExitStartupTimeout indicates the daemon never became healthy.
	ExitStartupTimeout = 4

	// ExitDownloadFailed indicates the daemon failed a pull request.
	ExitDownloadFailed = 5

	// ExitUnreachable indicates the daemon could not be reached.
	ExitUnreachable = 6

	// ExitNotDownloaded indicates no local snapshot exists.
	ExitNotDownloaded = 7
)

func main() {
	cfg, err := zest.LoadConfig(os.Getenv("ZEST_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitInvalidArgs)
	}

	// Opt-in auto-enable; failures are swallowed so the CLI still works
	// without a reachable daemon.
	zest.EnableFromEnvironment()

	cmd := zest.NewCommand(cfg, zest.WithLogger(newLogger()))
	if err := cmd.Execute(); err != nil {
		os.Exit(exitCodeFromError(err))
	}
}

// newLogger builds a logrus-backed zest.Logger.
func newLogger() zest.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	if os.Getenv("ZEST_DEBUG") != "" {
		l.SetLevel(logrus.DebugLevel)
	}
	return &logrusLogger{l: l}
}

// logrusLogger adapts logrus to the zest.Logger interface.
type logrusLogger struct {
	l *logrus.Logger
}

func (a *logrusLogger) Debug(msg string, keysAndValues ...any) {
	a.l.WithFields(fields(keysAndValues)).Debug(msg)
}

func (a *logrusLogger) Info(msg string, keysAndValues ...any) {
	a.l.WithFields(fields(keysAndValues)).Info(msg)
}

func (a *logrusLogger) Warn(msg string, keysAndValues ...any) {
	a.l.WithFields(fields(keysAndValues)).Warn(msg)
}

func (a *logrusLogger) Error(msg string, keysAndValues ...any) {
	a.l.WithFields(fields(keysAndValues)).Error(msg)
}

// fields converts alternating key-value pairs into logrus fields.
func fields(keysAndValues []any) logrus.Fields {
	f := make(logrus.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		f[key] = keysAndValues[i+1]
	}
	return f
}

// exitCodeFromError maps error types to exit codes.
func exitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, zest.ErrBinaryNotFound):
		return ExitBinaryNotFound
	case errors.Is(err, zest.ErrStartupTimeout):
		return ExitStartupTimeout
	case errors.Is(err, zest.ErrDownloadFailed):
		return ExitDownloadFailed
	case errors.Is(err, zest.ErrConnectionUnavailable):
		return ExitUnreachable
	case errors.Is(err, zest.ErrNotDownloaded):
		return ExitNotDownloaded
	case errors.Is(err, zest.ErrInvalidRepo):
		return ExitInvalidArgs
	default:
		return ExitGeneralError
	}
}
