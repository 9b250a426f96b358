package zest

import "errors"

// Sentinel errors for daemon control operations.
// Use errors.Is() to check for specific error conditions.
var (
	// ErrBinaryNotFound indicates the daemon executable was not found in any
	// of the search locations.
	ErrBinaryNotFound = errors.New("zest: daemon binary not found")

	// ErrStartupTimeout indicates the daemon never reported healthy within
	// the startup deadline.
	ErrStartupTimeout = errors.New("zest: daemon startup timed out")

	// ErrDownloadFailed indicates the daemon rejected or failed a pull
	// request.
	ErrDownloadFailed = errors.New("zest: download failed")

	// ErrConnectionUnavailable indicates the daemon could not be reached.
	// Swallowed in stop and health paths, propagated everywhere else.
	ErrConnectionUnavailable = errors.New("zest: daemon unreachable")

	// ErrServerError indicates the daemon returned an invalid or
	// unparseable response.
	ErrServerError = errors.New("zest: invalid daemon response")

	// ErrNotDownloaded indicates no local snapshot exists for the repo.
	ErrNotDownloaded = errors.New("zest: no local snapshot")

	// ErrInvalidRepo indicates an invalid repo identifier format.
	ErrInvalidRepo = errors.New("zest: invalid repo identifier")
)
