package zest

import (
	"strings"
	"time"
)

// Config configures the zest control plane.
type Config struct {
	// HTTPPort is the local port the daemon's HTTP API listens on.
	// Defaults to DefaultHTTPPort.
	HTTPPort int `yaml:"http_port"`

	// BinaryPath overrides daemon binary discovery. If empty, the binary is
	// located by the standard search order (see LocateBinary).
	// Can also be set via the ZEST_BINARY environment variable.
	BinaryPath string `yaml:"binary_path"`

	// CacheDir overrides the hub cache root used for snapshot path
	// resolution. If empty, ~/.cache/huggingface/hub is used.
	// Can also be set via the ZEST_CACHE_DIR environment variable.
	CacheDir string `yaml:"cache_dir"`

	// StartupTimeout bounds how long EnsureRunning waits for a freshly
	// spawned daemon to report healthy. Defaults to DefaultStartupTimeout.
	StartupTimeout time.Duration `yaml:"startup_timeout"`

	// PullTimeout bounds a single pull request. Large transfers can take
	// many minutes. Defaults to DefaultPullTimeout.
	PullTimeout time.Duration `yaml:"pull_timeout"`
}

// validateRepo checks a repo identifier such as "meta-llama/Llama-3.1-8B".
// A bare name without a namespace is also accepted.
// Returns ErrInvalidRepo if the format is invalid.
func validateRepo(repo string) error {
	if repo == "" {
		return ErrInvalidRepo
	}

	parts := strings.Split(repo, "/")
	if len(parts) > 2 {
		return ErrInvalidRepo
	}
	for _, part := range parts {
		if part == "" {
			return ErrInvalidRepo
		}
	}

	return nil
}
