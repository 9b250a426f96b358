package zest

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultConfig returns a Config with all defaults applied.
func DefaultConfig() Config {
	return Config{
		HTTPPort:       DefaultHTTPPort,
		StartupTimeout: DefaultStartupTimeout,
		PullTimeout:    DefaultPullTimeout,
	}
}

// DefaultConfigPath returns ~/.config/zest/config.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "zest", "config.yaml"), nil
}

// LoadConfig reads a YAML config file and applies environment overrides.
// An empty path means DefaultConfigPath. A missing file is not an error;
// defaults are returned. Priority: env var > file > default.
//
// Recognized environment variables: ZEST_HTTP_PORT, ZEST_BINARY,
// ZEST_CACHE_DIR.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err == nil {
			path = defaultPath
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)

	if cfg.HTTPPort == 0 {
		cfg.HTTPPort = DefaultHTTPPort
	}
	if cfg.StartupTimeout == 0 {
		cfg.StartupTimeout = DefaultStartupTimeout
	}
	if cfg.PullTimeout == 0 {
		cfg.PullTimeout = DefaultPullTimeout
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ZEST_HTTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.HTTPPort = port
		}
	}
	if v := os.Getenv("ZEST_BINARY"); v != "" {
		cfg.BinaryPath = v
	}
	if v := os.Getenv("ZEST_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
}
