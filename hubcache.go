package zest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SanitizedRepoName returns the hub cache directory name for a repo
// identifier. Path separators become "--" and the result carries a
// "models--" prefix: "org/name" becomes "models--org--name".
// The mapping is pure and deterministic.
func SanitizedRepoName(repo string) string {
	return "models--" + strings.ReplaceAll(repo, "/", "--")
}

// defaultCacheRoot returns the shared hub cache directory,
// ~/.cache/huggingface/hub.
func defaultCacheRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".cache", "huggingface", "hub"), nil
}

// latestSnapshot returns the most recently modified snapshot directory for
// repo under cacheRoot. Returns ErrNotDownloaded when no snapshot exists.
func latestSnapshot(cacheRoot, repo string) (string, error) {
	snapshots := filepath.Join(cacheRoot, SanitizedRepoName(repo), "snapshots")

	entries, err := os.ReadDir(snapshots)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%s: %w", repo, ErrNotDownloaded)
	}
	if err != nil {
		return "", fmt.Errorf("reading snapshots for %s: %w", repo, err)
	}

	var best string
	var bestTime time.Time
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if best == "" || info.ModTime().After(bestTime) {
			best = entry.Name()
			bestTime = info.ModTime()
		}
	}

	if best == "" {
		return "", fmt.Errorf("%s: %w", repo, ErrNotDownloaded)
	}

	return filepath.Join(snapshots, best), nil
}
