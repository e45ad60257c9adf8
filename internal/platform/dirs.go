// Package platform resolves OS-specific data directories.
package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DefaultModelCacheDirFor computes the model cache location for the given
// OS without touching the filesystem, which keeps it unit-testable.
func DefaultModelCacheDirFor(goos, homeDir, xdgDataHome string) (string, error) {
	if homeDir == "" {
		return "", errors.New("home directory is empty")
	}

	switch goos {
	case "linux":
		if xdgDataHome != "" {
			return filepath.Join(xdgDataHome, "scribe", "models"), nil
		}
		return filepath.Join(homeDir, ".local", "share", "scribe", "models"), nil
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", "scribe", "models"), nil
	default:
		return "", fmt.Errorf("unsupported OS: %s", goos)
	}
}

// ResolveModelCacheDir returns the override unchanged when set, otherwise
// the host's default model cache directory.
func ResolveModelCacheDir(override string) (string, error) {
	if override != "" {
		return filepath.Clean(override), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}

	return DefaultModelCacheDirFor(runtime.GOOS, homeDir, os.Getenv("XDG_DATA_HOME"))
}
