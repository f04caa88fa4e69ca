package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// EnvConfig names the environment variable that overrides discovery.
	EnvConfig = "ANIRANGE_CONFIG"

	localPath  = "./anirange.toml"
	systemPath = "/etc/anirange/config.toml"
)

// DefaultPath is the per-user config location under XDG_CONFIG_HOME
// (~/.config when unset). It falls back to the local file when no home
// directory is known.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return localPath
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "anirange", "config.toml")
}

// SearchPaths lists the locations Discover tries after EnvConfig, in order.
func SearchPaths() []string {
	return []string{localPath, DefaultPath(), systemPath}
}

// Discover returns the config file to load. A path in EnvConfig must exist;
// otherwise the first existing entry of SearchPaths wins.
func Discover() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfig, p, err)
		}
		return p, nil
	}

	paths := SearchPaths()
	for _, p := range paths {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w, checked: %s", ErrNotFound, strings.Join(paths, ", "))
}
