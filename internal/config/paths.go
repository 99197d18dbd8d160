package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath is the environment variable for explicit config path
	EnvConfigPath = "DOCSCOPE_CONFIG"
	// ConfigFileName is the default config file name
	ConfigFileName = "docscope.yaml"
	// ConfigDirName is the config directory name under XDG
	ConfigDirName = "docscope"
)

// SearchPaths lists config file candidates in priority order:
// 1. $DOCSCOPE_CONFIG (explicit path)
// 2. ./docscope.yaml (working directory)
// 3. $XDG_CONFIG_HOME/docscope/config.yaml
// 4. ~/.config/docscope/config.yaml
// 5. /etc/docscope/config.yaml
func SearchPaths() []string {
	var paths []string
	if path := os.Getenv(EnvConfigPath); path != "" {
		paths = append(paths, path)
	}
	paths = append(paths, ConfigFileName)
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, ConfigDirName, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", ConfigDirName, "config.yaml"))
	}
	return append(paths, filepath.Join("/etc", ConfigDirName, "config.yaml"))
}

// FindConfigPath returns the first existing candidate from SearchPaths, or
// an empty string if there is none. A missing $DOCSCOPE_CONFIG file falls
// through to the next candidate.
func FindConfigPath() string {
	for _, path := range SearchPaths() {
		if !fileExists(path) {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	}
	return ""
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir(configPath string) error {
	dir := filepath.Dir(configPath)
	return os.MkdirAll(dir, 0755)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
