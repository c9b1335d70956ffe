// Package env resolves the freedesktop base directories and the
// process-level paths used by the library and the example CLI.
package env

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultXDGConfigDirname = ".config"
	defaultXDGDataDirname   = ".local/share"
	defaultXDGDataDirs      = "/usr/local/share:/usr/share"
)

// DataHome returns the absolute XDG data home directory:
// $XDG_DATA_HOME, or $HOME/.local/share when unset.
// Follow https://specifications.freedesktop.org/basedir-spec/latest/
func DataHome() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, defaultXDGDataDirname)
	}
	abs, err := filepath.Abs(dataDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve data home: %w", err)
	}
	return abs, nil
}

// DataDirs returns the system data directories from $XDG_DATA_DIRS,
// defaulting to /usr/local/share:/usr/share. Empty entries are dropped.
func DataDirs() []string {
	value := os.Getenv("XDG_DATA_DIRS")
	if value == "" {
		value = defaultXDGDataDirs
	}
	var dirs []string
	for _, dir := range strings.Split(value, ":") {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// ConfigPath returns the CLI config file location:
// $TRASHCAN_CONFIG_PATH, or $XDG_CONFIG_HOME/trashcan/config.yaml.
func ConfigPath() (string, error) {
	if e := os.Getenv("TRASHCAN_CONFIG_PATH"); e != "" {
		return e, nil
	}
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, defaultXDGConfigDirname)
	}
	return filepath.Join(configDir, "trashcan", "config.yaml"), nil
}

// LogPath returns the CLI debug log location:
// $TRASHCAN_LOG_PATH, or $XDG_DATA_HOME/trashcan/debug.log.
func LogPath() (string, error) {
	if e := os.Getenv("TRASHCAN_LOG_PATH"); e != "" {
		return e, nil
	}
	dataHome, err := DataHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataHome, "trashcan", "debug.log"), nil
}
