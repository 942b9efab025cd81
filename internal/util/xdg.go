package util

import (
	"fmt"
	"os"
	"path/filepath"
)

const appDir = "burphub"

// GetXDGDataDir returns $XDG_DATA_HOME/burphub, or ~/.local/share/burphub.
func GetXDGDataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// GetXDGConfigDir returns $XDG_CONFIG_HOME/burphub, or ~/.config/burphub.
func GetXDGConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

func xdgDir(env string, fallback ...string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appDir), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	parts := append([]string{homeDir}, fallback...)
	return filepath.Join(append(parts, appDir)...), nil
}
