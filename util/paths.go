package util

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	AppConfigDir = ".config/bnotas"
)

// GetConfigDir returns the bnotas config directory path (~/.config/bnotas/)
// and creates it if it doesn't exist
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, AppConfigDir)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// ResolveFilePath finds a file by trying, in order:
// 1. the working directory (./bnotas.db, ./.ssh/hostkey)
// 2. the user config directory (~/.config/bnotas/bnotas.db)
// When neither exists the config directory path is returned so the caller
// can create it there. Absolute paths and ":memory:" are returned untouched.
func ResolveFilePath(parts ...string) string {
	localPath := filepath.Join(parts...)
	if localPath == ":memory:" || filepath.IsAbs(localPath) {
		return localPath
	}

	if _, err := os.Stat(localPath); err == nil {
		return localPath
	}

	configDir, err := GetConfigDir()
	if err != nil {
		return localPath
	}

	userPath := filepath.Join(configDir, localPath)
	if _, err := os.Stat(userPath); err == nil {
		return userPath
	}

	if dir := filepath.Dir(userPath); dir != configDir {
		os.MkdirAll(dir, 0755)
	}
	return userPath
}
