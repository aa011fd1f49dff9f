package storage

import (
	"os"
	"path/filepath"
)

const appDir = ".coordinator"

// DefaultStoragePath returns the default storage location.
// Platform-specific paths:
//   - macOS/Linux: ~/.coordinator
//   - Windows: %USERPROFILE%\.coordinator
func DefaultStoragePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, appDir), nil
}
