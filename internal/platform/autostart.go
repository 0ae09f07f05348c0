package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const autostartEntryName = "netwarden"

// AutostartManager keeps the OS launch-on-login entry in sync with the
// client configuration.
type AutostartManager interface {
	Sync(enabled bool) error
}

func NewAutostartManager() AutostartManager {
	return newAutostartManager()
}

func resolveExecutablePath() (string, error) {
	rawPath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable path: %w", err)
	}
	trimmed := strings.TrimSpace(rawPath)
	if trimmed == "" {
		return "", fmt.Errorf("resolve executable path: path is empty")
	}
	if !filepath.IsAbs(trimmed) {
		trimmed, err = filepath.Abs(trimmed)
		if err != nil {
			return "", fmt.Errorf("resolve executable absolute path: %w", err)
		}
	}

	if resolved, err := filepath.EvalSymlinks(trimmed); err == nil {
		trimmed = resolved
	}

	return filepath.Clean(trimmed), nil
}
