package logging

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultLogDir returns the default log directory (~/.amanlaunch/logs/).
// Falls back to the temp directory if the home directory is unavailable.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".amanlaunch", "logs")
	}
	return filepath.Join(home, ".amanlaunch", "logs")
}

// DefaultLogPath returns the default launcher log path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "launcher.log")
}

// FindLogFile resolves the log file to show: the explicit path when given,
// otherwise the default path. Missing files are an error.
func FindLogFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit, nil
		}
		return "", fmt.Errorf("log file not found: %s", explicit)
	}

	path := DefaultLogPath()
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("no log file found, run with --debug first (expected at %s)", path)
	}
	return path, nil
}
