package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	amerrors "github.com/Aman-CERP/amanlaunch/internal/errors"
)

const (
	// MaxBackups is the maximum number of config backups to keep
	MaxBackups = 3

	// BackupSuffix is the file extension for backup files
	BackupSuffix = ".bak"
)

// BackupUserConfig creates a timestamped backup of the user config file,
// e.g. config.yaml.bak.20260102-150405, and prunes all but the newest
// MaxBackups. If no user config exists, returns empty string and nil error.
func BackupUserConfig() (string, error) {
	configPath := GetUserConfigPath()
	if !fileExists(configPath) {
		return "", nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return "", amerrors.New(amerrors.ErrCodeConfigWrite, "failed to read config for backup", err)
	}

	backupPath := fmt.Sprintf("%s%s.%s", configPath, BackupSuffix, time.Now().Format("20060102-150405.000"))
	if err := os.WriteFile(backupPath, data, 0644); err != nil {
		return "", amerrors.New(amerrors.ErrCodeConfigWrite, "failed to write backup", err).
			WithDetail("path", backupPath)
	}

	// Best effort: the backup itself succeeded.
	_ = cleanupOldBackups()

	return backupPath, nil
}

// ListUserConfigBackups returns all backup files for the user config,
// newest first.
func ListUserConfigBackups() ([]string, error) {
	configDir := GetUserConfigDir()

	entries, err := os.ReadDir(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, amerrors.IOError("failed to list config directory", err)
	}

	var backups []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if isBackupName(entry.Name()) {
			backups = append(backups, filepath.Join(configDir, entry.Name()))
		}
	}

	// Timestamps sort lexically; newest first.
	sort.Slice(backups, func(i, j int) bool {
		return backupStamp(backups[i]) > backupStamp(backups[j])
	})
	return backups, nil
}

func isBackupName(name string) bool {
	for _, base := range configNames {
		if strings.HasPrefix(name, base+BackupSuffix+".") {
			return true
		}
	}
	return false
}

func backupStamp(path string) string {
	name := filepath.Base(path)
	if i := strings.Index(name, BackupSuffix+"."); i >= 0 {
		return name[i+len(BackupSuffix)+1:]
	}
	return name
}

// cleanupOldBackups removes backups beyond MaxBackups, keeping the newest.
func cleanupOldBackups() error {
	backups, err := ListUserConfigBackups()
	if err != nil {
		return err
	}
	if len(backups) <= MaxBackups {
		return nil
	}
	for _, backup := range backups[MaxBackups:] {
		// Best effort - continue removing others
		_ = os.Remove(backup)
	}
	return nil
}

// RestoreUserConfig restores the user config from a backup file.
// The current config (if any) is backed up before restore. The backup's
// original name (config.yaml, config.toml) decides the restored file name.
func RestoreUserConfig(backupPath string) (string, error) {
	if !fileExists(backupPath) {
		return "", amerrors.New(amerrors.ErrCodeConfigNotFound, "backup file not found", nil).
			WithDetail("path", backupPath)
	}

	if UserConfigExists() {
		if _, err := BackupUserConfig(); err != nil {
			return "", fmt.Errorf("failed to backup current config before restore: %w", err)
		}
	}

	data, err := os.ReadFile(backupPath)
	if err != nil {
		return "", amerrors.IOError("failed to read backup", err)
	}

	name := filepath.Base(backupPath)
	if i := strings.Index(name, BackupSuffix+"."); i > 0 {
		name = name[:i]
	} else {
		name = configNames[0]
	}
	target := filepath.Join(GetUserConfigDir(), name)

	// Drop a config of another format that would otherwise shadow the restore.
	if current := GetUserConfigPath(); current != target && fileExists(current) {
		if err := os.Remove(current); err != nil {
			return "", amerrors.New(amerrors.ErrCodeConfigWrite, "failed to replace current config", err)
		}
	}

	if err := writeFile(target, data); err != nil {
		return "", err
	}
	return target, nil
}
