package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	amerrors "github.com/Aman-CERP/amanlaunch/internal/errors"
)

func TestBackupUserConfig_NoConfig(t *testing.T) {
	isolate(t)

	path, err := BackupUserConfig()

	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestBackupUserConfig_CopiesContent(t *testing.T) {
	// Given: an existing user config
	dir := isolate(t)
	content := "search:\n  limit: 9\n"
	writeUserConfig(t, dir, "config.yaml", content)

	// When: backing it up
	path, err := BackupUserConfig()

	// Then: the backup sits next to it with the same content
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "config.yaml.bak."))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestBackupUserConfig_KeepsNewest(t *testing.T) {
	dir := isolate(t)
	writeUserConfig(t, dir, "config.yaml", "version: 1\n")

	var made []string
	for i := 0; i < MaxBackups+2; i++ {
		p, err := BackupUserConfig()
		require.NoError(t, err)
		made = append(made, p)
		time.Sleep(2 * time.Millisecond)
	}

	backups, err := ListUserConfigBackups()
	require.NoError(t, err)
	require.Len(t, backups, MaxBackups)
	assert.Equal(t, made[len(made)-1], backups[0], "newest first")
	assert.NoFileExists(t, made[0])
}

func TestListUserConfigBackups_MissingDir(t *testing.T) {
	isolate(t)

	backups, err := ListUserConfigBackups()

	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestRestoreUserConfig(t *testing.T) {
	// Given: a backup of an older config and a newer current config
	dir := isolate(t)
	writeUserConfig(t, dir, "config.yaml", "search:\n  limit: 5\n")
	backup, err := BackupUserConfig()
	require.NoError(t, err)
	writeUserConfig(t, dir, "config.yaml", "search:\n  limit: 6\n")
	time.Sleep(2 * time.Millisecond)

	// When: restoring
	restored, err := RestoreUserConfig(backup)

	// Then: the old content is back and the replaced one was backed up too
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), restored)
	cfg, err := LoadUserConfig()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Search.Limit)

	backups, err := ListUserConfigBackups()
	require.NoError(t, err)
	assert.Len(t, backups, 2)
}

func TestRestoreUserConfig_TOMLReplacesYAML(t *testing.T) {
	dir := isolate(t)
	writeUserConfig(t, dir, "config.toml", "[search]\nlimit = 4\n")
	backup, err := BackupUserConfig()
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, "config.toml")))
	writeUserConfig(t, dir, "config.yaml", "search:\n  limit: 7\n")

	restored, err := RestoreUserConfig(backup)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), restored)
	assert.NoFileExists(t, filepath.Join(dir, "config.yaml"))
	cfg, err := LoadUserConfig()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Search.Limit)
}

func TestRestoreUserConfig_MissingBackup(t *testing.T) {
	isolate(t)

	_, err := RestoreUserConfig(filepath.Join(t.TempDir(), "config.yaml.bak.1"))

	require.Error(t, err)
	assert.Equal(t, amerrors.ErrCodeConfigNotFound, amerrors.GetCode(err))
}
