package cmd

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/amanlaunch/internal/catalog"
	"github.com/Aman-CERP/amanlaunch/internal/discovery"
	"github.com/Aman-CERP/amanlaunch/internal/launcher"
)

func TestIndexCmd_ReportsEveryMode(t *testing.T) {
	// Given
	f := newFixture(t, "")

	// When
	stdout, _, err := execute(t, "--config", f.config, "index")

	// Then: one line per mode plus the summary, and the app list is cached
	require.NoError(t, err)
	assert.Contains(t, stdout, "[APPS] ")
	assert.Contains(t, stdout, "[FILES] 3 entities in ")
	assert.Contains(t, stdout, "[RUN] 2 entities in ")
	assert.Contains(t, stdout, "Complete: ")

	cachePath, err := discovery.DefaultAppCachePath()
	require.NoError(t, err)
	assert.FileExists(t, cachePath)
}

func TestIndexCmd_ClearCache(t *testing.T) {
	f := newFixture(t, "")
	_, _, err := execute(t, "--config", f.config, "index")
	require.NoError(t, err)

	// A new bundle is only seen once the cache is discarded.
	require.NoError(t, os.MkdirAll(f.apps+"/Notes.app", 0755))

	stdout, _, err := execute(t, "--config", f.config, "query", "notes")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "Notes")

	_, _, err = execute(t, "--config", f.config, "index", "--clear-cache")
	require.NoError(t, err)
	stdout, _, err = execute(t, "--config", f.config, "query", "notes")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Notes")
}

func TestIndexCmd_JSONSkipsDisabledModes(t *testing.T) {
	f := newFixture(t, "modes:\n  disabled: [files]\n")

	stdout, stderr, err := execute(t, "--config", f.config, "index", "--json")

	require.NoError(t, err)
	assert.Contains(t, stderr, "Complete: ")
	var stats []catalog.ModeStats
	require.NoError(t, json.Unmarshal([]byte(stdout), &stats))
	require.Len(t, stats, 2)
	assert.Equal(t, launcher.ModeApps, stats[0].Mode)
	assert.Equal(t, launcher.ModeRun, stats[1].Mode)
	assert.Equal(t, 2, stats[1].Entities)
}
