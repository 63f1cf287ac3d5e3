package cmd

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/amanlaunch/configs"
	"github.com/Aman-CERP/amanlaunch/internal/config"
)

func TestConfigCmd_HasSubcommands(t *testing.T) {
	// Given: root command
	cmd := NewRootCmd()

	// When: finding config command
	configCmd, _, err := cmd.Find([]string{"config"})
	require.NoError(t, err)

	// Then
	names := make(map[string]bool)
	for _, sc := range configCmd.Commands() {
		names[sc.Name()] = true
	}
	for _, want := range []string{"init", "show", "path", "restore"} {
		assert.True(t, names[want], "should have %s command", want)
	}
}

func TestConfigInit_WritesTemplate(t *testing.T) {
	// Given: no user config
	isolate(t)

	// When
	stdout, _, err := execute(t, "config", "init")

	// Then: the template is written and loads as the defaults
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created user configuration")
	data, err := os.ReadFile(config.GetUserConfigPath())
	require.NoError(t, err)
	assert.Equal(t, configs.UserConfigTemplate, string(data))

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.NewConfig().Search, cfg.Search)
	assert.Equal(t, config.NewConfig().Modes, cfg.Modes)
	assert.Equal(t, config.NewConfig().UI, cfg.UI)
}

func TestConfigInit_ExistingWithoutForce(t *testing.T) {
	isolate(t)
	writeTestFile(t, config.GetUserConfigPath(), "search:\n  limit: 3\n")

	stdout, _, err := execute(t, "config", "init")

	require.NoError(t, err)
	assert.Contains(t, stdout, "already exists")
	data, err := os.ReadFile(config.GetUserConfigPath())
	require.NoError(t, err)
	assert.Equal(t, "search:\n  limit: 3\n", string(data))
}

func TestConfigInit_ForceThenRestore(t *testing.T) {
	// Given: a customised user config
	isolate(t)
	custom := "search:\n  limit: 3\n"
	writeTestFile(t, config.GetUserConfigPath(), custom)

	// When: resetting with --force
	stdout, _, err := execute(t, "config", "init", "--force")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Backup: ")

	// Then: one backup is listed and restoring brings the custom file back
	stdout, _, err = execute(t, "config", "restore", "--list")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(stdout), "\n"), 1)

	_, _, err = execute(t, "config", "restore")
	require.NoError(t, err)
	data, err := os.ReadFile(config.GetUserConfigPath())
	require.NoError(t, err)
	assert.Equal(t, custom, string(data))
}

func TestConfigRestore_NoBackups(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "config", "restore", "--list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No backups found")

	_, _, err = execute(t, "config", "restore")
	assert.Error(t, err)
}

func TestConfigShow_Formats(t *testing.T) {
	f := newFixture(t, "search:\n  limit: 5\n")

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, out string)
	}{
		{"yaml", []string{"config", "show"}, func(t *testing.T, out string) {
			assert.Contains(t, out, "limit: 5")
		}},
		{"json", []string{"config", "show", "--format", "json"}, func(t *testing.T, out string) {
			var cfg config.Config
			require.NoError(t, json.Unmarshal([]byte(out), &cfg))
			assert.Equal(t, 5, cfg.Search.Limit)
			assert.Equal(t, []string{f.docs}, cfg.Discovery.FileRoots)
		}},
		{"toml defaults", []string{"config", "show", "--source", "defaults", "--format", "toml"}, func(t *testing.T, out string) {
			assert.Contains(t, out, "[search]")
			assert.Contains(t, out, "limit = 8")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, append([]string{"--config", f.config}, tt.args...)...)
			require.NoError(t, err)
			tt.check(t, stdout)
		})
	}
}

func TestConfigShow_InvalidArgs(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, "config", "show", "--format", "ini")
	assert.Error(t, err)

	_, _, err = execute(t, "config", "show", "--source", "project")
	assert.Error(t, err)
}

func TestConfigPath_PrintsUserPath(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "config", "path")

	require.NoError(t, err)
	assert.Equal(t, config.GetUserConfigPath()+"\n", stdout)
}
