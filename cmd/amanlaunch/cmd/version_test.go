package cmd

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/amanlaunch/pkg/version"
)

func TestVersionCmd(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, out string)
	}{
		{
			name: "banner",
			args: []string{"version"},
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "amanlaunch "+version.Version)
				assert.Contains(t, out, "commit:")
				assert.NotContains(t, out, "config:")
			},
		},
		{
			name: "short",
			args: []string{"version", "--short"},
			check: func(t *testing.T, out string) {
				assert.Equal(t, version.Version, strings.TrimSpace(out))
			},
		},
		{
			name: "verbose",
			args: []string{"version", "-v"},
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "config: ")
				assert.Contains(t, out, filepath.Join("amanlaunch", "config.yaml"))
				assert.Contains(t, out, filepath.Join(".amanlaunch", "logs", "launcher.log"))
			},
		},
		{
			name: "json",
			args: []string{"version", "--json"},
			check: func(t *testing.T, out string) {
				var info map[string]any
				require.NoError(t, json.Unmarshal([]byte(out), &info))
				assert.Equal(t, version.Version, info["version"])
				for _, key := range []string{"commit", "date", "go_version", "os", "arch"} {
					assert.Contains(t, info, key)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)

			stdout, _, err := execute(t, tt.args...)

			require.NoError(t, err)
			tt.check(t, stdout)
		})
	}
}

func TestVersionCmd_JSONAndShortConflict(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, "version", "--json", "--short")

	assert.Error(t, err)
}
