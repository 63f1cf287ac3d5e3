package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `{"time":"2026-01-02T10:00:00Z","level":"DEBUG","msg":"catalog refreshed"}
{"time":"2026-01-02T10:00:01Z","level":"INFO","msg":"query complete"}
not json

{"time":"2026-01-02T10:00:02Z","level":"WARN","msg":"app cache unusable, rescanning"}
{"time":"2026-01-02T10:00:03Z","level":"ERROR","msg":"failed to start"}
`

func TestTailLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launcher.log")
	writeTestFile(t, path, sampleLog)

	tests := []struct {
		name     string
		n        int
		level    string
		wantMsgs []string
	}{
		{"last two", 2, "", []string{"app cache unusable", "failed to start"}},
		{"all lines keep non-json", 10, "", []string{"catalog refreshed", "query complete", "not json", "app cache unusable", "failed to start"}},
		{"warn and above", 10, "warn", []string{"app cache unusable", "failed to start"}},
		{"level then count", 1, "info", []string{"failed to start"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tailLog(path, tt.n, tt.level)

			require.NoError(t, err)
			require.Len(t, got, len(tt.wantMsgs))
			for i, msg := range tt.wantMsgs {
				assert.Contains(t, got[i], msg)
			}
		})
	}
}

func TestLogsCmd_Errors(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, "logs", "--file", filepath.Join(t.TempDir(), "missing.log"))
	assert.Error(t, err)

	_, _, err = execute(t, "logs", "--level", "loud")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid level"))
}
