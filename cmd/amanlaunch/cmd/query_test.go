package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	amerrors "github.com/Aman-CERP/amanlaunch/internal/errors"
	"github.com/Aman-CERP/amanlaunch/internal/launcher"
	"github.com/Aman-CERP/amanlaunch/internal/output"
)

func TestQueryCmd_Apps(t *testing.T) {
	// Given: a fixture with Safari, Mail and Firefox
	f := newFixture(t, "")

	// When: querying the default apps mode
	stdout, _, err := execute(t, "--config", f.config, "query", "saf")

	// Then: Safari is the only match
	require.NoError(t, err)
	assert.Contains(t, stdout, " 1. Safari")
	assert.Contains(t, stdout, "Safari.app")
	assert.NotContains(t, stdout, "Mail")
}

func TestQueryCmd_FilesJSON(t *testing.T) {
	f := newFixture(t, "")

	stdout, _, err := execute(t, "--config", f.config, "query", "-m", "files", "--format", "json", "report")

	require.NoError(t, err)
	var doc output.JSONResultSet
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, launcher.ModeFiles, doc.Mode)
	assert.Equal(t, "report", doc.Query)
	require.NotEmpty(t, doc.Results)
	assert.Equal(t, "report.pdf", doc.Results[0].Name)
	assert.Equal(t, f.docs, doc.Results[0].Secondary)
}

func TestQueryCmd_EmptyTextListsCatalog(t *testing.T) {
	f := newFixture(t, "")

	stdout, _, err := execute(t, "--config", f.config, "query", "-m", "run")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Lock Screen")
	assert.Contains(t, lines[1], "Say Hello")
	assert.Contains(t, lines[1], "Greets")
}

func TestQueryCmd_LimitShowsRemainder(t *testing.T) {
	f := newFixture(t, "")

	stdout, _, err := execute(t, "--config", f.config, "query", "-m", "files", "-n", "1")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], " 1. "))
	assert.Equal(t, "... 2 more", strings.TrimSpace(lines[1]))
}

func TestQueryCmd_DryRunPrintsCommand(t *testing.T) {
	// Given: a run entry whose command is "echo locked"
	f := newFixture(t, "")

	// When: launching the best match in dry-run mode
	stdout, _, err := execute(t, "--config", f.config, "query", "-m", "run", "lock", "--dry-run")

	// Then: the shell command is printed instead of run
	require.NoError(t, err)
	assert.Contains(t, stdout, "/bin/sh -c echo locked")
}

func TestQueryCmd_LaunchWithoutMatch(t *testing.T) {
	f := newFixture(t, "")

	_, _, err := execute(t, "--config", f.config, "query", "-m", "run", "zzzz", "--launch")

	require.Error(t, err)
	assert.Equal(t, amerrors.ErrCodeEntityNotFound, amerrors.GetCode(err))
}

func TestQueryCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown mode", []string{"query", "-m", "windows", "x"}},
		{"unknown format", []string{"query", "--format", "xml", "x"}},
		{"missing config", []string{"--config", "/does/not/exist.yaml", "query", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "")
			args := tt.args
			if args[0] != "--config" {
				args = append([]string{"--config", f.config}, args...)
			}

			_, _, err := execute(t, args...)

			assert.Error(t, err)
		})
	}
}

func TestQueryCmd_DisabledMode(t *testing.T) {
	f := newFixture(t, "modes:\n  disabled: [files]\n")

	_, _, err := execute(t, "--config", f.config, "query", "-m", "files", "report")

	assert.Error(t, err)
}

func TestQueryCmd_Stats(t *testing.T) {
	f := newFixture(t, "")

	_, stderr, err := execute(t, "--config", f.config, "query", "-m", "run", "--stats", "say")

	require.NoError(t, err)
	assert.Contains(t, stderr, "catalog: apps=0 files=0 run=2")
	assert.Contains(t, stderr, "queries:")
}

func TestQueryCmd_LogsQuery(t *testing.T) {
	// Given: a query that logged to the fixture's log file
	f := newFixture(t, "")
	_, _, err := execute(t, "--config", f.config, "query", "saf")
	require.NoError(t, err)

	// When: reading the log back
	stdout, _, err := execute(t, "logs", "--file", f.logFile)

	// Then
	require.NoError(t, err)
	assert.Contains(t, stdout, "query complete")
}
