package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixture is an isolated home with apps, files and a config file.
type fixture struct {
	dir     string
	apps    string
	docs    string
	config  string
	logFile string
}

// isolate points HOME, XDG dirs and AMANLAUNCH_* at a temp directory so
// commands never touch the real user config or caches.
func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", filepath.Join(tmp, "home"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tmp, "cache"))
	for _, k := range []string{
		"AMANLAUNCH_LIMIT", "AMANLAUNCH_SCORER", "AMANLAUNCH_PARALLELISM",
		"AMANLAUNCH_LENGTH_PENALTY", "AMANLAUNCH_DEFAULT_MODE", "AMANLAUNCH_FILE_ROOTS",
		"AMANLAUNCH_NO_WATCH", "AMANLAUNCH_THEME", "AMANLAUNCH_LOG_LEVEL", "NO_COLOR",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(tmp, "home"), 0755))
	return tmp
}

// newFixture builds:
//
//	apps/Safari.app/  apps/Mail.app/  apps/firefox.desktop
//	home/docs/report.pdf  home/docs/notes.txt  home/docs/sub/plan.md
//
// and a config with two run commands and watching off.
func newFixture(t *testing.T, extraYAML string) fixture {
	t.Helper()
	tmp := isolate(t)
	f := fixture{
		dir:     tmp,
		apps:    filepath.Join(tmp, "apps"),
		docs:    filepath.Join(tmp, "home", "docs"),
		config:  filepath.Join(tmp, "amanlaunch.yaml"),
		logFile: filepath.Join(tmp, "launcher.log"),
	}

	for _, d := range []string{
		filepath.Join(f.apps, "Safari.app"),
		filepath.Join(f.apps, "Mail.app"),
		filepath.Join(f.docs, "sub"),
	} {
		require.NoError(t, os.MkdirAll(d, 0755))
	}
	writeTestFile(t, filepath.Join(f.apps, "firefox.desktop"),
		"[Desktop Entry]\nType=Application\nName=Firefox\nExec=firefox %u\nComment=Web Browser\n")
	writeTestFile(t, filepath.Join(f.docs, "report.pdf"), "pdf")
	writeTestFile(t, filepath.Join(f.docs, "notes.txt"), "notes")
	writeTestFile(t, filepath.Join(f.docs, "sub", "plan.md"), "# plan")

	cfg := fmt.Sprintf(`discovery:
  app_dirs: [%q]
  file_roots: [%q]
  watch: false
commands:
  - name: Lock Screen
    command: echo locked
  - name: Say Hello
    command: echo hello
    description: Greets
logging:
  file: %q
%s`, f.apps, f.docs, f.logFile, extraYAML)
	writeTestFile(t, f.config, cfg)
	return f
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// execute runs the root command with args and captures its output.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}
