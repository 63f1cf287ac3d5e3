package discovery

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/amanlaunch/internal/launcher"
)

func mkdirs(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		require.NoError(t, os.MkdirAll(p, 0o755))
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func names(entities []launcher.Entity) []string {
	out := make([]string, len(entities))
	for i, e := range entities {
		out[i] = e.Name
	}
	return out
}

func TestParseDesktopEntry(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		want       desktopEntry
		launchable bool
	}{
		{
			name: "application",
			input: `[Desktop Entry]
Type=Application
Name=Firefox
Name[de]=Feuerfuchs
Comment=Web Browser
Exec=firefox %u
Icon=firefox

[Desktop Action new-window]
Name=New Window
Exec=firefox --new-window %u
`,
			want:       desktopEntry{Name: "Firefox", Exec: "firefox", Comment: "Web Browser", Icon: "firefox", Type: "Application"},
			launchable: true,
		},
		{
			name:       "no display",
			input:      "[Desktop Entry]\nName=Helper\nExec=helper\nNoDisplay=true\n",
			want:       desktopEntry{Name: "Helper", Exec: "helper", NoDisplay: true},
			launchable: false,
		},
		{
			name:       "link type",
			input:      "[Desktop Entry]\nType=Link\nName=Docs\nExec=x\n",
			want:       desktopEntry{Name: "Docs", Exec: "x", Type: "Link"},
			launchable: false,
		},
		{
			name:       "keys outside the entry group are ignored",
			input:      "Name=Stray\n[Other]\nName=Other\n",
			want:       desktopEntry{},
			launchable: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDesktopEntry(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.launchable, got.launchable())
		})
	}
}

func TestStripFieldCodes(t *testing.T) {
	assert.Equal(t, "code --new-window", stripFieldCodes("code --new-window %F"))
	assert.Equal(t, "printf 100%", stripFieldCodes("printf 100%%"))
	assert.Equal(t, "gimp", stripFieldCodes("gimp %U %i"))
}

func TestAppSource_Scan_BundlesAndOneSubfolderLevel(t *testing.T) {
	// Given: bundles at the top level, in a subfolder, and two levels down
	dir := t.TempDir()
	mkdirs(t,
		filepath.Join(dir, "Safari.app", "Contents"),
		filepath.Join(dir, "mail.app"),
		filepath.Join(dir, "Utilities", "Terminal.app"),
		filepath.Join(dir, "Utilities", "Deep", "Hidden.app"),
		filepath.Join(dir, ".Trash", "Old.app"),
	)
	writeFile(t, filepath.Join(dir, "Readme.app"), "not a bundle")

	src := NewAppSource([]string{dir, filepath.Join(dir, "missing")}, WithoutBuiltins())

	// When
	apps, err := src.Scan(context.Background())

	// Then: top level and one subfolder, sorted case-insensitively
	require.NoError(t, err)
	assert.Equal(t, []string{"mail", "Safari", "Terminal"}, names(apps))
	assert.Equal(t, filepath.Join(dir, "Safari.app"), apps[1].ID)
	for _, a := range apps {
		assert.Equal(t, launcher.ModeApps, a.Mode)
	}
}

func TestAppSource_Scan_DesktopFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "org.gnome.Terminal.desktop"),
		"[Desktop Entry]\nName=Terminal\nExec=gnome-terminal\nComment=Use the command line\n")
	writeFile(t, filepath.Join(dir, "hidden.desktop"),
		"[Desktop Entry]\nName=Hidden\nExec=x\nHidden=true\n")
	writeFile(t, filepath.Join(dir, "kde4", "kate.desktop"),
		"[Desktop Entry]\nName=Kate\nExec=kate %U\n")

	apps, err := NewAppSource([]string{dir}, WithoutBuiltins()).Scan(context.Background())

	require.NoError(t, err)
	require.Equal(t, []string{"Kate", "Terminal"}, names(apps))
	assert.Equal(t, "kate", apps[0].Command)
	assert.Equal(t, "Use the command line", apps[1].Secondary)
}

func TestAppSource_Scan_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAppSource([]string{t.TempDir()}).Scan(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestAppSource_Discover_AppendsBuiltins(t *testing.T) {
	dir := t.TempDir()
	mkdirs(t, filepath.Join(dir, "Notes.app"))

	apps, err := NewAppSource([]string{dir}, WithGOOS("darwin")).Discover(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Notes", "Browser", "Files", "Terminal"}, names(apps))
	assert.Equal(t, "open -a Safari", apps[1].Command)
	assert.Equal(t, BuiltinPrefix+"browser", apps[1].ID)
}

func TestBuiltinActions(t *testing.T) {
	tests := []struct {
		goos string
		want int
	}{
		{"darwin", 3},
		{"linux", 3},
		{"windows", 0},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			assert.Len(t, BuiltinActions(tt.goos), tt.want)
		})
	}
}

func TestAppSource_Discover_UsesAndFillsCache(t *testing.T) {
	// Given: an app dir and an empty cache
	dir := t.TempDir()
	mkdirs(t, filepath.Join(dir, "Maps.app"))
	cache := NewAppCache(filepath.Join(t.TempDir(), "apps.json"), 0)
	src := NewAppSource([]string{dir}, WithAppCache(cache), WithoutBuiltins())

	// When: discovering, then adding an app and discovering again
	first, err := src.Discover(context.Background())
	require.NoError(t, err)
	mkdirs(t, filepath.Join(dir, "Music.app"))
	second, err := src.Discover(context.Background())
	require.NoError(t, err)

	// Then: the second call is served from the cache
	assert.Equal(t, []string{"Maps"}, names(first))
	assert.Equal(t, []string{"Maps"}, names(second))

	// And: invalidation forces a rescan
	require.NoError(t, src.Invalidate())
	third, err := src.Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Maps", "Music"}, names(third))
}

func TestAppSource_Discover_CorruptCacheRescans(t *testing.T) {
	dir := t.TempDir()
	mkdirs(t, filepath.Join(dir, "Maps.app"))
	cachePath := filepath.Join(t.TempDir(), "apps.json")
	writeFile(t, cachePath, "{not json")
	src := NewAppSource([]string{dir}, WithAppCache(NewAppCache(cachePath, 0)), WithoutBuiltins())

	apps, err := src.Discover(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Maps"}, names(apps))
	data, err := os.ReadFile(cachePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Maps", "cache rewritten after rescan")
}
