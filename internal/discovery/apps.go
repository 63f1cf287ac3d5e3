package discovery

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/Aman-CERP/amanlaunch/internal/launcher"
)

const (
	appBundleSuffix = ".app"
	desktopSuffix   = ".desktop"

	// BuiltinPrefix marks IDs of built-in actions.
	BuiltinPrefix = "builtin:"
)

// AppSource discovers applications.
//
// Each directory is read non-recursively plus one level of subfolders, which
// covers /Applications/Utilities and /usr/share/applications/kde4. Entries
// named *.app are macOS bundles; regular files named *.desktop are parsed as
// freedesktop entries.
type AppSource struct {
	dirs     []string
	goos     string
	cache    *AppCache
	builtins bool
	logger   *slog.Logger
}

// AppOption configures an AppSource.
type AppOption func(*AppSource)

// WithAppCache serves scans from cache while it is fresh.
func WithAppCache(c *AppCache) AppOption {
	return func(s *AppSource) {
		s.cache = c
	}
}

// WithGOOS selects the built-in actions for goos instead of runtime.GOOS.
func WithGOOS(goos string) AppOption {
	return func(s *AppSource) {
		s.goos = goos
	}
}

// WithoutBuiltins leaves the built-in actions out of the catalog.
func WithoutBuiltins() AppOption {
	return func(s *AppSource) {
		s.builtins = false
	}
}

// WithAppLogger sets the logger.
func WithAppLogger(l *slog.Logger) AppOption {
	return func(s *AppSource) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewAppSource creates a source over dirs.
func NewAppSource(dirs []string, opts ...AppOption) *AppSource {
	s := &AppSource{
		dirs:     append([]string(nil), dirs...),
		goos:     runtime.GOOS,
		builtins: true,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Source = (*AppSource)(nil)

// Mode returns launcher.ModeApps.
func (s *AppSource) Mode() launcher.Mode { return launcher.ModeApps }

// Roots returns the scanned directories.
func (s *AppSource) Roots() []string { return append([]string(nil), s.dirs...) }

// Discover returns the applications followed by the built-in actions. A
// fresh cache is used when configured; a stale or corrupt one triggers a scan
// whose result replaces it.
func (s *AppSource) Discover(ctx context.Context) ([]launcher.Entity, error) {
	if s.cache != nil {
		apps, ok, err := s.cache.Load(ctx, s.dirs)
		switch {
		case err != nil:
			s.logger.Warn("app cache unusable, rescanning",
				slog.String("path", s.cache.Path()),
				slog.String("error", err.Error()))
		case ok:
			s.logger.Debug("app cache hit", slog.Int("apps", len(apps)))
			return s.withBuiltins(apps), nil
		}
	}

	apps, err := s.Scan(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Store(ctx, s.dirs, apps); err != nil {
			s.logger.Warn("failed to write app cache",
				slog.String("path", s.cache.Path()),
				slog.String("error", err.Error()))
		}
	}
	return s.withBuiltins(apps), nil
}

// Invalidate drops the on-disk cache so the next Discover rescans.
func (s *AppSource) Invalidate() error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate()
}

// Scan reads the app directories, bypassing the cache. Missing directories
// are skipped. The result is sorted by name.
func (s *AppSource) Scan(ctx context.Context) ([]launcher.Entity, error) {
	var apps []launcher.Entity
	seen := make(map[string]bool)

	add := func(e launcher.Entity, ok bool) {
		if ok && !seen[e.ID] {
			seen[e.ID] = true
			apps = append(apps, e)
		}
	}

	for _, dir := range s.dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			s.logger.Debug("app dir not readable",
				slog.String("dir", dir),
				slog.String("error", err.Error()))
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if strings.HasPrefix(name, ".") {
				continue
			}
			path := filepath.Join(dir, name)
			if e, ok := s.appEntity(path, entry); ok {
				add(e, true)
				continue
			}
			if !entry.IsDir() {
				continue
			}

			// One level of subfolders.
			sub, err := os.ReadDir(path)
			if err != nil {
				continue
			}
			for _, se := range sub {
				if strings.HasPrefix(se.Name(), ".") {
					continue
				}
				add(s.appEntity(filepath.Join(path, se.Name()), se))
			}
		}
	}

	sort.SliceStable(apps, func(i, j int) bool {
		a, b := strings.ToLower(apps[i].Name), strings.ToLower(apps[j].Name)
		if a != b {
			return a < b
		}
		return apps[i].ID < apps[j].ID
	})
	return apps, nil
}

// appEntity turns a directory entry into an app, if it is one.
func (s *AppSource) appEntity(path string, entry os.DirEntry) (launcher.Entity, bool) {
	name := entry.Name()
	switch {
	case strings.HasSuffix(name, appBundleSuffix) && (entry.IsDir() || entry.Type()&os.ModeSymlink != 0):
		return launcher.Entity{
			ID:        path,
			Name:      strings.TrimSuffix(name, appBundleSuffix),
			Secondary: path,
			Mode:      launcher.ModeApps,
		}, true

	case strings.HasSuffix(name, desktopSuffix) && entry.Type().IsRegular():
		d, err := readDesktopFile(path)
		if err != nil {
			s.logger.Debug("skipping unreadable desktop entry",
				slog.String("path", path),
				slog.String("error", err.Error()))
			return launcher.Entity{}, false
		}
		if !d.launchable() {
			return launcher.Entity{}, false
		}
		secondary := d.Comment
		if secondary == "" {
			secondary = path
		}
		return launcher.Entity{
			ID:        path,
			Name:      d.Name,
			Secondary: secondary,
			Mode:      launcher.ModeApps,
			Icon:      d.Icon,
			Command:   d.Exec,
		}, true
	}
	return launcher.Entity{}, false
}

func (s *AppSource) withBuiltins(apps []launcher.Entity) []launcher.Entity {
	if !s.builtins {
		return apps
	}
	out := make([]launcher.Entity, 0, len(apps)+3)
	out = append(out, apps...)
	return append(out, BuiltinActions(s.goos)...)
}

// BuiltinActions returns the always-present Browser, Files and Terminal
// actions for goos. Unknown platforms get none.
func BuiltinActions(goos string) []launcher.Entity {
	var commands [3]string
	switch goos {
	case "darwin":
		commands = [3]string{"open -a Safari", "open -a Finder", "open -a Terminal"}
	case "linux", "freebsd", "openbsd", "netbsd":
		commands = [3]string{"xdg-open https://", `xdg-open "$HOME"`, "x-terminal-emulator"}
	default:
		return nil
	}

	names := [3]string{"Browser", "Files", "Terminal"}
	out := make([]launcher.Entity, 0, len(names))
	for i, name := range names {
		out = append(out, launcher.Entity{
			ID:        BuiltinPrefix + strings.ToLower(name),
			Name:      name,
			Secondary: "Built-in",
			Mode:      launcher.ModeApps,
			Command:   commands[i],
		})
	}
	return out
}
