package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/gofrs/flock"

	amerrors "github.com/Aman-CERP/amanlaunch/internal/errors"
	"github.com/Aman-CERP/amanlaunch/internal/launcher"
)

const (
	appCacheVersion  = 1
	appCacheFileName = "apps.json"
)

// DefaultAppCachePath returns <user cache dir>/amanlaunch/apps.json.
func DefaultAppCachePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve cache dir: %w", err)
	}
	return filepath.Join(dir, "amanlaunch", appCacheFileName), nil
}

// appCacheFile is the on-disk layout.
type appCacheFile struct {
	Version   int               `json:"version"`
	WrittenAt time.Time         `json:"written_at"`
	Dirs      []string          `json:"dirs"`
	Apps      []launcher.Entity `json:"apps"`
}

// AppCache persists the last application scan as JSON. Several launcher
// processes may share it, so reads take a shared flock and writes an
// exclusive one on a sibling .lock file. Contention is retried briefly.
type AppCache struct {
	path  string
	ttl   time.Duration
	lock  *flock.Flock
	now   func() time.Time
	retry amerrors.RetryConfig
}

// CacheOption configures an AppCache.
type CacheOption func(*AppCache)

// WithCacheClock overrides time.Now.
func WithCacheClock(now func() time.Time) CacheOption {
	return func(c *AppCache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithCacheRetry overrides the lock retry policy.
func WithCacheRetry(cfg amerrors.RetryConfig) CacheOption {
	return func(c *AppCache) {
		c.retry = cfg
	}
}

// NewAppCache creates a cache at path that stays fresh for ttl.
// A non-positive ttl means entries never expire.
func NewAppCache(path string, ttl time.Duration, opts ...CacheOption) *AppCache {
	c := &AppCache{
		path:  path,
		ttl:   ttl,
		lock:  flock.New(path + ".lock"),
		now:   time.Now,
		retry: amerrors.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Path returns the cache file path.
func (c *AppCache) Path() string { return c.path }

// Load returns the cached apps when the cache exists, was written for the
// same dirs and is younger than the TTL. ok is false on a miss. A file that
// cannot be decoded yields an ErrCodeCacheCorrupt error.
func (c *AppCache) Load(ctx context.Context, dirs []string) (apps []launcher.Entity, ok bool, err error) {
	var data []byte
	err = c.withLock(ctx, true, func() error {
		var readErr error
		data, readErr = os.ReadFile(c.path)
		return readErr
	})
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var f appCacheFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, false, amerrors.New(amerrors.ErrCodeCacheCorrupt, "app cache is not valid JSON", err).
			WithDetail("path", c.path)
	}
	if f.Version != appCacheVersion {
		return nil, false, amerrors.New(amerrors.ErrCodeCacheCorrupt,
			fmt.Sprintf("unsupported app cache version %d", f.Version), nil).
			WithDetail("path", c.path)
	}
	if !slices.Equal(f.Dirs, dirs) {
		return nil, false, nil
	}
	if c.ttl > 0 && c.now().Sub(f.WrittenAt) > c.ttl {
		return nil, false, nil
	}
	return f.Apps, true, nil
}

// Store writes apps for dirs, replacing the previous cache atomically.
func (c *AppCache) Store(ctx context.Context, dirs []string, apps []launcher.Entity) error {
	data, err := json.Marshal(appCacheFile{
		Version:   appCacheVersion,
		WrittenAt: c.now(),
		Dirs:      dirs,
		Apps:      apps,
	})
	if err != nil {
		return fmt.Errorf("failed to encode app cache: %w", err)
	}

	return c.withLock(ctx, false, func() error {
		tmp := c.path + ".tmp"
		if err := os.WriteFile(tmp, data, 0o644); err != nil {
			return fmt.Errorf("failed to write app cache: %w", err)
		}
		if err := os.Rename(tmp, c.path); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("failed to replace app cache: %w", err)
		}
		return nil
	})
}

// Invalidate removes the cache file. A missing file is not an error.
func (c *AppCache) Invalidate() error {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove app cache: %w", err)
	}
	return nil
}

// withLock runs fn while holding the cache lock, retrying on contention.
func (c *AppCache) withLock(ctx context.Context, shared bool, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	err := amerrors.Retry(ctx, c.retry, func() error {
		var acquired bool
		var err error
		if shared {
			acquired, err = c.lock.TryRLock()
		} else {
			acquired, err = c.lock.TryLock()
		}
		if err != nil {
			// Not contention; do not retry.
			return amerrors.New(amerrors.ErrCodePermission, "failed to lock app cache", err).
				WithDetail("path", c.lock.Path())
		}
		if !acquired {
			return amerrors.New(amerrors.ErrCodeLockTimeout, "app cache is locked by another process", nil).
				WithDetail("path", c.lock.Path())
		}
		return nil
	})
	if err != nil {
		return err
	}
	defer func() { _ = c.lock.Unlock() }()

	return fn()
}
