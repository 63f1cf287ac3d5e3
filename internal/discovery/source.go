package discovery

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Aman-CERP/amanlaunch/internal/launcher"
)

// Source enumerates the entities of one mode.
type Source interface {
	// Mode is the catalog the entities belong to.
	Mode() launcher.Mode

	// Discover returns the current entity set. It honours ctx and may return
	// a partial set together with ctx.Err().
	Discover(ctx context.Context) ([]launcher.Entity, error)
}

// skipCacheSize bounds the memoised skip decisions. Directory names repeat a
// lot under a home directory (src, docs, build), so a small cache covers
// most of a walk.
const skipCacheSize = 4096

// skipMatcher decides whether a directory entry is ignored. Patterns are
// filepath.Match globs tested against the entry name, so "node_modules" and
// "*.photoslibrary" both work.
type skipMatcher struct {
	patterns      []string
	includeHidden bool

	mu    sync.Mutex
	cache *lru.Cache[string, bool]
}

func newSkipMatcher(patterns []string, includeHidden bool) (*skipMatcher, error) {
	for _, p := range patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return nil, fmt.Errorf("invalid skip pattern %q: %w", p, err)
		}
	}
	cache, err := lru.New[string, bool](skipCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create skip cache: %w", err)
	}
	return &skipMatcher{
		patterns:      append([]string(nil), patterns...),
		includeHidden: includeHidden,
		cache:         cache,
	}, nil
}

// Skip reports whether the entry called name is ignored. Only directories
// are matched against the patterns; dot entries are skipped either way
// unless hidden entries are included.
func (m *skipMatcher) Skip(name string, isDir bool) bool {
	if !m.includeHidden && strings.HasPrefix(name, ".") {
		return true
	}
	if !isDir || len(m.patterns) == 0 {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if skip, ok := m.cache.Get(name); ok {
		return skip
	}
	skip := false
	for _, p := range m.patterns {
		if ok, _ := filepath.Match(p, name); ok {
			skip = true
			break
		}
	}
	m.cache.Add(name, skip)
	return skip
}
