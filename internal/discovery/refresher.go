package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/amanlaunch/internal/catalog"
	amerrors "github.com/Aman-CERP/amanlaunch/internal/errors"
	"github.com/Aman-CERP/amanlaunch/internal/launcher"
	"github.com/Aman-CERP/amanlaunch/internal/watcher"
)

// ErrNilDependency is returned when a required collaborator is missing.
var ErrNilDependency = errors.New("nil dependency")

// Sink receives discovered entity sets. *catalog.Catalog implements it.
type Sink interface {
	Refresh(mode launcher.Mode, entities []launcher.Entity) (*catalog.Snapshot, error)
}

var _ Sink = (*catalog.Catalog)(nil)

// rooted is implemented by sources that read from filesystem roots.
type rooted interface {
	Roots() []string
}

// invalidator is implemented by sources with a cache that a filesystem change
// makes stale.
type invalidator interface {
	Invalidate() error
}

// Refresher runs sources into a Sink.
type Refresher struct {
	sink     Sink
	sources  [launcher.NumModes]Source
	interval time.Duration
	logger   *slog.Logger

	// Refreshes of one mode are serialised so an older scan never replaces
	// a newer one.
	modeMu [launcher.NumModes]sync.Mutex
}

// RefresherOption configures a Refresher.
type RefresherOption func(*Refresher)

// WithInterval sets the periodic rescan interval. Zero disables the timer.
func WithInterval(d time.Duration) RefresherOption {
	return func(r *Refresher) {
		r.interval = d
	}
}

// WithRefresherLogger sets the logger.
func WithRefresherLogger(l *slog.Logger) RefresherOption {
	return func(r *Refresher) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRefresher creates a refresher. At most one source per mode is allowed.
func NewRefresher(sink Sink, sources []Source, opts ...RefresherOption) (*Refresher, error) {
	if sink == nil {
		return nil, fmt.Errorf("%w: sink is required", ErrNilDependency)
	}
	r := &Refresher{
		sink:     sink,
		interval: 5 * time.Minute,
		logger:   slog.Default(),
	}
	for _, src := range sources {
		if src == nil {
			return nil, fmt.Errorf("%w: nil source", ErrNilDependency)
		}
		m := src.Mode()
		if !m.Valid() {
			return nil, amerrors.InvalidMode(m.String())
		}
		if r.sources[m] != nil {
			return nil, amerrors.ConfigError(fmt.Sprintf("more than one source for mode %s", m), nil)
		}
		r.sources[m] = src
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Source returns the source registered for mode, or nil.
func (r *Refresher) Source(mode launcher.Mode) Source {
	if !mode.Valid() {
		return nil
	}
	return r.sources[mode]
}

// RefreshAll refreshes every mode concurrently. A failing source does not
// stop the others; the first error is returned.
func (r *Refresher) RefreshAll(ctx context.Context) error {
	var g errgroup.Group
	for _, src := range r.sources {
		if src == nil {
			continue
		}
		mode := src.Mode()
		g.Go(func() error {
			_, err := r.RefreshMode(ctx, mode)
			return err
		})
	}
	return g.Wait()
}

// RefreshMode runs the source of mode and swaps the result into the sink.
// If discovery is cancelled the current catalog is left untouched.
func (r *Refresher) RefreshMode(ctx context.Context, mode launcher.Mode) (*catalog.Snapshot, error) {
	src := r.Source(mode)
	if src == nil {
		return nil, amerrors.InvalidMode(mode.String()).WithDetail("reason", "no source")
	}

	r.modeMu[mode].Lock()
	defer r.modeMu[mode].Unlock()

	start := time.Now()
	entities, err := src.Discover(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.logger.Warn("discovery failed",
			slog.String("mode", mode.String()),
			slog.String("error", err.Error()))
		return nil, amerrors.New(amerrors.ErrCodeDiscoveryFailed,
			fmt.Sprintf("discovery failed for %s", mode), err).
			WithDetail("mode", mode.String())
	}

	snap, err := r.sink.Refresh(mode, entities)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("mode refreshed",
		slog.String("mode", mode.String()),
		slog.Int("entities", snap.Len()),
		slog.Duration("took", time.Since(start)))
	return snap, nil
}

// WatchRoots returns the filesystem roots of all sources.
func (r *Refresher) WatchRoots() []string {
	var roots []string
	for _, src := range r.sources {
		if rs, ok := src.(rooted); ok {
			roots = append(roots, rs.Roots()...)
		}
	}
	return roots
}

// modesForRoot returns the modes whose sources read from root.
func (r *Refresher) modesForRoot(root string) []launcher.Mode {
	root = filepath.Clean(root)
	var modes []launcher.Mode
	for _, src := range r.sources {
		rs, ok := src.(rooted)
		if !ok {
			continue
		}
		for _, sr := range rs.Roots() {
			if abs, err := filepath.Abs(sr); err == nil && abs == root {
				modes = append(modes, src.Mode())
				break
			}
		}
	}
	return modes
}

// HandleBatch refreshes every mode whose roots appear in the batch,
// invalidating source caches first.
func (r *Refresher) HandleBatch(ctx context.Context, b watcher.Batch) {
	seen := make(map[launcher.Mode]bool)
	for _, root := range b.Roots {
		for _, mode := range r.modesForRoot(root) {
			if seen[mode] {
				continue
			}
			seen[mode] = true

			if inv, ok := r.sources[mode].(invalidator); ok {
				if err := inv.Invalidate(); err != nil {
					r.logger.Warn("failed to invalidate cache",
						slog.String("mode", mode.String()),
						slog.String("error", err.Error()))
				}
			}
			if _, err := r.RefreshMode(ctx, mode); err != nil && ctx.Err() == nil {
				r.logger.Warn("refresh after change failed",
					slog.String("mode", mode.String()),
					slog.String("error", err.Error()))
			}
		}
	}
}

// Run refreshes on the configured interval and whenever batches delivers a
// change, until ctx is done. A nil batches channel disables change handling.
func (r *Refresher) Run(ctx context.Context, batches <-chan watcher.Batch) error {
	var tick <-chan time.Time
	if r.interval > 0 {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
			if err := r.RefreshAll(ctx); err != nil && ctx.Err() == nil {
				r.logger.Warn("periodic refresh failed", slog.String("error", err.Error()))
			}
		case b, ok := <-batches:
			if !ok {
				batches = nil
				continue
			}
			r.HandleBatch(ctx, b)
		}
	}
}
