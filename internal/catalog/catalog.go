// Package catalog holds the per-mode entity sets the ranker searches.
//
// Each mode's entities live in an immutable Snapshot behind an atomic
// pointer. Refresh builds a new Snapshot and swaps it in, so a reader that
// took a snapshot keeps a consistent view for the whole ranking pass while
// discovery replaces the set underneath it.
package catalog

import (
	"log/slog"
	"sync/atomic"
	"time"

	amerrors "github.com/Aman-CERP/amanlaunch/internal/errors"
	"github.com/Aman-CERP/amanlaunch/internal/launcher"
)

// Catalog maps each mode to its current snapshot.
type Catalog struct {
	snapshots  [launcher.NumModes]atomic.Pointer[Snapshot]
	generation atomic.Uint64
	logger     *slog.Logger
	now        func() time.Time

	// onRefresh is called after every successful swap.
	onRefresh func(*Snapshot)
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger used for refresh diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) {
		if now != nil {
			c.now = now
		}
	}
}

// WithRefreshHook registers a callback run after each refresh.
func WithRefreshHook(fn func(*Snapshot)) Option {
	return func(c *Catalog) {
		c.onRefresh = fn
	}
}

// New creates a catalog with an empty snapshot for every mode.
func New(opts ...Option) *Catalog {
	c := &Catalog{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, m := range launcher.AllModes() {
		c.snapshots[m].Store(emptySnapshot(m))
	}
	return c
}

// Refresh replaces the entity set for mode. The input slice is copied, each
// entity is tagged with mode, and duplicate IDs keep their first occurrence.
// Zero entities is valid and empties the mode.
func (c *Catalog) Refresh(mode launcher.Mode, entities []launcher.Entity) (*Snapshot, error) {
	if !mode.Valid() {
		return nil, amerrors.InvalidMode(mode.String())
	}

	now := c.now()
	owned := make([]launcher.Entity, 0, len(entities))
	index := make(map[string]int, len(entities))
	dropped := 0
	for _, e := range entities {
		if _, dup := index[e.ID]; dup {
			dropped++
			continue
		}
		e.Mode = mode
		if e.LastSeen.IsZero() {
			e.LastSeen = now
		}
		index[e.ID] = len(owned)
		owned = append(owned, e)
	}

	snap := &Snapshot{
		mode:        mode,
		generation:  c.generation.Add(1),
		refreshedAt: now,
		entities:    owned,
		index:       index,
	}
	c.snapshots[mode].Store(snap)

	if dropped > 0 {
		c.logger.Warn("duplicate entity ids dropped",
			slog.String("mode", mode.String()),
			slog.Int("dropped", dropped))
	}
	c.logger.Debug("catalog refreshed",
		slog.String("mode", mode.String()),
		slog.Int("entities", len(owned)),
		slog.Uint64("generation", snap.generation))

	if c.onRefresh != nil {
		c.onRefresh(snap)
	}
	return snap, nil
}

// Snapshot returns the current view of mode. It is never nil for a valid
// mode; an invalid mode yields an empty snapshot tagged with that mode.
func (c *Catalog) Snapshot(mode launcher.Mode) *Snapshot {
	if !mode.Valid() {
		return emptySnapshot(mode)
	}
	return c.snapshots[mode].Load()
}

// Lookup resolves an entity id in the current snapshot of mode.
func (c *Catalog) Lookup(mode launcher.Mode, id string) (launcher.Entity, bool) {
	e := c.Snapshot(mode).Lookup(id)
	if e == nil {
		return launcher.Entity{}, false
	}
	return *e, true
}

// ModeStats summarises one mode's snapshot.
type ModeStats struct {
	Mode        launcher.Mode `json:"mode"`
	Entities    int           `json:"entities"`
	Generation  uint64        `json:"generation"`
	RefreshedAt time.Time     `json:"refreshed_at"`
}

// Stats returns per-mode counts in tab order.
func (c *Catalog) Stats() []ModeStats {
	out := make([]ModeStats, 0, launcher.NumModes)
	for _, m := range launcher.AllModes() {
		s := c.Snapshot(m)
		out = append(out, ModeStats{
			Mode:        m,
			Entities:    s.Len(),
			Generation:  s.Generation(),
			RefreshedAt: s.RefreshedAt(),
		})
	}
	return out
}
