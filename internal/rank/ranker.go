// Package rank orders a catalog snapshot against a query.
//
// Every call is a full scan: each entity of the snapshot is scored, the
// non-matches are dropped, and the rest are sorted and truncated. Large
// snapshots are split into partitions scored in parallel and merged.
package rank

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/amanlaunch/internal/catalog"
	"github.com/Aman-CERP/amanlaunch/internal/launcher"
	"github.com/Aman-CERP/amanlaunch/internal/scorer"
	"github.com/Aman-CERP/amanlaunch/internal/telemetry"
)

const (
	// DefaultLimit is the result page size when none is given.
	DefaultLimit = 8

	// MaxLimit caps any requested limit.
	MaxLimit = 200

	// DefaultPartitionThreshold is the snapshot size from which scoring is
	// split across goroutines.
	DefaultPartitionThreshold = 4096

	// cancelCheckInterval is how many entities are scored between context checks.
	cancelCheckInterval = 256
)

// ErrNilDependency is returned when a required collaborator is missing.
var ErrNilDependency = errors.New("nil dependency")

// Ranker scores and orders snapshot entities. Safe for concurrent use.
type Ranker struct {
	scorer             scorer.Scorer
	parallelism        int
	partitionThreshold int
	matchSecondary     bool
	cache              *lru.Cache[cacheKey, launcher.ResultSet]
	metrics            *telemetry.QueryMetrics
	logger             *slog.Logger
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithParallelism sets the number of scoring goroutines for large snapshots.
// Values below 1 are ignored.
func WithParallelism(n int) Option {
	return func(r *Ranker) {
		if n >= 1 {
			r.parallelism = n
		}
	}
}

// WithPartitionThreshold sets the snapshot size at which scoring goes parallel.
func WithPartitionThreshold(n int) Option {
	return func(r *Ranker) {
		if n >= 1 {
			r.partitionThreshold = n
		}
	}
}

// WithSecondaryText also scores Entity.Secondary when the name does not
// match. Secondary matches always rank after name matches.
func WithSecondaryText(enabled bool) Option {
	return func(r *Ranker) {
		r.matchSecondary = enabled
	}
}

// WithCache keeps up to size recent result sets keyed by snapshot.
// Zero disables caching.
func WithCache(size int) Option {
	return func(r *Ranker) {
		if size <= 0 {
			r.cache = nil
			return
		}
		r.cache, _ = lru.New[cacheKey, launcher.ResultSet](size)
	}
}

// WithMetrics records every ranking pass.
func WithMetrics(m *telemetry.QueryMetrics) Option {
	return func(r *Ranker) {
		r.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Ranker) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRanker creates a ranker around s.
func NewRanker(s scorer.Scorer, opts ...Option) (*Ranker, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: scorer is required", ErrNilDependency)
	}
	r := &Ranker{
		scorer:             s,
		parallelism:        runtime.GOMAXPROCS(0),
		partitionThreshold: DefaultPartitionThreshold,
		logger:             slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Scorer returns the scorer in use.
func (r *Ranker) Scorer() scorer.Scorer {
	return r.scorer
}

// PurgeCache drops every cached result set. Call after a catalog refresh to
// release references to superseded snapshots.
func (r *Ranker) PurgeCache() {
	if r.cache != nil {
		r.cache.Purge()
	}
}

// cacheKey identifies a ranking by the snapshot it ran over. Generations
// are per catalog, so the snapshot pointer is part of the key for rankers
// shared between catalogs.
type cacheKey struct {
	snap  *catalog.Snapshot
	mode  launcher.Mode
	text  string
	limit int
}

// ClampLimit maps a requested limit into [1, MaxLimit], with non-positive
// values becoming DefaultLimit.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Rank returns the top limit matches of q over snap.
//
// A snapshot of a different mode than the query yields an empty set. A blank
// query returns the snapshot in catalog order. The only error is the
// context's, when ctx is cancelled mid-scan.
func (r *Ranker) Rank(ctx context.Context, q launcher.Query, snap *catalog.Snapshot, limit int) (launcher.ResultSet, error) {
	start := time.Now()
	limit = ClampLimit(limit)

	rs := launcher.ResultSet{
		Sequence: q.Sequence,
		Mode:     q.Mode,
		Query:    q.Text,
	}
	if snap == nil || snap.Mode() != q.Mode {
		return rs, nil
	}
	rs.Generation = snap.Generation()

	key := cacheKey{snap: snap, mode: q.Mode, text: q.Text, limit: limit}
	cacheable := r.cache != nil && snap.Generation() != 0
	if cacheable {
		if cached, ok := r.cache.Get(key); ok {
			cached.Sequence = q.Sequence
			cached.Matches = append([]launcher.Match(nil), cached.Matches...)
			r.record(q, cached.Len(), start, true)
			return cached, nil
		}
	}

	var err error
	if strings.TrimSpace(q.Text) == "" {
		rs.Matches, rs.Total = r.baseline(snap, limit)
	} else {
		rs.Matches, rs.Total, err = r.scan(ctx, q.Text, snap, limit)
		if err != nil {
			return launcher.ResultSet{}, err
		}
	}

	if cacheable {
		stored := rs
		stored.Matches = append([]launcher.Match(nil), rs.Matches...)
		r.cache.Add(key, stored)
	}
	r.record(q, rs.Len(), start, false)
	return rs, nil
}

// baseline lists the first limit entities in catalog order.
func (r *Ranker) baseline(snap *catalog.Snapshot, limit int) ([]launcher.Match, int) {
	n := snap.Len()
	take := min(limit, n)
	base, _ := r.scorer.Score("", "")
	out := make([]launcher.Match, take)
	for i := 0; i < take; i++ {
		out[i] = launcher.Match{Entity: snap.At(i), Score: base.Score, Field: launcher.FieldName}
	}
	return out, n
}

// scan scores the whole snapshot, in partitions when it is large.
func (r *Ranker) scan(ctx context.Context, text string, snap *catalog.Snapshot, limit int) ([]launcher.Match, int, error) {
	n := snap.Len()
	parts := 1
	if r.parallelism > 1 && n >= r.partitionThreshold {
		parts = min(r.parallelism, max(2, n/max(1, r.partitionThreshold/2)))
	}

	if parts == 1 {
		top, total, err := r.scoreRange(ctx, text, snap, 0, n, limit)
		return toMatches(top), total, err
	}

	tops := make([][]candidate, parts)
	totals := make([]int, parts)
	size := (n + parts - 1) / parts

	g, gctx := errgroup.WithContext(ctx)
	for p := 0; p < parts; p++ {
		lo, hi := p*size, min((p+1)*size, n)
		if lo >= hi {
			continue
		}
		p := p
		g.Go(func() error {
			top, total, err := r.scoreRange(gctx, text, snap, lo, hi, limit)
			if err != nil {
				return err
			}
			tops[p], totals[p] = top, total
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	total := 0
	for _, t := range totals {
		total += t
	}
	r.logger.Debug("partitioned scan",
		slog.Int("entities", n),
		slog.Int("partitions", parts),
		slog.Int("matches", total))
	return toMatches(mergeSorted(tops, limit)), total, nil
}

// scoreRange scores entities [lo, hi) and returns their sorted top limit
// plus the number of matches in the range.
func (r *Ranker) scoreRange(ctx context.Context, text string, snap *catalog.Snapshot, lo, hi, limit int) ([]candidate, int, error) {
	var found []candidate
	for i := lo; i < hi; i++ {
		if (i-lo)%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}
		e := snap.At(i)
		if m, ok := r.scoreEntity(text, e); ok {
			found = append(found, candidate{match: m, index: i, nameLen: runeLen(e.Name)})
		}
	}
	sortCandidates(found)
	total := len(found)
	if len(found) > limit {
		found = found[:limit]
	}
	return found, total, nil
}

func (r *Ranker) scoreEntity(text string, e *launcher.Entity) (launcher.Match, bool) {
	if res, ok := r.scorer.Score(text, e.Name); ok {
		return launcher.Match{Entity: e, Score: res.Score, Field: launcher.FieldName, Spans: res.Spans}, true
	}
	if r.matchSecondary && e.Secondary != "" {
		if res, ok := r.scorer.Score(text, e.Secondary); ok {
			return launcher.Match{Entity: e, Score: res.Score, Field: launcher.FieldSecondary, Spans: res.Spans}, true
		}
	}
	return launcher.Match{}, false
}

func (r *Ranker) record(q launcher.Query, results int, start time.Time, cacheHit bool) {
	r.metrics.Record(telemetry.QueryEvent{
		Query:       q.Text,
		Mode:        q.Mode.String(),
		ResultCount: results,
		Latency:     time.Since(start),
		CacheHit:    cacheHit,
		Timestamp:   start,
	})
}
