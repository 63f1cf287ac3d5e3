// Package telemetry keeps in-memory counters about launcher queries:
// per-mode volume, ranking latency, zero-result queries, stale results that
// were dropped, and ranker cache effectiveness. Nothing is persisted.
package telemetry

import (
	"sort"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// =============================================================================
// Latency buckets
// =============================================================================

// LatencyBucket names a ranking latency range.
type LatencyBucket string

const (
	BucketP1   LatencyBucket = "p1"   // <1ms
	BucketP5   LatencyBucket = "p5"   // 1-5ms
	BucketP16  LatencyBucket = "p16"  // 5-16ms, one frame
	BucketP50  LatencyBucket = "p50"  // 16-50ms
	BucketSlow LatencyBucket = "slow" // >=50ms, over the keystroke budget
)

// Buckets lists the latency buckets in ascending order.
func Buckets() []LatencyBucket {
	return []LatencyBucket{BucketP1, BucketP5, BucketP16, BucketP50, BucketSlow}
}

// LatencyToBucket maps a duration to its bucket.
func LatencyToBucket(d time.Duration) LatencyBucket {
	switch {
	case d < time.Millisecond:
		return BucketP1
	case d < 5*time.Millisecond:
		return BucketP5
	case d < 16*time.Millisecond:
		return BucketP16
	case d < 50*time.Millisecond:
		return BucketP50
	default:
		return BucketSlow
	}
}

// =============================================================================
// Events
// =============================================================================

// QueryEvent describes one completed ranking pass.
type QueryEvent struct {
	Query       string
	Mode        string
	ResultCount int
	Latency     time.Duration
	CacheHit    bool
	Timestamp   time.Time
}

// IsZeroResult reports whether a non-empty query found nothing.
func (e QueryEvent) IsZeroResult() bool {
	return e.ResultCount == 0 && strings.TrimSpace(e.Query) != ""
}

// =============================================================================
// Circular buffer
// =============================================================================

// CircularBuffer is a fixed-capacity FIFO that overwrites its oldest item.
type CircularBuffer[T any] struct {
	items    []T
	head     int // next write position
	size     int
	capacity int
	mu       sync.RWMutex
}

// NewCircularBuffer creates a buffer. Non-positive capacity becomes 100.
func NewCircularBuffer[T any](capacity int) *CircularBuffer[T] {
	if capacity <= 0 {
		capacity = 100
	}
	return &CircularBuffer[T]{
		items:    make([]T, capacity),
		capacity: capacity,
	}
}

// Add appends item, evicting the oldest when full.
func (b *CircularBuffer[T]) Add(item T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items[b.head] = item
	b.head = (b.head + 1) % b.capacity
	if b.size < b.capacity {
		b.size++
	}
}

// Items returns the buffered items, oldest first.
func (b *CircularBuffer[T]) Items() []T {
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := make([]T, b.size)
	if b.size < b.capacity {
		copy(result, b.items[:b.size])
	} else {
		n := copy(result, b.items[b.head:])
		copy(result[n:], b.items[:b.head])
	}
	return result
}

// Size returns the number of buffered items.
func (b *CircularBuffer[T]) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// =============================================================================
// Query metrics
// =============================================================================

// TermCount is one entry of the top-terms list.
type TermCount struct {
	Term  string `json:"term"`
	Count int64  `json:"count"`
}

// Snapshot is a point-in-time copy of the metrics.
type Snapshot struct {
	TotalQueries        int64                   `json:"total_queries"`
	ModeCounts          map[string]int64        `json:"mode_counts"`
	LatencyDistribution map[LatencyBucket]int64 `json:"latency_distribution"`
	ZeroResultCount     int64                   `json:"zero_result_count"`
	ZeroResultQueries   []string                `json:"zero_result_queries"`
	TopTerms            []TermCount             `json:"top_terms"`
	StaleDropped        int64                   `json:"stale_dropped"`
	CacheHits           int64                   `json:"cache_hits"`
	Since               time.Time               `json:"since"`
}

// ZeroResultPercentage returns zero-result queries as a percentage of all queries.
func (s Snapshot) ZeroResultPercentage() float64 {
	if s.TotalQueries == 0 {
		return 0
	}
	return float64(s.ZeroResultCount) / float64(s.TotalQueries) * 100
}

// CacheHitRate returns the fraction of queries served from the result cache.
func (s Snapshot) CacheHitRate() float64 {
	if s.TotalQueries == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(s.TotalQueries)
}

// Config bounds the memory used by QueryMetrics.
type Config struct {
	TopTermsCapacity    int // default 100
	ZeroResultsCapacity int // default 50
}

// DefaultConfig returns the default bounds.
func DefaultConfig() Config {
	return Config{TopTermsCapacity: 100, ZeroResultsCapacity: 50}
}

// QueryMetrics aggregates QueryEvents. Safe for concurrent use; a nil
// *QueryMetrics ignores every call.
type QueryMetrics struct {
	mu sync.Mutex

	total        int64
	modes        map[string]int64
	latencies    map[LatencyBucket]int64
	zeroCount    int64
	zeroResults  *CircularBuffer[string]
	topTerms     *lru.Cache[string, int64]
	staleDropped int64
	cacheHits    int64
	since        time.Time
}

// NewQueryMetrics creates metrics with cfg, filling zero fields with defaults.
func NewQueryMetrics(cfg Config) *QueryMetrics {
	def := DefaultConfig()
	if cfg.TopTermsCapacity <= 0 {
		cfg.TopTermsCapacity = def.TopTermsCapacity
	}
	if cfg.ZeroResultsCapacity <= 0 {
		cfg.ZeroResultsCapacity = def.ZeroResultsCapacity
	}

	topTerms, _ := lru.New[string, int64](cfg.TopTermsCapacity)
	return &QueryMetrics{
		modes:       make(map[string]int64),
		latencies:   make(map[LatencyBucket]int64),
		zeroResults: NewCircularBuffer[string](cfg.ZeroResultsCapacity),
		topTerms:    topTerms,
		since:       time.Now(),
	}
}

// Record adds one ranking pass.
func (m *QueryMetrics) Record(e QueryEvent) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total++
	m.modes[e.Mode]++
	m.latencies[LatencyToBucket(e.Latency)]++
	if e.CacheHit {
		m.cacheHits++
	}
	if e.IsZeroResult() {
		m.zeroCount++
		m.zeroResults.Add(e.Query)
	}
	if term := normalizeTerm(e.Query); term != "" {
		count, _ := m.topTerms.Get(term)
		m.topTerms.Add(term, count+1)
	}
}

// RecordStaleDrop counts a finished ranking discarded because a newer query
// superseded it.
func (m *QueryMetrics) RecordStaleDrop() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.staleDropped++
	m.mu.Unlock()
}

// Snapshot returns a copy of the current metrics. TopTerms is sorted by
// count descending, then term.
func (m *QueryMetrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Snapshot{
		TotalQueries:        m.total,
		ModeCounts:          make(map[string]int64, len(m.modes)),
		LatencyDistribution: make(map[LatencyBucket]int64, len(m.latencies)),
		ZeroResultCount:     m.zeroCount,
		ZeroResultQueries:   m.zeroResults.Items(),
		StaleDropped:        m.staleDropped,
		CacheHits:           m.cacheHits,
		Since:               m.since,
	}
	for k, v := range m.modes {
		s.ModeCounts[k] = v
	}
	for k, v := range m.latencies {
		s.LatencyDistribution[k] = v
	}
	for _, term := range m.topTerms.Keys() {
		if count, ok := m.topTerms.Peek(term); ok {
			s.TopTerms = append(s.TopTerms, TermCount{Term: term, Count: count})
		}
	}
	sort.Slice(s.TopTerms, func(i, j int) bool {
		if s.TopTerms[i].Count != s.TopTerms[j].Count {
			return s.TopTerms[i].Count > s.TopTerms[j].Count
		}
		return s.TopTerms[i].Term < s.TopTerms[j].Term
	})
	return s
}

// normalizeTerm keys a query for the top-terms list. Queries under two
// characters are mostly intermediate keystrokes and are not tracked.
func normalizeTerm(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	if len([]rune(q)) < 2 {
		return ""
	}
	return q
}
