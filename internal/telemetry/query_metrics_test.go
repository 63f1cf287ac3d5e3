package telemetry

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatencyToBucket(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want LatencyBucket
	}{
		{200 * time.Microsecond, BucketP1},
		{3 * time.Millisecond, BucketP5},
		{10 * time.Millisecond, BucketP16},
		{16 * time.Millisecond, BucketP50},
		{50 * time.Millisecond, BucketSlow},
		{time.Second, BucketSlow},
	}
	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, LatencyToBucket(tt.d))
		})
	}
	assert.Len(t, Buckets(), 5)
}

func TestCircularBuffer_OverwritesOldest(t *testing.T) {
	// Given: a buffer of three
	b := NewCircularBuffer[int](3)

	// When: adding five items
	for i := 1; i <= 5; i++ {
		b.Add(i)
	}

	// Then: the newest three remain, oldest first
	assert.Equal(t, []int{3, 4, 5}, b.Items())
	assert.Equal(t, 3, b.Size())
}

func TestCircularBuffer_PartialAndDefault(t *testing.T) {
	b := NewCircularBuffer[string](0)
	b.Add("a")

	assert.Equal(t, []string{"a"}, b.Items())
	assert.Empty(t, NewCircularBuffer[string](2).Items())
}

func TestQueryMetrics_Record(t *testing.T) {
	// Given: metrics and a mix of events
	m := NewQueryMetrics(DefaultConfig())
	m.Record(QueryEvent{Query: "ma", Mode: "apps", ResultCount: 2, Latency: time.Millisecond})
	m.Record(QueryEvent{Query: "ma", Mode: "apps", ResultCount: 2, CacheHit: true})
	m.Record(QueryEvent{Query: "zzz", Mode: "files", ResultCount: 0, Latency: 60 * time.Millisecond})
	m.Record(QueryEvent{Query: "", Mode: "run", ResultCount: 0})
	m.RecordStaleDrop()

	// When: snapshotting
	s := m.Snapshot()

	// Then: counters reflect the events
	assert.Equal(t, int64(4), s.TotalQueries)
	assert.Equal(t, int64(2), s.ModeCounts["apps"])
	assert.Equal(t, int64(1), s.LatencyDistribution[BucketSlow])
	assert.Equal(t, int64(1), s.ZeroResultCount, "empty query is not a zero-result query")
	assert.Equal(t, []string{"zzz"}, s.ZeroResultQueries)
	assert.Equal(t, int64(1), s.StaleDropped)
	assert.Equal(t, int64(1), s.CacheHits)
	assert.InDelta(t, 25.0, s.ZeroResultPercentage(), 0.001)
	assert.InDelta(t, 0.25, s.CacheHitRate(), 0.001)

	require.NotEmpty(t, s.TopTerms)
	assert.Equal(t, TermCount{Term: "ma", Count: 2}, s.TopTerms[0])
}

func TestQueryMetrics_TopTermsBounded(t *testing.T) {
	m := NewQueryMetrics(Config{TopTermsCapacity: 2})

	m.Record(QueryEvent{Query: "aa"})
	m.Record(QueryEvent{Query: "bb"})
	m.Record(QueryEvent{Query: "cc"})

	assert.Len(t, m.Snapshot().TopTerms, 2)
}

func TestQueryMetrics_NilIsSafe(t *testing.T) {
	var m *QueryMetrics

	assert.NotPanics(t, func() {
		m.Record(QueryEvent{Query: "x"})
		m.RecordStaleDrop()
		_ = m.Snapshot()
	})
	assert.Equal(t, 0.0, Snapshot{}.ZeroResultPercentage())
}

func TestQueryMetrics_Concurrent(t *testing.T) {
	m := NewQueryMetrics(DefaultConfig())
	var wg sync.WaitGroup

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				m.Record(QueryEvent{Query: "term", Mode: "apps", ResultCount: 1})
				m.RecordStaleDrop()
			}
		}()
	}
	wg.Wait()

	s := m.Snapshot()
	assert.Equal(t, int64(800), s.TotalQueries)
	assert.Equal(t, int64(800), s.StaleDropped)
}
