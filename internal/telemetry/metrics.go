// Package telemetry keeps in-memory counters about anagram lookups.
// Nothing is persisted or reported anywhere; the numbers are exposed through
// the daemon status call and the dictionary_status MCP tool.
package telemetry

import (
	"cmp"
	"maps"
	"slices"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LatencyBucket is a lookup latency histogram bucket.
type LatencyBucket string

const (
	BucketUnder10us  LatencyBucket = "lt_10us"
	BucketUnder100us LatencyBucket = "lt_100us"
	BucketUnder1ms   LatencyBucket = "lt_1ms"
	BucketUnder10ms  LatencyBucket = "lt_10ms"
	BucketSlow       LatencyBucket = "ge_10ms"
)

// Buckets lists the latency buckets from fastest to slowest.
var Buckets = []LatencyBucket{BucketUnder10us, BucketUnder100us, BucketUnder1ms, BucketUnder10ms, BucketSlow}

// LatencyToBucket maps a lookup duration to its bucket.
func LatencyToBucket(d time.Duration) LatencyBucket {
	switch {
	case d < 10*time.Microsecond:
		return BucketUnder10us
	case d < 100*time.Microsecond:
		return BucketUnder100us
	case d < time.Millisecond:
		return BucketUnder1ms
	case d < 10*time.Millisecond:
		return BucketUnder10ms
	default:
		return BucketSlow
	}
}

// LookupEvent describes one answered lookup.
type LookupEvent struct {
	Query   string
	Key     string
	Results int
	Latency time.Duration
}

// KeyCount is a canonical key and how often it was looked up.
type KeyCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	TotalLookups      int64                   `json:"total_lookups"`
	ZeroResultCount   int64                   `json:"zero_result_count"`
	ZeroResultQueries []string                `json:"zero_result_queries"`
	TopKeys           []KeyCount              `json:"top_keys"`
	Latency           map[LatencyBucket]int64 `json:"latency"`
	Since             time.Time               `json:"since"`
}

// ZeroResultPercentage returns the share of lookups that found nothing.
func (s Snapshot) ZeroResultPercentage() float64 {
	if s.TotalLookups == 0 {
		return 0
	}
	return float64(s.ZeroResultCount) / float64(s.TotalLookups) * 100
}

// Config sizes the bounded structures.
type Config struct {
	// TopKeys bounds how many distinct canonical keys are counted; the least
	// recently seen key is dropped first.
	TopKeys int
	// ZeroResults bounds the recent zero-result query buffer.
	ZeroResults int
}

// Metrics collects lookup telemetry. It sits beside the index, never inside
// it: the index read path stays lock-free and Record takes its own mutex.
type Metrics struct {
	mu          sync.Mutex
	topKeys     *lru.Cache[string, int64]
	zeroResults *CircularBuffer[string]
	latency     map[LatencyBucket]int64
	total       int64
	zeroCount   int64
	since       time.Time
}

// New creates a collector. Non-positive sizes default to 100.
func New(cfg Config) *Metrics {
	if cfg.TopKeys <= 0 {
		cfg.TopKeys = 100
	}
	if cfg.ZeroResults <= 0 {
		cfg.ZeroResults = 100
	}
	topKeys, _ := lru.New[string, int64](cfg.TopKeys)

	return &Metrics{
		topKeys:     topKeys,
		zeroResults: NewCircularBuffer[string](cfg.ZeroResults),
		latency:     make(map[LatencyBucket]int64),
		since:       time.Now(),
	}
}

// Record adds one lookup. A nil *Metrics ignores the call.
func (m *Metrics) Record(ev LookupEvent) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total++
	m.latency[LatencyToBucket(ev.Latency)]++

	if ev.Key != "" {
		count, _ := m.topKeys.Get(ev.Key)
		m.topKeys.Add(ev.Key, count+1)
	}
	if ev.Results == 0 {
		m.zeroCount++
		m.zeroResults.Add(ev.Query)
	}
}

// Snapshot copies the current counters. TopKeys is ordered by count
// descending, then key.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{ZeroResultQueries: []string{}, TopKeys: []KeyCount{}, Latency: map[LatencyBucket]int64{}}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	top := make([]KeyCount, 0, m.topKeys.Len())
	for _, k := range m.topKeys.Keys() {
		if c, ok := m.topKeys.Peek(k); ok {
			top = append(top, KeyCount{Key: k, Count: c})
		}
	}
	slices.SortFunc(top, func(a, b KeyCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})

	return Snapshot{
		TotalLookups:      m.total,
		ZeroResultCount:   m.zeroCount,
		ZeroResultQueries: m.zeroResults.Items(),
		TopKeys:           top,
		Latency:           maps.Clone(m.latency),
		Since:             m.since,
	}
}

// Reset clears every counter.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.topKeys.Purge()
	m.zeroResults.Clear()
	clear(m.latency)
	m.total = 0
	m.zeroCount = 0
	m.since = time.Now()
}
