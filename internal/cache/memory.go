package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/guttosm/fare-offer-service/internal/metrics"
)

const defaultShards = 16

// ShardedCache is an in-memory LRU cache with TTL expiry. Keys are spread
// across shards to reduce lock contention.
type ShardedCache struct {
	shards    []*lruShard
	shardMask uint64
}

// NewShardedCache creates a sharded cache. numShards is rounded up to a
// power of two; zero or negative selects the default.
func NewShardedCache(capacity int, ttl time.Duration, numShards int) *ShardedCache {
	if numShards <= 0 {
		numShards = defaultShards
	}
	n := 1
	for n < numShards {
		n *= 2
	}

	perShard := max(capacity/n, 1)
	shards := make([]*lruShard, n)
	for i := range shards {
		shards[i] = newLRUShard(perShard, ttl, time.Now)
	}

	return &ShardedCache{shards: shards, shardMask: uint64(n - 1)}
}

func (sc *ShardedCache) shard(key string) *lruShard {
	return sc.shards[xxhash.Sum64String(key)&sc.shardMask]
}

// Get returns a copy of the cached payload.
func (sc *ShardedCache) Get(_ context.Context, key string) ([]byte, bool) {
	return sc.shard(key).get(key)
}

// Set stores a copy of value under key.
func (sc *ShardedCache) Set(_ context.Context, key string, value []byte) {
	sc.shard(key).set(key, value)
}

// Invalidate removes key.
func (sc *ShardedCache) Invalidate(_ context.Context, key string) {
	sc.shard(key).invalidate(key)
}

// Clear removes every entry.
func (sc *ShardedCache) Clear(_ context.Context) {
	for _, s := range sc.shards {
		s.clear()
	}
	metrics.RecordCacheOperation("clear", "success")
}

// Stop shuts down the cleanup goroutines.
func (sc *ShardedCache) Stop() {
	for _, s := range sc.shards {
		s.stop()
	}
}

// Metrics aggregates shard metrics.
func (sc *ShardedCache) Metrics() Metrics {
	var total Metrics
	for _, s := range sc.shards {
		m := s.metrics()
		total.Hits += m.Hits
		total.Misses += m.Misses
		total.Evictions += m.Evictions
		total.Size += m.Size
		total.Capacity += m.Capacity
	}
	metrics.UpdateCacheMetrics(total.Size, total.Capacity)
	return total
}

type lruEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
	prev      *lruEntry
	next      *lruEntry
}

// lruShard is a doubly linked LRU list plus an index, guarded by one mutex.
type lruShard struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	now      func() time.Time
	items    map[string]*lruEntry
	head     *lruEntry
	tail     *lruEntry
	stopCh   chan struct{}
	stopOnce sync.Once

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

func newLRUShard(capacity int, ttl time.Duration, now func() time.Time) *lruShard {
	s := &lruShard{
		capacity: capacity,
		ttl:      ttl,
		now:      now,
		items:    make(map[string]*lruEntry, capacity),
		stopCh:   make(chan struct{}),
	}
	go s.cleanupLoop()
	return s
}

func (s *lruShard) get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.items[key]
	if !ok {
		s.misses.Add(1)
		metrics.RecordCacheOperation("get", "miss")
		return nil, false
	}
	if s.now().After(entry.expiresAt) {
		s.removeEntry(entry)
		s.misses.Add(1)
		metrics.RecordCacheOperation("get", "expired")
		return nil, false
	}

	s.moveToFront(entry)
	s.hits.Add(1)
	metrics.RecordCacheOperation("get", "hit")
	return clone(entry.value), true
}

func (s *lruShard) set(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt := s.now().Add(s.ttl)
	if entry, ok := s.items[key]; ok {
		entry.value = clone(value)
		entry.expiresAt = expiresAt
		s.moveToFront(entry)
		metrics.RecordCacheOperation("set", "success")
		return
	}

	entry := &lruEntry{key: key, value: clone(value), expiresAt: expiresAt}
	s.items[key] = entry
	s.addToFront(entry)

	if len(s.items) > s.capacity {
		s.removeEntry(s.tail)
		s.evictions.Add(1)
		metrics.RecordCacheOperation("evict", "capacity")
	}
	metrics.RecordCacheOperation("set", "success")
}

func (s *lruShard) invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.items[key]; ok {
		s.removeEntry(entry)
		metrics.RecordCacheOperation("invalidate", "success")
	}
}

func (s *lruShard) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]*lruEntry, s.capacity)
	s.head, s.tail = nil, nil
	s.hits.Store(0)
	s.misses.Store(0)
	s.evictions.Store(0)
}

func (s *lruShard) stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *lruShard) metrics() Metrics {
	s.mu.Lock()
	size := len(s.items)
	s.mu.Unlock()

	return Metrics{
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
		Evictions: s.evictions.Load(),
		Size:      size,
		Capacity:  s.capacity,
	}
}

// cleanupLoop drops expired entries once a minute while the shard is
// more than 80% full.
func (s *lruShard) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			if len(s.items) > s.capacity*80/100 {
				s.removeExpired()
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}

func (s *lruShard) removeExpired() {
	current := s.now()
	for _, entry := range s.items {
		if current.After(entry.expiresAt) {
			s.removeEntry(entry)
		}
	}
}

func (s *lruShard) removeEntry(entry *lruEntry) {
	delete(s.items, entry.key)
	s.unlink(entry)
}

func (s *lruShard) moveToFront(entry *lruEntry) {
	if entry == s.head {
		return
	}
	s.unlink(entry)
	s.addToFront(entry)
}

func (s *lruShard) addToFront(entry *lruEntry) {
	entry.prev = nil
	entry.next = s.head
	if s.head != nil {
		s.head.prev = entry
	}
	s.head = entry
	if s.tail == nil {
		s.tail = entry
	}
}

func (s *lruShard) unlink(entry *lruEntry) {
	if entry.prev != nil {
		entry.prev.next = entry.next
	} else {
		s.head = entry.next
	}
	if entry.next != nil {
		entry.next.prev = entry.prev
	} else {
		s.tail = entry.prev
	}
	entry.prev, entry.next = nil, nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
