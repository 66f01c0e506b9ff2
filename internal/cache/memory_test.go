package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestNewShardedCache(t *testing.T) {
	tests := []struct {
		name       string
		numShards  int
		wantShards int
	}{
		{name: "default shards when zero", numShards: 0, wantShards: 16},
		{name: "default shards when negative", numShards: -1, wantShards: 16},
		{name: "rounds up to power of 2", numShards: 3, wantShards: 4},
		{name: "exact power of 2", numShards: 8, wantShards: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewShardedCache(100, time.Minute, tt.numShards)
			defer c.Stop()

			assert.Len(t, c.shards, tt.wantShards)
			assert.Equal(t, uint64(tt.wantShards-1), c.shardMask)
		})
	}
}

func TestShardedCache_GetSetInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewShardedCache(64, time.Minute, 4)
	defer c.Stop()

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	c.Set(ctx, "GRU-LIS-2025-06-01", []byte(`{"solutions":[]}`))
	got, ok := c.Get(ctx, "GRU-LIS-2025-06-01")
	require.True(t, ok)
	assert.Equal(t, `{"solutions":[]}`, string(got))

	c.Set(ctx, "GRU-LIS-2025-06-01", []byte(`{"solutions":[1]}`))
	got, _ = c.Get(ctx, "GRU-LIS-2025-06-01")
	assert.Equal(t, `{"solutions":[1]}`, string(got))

	c.Invalidate(ctx, "GRU-LIS-2025-06-01")
	_, ok = c.Get(ctx, "GRU-LIS-2025-06-01")
	assert.False(t, ok)

	m := c.Metrics()
	assert.Equal(t, int64(2), m.Hits)
	assert.Equal(t, int64(2), m.Misses)
	assert.Equal(t, 0, m.Size)
	assert.Equal(t, 64, m.Capacity)
}

func TestShardedCache_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := NewShardedCache(8, time.Minute, 1)
	defer c.Stop()

	value := []byte("abc")
	c.Set(ctx, "k", value)
	value[0] = 'X'

	got, _ := c.Get(ctx, "k")
	assert.Equal(t, "abc", string(got))

	got[1] = 'Y'
	again, _ := c.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestShardedCache_Clear(t *testing.T) {
	ctx := context.Background()
	c := NewShardedCache(64, time.Minute, 4)
	defer c.Stop()

	for i := range 10 {
		c.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"))
	}
	require.Equal(t, 10, c.Metrics().Size)

	c.Clear(ctx)
	assert.Equal(t, Metrics{Capacity: 64}, c.Metrics())
}

func TestLRUShard_EvictsLeastRecentlyUsed(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	s := newLRUShard(2, time.Minute, clock.now)
	defer s.stop()

	s.set("a", []byte("1"))
	s.set("b", []byte("2"))
	_, ok := s.get("a")
	require.True(t, ok)

	s.set("c", []byte("3"))

	_, ok = s.get("b")
	assert.False(t, ok, "b was least recently used")
	_, ok = s.get("a")
	assert.True(t, ok)
	_, ok = s.get("c")
	assert.True(t, ok)
	assert.Equal(t, int64(1), s.metrics().Evictions)
}

func TestLRUShard_Expiry(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	s := newLRUShard(4, time.Minute, clock.now)
	defer s.stop()

	s.set("a", []byte("1"))
	s.set("b", []byte("2"))

	clock.advance(30 * time.Second)
	_, ok := s.get("a")
	assert.True(t, ok)

	clock.advance(31 * time.Second)
	_, ok = s.get("a")
	assert.False(t, ok)

	s.removeExpired()
	assert.Equal(t, 0, s.metrics().Size)
}

func TestLRUShard_StopIsIdempotent(t *testing.T) {
	s := newLRUShard(1, time.Minute, time.Now)
	s.stop()
	assert.NotPanics(t, s.stop)
}

func TestShardedCache_Concurrent(t *testing.T) {
	ctx := context.Background()
	c := NewShardedCache(1000, time.Minute, 16)
	defer c.Stop()

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				key := fmt.Sprintf("g%d-%d", g, i%10)
				c.Set(ctx, key, []byte(key))
				if got, ok := c.Get(ctx, key); ok {
					assert.Equal(t, key, string(got))
				}
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Metrics().Size, 80)
}
