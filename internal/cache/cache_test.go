// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package cache

import (
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestCacheBasicOperations(t *testing.T) {
	t.Parallel()

	c := NewWithCleanup(time.Minute, 0)
	defer c.Close()

	c.Set("key1", "value1")
	c.Set("key2", 42)

	if v, ok := c.Get("key1"); !ok || v != "value1" {
		t.Errorf("Get(key1) = %v, %v, want value1, true", v, ok)
	}
	if v, ok := c.Get("key2"); !ok || v != 42 {
		t.Errorf("Get(key2) = %v, %v, want 42, true", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) found a value")
	}

	stats := c.GetStats()
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Errorf("stats = %+v, want 2 hits 1 miss", stats)
	}
	if stats.TotalKeys != 2 {
		t.Errorf("TotalKeys = %d, want 2", stats.TotalKeys)
	}
}

func TestCacheExpiration(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := NewWithCleanup(time.Minute, 0, WithClock(clock.Now))
	defer c.Close()

	c.Set("short", "v")
	c.SetWithTTL("long", "v", time.Hour)

	clock.Advance(59 * time.Second)
	if _, ok := c.Get("short"); !ok {
		t.Error("entry expired before its TTL")
	}

	clock.Advance(2 * time.Second)
	if _, ok := c.Get("short"); ok {
		t.Error("entry survived past its TTL")
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("custom TTL entry expired early")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1 after lazy eviction", c.Len())
	}
}

func TestCacheCleanupSweep(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := NewWithCleanup(time.Second, 0, WithClock(clock.Now))
	defer c.Close()

	for _, k := range []string{"a", "b", "c"} {
		c.Set(k, k)
	}
	clock.Advance(2 * time.Second)
	c.cleanup()

	if c.Len() != 0 {
		t.Errorf("Len = %d after cleanup, want 0", c.Len())
	}
	stats := c.GetStats()
	if stats.Evictions != 3 {
		t.Errorf("Evictions = %d, want 3", stats.Evictions)
	}
	if !stats.LastCleanup.Equal(clock.Now()) {
		t.Errorf("LastCleanup = %v, want %v", stats.LastCleanup, clock.Now())
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	t.Parallel()

	c := NewWithCleanup(time.Minute, 0)
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("a")
	c.Delete("never-set")

	if _, ok := c.Get("a"); ok {
		t.Error("deleted key still present")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len = %d after Clear, want 0", c.Len())
	}
	if got := c.GetStats().Evictions; got != 2 {
		t.Errorf("Evictions = %d, want 2", got)
	}
}

func TestCacheHitRate(t *testing.T) {
	t.Parallel()

	c := NewWithCleanup(time.Minute, 0)
	defer c.Close()

	if c.HitRate() != 0 {
		t.Errorf("HitRate on empty = %v, want 0", c.HitRate())
	}

	c.Set("k", 1)
	c.Get("k")
	c.Get("k")
	c.Get("k")
	c.Get("nope")

	if got := c.HitRate(); got != 75 {
		t.Errorf("HitRate = %v, want 75", got)
	}
}

func TestCacheCloseIdempotent(t *testing.T) {
	t.Parallel()

	c := NewWithCleanup(time.Minute, 10*time.Millisecond)
	c.Close()
	c.Close()

	c.Set("still", "works")
	if _, ok := c.Get("still"); !ok {
		t.Error("cache unusable after Close")
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := NewWithCleanup(time.Minute, time.Millisecond)
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := string(rune('a' + n))
			for j := 0; j < 200; j++ {
				c.Set(key, j)
				c.Get(key)
				if j%50 == 0 {
					c.Delete(key)
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestGenerateKey(t *testing.T) {
	t.Parallel()

	k1 := GenerateKey("items", map[string]string{"advertiser": "adv-1"})
	k2 := GenerateKey("items", map[string]string{"advertiser": "adv-1"})
	k3 := GenerateKey("items", map[string]string{"advertiser": "adv-2"})

	if k1 != k2 {
		t.Errorf("GenerateKey not deterministic: %s != %s", k1, k2)
	}
	if k1 == k3 {
		t.Error("GenerateKey collided for different params")
	}
	if !strings.HasPrefix(k1, "items:") {
		t.Errorf("GenerateKey = %s, want items: prefix", k1)
	}
	// 16 bytes hex encoded
	if len(k1) != len("items:")+32 {
		t.Errorf("len(GenerateKey) = %d, want %d", len(k1), len("items:")+32)
	}
}
