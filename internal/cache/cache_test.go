package cache

import (
	"fmt"
	"testing"
	"time"
)

// tickingClock hands out strictly increasing timestamps.
func tickingClock() func() time.Time {
	current := time.Now()
	return func() time.Time {
		current = current.Add(time.Millisecond)
		return current
	}
}

func TestGetSetRoundTrip(t *testing.T) {
	c := New[string](4, time.Minute)
	c.Set("a", "alpha", 5)

	value, ok := c.Get("a")
	if !ok {
		t.Fatal("Expected cache hit")
	}
	if value != "alpha" {
		t.Errorf("Expected 'alpha', got '%s'", value)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("Expected miss for unknown key")
	}
}

func TestEvictsLowestAccessCountFirst(t *testing.T) {
	c := New[int](3, time.Minute)
	c.now = tickingClock()

	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	c.Set("c", 3, 0)

	// Touch everything except "b" so it has the lowest access count.
	c.Get("a")
	c.Get("c")

	c.Set("d", 4, 0)

	if _, ok := c.Get("b"); ok {
		t.Error("Least-accessed entry 'b' should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("Accessed entry 'a' should survive eviction")
	}
	if _, ok := c.Get("d"); !ok {
		t.Error("Newly inserted entry 'd' should be present")
	}
}

func TestEvictionTiesBreakByAge(t *testing.T) {
	c := New[int](2, time.Minute)
	c.now = tickingClock()

	c.Set("old", 1, 0)
	c.Set("new", 2, 0)
	// Both untouched: the older insert loses.
	c.Set("next", 3, 0)

	if _, ok := c.Get("old"); ok {
		t.Error("Oldest of the tied entries should have been evicted")
	}
	if _, ok := c.Get("new"); !ok {
		t.Error("Younger tied entry should survive")
	}
}

func TestAccessProtectsFromEviction(t *testing.T) {
	c := New[int](2, time.Minute)
	c.now = tickingClock()

	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	c.Get("a")

	c.Set("c", 3, 0)
	if _, ok := c.Get("a"); !ok {
		t.Error("Accessing an entry should make it less likely to be evicted")
	}
}

func TestTTLExpiry(t *testing.T) {
	c := New[int](10, time.Minute)
	clock := time.Now()
	c.now = func() time.Time { return clock }

	c.Set("a", 1, 0)

	clock = clock.Add(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Error("Expired entry should not be served")
	}

	stats := c.Stats()
	if stats.Expirations != 1 {
		t.Errorf("Expected 1 expiration, got %d", stats.Expirations)
	}
}

func TestSweepRemovesExpiredRegardlessOfCapacity(t *testing.T) {
	c := New[int](100, time.Minute)
	clock := time.Now()
	c.now = func() time.Time { return clock }

	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("key-%d", i), i, 0)
	}

	clock = clock.Add(2 * time.Minute)
	c.Set("fresh", 99, 0)

	if removed := c.Sweep(); removed != 5 {
		t.Errorf("Expected 5 swept entries, got %d", removed)
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Error("Fresh entry should survive the sweep")
	}
}

func TestShrink(t *testing.T) {
	c := New[int](10, time.Minute)
	c.now = tickingClock()

	for i := 0; i < 10; i++ {
		c.Set(fmt.Sprintf("key-%d", i), i, 0)
	}

	removed := c.Shrink(0.5)
	if removed != 5 {
		t.Errorf("Expected 5 evictions, got %d", removed)
	}
	if c.Len() != 5 {
		t.Errorf("Expected 5 remaining entries, got %d", c.Len())
	}
}

func TestStats(t *testing.T) {
	c := New[string](2, time.Minute)
	c.now = tickingClock()

	c.Set("a", "x", 100)
	c.Get("a")
	c.Get("missing")
	c.Set("b", "y", 50)
	c.Set("c", "z", 25)

	stats := c.Stats()
	if stats.Hits != 1 {
		t.Errorf("Expected 1 hit, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Expected 1 miss, got %d", stats.Misses)
	}
	if stats.Evictions != 1 {
		t.Errorf("Expected 1 eviction, got %d", stats.Evictions)
	}
	if stats.Entries != 2 {
		t.Errorf("Expected 2 entries, got %d", stats.Entries)
	}
}
