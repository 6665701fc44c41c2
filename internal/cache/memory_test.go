package cache

import (
	"testing"
	"time"
)

func newTestMemoryCache(t *testing.T, size int, ttl time.Duration) Cache {
	t.Helper()
	c, err := New("memory", ProviderConfig{Size: size, TTL: ttl})
	if err != nil {
		t.Fatalf("New memory cache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestMemoryCache_GetSet(t *testing.T) {
	c := newTestMemoryCache(t, 10, time.Hour)

	val, ok := c.Get("key1")
	if ok {
		t.Fatal("Expected a miss before any Set")
	}
	if val != nil {
		t.Fatalf("Expected nil value on miss, got %v", val)
	}

	c.Set("key1", []byte("value1"))
	val, ok = c.Get("key1")
	if !ok {
		t.Fatal("Expected a hit after Set")
	}
	if string(val) != "value1" {
		t.Fatalf("Expected value1, got %s", string(val))
	}
}

func TestMemoryCache_Overwrite(t *testing.T) {
	c := newTestMemoryCache(t, 10, time.Hour)

	c.Set("key", []byte("v1"))
	c.Set("key", []byte("v2"))

	val, ok := c.Get("key")
	if !ok {
		t.Fatal("Expected a hit")
	}
	if string(val) != "v2" {
		t.Fatalf("Expected the second value, got %s", string(val))
	}
	if c.Len() != 1 {
		t.Fatalf("Expected Len 1 after overwrite, got %d", c.Len())
	}
}

func TestMemoryCache_Contains(t *testing.T) {
	c := newTestMemoryCache(t, 10, time.Hour)

	if c.Contains("absent") {
		t.Fatal("Expected absent key to not be contained")
	}

	c.Set("present", []byte("data"))
	if !c.Contains("present") {
		t.Fatal("Expected present key to be contained")
	}
}

func TestMemoryCache_Len(t *testing.T) {
	c := newTestMemoryCache(t, 10, time.Hour)

	if c.Len() != 0 {
		t.Fatalf("Expected Len 0 on a fresh cache, got %d", c.Len())
	}

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	if c.Len() != 2 {
		t.Fatalf("Expected Len 2, got %d", c.Len())
	}
}

func TestMemoryCache_CapacityEviction(t *testing.T) {
	evictedKeys := make([]string, 0)
	onEvict := func(key string, _ []byte) {
		evictedKeys = append(evictedKeys, key)
	}

	c, err := New("memory", ProviderConfig{Size: 2, TTL: time.Hour, OnEvict: onEvict})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	c.Set("c", []byte("3")) // over capacity, drops the oldest

	if len(evictedKeys) != 1 || evictedKeys[0] != "a" {
		t.Fatalf("Expected 'a' to be evicted, got %v", evictedKeys)
	}
	if c.Contains("a") {
		t.Fatal("Evicted key 'a' should not be present")
	}
	if !c.Contains("b") || !c.Contains("c") {
		t.Fatal("Keys 'b' and 'c' should still be present")
	}
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	c := newTestMemoryCache(t, 10, 25*time.Millisecond)

	c.Set("short-lived", []byte("data"))
	if _, ok := c.Get("short-lived"); !ok {
		t.Fatal("Expected a hit right after Set")
	}

	time.Sleep(100 * time.Millisecond)

	if _, ok := c.Get("short-lived"); ok {
		t.Fatal("Expected a miss after the TTL passed")
	}
}

func TestMemoryCache_Close(t *testing.T) {
	c, err := New("memory", ProviderConfig{Size: 10, TTL: time.Hour})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
