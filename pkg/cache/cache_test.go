package cache

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("expected cache hit immediately after Set")
	}
	if !bytes.Equal(data, []byte("value")) {
		t.Errorf("Get data = %q, want %q", data, "value")
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache()
	_, hit, err := c.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expected miss for unknown key")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	now := time.Now()
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "key", []byte("value"), 5*time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	// Still fresh at exactly the TTL boundary.
	now = now.Add(5 * time.Minute)
	if _, hit, _ := c.Get(ctx, "key"); !hit {
		t.Error("entry at exactly ttl should still be fresh")
	}

	// One tick past the TTL the entry is evicted on read.
	now = now.Add(time.Nanosecond)
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("entry past ttl should be a miss")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after lazy eviction", c.Len())
	}
}

func TestMemoryCacheSetResetsInsertionTime(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	now := time.Now()
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "key", []byte("old"), time.Minute)
	now = now.Add(50 * time.Second)
	_ = c.Set(ctx, "key", []byte("new"), time.Minute)

	// 70s after the first Set but only 20s after the overwrite.
	now = now.Add(20 * time.Second)
	data, hit, _ := c.Get(ctx, "key")
	if !hit {
		t.Fatal("overwritten entry should be fresh from its new insertion time")
	}
	if string(data) != "new" {
		t.Errorf("Get data = %q, want %q", data, "new")
	}
}

func TestMemoryCacheZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	now := time.Now()
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "key", []byte("forever"), 0)
	now = now.Add(1000 * time.Hour)
	if _, hit, _ := c.Get(ctx, "key"); !hit {
		t.Error("ttl of 0 should never expire")
	}
}

func TestMemoryCacheClear(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	_ = c.Set(ctx, "a", []byte("1"), time.Hour)
	_ = c.Set(ctx, "b", []byte("2"), time.Hour)
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after Clear", c.Len())
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit || !bytes.Equal(data, []byte("value")) {
		t.Errorf("Get = (%q, %v), want (%q, true)", data, hit, "value")
	}
}

func TestFileCacheExpiredEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	_ = c.Set(ctx, "key", []byte("value"), time.Nanosecond)
	time.Sleep(10 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expired file entry should be a miss")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	_ = c.Set(ctx, "a", []byte("1"), time.Hour)
	_ = c.Set(ctx, "b", []byte("2"), time.Hour)
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry should be gone after Clear")
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if err := c.Clear(ctx); err != nil {
		t.Errorf("Clear error: %v", err)
	}
}

func TestKeyCanonical(t *testing.T) {
	// Same parts in the same order produce the same key.
	k1 := Key("search", "react", 25, true)
	k2 := Key("search", "react", 25, true)
	if k1 != k2 {
		t.Error("Key should be deterministic")
	}

	// Any differing part produces a different key.
	if Key("search", "react", 25, false) == k1 {
		t.Error("different parts should produce different keys")
	}
	if Key("scan", "react", 25, true) == k1 {
		t.Error("different operations should produce different keys")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}
