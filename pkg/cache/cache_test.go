package cache

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// LayoutKey should include options in hash
	lk1 := k.LayoutKey("hash123", LayoutKeyOpts{NodeSeparation: 12, Seed: 42})
	lk2 := k.LayoutKey("hash123", LayoutKeyOpts{NodeSeparation: 20, Seed: 42})
	if lk1 == lk2 {
		t.Error("Different LayoutKeyOpts should produce different keys")
	}
	lk3 := k.LayoutKey("hash123", LayoutKeyOpts{NodeSeparation: 12, Seed: 43})
	if lk1 == lk3 {
		t.Error("Different seeds should produce different keys")
	}
	lk4 := k.LayoutKey("hash999", LayoutKeyOpts{NodeSeparation: 12, Seed: 42})
	if lk1 == lk4 {
		t.Error("Different graph hashes should produce different keys")
	}
	if !strings.HasPrefix(lk1, "layout:") {
		t.Errorf("LayoutKey should carry the layout prefix: %s", lk1)
	}

	// ArtifactKey
	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(ak1, "artifact:") {
		t.Errorf("ArtifactKey should carry the artifact prefix: %s", ak1)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "proj:abc:")

	lk := scoped.LayoutKey("hash", LayoutKeyOpts{})
	if !strings.HasPrefix(lk, "proj:abc:layout:") {
		t.Errorf("scoped LayoutKey missing prefix: %s", lk)
	}

	ak := scoped.ArtifactKey("hash", ArtifactKeyOpts{Format: "svg"})
	if !strings.HasPrefix(ak, "proj:abc:artifact:") {
		t.Errorf("scoped ArtifactKey missing prefix: %s", ak)
	}

	// Nil inner falls back to the default keyer.
	fallback := NewScopedKeyer(nil, "p:")
	if !strings.HasPrefix(fallback.LayoutKey("h", LayoutKeyOpts{}), "p:layout:") {
		t.Error("nil inner should use the default keyer")
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	// Miss before Set
	_, hit, err := c.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expected miss before Set")
	}

	// Set then Get
	if err := c.Set(ctx, "key1", []byte("payload"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if string(data) != "payload" {
		t.Errorf("data = %q, want payload", data)
	}

	// Delete
	if err := c.Delete(ctx, "key1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "key1")
	if hit {
		t.Error("expected miss after Delete")
	}

	// Deleting a missing key is not an error
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete missing key error: %v", err)
	}
}

func TestFileCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	// Entry with an already-elapsed TTL is treated as a miss.
	if err := c.Set(ctx, "key", []byte("old"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(time.Millisecond)
	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expired entry should be a miss")
	}
}

func TestFileCacheClearAndSize(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	fc := store.(*FileCache)

	for _, key := range []string{"a", "b", "c"} {
		if err := fc.Set(ctx, key, []byte("data"), 0); err != nil {
			t.Fatalf("Set %s: %v", key, err)
		}
	}

	count, bytes, err := fc.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
	if bytes == 0 {
		t.Error("bytes should be non-zero")
	}

	if err := fc.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	count, _, err = fc.Size()
	if err != nil {
		t.Fatalf("Size after Clear: %v", err)
	}
	if count != 0 {
		t.Errorf("count after Clear = %d, want 0", count)
	}
}
