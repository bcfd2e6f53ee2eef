package cache

import (
	"testing"
	"time"
)

func TestLRUCache_GetSet(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("empty cache should miss")
	}

	c.Set("a", "1")
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("Get(a) = %q, %v", v, ok)
	}

	c.Set("a", "2")
	if v, _ := c.Get("a"); v != "2" {
		t.Fatalf("Set should overwrite, got %q", v)
	}
	if c.Size() != 1 {
		t.Fatalf("Size = %d, want 1", c.Size())
	}
}

func TestLRUCache_Eviction(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	// Touch "a" so "b" becomes the eviction candidate.
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("least recently used entry should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("recently used entry should survive")
	}
	if c.Size() != 2 {
		t.Fatalf("Size = %d, want 2", c.Size())
	}
}

func TestLRUCache_TTL(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)
	c.Set("a", 1)

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Fatal("expired entry should miss")
	}
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)
	if removed := c.CleanExpired(); removed != 1 {
		t.Fatalf("CleanExpired = %d, want 1", removed)
	}
}

func TestLRUCache_Delete(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)
	c.Set("a", 1)
	c.Delete("a")
	c.Delete("a") // deleting twice is fine
	if _, ok := c.Get("a"); ok {
		t.Fatal("deleted entry should miss")
	}
}
