package cache_test

import (
	"testing"
	"time"

	"github.com/canadamade/expo-leads-api/internal/infra/cache"
)

func TestCacheSetAndGet(t *testing.T) {
	c := cache.New[string](5 * time.Minute)

	c.Set("report:flavors", "maple syrup")
	val, ok := c.Get("report:flavors")
	if !ok {
		t.Fatal("expected key to exist")
	}
	if val != "maple syrup" {
		t.Errorf("expected 'maple syrup', got %q", val)
	}
}

func TestCacheMiss(t *testing.T) {
	c := cache.New[string](5 * time.Minute)

	if _, ok := c.Get("report:never-computed"); ok {
		t.Fatal("expected miss for absent key")
	}
}

func TestCacheExpiration(t *testing.T) {
	c := cache.New[string](50 * time.Millisecond)

	c.Set("contacts:list", "snapshot")
	time.Sleep(100 * time.Millisecond)

	if _, ok := c.Get("contacts:list"); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestCacheDelete(t *testing.T) {
	c := cache.New[string](5 * time.Minute)

	c.Set("report:goals", "snapshot")
	c.Delete("report:goals")

	if _, ok := c.Get("report:goals"); ok {
		t.Fatal("expected key to be deleted")
	}
}
