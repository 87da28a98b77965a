package service

import (
	"testing"
	"time"

	"github.com/LiuTengYing/AI-Support-Widget/internal/models"
)

func TestSearchCacheExpiry(t *testing.T) {
	now := time.Now()
	cache := newSearchCache(5 * time.Minute)
	cache.now = func() time.Time { return now }

	key := cacheKey("firmware", models.Actor{ID: 1})
	cache.Put(key, []models.SearchResult{{Title: "hit"}})

	if _, ok := cache.Get(key); !ok {
		t.Fatal("Expected a fresh entry to be served")
	}

	now = now.Add(5*time.Minute + time.Second)
	if _, ok := cache.Get(key); ok {
		t.Error("Expected the entry to expire after the TTL")
	}
}

func TestSearchCacheEvictsExpiredEntries(t *testing.T) {
	now := time.Now()
	cache := newSearchCache(5 * time.Minute)
	cache.now = func() time.Time { return now }

	for i := 0; i < 100; i++ {
		cache.Put(cacheKey("query", models.Actor{ID: int64(i)}), []models.SearchResult{{Title: "hit"}})
	}
	if len(cache.entries) != 100 {
		t.Fatalf("Expected 100 entries seeded, got %d", len(cache.entries))
	}

	now = now.Add(24 * time.Hour)

	// An expired Get removes the entry instead of leaving it behind.
	key := cacheKey("query", models.Actor{ID: 7})
	if _, ok := cache.Get(key); ok {
		t.Fatal("Expected an expired entry to miss")
	}
	if _, present := cache.entries[key]; present {
		t.Error("Expected the expired entry deleted on Get")
	}

	// A Put sweeps every other expired entry.
	cache.Put(cacheKey("fresh", models.Actor{ID: 1}), []models.SearchResult{{Title: "fresh"}})
	if len(cache.entries) != 1 {
		t.Errorf("Expected only the fresh entry to remain, got %d entries", len(cache.entries))
	}
}

func TestSearchCacheMiss(t *testing.T) {
	cache := newSearchCache(time.Minute)
	if _, ok := cache.Get("absent"); ok {
		t.Error("Expected a miss for an unknown key")
	}
}
