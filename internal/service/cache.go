package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/LiuTengYing/AI-Support-Widget/internal/models"
)

type cacheEntry struct {
	results []models.SearchResult
	expires time.Time
}

// searchCache is a thread-safe in-memory cache of forum search results,
// keyed per (query, actor). Concurrent writers may race on the same key;
// the worst case is a duplicate Put, never corruption.
type searchCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func newSearchCache(ttl time.Duration) *searchCache {
	return &searchCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func cacheKey(query string, actor models.Actor) string {
	return fmt.Sprintf("%d:%s", actor.ID, query)
}

func (c *searchCache) Get(key string) ([]models.SearchResult, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.now().After(e.expires) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Put may have
		// refreshed the entry since the read.
		if cur, ok := c.entries[key]; ok && c.now().After(cur.expires) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.results, true
}

// Put stores the results and sweeps out expired entries, bounding the map
// to keys active within one TTL window.
func (c *searchCache) Put(key string, results []models.SearchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
		}
	}

	c.entries[key] = cacheEntry{
		results: results,
		expires: now.Add(c.ttl),
	}
}
