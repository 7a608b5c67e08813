// Package cache provides an in-memory TTL cache for collected runner
// results. Split times for a finished checkpoint never change, so serving
// a recent result spares the results site a repeat lookup.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/use-agent/splitboard/models"
)

// entry holds a cached result with its creation timestamp.
type entry struct {
	result    *models.RunnerResult
	createdAt time.Time
}

// Cache is a size-capped in-memory cache of runner results.
// It is safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*entry
	maxEntries int
	ttl        time.Duration
}

// New creates a Cache holding at most maxEntries results, each servable
// for ttl after collection. A background goroutine evicts expired entries
// every ttl so the map does not accumulate dead weight between lookups.
func New(maxEntries int, ttl time.Duration) *Cache {
	c := &Cache{
		store:      make(map[string]*entry),
		maxEntries: maxEntries,
		ttl:        ttl,
	}
	go c.cleanupLoop()
	return c
}

// Key builds the cache key for one runner's page in one race.
func Key(raceID string, runnerID int) string {
	return fmt.Sprintf("%s/%d", raceID, runnerID)
}

// Get returns the cached result for key if it is younger than the TTL.
func (c *Cache) Get(key string) (*models.RunnerResult, bool) {
	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok || time.Since(e.createdAt) > c.ttl {
		return nil, false
	}
	return e.result, true
}

// Set stores a result. At capacity one random entry is evicted to make
// room (map iteration order is random in Go).
func (c *Cache) Set(key string, result *models.RunnerResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}

	c.store[key] = &entry{
		result:    result,
		createdAt: time.Now(),
	}
}

// cleanupLoop evicts expired entries once per TTL period.
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-c.ttl)
		c.mu.Lock()
		for k, e := range c.store {
			if e.createdAt.Before(cutoff) {
				delete(c.store, k)
			}
		}
		c.mu.Unlock()
	}
}
