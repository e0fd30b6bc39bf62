package api

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/towerscope/towerscope/pkg/advisor"
)

// RankCache is a thread-safe LRU cache for computed rankings. Entries are
// keyed by profile id, strategy, and the profile's UpdatedAt, so any profile
// mutation naturally invalidates its cached rankings.
type RankCache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*rankEntry
	order   []string // oldest first
}

type rankEntry struct {
	results []advisor.RankedUpgrade
}

// RankKey builds the cache key for one ranking computation.
func RankKey(profileID, strategy string, updatedAt time.Time) string {
	return profileID + "|" + strategy + "|" + updatedAt.UTC().Format(time.RFC3339Nano)
}

// NewRankCache creates a cache with the given maximum number of entries.
// If maxSize <= 0, it defaults to 64.
func NewRankCache(maxSize int) *RankCache {
	if maxSize <= 0 {
		maxSize = 64
	}
	return &RankCache{
		maxSize: maxSize,
		entries: make(map[string]*rankEntry),
	}
}

// NewRankCacheFromEnv creates a cache with size from RANK_CACHE_SIZE env var.
func NewRankCacheFromEnv() *RankCache {
	size := 64
	if v := os.Getenv("RANK_CACHE_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			size = parsed
		}
	}
	return NewRankCache(size)
}

// Get retrieves a ranking from the cache, or nil if not found.
func (c *RankCache) Get(key string) []advisor.RankedUpgrade {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil
	}

	// Move to end (most recently used)
	c.moveToEnd(key)
	return entry.results
}

// Put adds a ranking to the cache, evicting the oldest if full.
func (c *RankCache) Put(key string, results []advisor.RankedUpgrade) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.entries[key] = &rankEntry{results: results}
		c.moveToEnd(key)
		return
	}

	// Evict oldest if at capacity
	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = &rankEntry{results: results}
	c.order = append(c.order, key)
}

func (c *RankCache) moveToEnd(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, key)
			return
		}
	}
}
