package search

import (
	"container/list"
	"sync"

	"github.com/hyperjump/kotoba/internal/models"
)

// ResultCache is an LRU cache of ranked matches keyed by query.
type ResultCache struct {
	capacity int
	cache    map[string]*list.Element
	lru      *list.List
	mu       sync.Mutex
}

type cacheEntry struct {
	key     string
	matches []models.Match
}

// NewResultCache creates a new cache with the given capacity. A capacity below 1 disables caching.
func NewResultCache(capacity int) *ResultCache {
	return &ResultCache{
		capacity: capacity,
		cache:    make(map[string]*list.Element),
		lru:      list.New(),
	}
}

// Get returns a copy of the cached matches for key if present.
func (c *ResultCache) Get(key string) ([]models.Match, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		return cloneMatches(elem.Value.(*cacheEntry).matches), true
	}
	return nil, false
}

// Set stores a copy of matches for key, evicting the oldest entry if at capacity.
func (c *ResultCache) Set(key string, matches []models.Match) {
	if c.capacity < 1 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry).matches = cloneMatches(matches)
		return
	}

	elem := c.lru.PushFront(&cacheEntry{key: key, matches: cloneMatches(matches)})
	c.cache[key] = elem

	if c.lru.Len() > c.capacity {
		if oldest := c.lru.Back(); oldest != nil {
			c.lru.Remove(oldest)
			delete(c.cache, oldest.Value.(*cacheEntry).key)
		}
	}
}

// Len returns the number of cached entries.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Purge drops every entry.
func (c *ResultCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*list.Element)
	c.lru.Init()
}

func cloneMatches(m []models.Match) []models.Match {
	out := make([]models.Match, len(m))
	copy(out, m)
	return out
}
