package services

import (
	"log"
	"strings"
	"sync"
	"time"
)

// GeocodeCache caches geocoding results to reduce API calls.
// Keys are normalized address strings.
type GeocodeCache struct {
	cache      map[string]*geocodeEntry
	mutex      sync.RWMutex
	maxEntries int
	ttl        time.Duration

	hits   int64
	misses int64
}

type geocodeEntry struct {
	coords       *Coordinates
	createdAt    time.Time
	lastAccessed time.Time
}

// NewGeocodeCache creates a new geocode cache
func NewGeocodeCache() *GeocodeCache {
	cache := &GeocodeCache{
		cache:      make(map[string]*geocodeEntry),
		maxEntries: 1000,
		ttl:        24 * time.Hour,
	}

	// Start cleanup goroutine
	go cache.cleanupExpired()

	return cache
}

func cacheKey(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}

// Get returns the cached coordinates for an address, if fresh
func (c *GeocodeCache) Get(address string) (*Coordinates, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, ok := c.cache[cacheKey(address)]
	if !ok || time.Since(entry.createdAt) > c.ttl {
		c.misses++
		return nil, false
	}

	entry.lastAccessed = time.Now()
	c.hits++
	return entry.coords, true
}

// Set stores coordinates for an address, evicting the least recently
// accessed entry when full
func (c *GeocodeCache) Set(address string, coords *Coordinates) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if len(c.cache) >= c.maxEntries {
		c.evictOldest()
	}

	now := time.Now()
	c.cache[cacheKey(address)] = &geocodeEntry{
		coords:       coords,
		createdAt:    now,
		lastAccessed: now,
	}
}

// Stats returns hit/miss counters
func (c *GeocodeCache) Stats() (hits, misses int64) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.hits, c.misses
}

func (c *GeocodeCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range c.cache {
		if oldestKey == "" || entry.lastAccessed.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.lastAccessed
		}
	}

	if oldestKey != "" {
		delete(c.cache, oldestKey)
	}
}

func (c *GeocodeCache) cleanupExpired() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		removed := 0
		for key, entry := range c.cache {
			if time.Since(entry.createdAt) > c.ttl {
				delete(c.cache, key)
				removed++
			}
		}
		c.mutex.Unlock()

		if removed > 0 {
			log.Printf("🧹 Geocode cache cleanup: removed %d expired entries", removed)
		}
	}
}
