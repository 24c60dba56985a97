package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocodeCacheSetGet(t *testing.T) {
	cache := NewGeocodeCache()

	coords := &Coordinates{Lat: 27.4728, Lng: 89.6390}
	cache.Set("Norzin Lam, Thimphu", coords)

	got, ok := cache.Get("Norzin Lam, Thimphu")
	require.True(t, ok)
	assert.Equal(t, coords, got)

	_, ok = cache.Get("Unknown Address")
	assert.False(t, ok)
}

func TestGeocodeCacheKeyNormalization(t *testing.T) {
	cache := NewGeocodeCache()
	cache.Set("Norzin  Lam,   Thimphu", &Coordinates{Lat: 1, Lng: 2})

	got, ok := cache.Get("norzin lam, thimphu")
	require.True(t, ok, "lookups must ignore case and whitespace runs")
	assert.Equal(t, 1.0, got.Lat)
}

func TestGeocodeCacheEviction(t *testing.T) {
	cache := NewGeocodeCache()
	cache.maxEntries = 3

	for i := 0; i < 4; i++ {
		cache.Set(fmt.Sprintf("address %d", i), &Coordinates{Lat: float64(i)})
	}

	cache.mutex.RLock()
	size := len(cache.cache)
	cache.mutex.RUnlock()
	assert.LessOrEqual(t, size, 3)
}

func TestGeocodeCacheStats(t *testing.T) {
	cache := NewGeocodeCache()
	cache.Set("a", &Coordinates{})

	cache.Get("a")
	cache.Get("b")

	hits, misses := cache.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}
