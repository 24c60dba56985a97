package cluster

import (
	"math"
	"sort"
)

// kmPerDegreeLat is the approximate north-south span of one degree of latitude
const kmPerDegreeLat = 111.0

// cellKey identifies a rectangular grid cell sized from the clustering radius
type cellKey struct {
	Row int
	Col int
}

// bucketKey quantizes a point into its grid cell. Cells are roughly
// radiusKm wide in both axes; the longitude step is corrected by cos(lat)
// so cells don't get arbitrarily narrow away from the equator.
func bucketKey(p GeoPoint, radiusKm float64) cellKey {
	latStep := radiusKm / kmPerDegreeLat

	cosLat := math.Cos(p.Lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01 // near the poles every longitude collapses into one cell
	}
	lonStep := latStep / cosLat

	return cellKey{
		Row: int(math.Floor(p.Lat / latStep)),
		Col: int(math.Floor(p.Lng / lonStep)),
	}
}

// buildBuckets groups coordinate-bearing orders by grid cell, preserving the
// original input order within each bucket. The grid only bounds how many
// pairwise distance checks the builder performs; it can split two nearby
// points across adjacent cells, which is a long-standing accepted
// approximation the mobile clients already depend on.
func buildBuckets(orders []Order, radiusKm float64) map[cellKey][]Order {
	buckets := make(map[cellKey][]Order)
	for _, o := range orders {
		if o.Coords == nil {
			continue
		}
		key := bucketKey(*o.Coords, radiusKm)
		buckets[key] = append(buckets[key], o)
	}
	return buckets
}

// sortedBucketKeys returns the cell keys in a fixed order so repeated runs
// over the same input emit clusters in the same sequence
func sortedBucketKeys(buckets map[cellKey][]Order) []cellKey {
	keys := make([]cellKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Row != keys[j].Row {
			return keys[i].Row < keys[j].Row
		}
		return keys[i].Col < keys[j].Col
	})
	return keys
}
