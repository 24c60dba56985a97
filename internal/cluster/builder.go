package cluster

import (
	"sort"

	"github.com/google/uuid"
)

// ClusterOrders groups cluster-eligible orders into geographic clusters
// bounded by radiusKm. The result satisfies:
//
//   - every eligible input order lands in exactly one cluster
//   - within any coordinate-bearing cluster, every pair of members is
//     within radiusKm of each other (complete linkage)
//   - orders without resolvable coordinates share a single reserved
//     no-coords cluster
//   - labels are unique across the result set
//   - clusters are sorted descending by member count, stable on ties
//
// The computation is pure and synchronous; callers may run it on every
// refresh and simply replace their previous result.
func ClusterOrders(orders []Order, radiusKm float64) []Cluster {
	var withCoords, noCoords []Order
	for _, o := range orders {
		if !ClusterEligible(NormalizeStatus(o.Status)) {
			continue
		}
		if o.Coords != nil {
			withCoords = append(withCoords, o)
		} else {
			noCoords = append(noCoords, o)
		}
	}

	var clusters []Cluster
	if radiusKm <= 0 {
		// Degenerate radius: nothing can ever share a cluster
		for _, o := range withCoords {
			clusters = append(clusters, newCluster(o))
		}
	} else {
		buckets := buildBuckets(withCoords, radiusKm)
		for _, key := range sortedBucketKeys(buckets) {
			clusters = append(clusters, clusterBucket(buckets[key], radiusKm)...)
		}
	}

	for i := range clusters {
		c := Centroid(memberPoints(clusters[i].Members))
		clusters[i].Centroid = &c
	}

	if len(noCoords) > 0 {
		clusters = append(clusters, Cluster{
			ID:       uuid.New().String(),
			Members:  noCoords,
			NoCoords: true,
		})
	}

	// Biggest clusters first; SliceStable keeps creation order on ties
	sort.SliceStable(clusters, func(i, j int) bool {
		return len(clusters[i].Members) > len(clusters[j].Members)
	})

	return applyUniqueLabels(clusters)
}

// clusterBucket incrementally assigns a bucket's points to clusters using a
// complete-linkage rule: a point joins the first cluster (in creation order)
// whose every current member is within radiusKm, otherwise it seeds a new
// cluster. This is deliberately not nearest-cluster assignment - complete
// linkage guarantees no cluster ever holds two orders farther apart than
// radiusKm, where a single-linkage chain could happily merge opposite ends
// of town through a string of intermediate points.
func clusterBucket(orders []Order, radiusKm float64) []Cluster {
	var clusters []Cluster

	for _, o := range orders {
		placed := false
		for i := range clusters {
			if withinRadiusOfAll(*o.Coords, clusters[i].Members, radiusKm) {
				clusters[i].Members = append(clusters[i].Members, o)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, newCluster(o))
		}
	}

	return clusters
}

func withinRadiusOfAll(p GeoPoint, members []Order, radiusKm float64) bool {
	for _, m := range members {
		if DistanceKm(p, *m.Coords) > radiusKm {
			return false
		}
	}
	return true
}

func newCluster(o Order) Cluster {
	return Cluster{
		ID:      uuid.New().String(),
		Members: []Order{o},
	}
}

func memberPoints(members []Order) []GeoPoint {
	points := make([]GeoPoint, 0, len(members))
	for _, m := range members {
		if m.Coords != nil {
			points = append(points, *m.Coords)
		}
	}
	return points
}
