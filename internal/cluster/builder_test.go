package cluster

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder(id, status string, coords *GeoPoint, address string) Order {
	return Order{
		ID:      id,
		Code:    "ORD-" + id,
		Status:  status,
		Address: address,
		Coords:  coords,
	}
}

func pt(lat, lng float64) *GeoPoint {
	return &GeoPoint{Lat: lat, Lng: lng}
}

func TestClusterOrdersTwoNearOneFar(t *testing.T) {
	orders := []Order{
		testOrder("1", "READY", pt(27.4712, 89.6339), "12, Changzamtog, Thimphu"),
		testOrder("2", "READY", pt(27.4715, 89.6342), "14, Changzamtog, Thimphu"),
		testOrder("3", "READY", pt(27.5500, 89.7000), "5, Dechencholing, Thimphu"),
	}

	clusters := ClusterOrders(orders, 2)
	require.Len(t, clusters, 2)

	// Sorted descending by size: the pair first, the singleton second
	assert.Len(t, clusters[0].Members, 2)
	assert.Len(t, clusters[1].Members, 1)
	assert.Equal(t, "3", clusters[1].Members[0].ID)
	assert.NotNil(t, clusters[0].Centroid)
	assert.False(t, clusters[0].NoCoords)
}

func TestClusterOrdersCompleteness(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var orders []Order
	for i := 0; i < 80; i++ {
		var coords *GeoPoint
		if i%7 != 0 { // every seventh order has no coordinates
			coords = pt(27.4+rng.Float64()*0.2, 89.5+rng.Float64()*0.2)
		}
		orders = append(orders, testOrder(fmt.Sprintf("o%d", i), "READY", coords, ""))
	}

	clusters := ClusterOrders(orders, 1.5)

	seen := make(map[string]int)
	for _, c := range clusters {
		require.NotEmpty(t, c.Members, "clusters must be non-empty")
		for _, m := range c.Members {
			seen[m.ID]++
		}
	}

	assert.Len(t, seen, len(orders), "no order may be lost")
	for id, n := range seen {
		assert.Equal(t, 1, n, "order %s must appear exactly once", id)
	}
}

func TestClusterOrdersCompleteLinkageBound(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var orders []Order
	for i := 0; i < 150; i++ {
		orders = append(orders, testOrder(
			fmt.Sprintf("o%d", i), "READY",
			pt(27.4+rng.Float64()*0.3, 89.5+rng.Float64()*0.3), ""))
	}

	const radiusKm = 2.0
	clusters := ClusterOrders(orders, radiusKm)

	for _, c := range clusters {
		for i := 0; i < len(c.Members); i++ {
			for j := i + 1; j < len(c.Members); j++ {
				d := DistanceKm(*c.Members[i].Coords, *c.Members[j].Coords)
				assert.LessOrEqual(t, d, radiusKm,
					"members %s and %s of cluster %q are %.3f km apart",
					c.Members[i].ID, c.Members[j].ID, c.Label, d)
			}
		}
	}
}

func TestClusterOrdersInvariantsHoldUnderReordering(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	var orders []Order
	for i := 0; i < 60; i++ {
		orders = append(orders, testOrder(
			fmt.Sprintf("o%d", i), "READY",
			pt(27.45+rng.Float64()*0.1, 89.6+rng.Float64()*0.1), ""))
	}

	const radiusKm = 1.0

	// Exact composition is input-order sensitive by design; the invariants
	// must hold for every permutation regardless.
	for trial := 0; trial < 5; trial++ {
		shuffled := make([]Order, len(orders))
		copy(shuffled, orders)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		clusters := ClusterOrders(shuffled, radiusKm)

		total := 0
		for _, c := range clusters {
			total += len(c.Members)
			for i := 0; i < len(c.Members); i++ {
				for j := i + 1; j < len(c.Members); j++ {
					assert.LessOrEqual(t,
						DistanceKm(*c.Members[i].Coords, *c.Members[j].Coords), radiusKm)
				}
			}
		}
		assert.Equal(t, len(orders), total)
	}
}

func TestClusterOrdersNoCoordsIsolation(t *testing.T) {
	orders := []Order{
		testOrder("1", "READY", pt(27.4712, 89.6339), ""),
		testOrder("2", "READY", nil, "Somewhere, Thimphu"),
		testOrder("3", "READY", nil, ""),
	}

	clusters := ClusterOrders(orders, 2)
	require.Len(t, clusters, 2)

	var noCoords *Cluster
	for i := range clusters {
		if clusters[i].NoCoords {
			require.Nil(t, noCoords, "at most one no-coords cluster per run")
			noCoords = &clusters[i]
		} else {
			for _, m := range clusters[i].Members {
				assert.NotNil(t, m.Coords, "coordinate cluster must not hold no-coords orders")
			}
		}
	}

	require.NotNil(t, noCoords)
	assert.Len(t, noCoords.Members, 2)
	assert.Nil(t, noCoords.Centroid)
	assert.Equal(t, "Orders without location", noCoords.Label)
}

func TestClusterOrdersEligibilityFiltering(t *testing.T) {
	orders := []Order{
		testOrder("pending", "PENDING", pt(27.4712, 89.6339), ""),
		testOrder("done", "DELIVERED", pt(27.4712, 89.6339), ""),
		testOrder("ready", "READY", pt(27.4712, 89.6339), ""),
		testOrder("onroad", "ON ROAD", pt(27.4713, 89.6340), ""),
	}

	clusters := ClusterOrders(orders, 2)
	require.Len(t, clusters, 1)
	require.Len(t, clusters[0].Members, 2)

	ids := []string{clusters[0].Members[0].ID, clusters[0].Members[1].ID}
	assert.ElementsMatch(t, []string{"ready", "onroad"}, ids)
}

func TestClusterOrdersEmptyInput(t *testing.T) {
	assert.Empty(t, ClusterOrders(nil, 2))
	assert.Empty(t, ClusterOrders([]Order{}, 2))

	// All-ineligible input is the same as empty
	orders := []Order{testOrder("1", "PENDING", pt(27.5, 89.6), "")}
	assert.Empty(t, ClusterOrders(orders, 2))
}

func TestClusterOrdersZeroRadiusDegradesToSingletons(t *testing.T) {
	orders := []Order{
		testOrder("1", "READY", pt(27.4712, 89.6339), ""),
		testOrder("2", "READY", pt(27.4712, 89.6339), ""),
		testOrder("3", "READY", pt(27.4715, 89.6342), ""),
	}

	clusters := ClusterOrders(orders, 0)
	assert.Len(t, clusters, 3)
	for _, c := range clusters {
		assert.Len(t, c.Members, 1)
	}
}

func TestClusterOrdersCentroid(t *testing.T) {
	orders := []Order{
		testOrder("1", "READY", pt(27.47, 89.63), ""),
		testOrder("2", "READY", pt(27.48, 89.64), ""),
	}

	clusters := ClusterOrders(orders, 5)
	require.Len(t, clusters, 1)
	require.NotNil(t, clusters[0].Centroid)
	assert.InDelta(t, 27.475, clusters[0].Centroid.Lat, 1e-9)
	assert.InDelta(t, 89.635, clusters[0].Centroid.Lng, 1e-9)
}

func TestClusterIDsUniqueWithinRun(t *testing.T) {
	orders := []Order{
		testOrder("1", "READY", pt(27.4712, 89.6339), ""),
		testOrder("2", "READY", pt(27.5500, 89.7000), ""),
		testOrder("3", "READY", nil, ""),
	}

	clusters := ClusterOrders(orders, 2)
	ids := make(map[string]bool)
	for _, c := range clusters {
		assert.False(t, ids[c.ID], "cluster id %s reused", c.ID)
		ids[c.ID] = true
	}
}
