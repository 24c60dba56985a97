package cluster

import (
	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the Earth's mean radius in kilometers
const EarthRadiusKm = 6371.0

// GeoPoint is an immutable latitude/longitude pair in degrees
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DistanceKm calculates the great-circle distance between two points in kilometers
func DistanceKm(a, b GeoPoint) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lng)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lng)
	return p1.Distance(p2).Radians() * EarthRadiusKm
}

// Centroid calculates the arithmetic mean of a set of points.
// Good enough as a map anchor for clusters a few kilometers wide;
// not valid for point sets spanning the antimeridian.
func Centroid(points []GeoPoint) GeoPoint {
	if len(points) == 0 {
		return GeoPoint{}
	}

	var sumLat, sumLng float64
	for _, p := range points {
		sumLat += p.Lat
		sumLng += p.Lng
	}

	return GeoPoint{
		Lat: sumLat / float64(len(points)),
		Lng: sumLng / float64(len(points)),
	}
}

// validLatLng reports whether a lat/lng pair is within coordinate range
func validLatLng(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
