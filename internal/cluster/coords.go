package cluster

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Coordinate field spellings accumulated over several app generations.
// Checked in priority order: the nested deliver-to object first, then the
// flat pairs, then nested address-like objects.
var coordObjectKeys = []string{"deliver_to", "deliverTo", "delivery_location", "dropoff"}

var coordFieldPairs = []struct{ lat, lng string }{
	{"lat", "lng"},
	{"lat", "lon"},
	{"latitude", "longitude"},
	{"delivery_lat", "delivery_lng"},
	{"dropoff_lat", "dropoff_lng"},
}

var coordAddressKeys = []string{"address", "delivery_address", "customer_address"}

// ExtractCoords locates the first valid coordinate pair in a raw order record.
// Returns false when no candidate field pair holds a finite, in-range pair.
// Nulls, empty strings and the literal strings "null"/"undefined" are treated
// as absent rather than zero - parsing them as 0 would place the order in the
// Gulf of Guinea instead of dropping it from the map.
func ExtractCoords(raw map[string]any) (GeoPoint, bool) {
	if raw == nil {
		return GeoPoint{}, false
	}

	for _, key := range coordObjectKeys {
		if nested, ok := raw[key].(map[string]any); ok {
			if p, ok := coordsFromFields(nested); ok {
				return p, true
			}
		}
	}

	if p, ok := coordsFromFields(raw); ok {
		return p, true
	}

	for _, key := range coordAddressKeys {
		if nested, ok := raw[key].(map[string]any); ok {
			if p, ok := coordsFromFields(nested); ok {
				return p, true
			}
		}
	}

	return GeoPoint{}, false
}

func coordsFromFields(fields map[string]any) (GeoPoint, bool) {
	for _, pair := range coordFieldPairs {
		lat, latOK := parseCoordValue(fields[pair.lat])
		lng, lngOK := parseCoordValue(fields[pair.lng])
		if latOK && lngOK && validLatLng(lat, lng) {
			return GeoPoint{Lat: lat, Lng: lng}, true
		}
	}
	return GeoPoint{}, false
}

// parseCoordValue parses a single coordinate value of unknown type.
// Accepts float64 (the default JSON number decoding), json.Number, and
// numeric strings. Everything else is absent.
func parseCoordValue(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0, false
		}
		return val, true
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		s := strings.TrimSpace(val)
		if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "undefined") {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
