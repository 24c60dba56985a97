package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

// GeocodingService resolves business addresses to reference coordinates
// using the Google Maps Geocoding API
type GeocodingService struct {
	apiKey string
	client *http.Client
	cache  *GeocodeCache
}

// Coordinates represents latitude and longitude
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GoogleGeocodeResponse represents the Google Maps Geocoding API response
type GoogleGeocodeResponse struct {
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location Coordinates `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	Status string `json:"status"`
}

// NewGeocodingService creates a new geocoding service
func NewGeocodingService() (*GeocodingService, error) {
	apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_MAPS_API_KEY environment variable is required")
	}

	return &GeocodingService{
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
		cache:  NewGeocodeCache(),
	}, nil
}

// Geocode converts an address string to coordinates. Results are cached;
// business addresses rarely change and every lookup costs API quota.
// A new request with the same context cancelled simply abandons the call -
// the last writer wins at the caller's result buffer.
func (s *GeocodingService) Geocode(ctx context.Context, address string) (*Coordinates, error) {
	if cached, ok := s.cache.Get(address); ok {
		return cached, nil
	}

	baseURL := "https://maps.googleapis.com/maps/api/geocode/json"

	params := url.Values{}
	params.Add("address", address)
	params.Add("key", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", baseURL, params.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status code %d", resp.StatusCode)
	}

	var result GoogleGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if result.Status != "OK" {
		return nil, fmt.Errorf("geocoding API returned status: %s", result.Status)
	}

	if len(result.Results) == 0 {
		return nil, fmt.Errorf("no results found")
	}

	coords := result.Results[0].Geometry.Location
	s.cache.Set(address, &coords)
	return &coords, nil
}
