package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dispatchly-backend/internal/cluster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRadiusFromQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  float64
	}{
		{"missing", "", defaultRadiusKm},
		{"valid", "radius_km=3.5", 3.5},
		{"zero", "radius_km=0", 0},
		{"garbage", "radius_km=abc", defaultRadiusKm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/orders/clusters?"+tt.query, nil)
			assert.Equal(t, tt.want, radiusFromQuery(r))
		})
	}
}

func TestPreviewClustersWrappedFeed(t *testing.T) {
	body := `{
		"data": [{
			"orders": [
				{"id": "A1", "status": "READY", "deliver_to": {"lat": 27.4728, "lng": 89.6390}, "address": "Changzamtog, Thimphu"},
				{"id": "A2", "status": "ON ROAD", "deliver_to": {"lat": 27.4730, "lng": 89.6392}, "address": "Changzamtog, Thimphu"},
				{"id": "A3", "status": "PENDING", "deliver_to": {"lat": 27.4731, "lng": 89.6391}}
			]
		}]
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/orders/clusters/preview?radius_km=2", strings.NewReader(body))
	rec := httptest.NewRecorder()

	PreviewClusters().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var clusters []cluster.Cluster
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &clusters))

	// A1 and A2 cluster together; the pending order is not eligible.
	require.Len(t, clusters, 1)
	assert.Len(t, clusters[0].Members, 2)
	assert.Equal(t, "Thimphu", clusters[0].Label)
}

func TestPreviewClustersFlatFeed(t *testing.T) {
	body := `[
		{"id": "B1", "status": "READY", "lat": 27.4728, "lng": 89.6390},
		{"id": "B2", "status": "READY"}
	]`

	req := httptest.NewRequest(http.MethodPost, "/api/orders/clusters/preview", strings.NewReader(body))
	rec := httptest.NewRecorder()

	PreviewClusters().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var clusters []cluster.Cluster
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &clusters))

	// One located cluster plus the no-coordinates bucket.
	require.Len(t, clusters, 2)

	var noCoords *cluster.Cluster
	for i := range clusters {
		if clusters[i].NoCoords {
			noCoords = &clusters[i]
		}
	}
	require.NotNil(t, noCoords)
	assert.Equal(t, "Orders without location", noCoords.Label)
}

func TestPreviewClustersMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/orders/clusters/preview", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	PreviewClusters().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreviewClustersEmptyFeed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/orders/clusters/preview", strings.NewReader(`{"data": []}`))
	rec := httptest.NewRecorder()

	PreviewClusters().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
