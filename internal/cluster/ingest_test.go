package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenOrderFeedWrappedShape(t *testing.T) {
	body := []byte(`{
		"data": [
			{"orders": [
				{"id": "o1", "code": "ORD-1001", "status": "READY",
				 "deliver_to": {"lat": 27.4712, "lng": 89.6339, "address": "12, Changzamtog, Thimphu"}},
				{"order_id": "o2", "order_status": "ON ROAD",
				 "lat": "27.4715", "lng": "89.6342", "delivery_address": "14, Changzamtog"}
			]},
			{"orders": [
				{"_id": "o3", "status": "PENDING", "lat": "null", "lng": "null"}
			]}
		]
	}`)

	orders, err := FlattenOrderFeed(body)
	require.NoError(t, err)
	require.Len(t, orders, 3)

	assert.Equal(t, "o1", orders[0].ID)
	assert.Equal(t, "ORD-1001", orders[0].Code)
	require.NotNil(t, orders[0].Coords)
	assert.Equal(t, GeoPoint{Lat: 27.4712, Lng: 89.6339}, *orders[0].Coords)
	assert.Equal(t, "12, Changzamtog, Thimphu", orders[0].Address)

	assert.Equal(t, "o2", orders[1].ID)
	assert.Equal(t, "o2", orders[1].Code, "code falls back to id")
	require.NotNil(t, orders[1].Coords)
	assert.Equal(t, "14, Changzamtog", orders[1].Address)

	// "null" strings must yield absent coordinates, never (0, 0)
	assert.Equal(t, "o3", orders[2].ID)
	assert.Nil(t, orders[2].Coords)
}

func TestFlattenOrderFeedFlatArray(t *testing.T) {
	body := []byte(`[
		{"id": "a", "status": "READY", "latitude": 27.5, "longitude": 89.6},
		{"id": "b", "status": "ACCEPTED"}
	]`)

	orders, err := FlattenOrderFeed(body)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.NotNil(t, orders[0].Coords)
	assert.Nil(t, orders[1].Coords)
}

func TestFlattenOrderFeedDeduplicatesByID(t *testing.T) {
	body := []byte(`[
		{"id": "dup", "status": "READY", "address": "First, Kept"},
		{"id": "dup", "status": "CANCELLED", "address": "Second, Dropped"},
		{"id": "other", "status": "READY"}
	]`)

	orders, err := FlattenOrderFeed(body)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "dup", orders[0].ID)
	assert.Equal(t, "READY", orders[0].Status, "first occurrence wins")
}

func TestFlattenOrderFeedNumericIDs(t *testing.T) {
	body := []byte(`[
		{"id": 1001, "code": "ORD-1001", "status": "READY"},
		{"id": "o2", "numeric_id": 77, "status": "READY"}
	]`)

	orders, err := FlattenOrderFeed(body)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, "1001", orders[0].ID)
	assert.Equal(t, int64(1001), orders[0].NumericID)
	assert.Equal(t, int64(77), orders[1].NumericID)
}

func TestFlattenOrderFeedSkipsRecordsWithoutID(t *testing.T) {
	body := []byte(`[
		{"status": "READY", "lat": 27.5, "lng": 89.6},
		{"id": "ok", "status": "READY"}
	]`)

	orders, err := FlattenOrderFeed(body)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "ok", orders[0].ID)
}

func TestFlattenOrderFeedMalformedJSON(t *testing.T) {
	_, err := FlattenOrderFeed([]byte("not json"))
	assert.Error(t, err)

	_, err = FlattenOrderFeed([]byte(`[{"id": "a"`))
	assert.Error(t, err)
}

func TestFlattenOrderFeedEmptyEnvelope(t *testing.T) {
	orders, err := FlattenOrderFeed([]byte(`{"data": []}`))
	require.NoError(t, err)
	assert.Empty(t, orders)
}
