package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dispatchly-backend/internal/middleware"
	"dispatchly-backend/internal/models"
	"dispatchly-backend/internal/websocket"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderColumns = []string{
	"id", "code", "numeric_id", "business_id", "status", "address",
	"latitude", "longitude", "customer_name", "total_amount",
	"created_at", "updated_at",
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func asMerchant(r *http.Request, businessID int64) *http.Request {
	claims := middleware.UserClaims{
		UserID:     "user-1",
		Email:      "merchant@example.com",
		Role:       "merchant",
		BusinessID: businessID,
	}
	return r.WithContext(context.WithValue(r.Context(), middleware.UserContextKey, claims))
}

func groupNearbyRequest(t *testing.T, businessID int64, orderIDs []string) *http.Request {
	t.Helper()
	body, err := json.Marshal(models.GroupNearbyRequest{
		MerchantID: 9,
		BusinessID: businessID,
		OrderIDs:   orderIDs,
	})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/orders/group-nearby", bytes.NewReader(body))
	return asMerchant(req, businessID)
}

// Resubmitting the exact order set of an existing batch must return that
// batch, even though its members are already ASSIGNED. The client retries
// on a lost response; a ready-state rejection here would strand it.
func TestGroupNearbyResubmissionReturnsExistingBatch(t *testing.T) {
	db, mock := newMockDB(t)
	hub := websocket.NewHub()
	go hub.Run()

	mock.ExpectQuery(`SELECT \* FROM orders`).WillReturnRows(
		sqlmock.NewRows(orderColumns).
			AddRow("o1", "ORD-1001", nil, int64(5), "ASSIGNED", "Changzamtog, Thimphu",
				nil, nil, nil, nil, int64(1), int64(1)).
			AddRow("o2", "ORD-1002", nil, int64(5), "ASSIGNED", "Changzamtog, Thimphu",
				nil, nil, nil, nil, int64(1), int64(1)))
	mock.ExpectQuery(`SELECT batch_id FROM batch_orders`).WillReturnRows(
		sqlmock.NewRows([]string{"batch_id"}).AddRow("batch-1"))
	mock.ExpectQuery(`SELECT order_id FROM batch_orders`).WillReturnRows(
		sqlmock.NewRows([]string{"order_id"}).AddRow("o1").AddRow("o2"))

	rec := httptest.NewRecorder()
	GroupNearbyOrders(db, hub, nil).ServeHTTP(rec, groupNearbyRequest(t, 5, []string{"o1", "o2"}))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.GroupNearbyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "batch-1", resp.BatchID)
	assert.ElementsMatch(t, []string{"o1", "o2"}, resp.OrderIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Orders that are not READY and not part of an existing batch are rejected
func TestGroupNearbyRejectsNonReadyOrders(t *testing.T) {
	db, mock := newMockDB(t)
	hub := websocket.NewHub()
	go hub.Run()

	mock.ExpectQuery(`SELECT \* FROM orders`).WillReturnRows(
		sqlmock.NewRows(orderColumns).
			AddRow("o1", "ORD-1001", nil, int64(5), "PENDING", "Changzamtog, Thimphu",
				nil, nil, nil, nil, int64(1), int64(1)))
	mock.ExpectQuery(`SELECT batch_id FROM batch_orders`).WillReturnError(sql.ErrNoRows)

	rec := httptest.NewRecorder()
	GroupNearbyOrders(db, hub, nil).ServeHTTP(rec, groupNearbyRequest(t, 5, []string{"o1"}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupNearbyUnknownOrderRejected(t *testing.T) {
	db, mock := newMockDB(t)
	hub := websocket.NewHub()
	go hub.Run()

	mock.ExpectQuery(`SELECT \* FROM orders`).WillReturnRows(sqlmock.NewRows(orderColumns))

	rec := httptest.NewRecorder()
	GroupNearbyOrders(db, hub, nil).ServeHTTP(rec, groupNearbyRequest(t, 5, []string{"ghost"}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupNearbyEmptySelectionRejected(t *testing.T) {
	db, _ := newMockDB(t)
	hub := websocket.NewHub()
	go hub.Run()

	rec := httptest.NewRecorder()
	GroupNearbyOrders(db, hub, nil).ServeHTTP(rec, groupNearbyRequest(t, 5, nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
