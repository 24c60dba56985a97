package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"dispatchly-backend/internal/cluster"
	"dispatchly-backend/internal/metrics"
	"dispatchly-backend/internal/middleware"
	"dispatchly-backend/internal/models"
	"dispatchly-backend/internal/services"
	"dispatchly-backend/internal/websocket"
	"dispatchly-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// GroupNearbyOrders turns a merchant-selected subset of a cluster's READY
// orders into a rider dispatch batch. The response's batch_id and order_ids
// are authoritative; the app re-fetches rather than reconciling drift.
// Resubmitting an identical order set returns the existing batch instead of
// creating a second one.
func GroupNearbyOrders(db *sqlx.DB, wsHub *websocket.Hub, fcmService *services.FCMService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req models.GroupNearbyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.BusinessID == 0 {
			req.BusinessID = claims.BusinessID
		}
		if claims.Role != "admin" && req.BusinessID != claims.BusinessID {
			utils.RespondError(w, http.StatusForbidden, "Business mismatch")
			return
		}

		// order_ids duplicates order_codes in well-behaved clients; take the
		// union so either form alone also works
		keys := uniqueStrings(append(append([]string{}, req.OrderCodes...), req.OrderIDs...))
		if len(keys) == 0 && len(req.OrderIDsNumeric) == 0 {
			utils.RespondError(w, http.StatusBadRequest, "No orders selected")
			return
		}
		// sqlx.In rejects empty slices; these placeholders never match a row
		numericKeys := req.OrderIDsNumeric
		if len(numericKeys) == 0 {
			numericKeys = []int64{-1}
		}
		if len(keys) == 0 {
			keys = []string{""}
		}

		var orders []models.Order
		query, args, err := sqlx.In(`
			SELECT * FROM orders
			WHERE business_id = ? AND (id IN (?) OR code IN (?) OR numeric_id IN (?))
		`, req.BusinessID, keys, keys, numericKeys)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to build query")
			return
		}
		if err := db.Select(&orders, db.Rebind(query), args...); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch orders")
			return
		}

		// Every key must resolve; a key may match by id or by pretty code
		// (clients send the same values under both fields)
		known := make(map[string]bool, len(orders)*2)
		knownNumeric := make(map[int64]bool, len(orders))
		for _, o := range orders {
			known[o.ID] = true
			known[o.Code] = true
			if o.NumericID != nil {
				knownNumeric[*o.NumericID] = true
			}
		}
		for _, key := range keys {
			if key != "" && !known[key] {
				utils.RespondError(w, http.StatusUnprocessableEntity, "Unknown order: "+key)
				return
			}
		}
		for _, n := range req.OrderIDsNumeric {
			if !knownNumeric[n] {
				utils.RespondError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Unknown order: %d", n))
				return
			}
		}

		orderIDs := make([]string, len(orders))
		for i, o := range orders {
			orderIDs[i] = o.ID
		}

		// Idempotency first: creating a batch flips its members to ASSIGNED,
		// so a retried identical request would fail the READY check below.
		// The retry must get the existing batch back instead.
		if existing, ok := findExistingBatch(db, orderIDs); ok {
			log.Printf("♻️  Identical batch already exists: %s", existing)
			utils.RespondJSON(w, http.StatusOK, models.GroupNearbyResponse{
				BatchID:  existing,
				OrderIDs: orderIDs,
			})
			return
		}

		// Only READY orders may enter a dispatch batch
		for _, o := range orders {
			if !cluster.Batchable(cluster.NormalizeStatus(o.Status)) {
				utils.RespondError(w, http.StatusUnprocessableEntity,
					"Order "+o.Code+" is not ready for dispatch (status: "+o.Status+")")
				return
			}
		}

		tx, err := db.Beginx()
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to begin transaction")
			return
		}
		defer tx.Rollback()

		batchID := uuid.New().String()
		now := time.Now().Unix()

		_, err = tx.Exec(`
			INSERT INTO batches (id, business_id, merchant_id, created_by_user_id, owner_type, delivery_option, order_count, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, batchID, req.BusinessID, req.MerchantID, claims.UserID, req.OwnerType, req.DeliveryOption, len(orders), now)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create batch")
			return
		}

		for _, id := range orderIDs {
			if _, err := tx.Exec(`INSERT INTO batch_orders (batch_id, order_id) VALUES ($1, $2)`, batchID, id); err != nil {
				utils.RespondError(w, http.StatusConflict, "An order is already part of another batch")
				return
			}
		}

		// Batched orders move to ASSIGNED
		_, err = tx.Exec(`
			UPDATE orders SET status = $1, updated_at = $2 WHERE id = ANY($3)
		`, string(cluster.StatusAssigned), now, pq.Array(orderIDs))
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update orders")
			return
		}

		if err := tx.Commit(); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to commit batch")
			return
		}

		metrics.BatchesCreatedTotal.Inc()
		log.Printf("✅ Batch %s created with %d orders", batchID, len(orders))

		wsHub.BroadcastToBusiness(req.BusinessID, map[string]interface{}{
			"type":      "batch_created",
			"batch_id":  batchID,
			"order_ids": orderIDs,
		})

		if fcmService != nil {
			notifyBusinessDevices(db, fcmService, req.BusinessID, func(token string) error {
				return fcmService.SendBatchCreatedNotification(token, batchID, len(orders))
			})
		}

		utils.RespondJSON(w, http.StatusOK, models.GroupNearbyResponse{
			BatchID:  batchID,
			OrderIDs: orderIDs,
		})
	}
}

// findExistingBatch reports a batch whose member set equals orderIDs exactly
func findExistingBatch(db *sqlx.DB, orderIDs []string) (string, bool) {
	var batchID string
	err := db.Get(&batchID, `SELECT batch_id FROM batch_orders WHERE order_id = $1`, orderIDs[0])
	if err != nil {
		return "", false
	}

	var members []string
	if err := db.Select(&members, `SELECT order_id FROM batch_orders WHERE batch_id = $1`, batchID); err != nil {
		return "", false
	}
	if len(members) != len(orderIDs) {
		return "", false
	}

	want := make(map[string]bool, len(orderIDs))
	for _, id := range orderIDs {
		want[id] = true
	}
	for _, id := range members {
		if !want[id] {
			return "", false
		}
	}
	return batchID, true
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// GetBatches lists the business's dispatch batches, newest first
func GetBatches(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var batches []models.Batch
		err := db.Select(&batches, `
			SELECT * FROM batches WHERE business_id = $1 ORDER BY created_at DESC
		`, claims.BusinessID)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch batches")
			return
		}

		utils.RespondJSON(w, http.StatusOK, batches)
	}
}

// GetBatch returns one batch with its member order ids
func GetBatch(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		id := chi.URLParam(r, "id")

		var batch models.Batch
		err := db.Get(&batch, `SELECT * FROM batches WHERE id = $1 AND business_id = $2`, id, claims.BusinessID)
		if err == sql.ErrNoRows {
			utils.RespondError(w, http.StatusNotFound, "Batch not found")
			return
		}
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		var orderIDs []string
		if err := db.Select(&orderIDs, `SELECT order_id FROM batch_orders WHERE batch_id = $1`, id); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch batch orders")
			return
		}

		utils.RespondJSON(w, http.StatusOK, models.BatchWithOrders{
			Batch:    batch,
			OrderIDs: orderIDs,
		})
	}
}
