package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"dispatchly-backend/internal/cluster"
	"dispatchly-backend/internal/middleware"
	"dispatchly-backend/internal/models"
	"dispatchly-backend/internal/services"
	"dispatchly-backend/internal/websocket"
	"dispatchly-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

// GetOrders returns the merchant's order list. Declined orders are hidden;
// everything else stays visible, including finished ones.
func GetOrders(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var orders []models.Order
		err := db.Select(&orders, `
			SELECT * FROM orders
			WHERE business_id = $1
			ORDER BY created_at DESC
		`, claims.BusinessID)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch orders")
			return
		}

		responses := make([]models.OrderResponse, 0, len(orders))
		for _, o := range orders {
			if !cluster.ListVisible(cluster.NormalizeStatus(o.Status)) {
				continue
			}
			responses = append(responses, o.ToOrderResponse())
		}

		utils.RespondJSON(w, http.StatusOK, responses)
	}
}

// GetTrackableOrders returns orders shown on the tracking map: assigned,
// on the road, or just delivered
func GetTrackableOrders(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var orders []models.Order
		err := db.Select(&orders, `
			SELECT * FROM orders
			WHERE business_id = $1
			ORDER BY updated_at DESC
		`, claims.BusinessID)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch orders")
			return
		}

		responses := make([]models.OrderResponse, 0)
		for _, o := range orders {
			if cluster.Trackable(cluster.NormalizeStatus(o.Status)) {
				responses = append(responses, o.ToOrderResponse())
			}
		}

		utils.RespondJSON(w, http.StatusOK, responses)
	}
}

// UpdateOrderStatus applies a status change pushed by the upstream platform
// (or triggered manually by the merchant) and fans the update out to the
// business's connected devices
func UpdateOrderStatus(db *sqlx.DB, wsHub *websocket.Hub, fcmService *services.FCMService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		id := chi.URLParam(r, "id")
		if id == "" {
			utils.RespondError(w, http.StatusBadRequest, "Order id is required")
			return
		}

		var req models.UpdateOrderStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		normalized := cluster.NormalizeStatus(req.Status)
		if normalized == cluster.StatusUnknown {
			utils.RespondError(w, http.StatusBadRequest, "Unrecognized status: "+req.Status)
			return
		}

		var order models.Order
		err := db.Get(&order, "SELECT * FROM orders WHERE id = $1 AND business_id = $2", id, claims.BusinessID)
		if err == sql.ErrNoRows {
			utils.RespondError(w, http.StatusNotFound, "Order not found")
			return
		}
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		// Store the normalized form; legacy spellings only come from upstream
		_, err = db.Exec(`
			UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3
		`, string(normalized), time.Now().Unix(), id)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update order")
			return
		}

		order.Status = string(normalized)
		order.UpdatedAt = time.Now().Unix()

		wsHub.BroadcastToBusiness(claims.BusinessID, map[string]interface{}{
			"type":  "order_update",
			"order": order.ToOrderResponse(),
		})

		if normalized == cluster.StatusAssigned && fcmService != nil {
			notifyBusinessDevices(db, fcmService, claims.BusinessID, func(token string) error {
				return fcmService.SendOrderAssignedNotification(token, order.Code)
			})
		}

		utils.RespondJSON(w, http.StatusOK, order.ToOrderResponse())
	}
}

// notifyBusinessDevices sends a push to every registered device of a
// business's users. Send failures are logged and skipped; push delivery is
// best effort.
func notifyBusinessDevices(db *sqlx.DB, fcmService *services.FCMService, businessID int64, send func(token string) error) {
	var tokens []string
	err := db.Select(&tokens, `
		SELECT t.token FROM fcm_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE u.business_id = $1
	`, businessID)
	if err != nil {
		log.Printf("⚠️ Failed to load FCM tokens for business %d: %v", businessID, err)
		return
	}

	for _, token := range tokens {
		if err := send(token); err != nil {
			log.Printf("⚠️ Push notification failed: %v", err)
		}
	}
}
