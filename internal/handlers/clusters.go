package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"dispatchly-backend/internal/cluster"
	"dispatchly-backend/internal/metrics"
	"dispatchly-backend/internal/middleware"
	"dispatchly-backend/internal/models"
	"dispatchly-backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

const defaultRadiusKm = 2.0

// radiusFromQuery reads the radius_km query parameter, falling back to the
// default batching radius. Non-numeric values fall back too rather than
// erroring; the radius slider in the app has sent garbage before.
func radiusFromQuery(r *http.Request) float64 {
	raw := r.URL.Query().Get("radius_km")
	if raw == "" {
		return defaultRadiusKm
	}
	radius, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return defaultRadiusKm
	}
	return radius
}

// GetOrderClusters runs the proximity clustering engine over the business's
// cluster-eligible orders and returns the clusters sorted biggest-first
func GetOrderClusters(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		radiusKm := radiusFromQuery(r)

		var orders []models.Order
		err := db.Select(&orders, `
			SELECT * FROM orders
			WHERE business_id = $1
			ORDER BY created_at ASC
		`, claims.BusinessID)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch orders")
			return
		}

		engineOrders := make([]cluster.Order, 0, len(orders))
		for _, o := range orders {
			engineOrders = append(engineOrders, o.ToClusterOrder())
		}

		start := time.Now()
		clusters := cluster.ClusterOrders(engineOrders, radiusKm)
		metrics.ObserveClusterRun(start, len(clusters))

		// An empty result is a valid empty state, not an error
		if clusters == nil {
			clusters = []cluster.Cluster{}
		}
		utils.RespondJSON(w, http.StatusOK, clusters)
	}
}

// PreviewClusters runs the engine over a raw upstream order feed posted in
// the request body. Some merchants still pull orders from the legacy
// platform directly; the app forwards that payload here (wrapped envelope
// or flat array) instead of syncing it into our orders table first.
func PreviewClusters() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, 4<<20))
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Failed to read request body")
			return
		}

		radiusKm := radiusFromQuery(r)

		orders, err := cluster.FlattenOrderFeed(body)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid order feed: "+err.Error())
			return
		}

		start := time.Now()
		clusters := cluster.ClusterOrders(orders, radiusKm)
		metrics.ObserveClusterRun(start, len(clusters))

		if clusters == nil {
			clusters = []cluster.Cluster{}
		}
		utils.RespondJSON(w, http.StatusOK, clusters)
	}
}
