// Package metrics provides Prometheus metrics for the dispatch backend
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts requests by method, path pattern and status
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatchly_http_requests_total",
		Help: "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	// ClusterRunDuration observes how long a clustering pass takes
	ClusterRunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dispatchly_cluster_run_duration_seconds",
		Help:    "Duration of one geo-clustering run",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})

	// ClustersProduced observes cluster counts per run
	ClustersProduced = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dispatchly_clusters_produced",
		Help:    "Number of clusters produced per run",
		Buckets: prometheus.LinearBuckets(0, 5, 10),
	})

	// BatchesCreatedTotal counts dispatch batches created
	BatchesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dispatchly_batches_created_total",
		Help: "Total dispatch batches created",
	})

	// WebsocketConnections tracks currently connected clients
	WebsocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dispatchly_websocket_connections",
		Help: "Currently connected WebSocket clients",
	})
)

// Handler exposes the Prometheus scrape endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveClusterRun records one clustering pass
func ObserveClusterRun(start time.Time, clusterCount int) {
	ClusterRunDuration.Observe(time.Since(start).Seconds())
	ClustersProduced.Observe(float64(clusterCount))
}

// Instrument is chi middleware recording per-request counters. The chi
// wrapper preserves http.Hijacker so the websocket upgrade on /ws still
// works behind it.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// Label by route pattern, not raw path: /api/batches/{id} stays one
		// series no matter how many batch ids pass through
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			// Hijacked connections never call WriteHeader
			status = http.StatusOK
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
	})
}
