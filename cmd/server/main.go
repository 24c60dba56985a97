package main

import (
	"log"
	"net/http"
	"os"

	"dispatchly-backend/internal/database"
	"dispatchly-backend/internal/handlers"
	"dispatchly-backend/internal/metrics"
	"dispatchly-backend/internal/middleware"
	"dispatchly-backend/internal/services"
	"dispatchly-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("🚀 DISPATCHLY BACKEND STARTING")

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using environment variables from system")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	// Connect to database
	db, err := database.Connect(dbURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	// Seed development data
	if err := database.SeedBusinesses(db); err != nil {
		log.Fatal(err)
	}
	if err := database.SeedUsers(db); err != nil {
		log.Fatal(err)
	}
	if err := database.SeedOrders(db); err != nil {
		log.Fatal(err)
	}

	// Initialize Firebase Cloud Messaging.
	// Supports both a file path and base64-encoded credentials (for
	// Railway/cloud deployments). The server runs with push disabled when
	// neither is usable.
	var fcmService *services.FCMService
	if fcmCredsBase64 := os.Getenv("FIREBASE_CREDENTIALS_BASE64"); fcmCredsBase64 != "" {
		fcmService, err = services.NewFCMServiceFromBase64(fcmCredsBase64)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from base64: %v (push notifications disabled)", err)
			fcmService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from base64 credentials")
		}
	} else {
		fcmCredentialsFile := os.Getenv("FIREBASE_CREDENTIALS_FILE")
		if fcmCredentialsFile == "" {
			fcmCredentialsFile = "./firebase-service-account.json"
		}

		fcmService, err = services.NewFCMService(fcmCredentialsFile)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from file: %v (push notifications disabled)", err)
			fcmService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from file")
		}
	}

	// Geocoding is optional too; without an API key, businesses simply
	// keep whatever coordinates they already have
	geocoder, err := services.NewGeocodingService()
	if err != nil {
		log.Printf("⚠️  Geocoding disabled: %v", err)
		geocoder = nil
	}

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()
	log.Println("✅ WebSocket hub started")

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(metrics.Instrument)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Prometheus scrape endpoint
	r.Handle("/metrics", metrics.Handler())

	// Authentication routes (no auth required)
	r.Post("/api/auth/login", handlers.Login(db))

	// WebSocket endpoint (authentication handled in handler via query param)
	r.Get("/ws", websocket.HandleWebSocket(wsHub))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)

			// Auth status endpoint
			r.Get("/auth/status", handlers.GetAuthStatus(db))

			// Business profile (reference coordinates for the map)
			r.Get("/business", handlers.GetBusiness(db, geocoder))

			// Order list and tracking
			r.Get("/orders", handlers.GetOrders(db))
			r.Get("/orders/track", handlers.GetTrackableOrders(db))
			r.Patch("/orders/{id}/status", handlers.UpdateOrderStatus(db, wsHub, fcmService))

			// Geo-proximity clustering
			r.Get("/orders/clusters", handlers.GetOrderClusters(db))
			r.Post("/orders/clusters/preview", handlers.PreviewClusters())

			// Dispatch batching
			r.Post("/orders/group-nearby", handlers.GroupNearbyOrders(db, wsHub, fcmService))
			r.Get("/batches", handlers.GetBatches(db))
			r.Get("/batches/{id}", handlers.GetBatch(db))

			// FCM token registration
			r.Post("/devices/fcm-token", handlers.RegisterFCMToken(db))
		})
	})

	// Get port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		log.Printf("⚠️  PORT not set, using default: %s", port)
	}

	log.Printf("🚀 Server starting on http://localhost:%s", port)

	// Start server
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}
