package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dbURL string) (*sqlx.DB, error) {
	log.Println("🔌 Connecting to database...")

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Printf("❌ sqlx.Connect() failed: %v", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		log.Printf("❌ Ping() failed: %v", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Database connection established")
	return db, nil
}

func Migrate(db *sqlx.DB) error {
	migrations := []string{
		// Create users table (merchant staff and platform admins)
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL CHECK(role IN ('merchant', 'admin')),
			business_id BIGINT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create businesses table
		`CREATE TABLE IF NOT EXISTS businesses (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			owner_type TEXT NOT NULL DEFAULT 'restaurant' CHECK(owner_type IN ('restaurant', 'mart')),
			address TEXT NOT NULL,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create orders table. Status stays raw; coordinate columns are
		// nullable because upstream address data is unreliable.
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			code TEXT NOT NULL,
			numeric_id BIGINT,
			business_id BIGINT NOT NULL,
			status TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			customer_name TEXT,
			total_amount DOUBLE PRECISION,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (business_id) REFERENCES businesses(id) ON DELETE CASCADE
		)`,

		// Create batches table (rider dispatch batches)
		`CREATE TABLE IF NOT EXISTS batches (
			id TEXT PRIMARY KEY,
			business_id BIGINT NOT NULL,
			merchant_id BIGINT NOT NULL,
			created_by_user_id TEXT,
			owner_type TEXT,
			delivery_option TEXT,
			order_count INT NOT NULL DEFAULT 0,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (business_id) REFERENCES businesses(id) ON DELETE CASCADE
		)`,

		// Create batch membership table
		`CREATE TABLE IF NOT EXISTS batch_orders (
			id SERIAL PRIMARY KEY,
			batch_id TEXT NOT NULL,
			order_id TEXT NOT NULL UNIQUE,
			FOREIGN KEY (batch_id) REFERENCES batches(id) ON DELETE CASCADE,
			FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
		)`,

		// Create FCM tokens table
		`CREATE TABLE IF NOT EXISTS fcm_tokens (
			id SERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			token TEXT NOT NULL UNIQUE,
			device_type TEXT NOT NULL CHECK(device_type IN ('ios', 'android')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_orders_business_id ON orders(business_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
		`CREATE INDEX IF NOT EXISTS idx_batch_orders_batch_id ON batch_orders(batch_id)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Println("✅ Database migrations completed")
	return nil
}
