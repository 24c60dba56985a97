package database

import (
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

func SeedUsers(db *sqlx.DB) error {
	// Check if users already exist
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Users already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding demo users...")

	password, err := bcrypt.GenerateFromPassword([]byte("merchant123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []map[string]interface{}{
		{"email": "merchant@dispatchly.dev", "name": "Demo Merchant", "role": "merchant", "business_id": int64(1)},
		{"email": "admin@dispatchly.dev", "name": "Platform Admin", "role": "admin", "business_id": nil},
	}

	for _, u := range users {
		_, err := db.Exec(`
			INSERT INTO users (id, email, password, name, role, business_id)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uuid.New().String(), u["email"], string(password), u["name"], u["role"], u["business_id"])
		if err != nil {
			return err
		}
	}

	log.Println("✓ Successfully seeded demo users")
	return nil
}

func SeedBusinesses(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM businesses"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Businesses already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding demo business...")

	_, err := db.Exec(`
		INSERT INTO businesses (name, owner_type, address, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5)
	`, "Druk Kitchen", "restaurant", "Norzin Lam, Thimphu", 27.4728, 89.6390)
	if err != nil {
		return err
	}

	log.Println("✓ Successfully seeded demo business")
	return nil
}

func SeedOrders(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM orders"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Orders already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding demo orders...")

	orders := []map[string]interface{}{
		{"code": "ORD-1001", "numeric_id": int64(1001), "status": "READY", "address": "12, Changzamtog, Thimphu", "latitude": 27.4712, "longitude": 89.6339, "customer_name": "Tashi D"},
		{"code": "ORD-1002", "numeric_id": int64(1002), "status": "READY", "address": "14, Changzamtog, Thimphu", "latitude": 27.4715, "longitude": 89.6342, "customer_name": "Karma W"},
		{"code": "ORD-1003", "numeric_id": int64(1003), "status": "ACCEPTED", "address": "3, Motithang, Thimphu", "latitude": 27.4831, "longitude": 89.6205, "customer_name": "Sonam C"},
		{"code": "ORD-1004", "numeric_id": int64(1004), "status": "READY", "address": "5, Dechencholing, Thimphu", "latitude": 27.5500, "longitude": 89.7000, "customer_name": "Pema T"},
		{"code": "ORD-1005", "numeric_id": int64(1005), "status": "ON ROAD", "address": "Hejo, Thimphu", "latitude": 27.4889, "longitude": 89.6311, "customer_name": "Dorji N"},
		{"code": "ORD-1006", "numeric_id": int64(1006), "status": "READY", "address": "Olakha, Thimphu", "latitude": nil, "longitude": nil, "customer_name": "Ugyen L"},
		{"code": "ORD-1007", "numeric_id": int64(1007), "status": "PENDING", "address": "Babesa, Thimphu", "latitude": 27.4301, "longitude": 89.6512, "customer_name": "Choden S"},
		{"code": "ORD-1008", "numeric_id": int64(1008), "status": "DELIVERED", "address": "Langjupakha, Thimphu", "latitude": 27.4920, "longitude": 89.6445, "customer_name": "Nima G"},
	}

	for _, o := range orders {
		_, err := db.Exec(`
			INSERT INTO orders (id, code, numeric_id, business_id, status, address, latitude, longitude, customer_name)
			VALUES ($1, $2, $3, 1, $4, $5, $6, $7, $8)
		`, uuid.New().String(), o["code"], o["numeric_id"], o["status"], o["address"], o["latitude"], o["longitude"], o["customer_name"])
		if err != nil {
			return err
		}
	}

	log.Println("✓ Successfully seeded demo orders")
	return nil
}
