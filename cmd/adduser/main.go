package main

import (
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// One-off account creation for onboarding a merchant or admin without
// going through the seed path.
func main() {
	email := flag.String("email", "", "account email (required)")
	name := flag.String("name", "", "display name (required)")
	role := flag.String("role", "merchant", "merchant or admin")
	password := flag.String("password", "", "plaintext password (required)")
	businessID := flag.String("business", "", "business id (required for merchants)")
	flag.Parse()

	if *email == "" || *name == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *role != "merchant" && *role != "admin" {
		log.Fatalf("Invalid role: %s", *role)
	}
	if *role == "merchant" && *businessID == "" {
		log.Fatal("Merchant accounts need -business")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("🔌 Connected to database")

	var exists bool
	if err := db.Get(&exists, "SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", *email); err != nil {
		log.Fatalf("Error checking for user %s: %v", *email, err)
	}
	if exists {
		log.Fatalf("User already exists: %s", *email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	var bizID interface{}
	if *businessID != "" {
		n, err := strconv.ParseInt(*businessID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid business id: %s", *businessID)
		}
		bizID = n
	}

	_, err = db.Exec(`
		INSERT INTO users (id, email, password, name, role, business_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.New().String(), *email, string(hashed), *name, *role, bizID)
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	log.Printf("✅ Created %s user: %s", *role, *email)
}
