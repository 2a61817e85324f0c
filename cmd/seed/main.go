package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/yogasw/expense-tracker-api/config"
	"github.com/yogasw/expense-tracker-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@example.com"
	password := "password123"
	name := "Demo User"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, name, email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, email, password)

	now := time.Now()
	samples := []struct {
		title    string
		amount   float64
		category string
		daysAgo  int
		desc     string
	}{
		{"Groceries", 54.20, "Food", 1, "weekly shop"},
		{"Bus pass", 29.90, "Transport", 3, ""},
		{"Cinema", 12.50, "Entertainment", 5, "evening show"},
		{"Electricity bill", 88.70, "Utilities", 12, ""},
		{"Coffee", 3.80, "Food", 0, ""},
	}
	for _, s := range samples {
		if _, err := db.Exec(`
			INSERT INTO expenses (title, amount, category, date, description, owner_id)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, s.title, s.amount, s.category, now.AddDate(0, 0, -s.daysAgo), s.desc, id); err != nil {
			log.Fatalf("failed to seed expense %q: %v", s.title, err)
		}
	}
	fmt.Printf("seeded %d expenses\n", len(samples))
}
