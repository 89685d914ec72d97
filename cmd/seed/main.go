// seed inserts a local admin, a demo scholar account, and one unused QR
// login token into the dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/anhtnguyen/historylab/internal/domain"
	"github.com/anhtnguyen/historylab/internal/identity"
	"github.com/anhtnguyen/historylab/internal/infrastructure/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	adminEmail    = "admin@historylab.local"
	adminPassword = "admin-dev-password"
	demoEmail     = "scholar@historylab.local"
	demoPassword  = "scholar-dev-password"
)

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	if err := postgres.Migrate(dbURL); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	adminID := upsertUser(ctx, pool, adminEmail, adminPassword, domain.RoleAdmin)
	demoID := upsertUser(ctx, pool, demoEmail, demoPassword, domain.RoleUser)

	// One ready-to-scan login token for the demo account.
	tokenID := fmt.Sprintf("seed-token-%d", time.Now().Unix())
	_, err = pool.Exec(ctx, `
		INSERT INTO login_tokens (id, user_id, email, password, name, created_by, used)
		VALUES ($1, $2, $3, $4, 'Demo Scholar', $5, FALSE)
		ON CONFLICT (id) DO NOTHING`,
		tokenID, demoID, demoEmail, demoPassword, adminID,
	)
	if err != nil {
		log.Fatalf("insert login token: %v", err)
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Admin:   %s / %s\n", adminEmail, adminPassword)
	fmt.Printf("  Scholar: %s / %s\n", demoEmail, demoPassword)
	fmt.Printf("  Token:   %s\n", tokenID)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1: redeem the seeded QR token (single use):")
	fmt.Println()
	fmt.Printf("    curl -s http://localhost:8080/qr-login/%s\n", tokenID)
	fmt.Println()
	fmt.Println("  Step 2: redeem it again and watch it refuse:")
	fmt.Println()
	fmt.Printf("    curl -s http://localhost:8080/qr-login/%s\n", tokenID)
	fmt.Println()
	fmt.Println("  Step 3: log in as admin and issue a fresh token:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/auth/login \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", adminEmail, adminPassword)
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Printf("    curl -s -X POST http://localhost:8080/admin/tokens \\\n")
	fmt.Printf("      -H \"Authorization: Bearer $JWT\" -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"user_id\":\"%s\",\"password\":\"%s\"}'\n", demoID, demoPassword)
}

func upsertUser(ctx context.Context, pool *pgxpool.Pool, email, password string, role domain.Role) string {
	hash, err := identity.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	var id string
	err = pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET updated_at = NOW()
		RETURNING id`,
		email, hash, role,
	).Scan(&id)
	if err != nil {
		log.Fatalf("upsert user %s: %v", email, err)
	}
	return id
}
