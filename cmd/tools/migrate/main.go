// Command migrate applies the SQL files under migrations/ to the configured
// PostgreSQL database, in lexical order, skipping files that were already
// applied. Applied filenames are tracked in a schema_migrations table.
//
// Usage:
//
//	go run cmd/tools/migrate/main.go [migrations-dir]
//
// Requires DATABASE_URL environment variable to be set.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "ERROR: DATABASE_URL environment variable not set")
		os.Exit(1)
	}

	dir := "migrations"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to create schema_migrations table: %v\n", err)
		os.Exit(1)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to read %s: %v\n", dir, err)
		os.Exit(1)
	}

	fmt.Println("=== Database Migrations ===")
	fmt.Println()

	applied := 0
	skipped := 0

	// os.ReadDir returns entries sorted by filename, which is the apply order.
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		var exists bool
		err := pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE filename = $1)`, name,
		).Scan(&exists)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to check migration %s: %v\n", name, err)
			os.Exit(1)
		}
		if exists {
			fmt.Printf("  • Skipped: %s (already applied)\n", name)
			skipped++
			continue
		}

		sql, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to read %s: %v\n", name, err)
			os.Exit(1)
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to begin transaction: %v\n", err)
			os.Exit(1)
		}
		if _, err := tx.Exec(ctx, string(sql)); err != nil {
			tx.Rollback(ctx) //nolint:errcheck
			fmt.Fprintf(os.Stderr, "ERROR: Migration %s failed: %v\n", name, err)
			os.Exit(1)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO schema_migrations (filename) VALUES ($1)`, name,
		); err != nil {
			tx.Rollback(ctx) //nolint:errcheck
			fmt.Fprintf(os.Stderr, "ERROR: Failed to record migration %s: %v\n", name, err)
			os.Exit(1)
		}
		if err := tx.Commit(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to commit migration %s: %v\n", name, err)
			os.Exit(1)
		}

		fmt.Printf("  ✓ Applied: %s\n", name)
		applied++
	}

	fmt.Println()
	fmt.Println("=== Migration Summary ===")
	fmt.Printf("  Applied: %d\n", applied)
	fmt.Printf("  Skipped: %d\n", skipped)
}
