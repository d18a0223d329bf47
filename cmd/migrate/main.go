// CLI tool to apply pending Postgres migrations from db/ (kv_store and the
// migrations bookkeeping table). Only needed when DB_URL is set; the SQLite
// store creates its own table.
// Checks the migrations table to skip already-applied files and wraps each
// migration + record insert in a single transaction.
// Usage: go run ./cmd/migrate [-dir db] [-dry-run]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

var migrationPrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-\d{3}-`)

func main() {
	dir := flag.String("dir", "db", "directory holding *.sql migrations")
	dryRun := flag.Bool("dry-run", false, "list pending migrations without applying them")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		os.Exit(1)
	}
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		fmt.Fprintln(os.Stderr, "DB_URL is not set; nothing to migrate")
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	ran, err := migrate(ctx, conn, *dir, *dryRun)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	switch {
	case ran == 0:
		fmt.Println("No pending migrations.")
	case *dryRun:
		fmt.Printf("\n%d migration(s) pending.\n", ran)
	default:
		fmt.Printf("\n%d migration(s) applied.\n", ran)
	}
}

// migrate applies every file in dir not yet recorded in the migrations table
// and returns how many it applied (or would apply, with dryRun).
func migrate(ctx context.Context, conn *pgx.Conn, dir string, dryRun bool) (int, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil || len(files) == 0 {
		return 0, fmt.Errorf("no migration files found in %s", dir)
	}
	sort.Strings(files)

	applied, err := appliedMigrations(ctx, conn)
	if err != nil {
		return 0, err
	}

	ran := 0
	for _, f := range files {
		filename := filepath.Base(f)
		if applied[filename] {
			fmt.Printf("  skip: %s\n", filename)
			continue
		}
		if dryRun {
			fmt.Printf("  pending: %s\n", filename)
			ran++
			continue
		}
		if err := applyFile(ctx, conn, f); err != nil {
			return ran, err
		}
		fmt.Printf("  applied: %s\n", filename)
		ran++
	}
	return ran, nil
}

// appliedMigrations reads the migrations table. A missing table means
// nothing has been applied yet.
func appliedMigrations(ctx context.Context, conn *pgx.Conn) (map[string]bool, error) {
	applied := make(map[string]bool)
	var exists bool
	if err := conn.QueryRow(ctx, "SELECT to_regclass('migrations') IS NOT NULL").Scan(&exists); err != nil {
		return nil, fmt.Errorf("check migrations table: %w", err)
	}
	if !exists {
		return applied, nil
	}
	rows, err := conn.Query(ctx, "SELECT migration FROM migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan migrations: %w", err)
	}
	for _, n := range names {
		applied[n] = true
	}
	return applied, nil
}

func applyFile(ctx context.Context, conn *pgx.Conn, path string) error {
	filename := filepath.Base(path)
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filename, err)
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("run %s: %w", filename, err)
	}
	if _, err := tx.Exec(ctx, "INSERT INTO migrations (migration, description) VALUES ($1, $2)",
		filename, descriptionFromFilename(filename)); err != nil {
		return fmt.Errorf("record %s: %w", filename, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit %s: %w", filename, err)
	}
	return nil
}

// descriptionFromFilename strips the YYYY-MM-DD-NNN- prefix and .sql suffix.
func descriptionFromFilename(filename string) string {
	name := migrationPrefix.ReplaceAllString(strings.TrimSuffix(filename, ".sql"), "")
	return strings.ReplaceAll(name, "-", " ")
}
