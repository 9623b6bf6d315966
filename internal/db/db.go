package db

import (
	"fmt"
	"log/slog"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

// Connect opens the SQLite database at dbPath. ":memory:" gives a private in-memory database.
func Connect(dbPath string) (*sqlx.DB, error) {
	pool, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := pool.Ping(); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	// SQLite serialises writers; one connection also keeps ":memory:" databases shared.
	pool.SetMaxOpenConns(1)
	slog.Info("Connected to database", "db.path", dbPath)
	return pool, nil
}

// InitializeDB enables foreign keys and creates the schema if it does not exist.
func InitializeDB(db *sqlx.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	userSchema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL
	);`
	if _, err := db.Exec(userSchema); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	statsSchema := `
	CREATE TABLE IF NOT EXISTS user_stats (
		user_id INTEGER PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		wins INTEGER NOT NULL DEFAULT 0,
		losses INTEGER NOT NULL DEFAULT 0,
		draws INTEGER NOT NULL DEFAULT 0
	);`
	if _, err := db.Exec(statsSchema); err != nil {
		return fmt.Errorf("failed to create user_stats table: %w", err)
	}

	slog.Info("DB schema verified")
	return nil
}
