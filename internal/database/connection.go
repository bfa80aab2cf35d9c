package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/example/medlearn/internal/config"
)

// Connect opens the configured database and creates the schema if needed
func Connect(cfg config.Database) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch cfg.Driver {
	case config.DriverPostgres:
		db, err = sqlx.Connect("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
	case config.DriverSQLite, "":
		dbPath := cfg.SQLitePath()
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}

		db, err = sqlx.Connect("sqlite3", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}

		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// idColumn returns an auto-incrementing primary key definition for the driver
func idColumn(db *sqlx.DB) string {
	if db.DriverName() == "postgres" {
		return "id BIGSERIAL PRIMARY KEY"
	}
	return "id INTEGER PRIMARY KEY AUTOINCREMENT"
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	statements := []struct {
		table string
		ddl   string
	}{
		{"decks", `
			CREATE TABLE IF NOT EXISTS decks (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				icon TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`},
		{"cards", `
			CREATE TABLE IF NOT EXISTS cards (
				deck_id TEXT NOT NULL,
				id INTEGER NOT NULL,
				question TEXT NOT NULL,
				answer TEXT NOT NULL,
				category TEXT NOT NULL DEFAULT '',
				PRIMARY KEY (deck_id, id),
				FOREIGN KEY (deck_id) REFERENCES decks(id)
			)`},
		{"card_progress", `
			CREATE TABLE IF NOT EXISTS card_progress (
				deck_id TEXT NOT NULL,
				card_id INTEGER NOT NULL,
				interval_days INTEGER NOT NULL DEFAULT 0,
				ease_factor DOUBLE PRECISION NOT NULL DEFAULT 2.5,
				reviews INTEGER NOT NULL DEFAULT 0,
				last_review BIGINT NOT NULL DEFAULT 0,
				PRIMARY KEY (deck_id, card_id)
			)`},
		{"review_log", `
			CREATE TABLE IF NOT EXISTS review_log (
				` + idColumn(db) + `,
				session_id TEXT NOT NULL,
				deck_id TEXT NOT NULL,
				card_id INTEGER NOT NULL,
				rating INTEGER NOT NULL,
				interval_days INTEGER NOT NULL,
				ease_factor DOUBLE PRECISION NOT NULL,
				reviewed_at TIMESTAMP NOT NULL
			)`},
		{"quiz_results", `
			CREATE TABLE IF NOT EXISTS quiz_results (
				` + idColumn(db) + `,
				session_id TEXT NOT NULL,
				deck_id TEXT NOT NULL,
				total INTEGER NOT NULL,
				correct INTEGER NOT NULL,
				percent INTEGER NOT NULL,
				duration_seconds INTEGER NOT NULL,
				taken_at TIMESTAMP NOT NULL
			)`},
		{"lessons", `
			CREATE TABLE IF NOT EXISTS lessons (
				course_id TEXT NOT NULL,
				id INTEGER NOT NULL,
				title TEXT NOT NULL,
				filename TEXT NOT NULL DEFAULT '',
				duration_seconds INTEGER NOT NULL DEFAULT 0,
				PRIMARY KEY (course_id, id)
			)`},
		{"course_progress", `
			CREATE TABLE IF NOT EXISTS course_progress (
				course_id TEXT PRIMARY KEY,
				last_index INTEGER NOT NULL DEFAULT 0
			)`},
		{"lesson_progress", `
			CREATE TABLE IF NOT EXISTS lesson_progress (
				course_id TEXT NOT NULL,
				lesson_id INTEGER NOT NULL,
				completed BOOLEAN NOT NULL DEFAULT FALSE,
				PRIMARY KEY (course_id, lesson_id)
			)`},
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", stmt.table, err)
		}
	}

	if _, err := db.Exec("CREATE INDEX IF NOT EXISTS idx_review_log_session ON review_log(session_id)"); err != nil {
		return fmt.Errorf("failed to create review_log index: %w", err)
	}
	return nil
}
