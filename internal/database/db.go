package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB represents the database connection
type DB struct {
	conn *sql.DB
}

// New opens (creating if needed) the SQLite database at dbPath
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite3", fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_timeout=5000", dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't support multiple writers
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	db := &DB{conn: conn}

	if err := db.InitSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// InitSchema creates the tables that don't exist yet
func (db *DB) InitSchema() error {
	createQueries := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source_url TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			headline TEXT NOT NULL,
			location TEXT NOT NULL,
			session_id TEXT NOT NULL,
			fetched_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS login_attempts (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			email TEXT NOT NULL,
			success BOOLEAN NOT NULL,
			landing_url TEXT,
			last_error TEXT,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_login_attempts_email ON login_attempts(email)`,
	}

	for _, query := range createQueries {
		if _, err := db.conn.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// GetConn returns the underlying connection (for repositories)
func (db *DB) GetConn() *sql.DB {
	return db.conn
}
