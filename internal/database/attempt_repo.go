package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"linkedin-scraper/internal/models"
)

// LoginAttempt is one recorded login
type LoginAttempt struct {
	ID         string
	SessionID  string
	Email      string
	Success    bool
	LandingURL string
	LastError  string
	CreatedAt  time.Time
}

// AttemptRepository handles login attempt operations
type AttemptRepository struct {
	db *sql.DB
}

// NewAttemptRepository creates a new login attempt repository
func NewAttemptRepository(db *DB) *AttemptRepository {
	return &AttemptRepository{db: db.GetConn()}
}

// RecordAttempt stores the outcome of a login and returns its id
func (ar *AttemptRepository) RecordAttempt(sessionID, email string, res models.LoginResult, at time.Time) (string, error) {
	id := uuid.New().String()

	var lastError sql.NullString
	if res.Err != nil {
		lastError = sql.NullString{String: res.Err.Error(), Valid: true}
	}

	_, err := ar.db.Exec(`
		INSERT INTO login_attempts (id, session_id, email, success, landing_url, last_error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, sessionID, email, res.Success, res.URL, lastError, at.UTC())
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetAttemptsByEmail returns attempts for email, newest first
func (ar *AttemptRepository) GetAttemptsByEmail(email string) ([]LoginAttempt, error) {
	rows, err := ar.db.Query(`
		SELECT id, session_id, email, success, landing_url, last_error, created_at
		FROM login_attempts WHERE email = ? ORDER BY created_at DESC
	`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []LoginAttempt
	for rows.Next() {
		var a LoginAttempt
		var landing, lastError sql.NullString
		if err := rows.Scan(&a.ID, &a.SessionID, &a.Email, &a.Success, &landing, &lastError, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.LandingURL = landing.String
		a.LastError = lastError.String
		attempts = append(attempts, a)
	}

	return attempts, rows.Err()
}
