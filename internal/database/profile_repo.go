package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"linkedin-scraper/internal/models"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("not found")

// ProfileRepository handles profile operations
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db.GetConn()}
}

// SaveProfile inserts a profile, replacing any earlier fetch of the same URL
func (pr *ProfileRepository) SaveProfile(sessionID string, profile models.ProfileData, fetchedAt time.Time) error {
	if profile.IsEmpty() {
		return fmt.Errorf("refusing to store empty profile")
	}

	_, err := pr.db.Exec(`
		INSERT INTO profiles (source_url, name, headline, location, session_id, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_url) DO UPDATE SET
			name = excluded.name,
			headline = excluded.headline,
			location = excluded.location,
			session_id = excluded.session_id,
			fetched_at = excluded.fetched_at
	`, profile.SourceURL, profile.Name, profile.Headline, profile.Location, sessionID, fetchedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save profile %s: %w", profile.SourceURL, err)
	}
	return nil
}

// GetProfile returns the stored profile for sourceURL
func (pr *ProfileRepository) GetProfile(sourceURL string) (models.StoredProfile, error) {
	var p models.StoredProfile
	err := pr.db.QueryRow(`
		SELECT source_url, name, headline, location, session_id, fetched_at
		FROM profiles WHERE source_url = ?
	`, sourceURL).Scan(&p.SourceURL, &p.Name, &p.Headline, &p.Location, &p.SessionID, &p.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return p, fmt.Errorf("profile %s: %w", sourceURL, ErrNotFound)
	}
	return p, err
}

// ListProfiles returns stored profiles, most recently fetched first
func (pr *ProfileRepository) ListProfiles(limit int) ([]models.StoredProfile, error) {
	query := `SELECT source_url, name, headline, location, session_id, fetched_at FROM profiles ORDER BY fetched_at DESC, id DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := pr.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []models.StoredProfile
	for rows.Next() {
		var p models.StoredProfile
		if err := rows.Scan(&p.SourceURL, &p.Name, &p.Headline, &p.Location, &p.SessionID, &p.FetchedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}

// CountProfiles returns the number of stored profiles
func (pr *ProfileRepository) CountProfiles() (int, error) {
	var count int
	err := pr.db.QueryRow(`SELECT COUNT(*) FROM profiles`).Scan(&count)
	return count, err
}
