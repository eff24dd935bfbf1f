package storage

import (
	"fmt"
	"os"
	"strings"
	"time"

	"linkedin-scraper/internal/database"
	"linkedin-scraper/internal/models"
)

// DBStorage groups the repositories backed by one SQLite file
type DBStorage struct {
	DB          *database.DB
	ProfileRepo *database.ProfileRepository
	AttemptRepo *database.AttemptRepository

	now func() time.Time
}

// NewDBStorage creates a new database storage
func NewDBStorage(dbPath string) (*DBStorage, error) {
	db, err := database.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	return &DBStorage{
		DB:          db,
		ProfileRepo: database.NewProfileRepository(db),
		AttemptRepo: database.NewAttemptRepository(db),
		now:         time.Now,
	}, nil
}

// Close closes the database connection
func (ds *DBStorage) Close() error {
	return ds.DB.Close()
}

// SaveResult stores a successful fetch; failed results are skipped
func (ds *DBStorage) SaveResult(sessionID string, res models.ProfileResult) error {
	if !res.OK() {
		return nil
	}
	return ds.ProfileRepo.SaveProfile(sessionID, res.Profile, ds.now())
}

// RecordLogin stores the outcome of a login attempt
func (ds *DBStorage) RecordLogin(sessionID, email string, res models.LoginResult) error {
	_, err := ds.AttemptRepo.RecordAttempt(sessionID, email, res, ds.now())
	return err
}

// LoadURLsFromFile reads profile URLs, one per line. Blank lines and lines
// starting with # are skipped; duplicates are dropped keeping first order.
func LoadURLsFromFile(filePath string) ([]string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read urls file: %w", err)
	}
	return ParseURLs(string(content)), nil
}

// ParseURLs parses the LoadURLsFromFile format
func ParseURLs(content string) []string {
	seen := make(map[string]struct{})
	var urls []string

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Handle CSV format: the URL is the last column
		if strings.Contains(line, ",") {
			parts := strings.Split(line, ",")
			line = strings.TrimSpace(parts[len(parts)-1])
		}

		if _, dup := seen[line]; dup || line == "" {
			continue
		}
		seen[line] = struct{}{}
		urls = append(urls, line)
	}

	return urls
}
