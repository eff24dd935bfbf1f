package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"linkedin-scraper/internal/models"
)

func TestParseURLs(t *testing.T) {
	content := `# profiles to fetch
https://www.linkedin.com/in/williamhgates/

gates,https://www.linkedin.com/in/williamhgates/
satya, https://www.linkedin.com/in/satyanadella/
  https://www.linkedin.com/in/jeffweiner08/  
`
	require.Equal(t, []string{
		"https://www.linkedin.com/in/williamhgates/",
		"https://www.linkedin.com/in/satyanadella/",
		"https://www.linkedin.com/in/jeffweiner08/",
	}, ParseURLs(content))
}

func TestLoadURLsFromFile(t *testing.T) {
	_, err := LoadURLsFromFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(path, []byte("https://www.linkedin.com/in/williamhgates/\n"), 0o644))
	urls, err := LoadURLsFromFile(path)
	require.NoError(t, err)
	require.Equal(t, []string{"https://www.linkedin.com/in/williamhgates/"}, urls)
}

func TestDBStorage(t *testing.T) {
	ds, err := NewDBStorage(filepath.Join(t.TempDir(), "scraper.db"))
	require.NoError(t, err)
	defer ds.Close()

	fixed := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	ds.now = func() time.Time { return fixed }

	gates := models.ProfileData{Name: "Bill Gates", Headline: "Chair", Location: "Seattle", SourceURL: "https://www.linkedin.com/in/williamhgates/"}
	require.NoError(t, ds.SaveResult("s1", models.ProfileResult{Profile: gates}))
	require.NoError(t, ds.SaveResult("s1", models.ProfileResult{Err: errors.New("timeout")}))

	count, err := ds.ProfileRepo.CountProfiles()
	require.NoError(t, err)
	require.Equal(t, 1, count)

	stored, err := ds.ProfileRepo.GetProfile(gates.SourceURL)
	require.NoError(t, err)
	require.True(t, fixed.Equal(stored.FetchedAt))

	require.NoError(t, ds.RecordLogin("s1", "alice@example.com", models.LoginResult{Success: true, URL: "https://www.linkedin.com/feed/"}))
	attempts, err := ds.AttemptRepo.GetAttemptsByEmail("alice@example.com")
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	require.True(t, attempts[0].Success)
}
