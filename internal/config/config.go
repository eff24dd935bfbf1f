package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"

	"linkedin-scraper/internal/models"
)

// Environment variable names read by FromEnv
const (
	EnvEmail      = "LINKEDIN_EMAIL"
	EnvPassword   = "LINKEDIN_PASSWORD"
	EnvChromePath = "CHROME_PATH"
	EnvDBPath     = "SCRAPER_DB"
)

// DefaultConfig returns the default configuration for the scraper
func DefaultConfig() models.Config {
	return models.Config{
		Headless:        true,
		UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
		NavigateTimeout: 30 * time.Second,
		WaitTimeout:     10 * time.Second,
		LoginSettle:     3 * time.Second,
		RenderSettle:    2 * time.Second,
		PollInterval:    250 * time.Millisecond,
		LoginURL:        "https://www.linkedin.com/login",
		SuccessMarker:   "feed",
	}
}

// LoadEnvFile loads variables from a .env file into the process
// environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// FromEnv overlays values found in the environment onto cfg
func FromEnv(cfg models.Config, getenv func(string) string) models.Config {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg.Credentials = cfg.Credentials.Merge(models.Account{
		Email:    getenv(EnvEmail),
		Password: getenv(EnvPassword),
	})
	if v := getenv(EnvChromePath); v != "" {
		cfg.ChromePath = v
	}
	if v := getenv(EnvDBPath); v != "" {
		cfg.DBPath = v
	}
	return cfg
}
