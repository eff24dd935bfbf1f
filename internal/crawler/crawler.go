package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"linkedin-scraper/internal/auth"
	"linkedin-scraper/internal/models"
)

// ErrSessionClosed is the failure cause for operations after Close
var ErrSessionClosed = errors.New("session is closed")

// State is the authentication state of a Session
type State int

const (
	StateAnonymous State = iota
	StateAuthenticated
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// DriverFactory launches the browser backing a Session
type DriverFactory func(ctx context.Context, cfg models.Config) (auth.Driver, error)

// ChromeDriver launches a real Chrome through chromedp
func ChromeDriver(ctx context.Context, cfg models.Config) (auth.Driver, error) {
	return auth.NewBrowserManager(ctx, cfg)
}

// Option configures a Session
type Option func(*Session)

// WithDriverFactory replaces the browser launcher
func WithDriverFactory(f DriverFactory) Option {
	return func(s *Session) { s.newDriver = f }
}

// WithLogger sets the logger; session_id is added to every line
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// Session owns one browser and its login state. Operations run one at a
// time.
type Session struct {
	id        string
	cfg       models.Config
	logger    *slog.Logger
	newDriver DriverFactory

	driver    auth.Driver
	login     *auth.LoginService
	extractor *ProfileExtractor
	sem       *semaphore.Weighted

	mu        sync.Mutex
	state     State
	closeOnce sync.Once
	closeErr  error
}

// NewSession launches a browser configured per cfg
func NewSession(ctx context.Context, cfg models.Config, opts ...Option) (*Session, error) {
	s := &Session{
		id:        uuid.New().String(),
		cfg:       cfg,
		logger:    slog.Default(),
		newDriver: ChromeDriver,
		extractor: NewProfileExtractor(),
		sem:       semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session_id", s.id)

	driver, err := s.newDriver(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s.driver = driver
	s.login = auth.NewLoginService(driver, cfg, s.logger)

	s.logger.Debug("browser started", "headless", cfg.Headless)
	return s, nil
}

// ID returns the session id used in logs and storage
func (s *Session) ID() string {
	return s.id
}

// State returns the current authentication state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateClosed {
		s.state = state
	}
}

// acquire reserves the session for one operation
func (s *Session) acquire(ctx context.Context) error {
	if s.State() == StateClosed {
		return ErrSessionClosed
	}
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	if s.State() == StateClosed {
		s.sem.Release(1)
		return ErrSessionClosed
	}
	return nil
}

// Login signs in with email and password, falling back to the configured
// credentials for empty arguments. Missing credentials are returned as
// models.ErrMissingCredentials; every other failure is reported through the
// result with a nil error.
func (s *Session) Login(ctx context.Context, email, password string) (models.LoginResult, error) {
	account := models.Account{Email: email, Password: password}.Merge(s.cfg.Credentials)
	if err := account.Validate(); err != nil {
		return models.LoginResult{}, err
	}

	if err := s.acquire(ctx); err != nil {
		s.logger.Warn("login failed", "err", err)
		return models.LoginResult{Err: err}, nil
	}
	defer s.sem.Release(1)

	res, err := s.login.Login(ctx, account)
	if err != nil {
		return res, err
	}
	if res.Success {
		s.setState(StateAuthenticated)
	}
	return res, nil
}

// FetchProfile loads url and extracts the profile fields. On any failure
// the result holds the zero record and the cause.
func (s *Session) FetchProfile(ctx context.Context, url string) models.ProfileResult {
	if err := s.acquire(ctx); err != nil {
		s.logger.Warn("failed to get profile info", "url", url, "err", err)
		return models.ProfileResult{Err: err}
	}
	defer s.sem.Release(1)

	profile, err := s.fetch(ctx, url)
	if err != nil {
		s.logger.Warn("failed to get profile info", "url", url, "err", err)
		return models.ProfileResult{Err: err}
	}

	s.logger.Info("profile fetched", "url", url, "name", profile.Name)
	return models.ProfileResult{Profile: profile}
}

func (s *Session) fetch(ctx context.Context, url string) (models.ProfileData, error) {
	if err := auth.Navigate(ctx, s.driver, url, s.cfg.NavigateTimeout); err != nil {
		return models.ProfileData{}, fmt.Errorf("open profile: %w", err)
	}

	// The render allowance and the element wait share one deadline.
	waitCtx, cancel := context.WithTimeout(ctx, s.cfg.RenderSettle+s.cfg.WaitTimeout)
	defer cancel()
	if err := s.driver.WaitReady(waitCtx, SelectorName); err != nil {
		return models.ProfileData{}, fmt.Errorf("wait for profile name: %w", err)
	}

	html, err := s.driver.OuterHTML(waitCtx)
	if err != nil {
		return models.ProfileData{}, fmt.Errorf("read profile page: %w", err)
	}
	return s.extractor.ExtractProfileData(html, url)
}

// Alive reports whether the browser process is still running
func (s *Session) Alive() bool {
	return s.driver.Alive()
}

// Close terminates the browser. Subsequent calls return the first result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.state = StateClosed
		s.mu.Unlock()

		s.closeErr = s.driver.Close()
		if s.closeErr != nil {
			s.logger.Warn("failed to close browser", "err", s.closeErr)
			return
		}
		s.logger.Debug("browser closed")
	})
	return s.closeErr
}
