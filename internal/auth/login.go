package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"linkedin-scraper/internal/models"
)

// LinkedIn login form selectors
const (
	SelectorUsername = "#username"
	SelectorPassword = "#password"
	SelectorSubmit   = "button[type='submit']"
)

var errNotLanded = errors.New("success marker not in address yet")

// LoginService runs the LinkedIn login protocol against a Driver
type LoginService struct {
	driver Driver
	cfg    models.Config
	logger *slog.Logger
}

// NewLoginService creates a new LoginService instance
func NewLoginService(driver Driver, cfg models.Config, logger *slog.Logger) *LoginService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoginService{
		driver: driver,
		cfg:    cfg,
		logger: logger,
	}
}

// Login submits the login form with account and reports whether the browser
// landed on a page whose address contains the success marker. Operational
// failures come back in the result; the returned error is only set for
// missing credentials.
func (ls *LoginService) Login(ctx context.Context, account models.Account) (models.LoginResult, error) {
	if err := account.Validate(); err != nil {
		return models.LoginResult{}, err
	}

	ls.logger.Info("logging in", "email", account.Email)

	if err := ls.submit(ctx, account); err != nil {
		ls.logger.Warn("login failed", "err", err)
		return models.LoginResult{Err: err}, nil
	}

	url, err := ls.waitForLanding(ctx)
	if err != nil {
		ls.logger.Warn("login failed", "url", url, "err", err)
		return models.LoginResult{URL: url, Err: err}, nil
	}

	ls.logger.Info("login succeeded", "url", url)
	return models.LoginResult{Success: true, URL: url}, nil
}

func (ls *LoginService) submit(ctx context.Context, account models.Account) error {
	if err := Navigate(ctx, ls.driver, ls.cfg.LoginURL, ls.cfg.NavigateTimeout); err != nil {
		return fmt.Errorf("open login page: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, ls.cfg.WaitTimeout)
	defer cancel()

	if err := ls.driver.WaitReady(waitCtx, SelectorUsername); err != nil {
		return fmt.Errorf("wait for username field: %w", err)
	}
	if err := ls.driver.SendKeys(waitCtx, SelectorUsername, account.Email); err != nil {
		return fmt.Errorf("fill username: %w", err)
	}
	if err := ls.driver.SendKeys(waitCtx, SelectorPassword, account.Password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	if err := ls.driver.Click(waitCtx, SelectorSubmit); err != nil {
		return fmt.Errorf("click submit: %w", err)
	}
	return nil
}

// waitForLanding polls the page address until it contains the success
// marker, for at most LoginSettle.
func (ls *LoginService) waitForLanding(ctx context.Context) (string, error) {
	settleCtx, cancel := context.WithTimeout(ctx, ls.cfg.LoginSettle)
	defer cancel()

	marker := strings.ToLower(ls.cfg.SuccessMarker)
	var url string

	op := func() error {
		current, err := ls.driver.Location(settleCtx)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read address: %w", err))
		}
		url = current
		if strings.Contains(strings.ToLower(current), marker) {
			return nil
		}
		return errNotLanded
	}

	b := backoff.WithContext(backoff.NewConstantBackOff(ls.pollInterval()), settleCtx)
	err := backoff.Retry(op, b)
	if err == nil {
		return url, nil
	}
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return url, fmt.Errorf("address %q does not contain %q: %w", url, ls.cfg.SuccessMarker, errNotLanded)
	}
	return url, err
}

// Navigate loads url on d, bounded by timeout when it is positive
func Navigate(ctx context.Context, d Driver, url string, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return d.Navigate(ctx, url)
}

func (ls *LoginService) pollInterval() time.Duration {
	if ls.cfg.PollInterval > 0 {
		return ls.cfg.PollInterval
	}
	return 250 * time.Millisecond
}
