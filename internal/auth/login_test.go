package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"linkedin-scraper/internal/config"
	"linkedin-scraper/internal/models"
	"linkedin-scraper/internal/testutil"
)

const (
	feedURL       = "https://www.linkedin.com/feed/"
	checkpointURL = "https://www.linkedin.com/checkpoint/lg/login-submit"
)

func testConfig() models.Config {
	cfg := config.DefaultConfig()
	cfg.WaitTimeout = 100 * time.Millisecond
	cfg.LoginSettle = 150 * time.Millisecond
	cfg.PollInterval = 10 * time.Millisecond
	return cfg
}

func newDriver() *testutil.FakeDriver {
	d := testutil.NewFakeDriver()
	d.Pages[config.DefaultConfig().LoginURL] = testutil.LoginPageHTML
	d.Pages[feedURL] = "<html><body>feed</body></html>"
	d.Pages[checkpointURL] = "<html><body>wrong password</body></html>"
	d.Redirect = func(email, password string) string {
		if email == "alice@example.com" && password == "correct" {
			return feedURL
		}
		return checkpointURL
	}
	return d
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		ls := NewLoginService(newDriver(), testConfig(), nil)
		res, err := ls.Login(ctx, models.Account{Email: "alice@example.com", Password: "correct"})
		require.NoError(t, err)
		require.True(t, res.Success)
		require.Equal(t, feedURL, res.URL)
		require.NoError(t, res.Err)
	})

	t.Run("wrong password", func(t *testing.T) {
		ls := NewLoginService(newDriver(), testConfig(), nil)
		res, err := ls.Login(ctx, models.Account{Email: "invalid@example.com", Password: "invalidpassword"})
		require.NoError(t, err)
		require.False(t, res.Success)
		require.Equal(t, checkpointURL, res.URL)
		require.ErrorIs(t, res.Err, errNotLanded)
	})

	t.Run("missing credentials", func(t *testing.T) {
		d := newDriver()
		ls := NewLoginService(d, testConfig(), nil)
		_, err := ls.Login(ctx, models.Account{Email: "alice@example.com"})
		require.ErrorIs(t, err, models.ErrMissingCredentials)
		require.Empty(t, d.Calls())
	})

	t.Run("layout changed", func(t *testing.T) {
		d := newDriver()
		d.Pages[config.DefaultConfig().LoginURL] = "<html><body><form></form></body></html>"
		ls := NewLoginService(d, testConfig(), nil)

		start := time.Now()
		res, err := ls.Login(ctx, models.Account{Email: "alice@example.com", Password: "correct"})
		require.NoError(t, err)
		require.False(t, res.Success)
		require.ErrorIs(t, res.Err, context.DeadlineExceeded)
		require.Less(t, time.Since(start), 2*time.Second)
	})

	t.Run("network failure", func(t *testing.T) {
		d := newDriver()
		netErr := errors.New("net::ERR_INTERNET_DISCONNECTED")
		d.Errors["Navigate"] = netErr
		ls := NewLoginService(d, testConfig(), nil)

		res, err := ls.Login(ctx, models.Account{Email: "alice@example.com", Password: "correct"})
		require.NoError(t, err)
		require.False(t, res.Success)
		require.ErrorIs(t, res.Err, netErr)
	})

	t.Run("address read failure", func(t *testing.T) {
		d := newDriver()
		d.Errors["Location"] = errors.New("target closed")
		ls := NewLoginService(d, testConfig(), nil)

		res, err := ls.Login(ctx, models.Account{Email: "alice@example.com", Password: "correct"})
		require.NoError(t, err)
		require.False(t, res.Success)
		require.ErrorContains(t, res.Err, "target closed")
	})
}

func TestLoginMarkerCaseInsensitive(t *testing.T) {
	d := newDriver()
	d.Pages["https://www.linkedin.com/FEED/"] = "<html></html>"
	d.Redirect = func(string, string) string { return "https://www.linkedin.com/FEED/" }

	ls := NewLoginService(d, testConfig(), nil)
	res, err := ls.Login(context.Background(), models.Account{Email: "a@b.c", Password: "x"})
	require.NoError(t, err)
	require.True(t, res.Success)
}
