package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"linkedin-scraper/internal/config"
	"linkedin-scraper/internal/crawler"
	"linkedin-scraper/internal/models"
	"linkedin-scraper/internal/storage"
	"linkedin-scraper/internal/utils"
)

var errLoginFailed = errors.New("login failed")

// driverFactory is swapped out in tests
var driverFactory crawler.DriverFactory = crawler.ChromeDriver

type rootOptions struct {
	envFile  string
	headless bool
	timeout  time.Duration
	dbPath   string
	debug    bool

	cfg models.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:     "scraper",
		Short:   "Fetch public LinkedIn profile fields through a real browser",
		Version: version,
		Example: `  # Check that the credentials in .env work
  scraper login

  # Fetch one profile and print it as JSON
  scraper profile --json https://www.linkedin.com/in/williamhgates/

  # Fetch a list of profiles with a visible browser, storing the results
  scraper profile --headless=false --db profiles.db --file urls.txt`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(opts.debug)
			if err := config.LoadEnvFile(opts.envFile); err != nil {
				return fmt.Errorf("load env file: %w", err)
			}

			cfg := config.FromEnv(config.DefaultConfig(), nil)
			cfg.Headless = opts.headless
			if opts.timeout > 0 {
				cfg.WaitTimeout = opts.timeout
			}
			if opts.dbPath != "" {
				cfg.DBPath = opts.dbPath
			}
			opts.cfg = cfg
			return nil
		},
	}

	defaults := config.DefaultConfig()
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.envFile, "env-file", ".env", "file to load environment variables from")
	flags.BoolVar(&opts.headless, "headless", defaults.Headless, "run the browser without a window")
	flags.DurationVar(&opts.timeout, "timeout", defaults.WaitTimeout, "maximum wait for a page element")
	flags.StringVar(&opts.dbPath, "db", "", "SQLite file to store results in (default $SCRAPER_DB)")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(newLoginCmd(opts), newProfileCmd(opts))
	return cmd
}

// runSession starts a browser session, closing it when fn returns or the
// process is interrupted.
func runSession(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, s *crawler.Session, store *storage.DBStorage) error) error {
	var store *storage.DBStorage
	if opts.cfg.DBPath != "" {
		var err error
		store, err = storage.NewDBStorage(opts.cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	s, err := crawler.NewSession(cmd.Context(), opts.cfg,
		crawler.WithDriverFactory(driverFactory),
		crawler.WithLogger(slog.Default().With("cmd", cmd.Name())),
	)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := utils.SetupSignalHandling(cmd.Context(), func() { s.Close() })
	defer stop()

	start := time.Now()
	err = fn(ctx, s, store)
	slog.Debug("session finished", "elapsed", utils.FormatDuration(time.Since(start)))
	return err
}

func login(ctx context.Context, s *crawler.Session, store *storage.DBStorage, account models.Account) (models.LoginResult, error) {
	res, err := s.Login(ctx, account.Email, account.Password)
	if err != nil {
		return res, err
	}
	if store != nil {
		if err := store.RecordLogin(s.ID(), account.Email, res); err != nil {
			slog.Warn("failed to record login attempt", "err", err)
		}
	}
	return res, nil
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and report whether it succeeded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, opts, func(ctx context.Context, s *crawler.Session, store *storage.DBStorage) error {
				account := models.Account{Email: email, Password: password}.Merge(opts.cfg.Credentials)
				res, err := login(ctx, s, store, account)
				if err != nil {
					return err
				}
				if !res.Success {
					fmt.Fprintf(cmd.OutOrStdout(), "login failed (landed on %q)\n", res.URL)
					return errLoginFailed
				}
				fmt.Fprintf(cmd.OutOrStdout(), "login succeeded (%s)\n", res.URL)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "LinkedIn email (default $LINKEDIN_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "LinkedIn password (default $LINKEDIN_PASSWORD)")
	return cmd
}

func newProfileCmd(opts *rootOptions) *cobra.Command {
	var (
		file    string
		asJSON  bool
		noLogin bool
	)

	cmd := &cobra.Command{
		Use:   "profile [URL...]",
		Short: "Fetch name, headline and location of one or more profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			urls := args
			if file != "" {
				fromFile, err := storage.LoadURLsFromFile(file)
				if err != nil {
					return err
				}
				urls = append(urls, fromFile...)
			}
			if len(urls) == 0 {
				return errors.New("no profile URLs given")
			}

			return runSession(cmd, opts, func(ctx context.Context, s *crawler.Session, store *storage.DBStorage) error {
				if !noLogin {
					res, err := login(ctx, s, store, opts.cfg.Credentials)
					switch {
					case errors.Is(err, models.ErrMissingCredentials):
						slog.Info("no credentials configured, fetching anonymously")
					case err != nil:
						return err
					case !res.Success:
						slog.Warn("login failed, fetching anonymously", "url", res.URL)
					}
				}

				failed := 0
				for _, url := range urls {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					res := s.FetchProfile(ctx, url)
					if !res.OK() {
						failed++
					}
					if store != nil {
						if err := store.SaveResult(s.ID(), res); err != nil {
							slog.Warn("failed to store profile", "url", url, "err", err)
						}
					}
					if err := printProfile(cmd.OutOrStdout(), url, res, asJSON); err != nil {
						return err
					}
				}

				if failed == len(urls) {
					return fmt.Errorf("all %d profiles failed", failed)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "file with one profile URL per line")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print one JSON object per profile")
	cmd.Flags().BoolVar(&noLogin, "no-login", false, "skip logging in")
	return cmd
}

func printProfile(w io.Writer, url string, res models.ProfileResult, asJSON bool) error {
	if asJSON {
		// Failed fetches print as {} to keep one line per URL.
		var v any = struct{}{}
		if res.OK() {
			v = res.Profile
		}
		return json.NewEncoder(w).Encode(v)
	}

	if !res.OK() {
		_, err := fmt.Fprintf(w, "%s\n  error: %v\n", url, res.Err)
		return err
	}
	_, err := fmt.Fprintf(w, "%s\n  name:     %s\n  headline: %s\n  location: %s\n",
		url, res.Profile.Name, res.Profile.Headline, res.Profile.Location)
	return err
}
