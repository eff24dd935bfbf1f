package models

import "time"

// Config represents the application configuration
type Config struct {
	Headless   bool
	ChromePath string // empty means look the browser up on PATH
	UserAgent  string

	NavigateTimeout time.Duration // bounds a page load
	WaitTimeout     time.Duration // bounds every element wait
	LoginSettle     time.Duration // bounds the wait for the post-login redirect
	RenderSettle    time.Duration // added to WaitTimeout while a profile page renders
	PollInterval    time.Duration

	LoginURL      string
	SuccessMarker string

	// Credentials used when Login is called without arguments.
	Credentials Account

	DBPath string
}
