package models

import "errors"

// ErrMissingCredentials is returned when a login is attempted without both
// an email and a password. It signals a caller bug, not a failed login.
var ErrMissingCredentials = errors.New("email and password must be provided")

// Account represents a user account with email and password
type Account struct {
	Email    string
	Password string
}

// Merge fills empty fields of a from fallback
func (a Account) Merge(fallback Account) Account {
	if a.Email == "" {
		a.Email = fallback.Email
	}
	if a.Password == "" {
		a.Password = fallback.Password
	}
	return a
}

// Validate reports ErrMissingCredentials unless both fields are set
func (a Account) Validate() error {
	if a.Email == "" || a.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}

// LoginResult is the outcome of a login attempt
type LoginResult struct {
	Success bool
	URL     string // page address observed after submitting the form
	Err     error
}
