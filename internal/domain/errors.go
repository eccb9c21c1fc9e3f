package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("already exists")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("permission denied")
	ErrMethodNotAllowed = errors.New("method not allowed")

	// ErrWrongCredentials carries the same generic message for unknown email,
	// inactive user and wrong password, so callers cannot enumerate accounts.
	ErrWrongCredentials = errors.New("wrong email or password")

	ErrTokenExpired        = errors.New("token expired")
	ErrTokenInvalid        = errors.New("invalid token")
	ErrRecoveryTokenUsed   = errors.New("recovery token already used or invalid")
	ErrRecoveryCodeExpired = errors.New("recovery code expired")
)
