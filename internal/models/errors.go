package models

import "errors"

// Domain errors returned by the repository and service layers.
var (
	// ErrNotFound indicates the requested account does not exist.
	ErrNotFound = errors.New("account not found")

	// ErrDuplicateAccount indicates the username is already registered.
	ErrDuplicateAccount = errors.New("username already exists")

	// ErrInsufficientFunds indicates a withdrawal larger than the balance.
	ErrInsufficientFunds = errors.New("withdrawing amount greater than total savings")

	// ErrAlreadyActive indicates a restart of an account that is already saving.
	ErrAlreadyActive = errors.New("already active")

	// ErrAlreadyPaused indicates a pause of an account that is already paused.
	ErrAlreadyPaused = errors.New("already not active")

	// ErrInvalidCredentials indicates a failed username/password check.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
