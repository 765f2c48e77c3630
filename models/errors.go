package models

import "errors"

// Domain error kinds surfaced by the repositories. Callers branch on these
// with errors.Is; the CLI translates each kind into a user-facing message
// and a non-zero exit code.
var (
	// ErrInvalidFormat covers malformed names, emails, and dates.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidAmount is returned for non-numeric monetary input.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrNegativeAmount is returned for negative monetary input.
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrNotFound is returned when a referenced user or invoice does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when another user already holds the email
	// under case-insensitive comparison.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrNoChange is returned when an update supplies values but none of them
	// differ from the current row.
	ErrNoChange = errors.New("no changes were applied")

	// ErrStorage wraps any underlying store failure that is not one of the
	// domain kinds above.
	ErrStorage = errors.New("storage failure")
)
