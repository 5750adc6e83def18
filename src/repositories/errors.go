package repositories

import "errors"

var (
	// ErrNotFound is returned by point lookups that match no row.
	ErrNotFound = errors.New("record not found")
	// ErrUsernameTaken is the conflict outcome of inserting an account whose
	// username already exists.
	ErrUsernameTaken = errors.New("username already taken")
)
