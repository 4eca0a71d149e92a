package model

import "errors"

// Sentinel kinds for the core error taxonomy. Every user-visible failure
// maps to exactly one of these; boundaries translate with errors.Is.
var (
	ErrBadFormat              = errors.New("username has bad format")
	ErrUsernameTaken          = errors.New("username already taken")
	ErrPlayerNotFound         = errors.New("player not found")
	ErrBadMode                = errors.New("unrecognized mode")
	ErrCouldNotAssignUsername = errors.New("could not assign username")
	ErrStoreUnavailable       = errors.New("player store unavailable")
	ErrUnauthorized           = errors.New("unauthorized")
)
