package service

import "errors"

// Sentinel kinds for service-level validation errors.
var (
	ErrInvalidLimit  = errors.New("invalid leaderboard limit")
	ErrInvalidRadius = errors.New("invalid around radius")
	ErrEmptyPlayerID = errors.New("player id must not be empty")
)
