// Package types contains common types used across the application
package types

import "time"

// Entry represents one leaderboard row as exposed to readers.
type Entry struct {
	Rank              int       `json:"rank"`
	PlayerID          string    `json:"player_id"`
	Username          string    `json:"username"`
	Rating            int       `json:"rating"`
	AchievementsCount int       `json:"achievements_count"`
	CreatedAt         time.Time `json:"created_at"`
}

// MeView is the single-player card returned by the "me" query.
// Both fields are null when the player is not in the store; an
// unknown player is an empty result, not an error.
type MeView struct {
	Me   *Entry `json:"me"`
	Rank *int   `json:"rank"`
}
