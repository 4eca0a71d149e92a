// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// Mode identifies one of the two independent scoring contexts.
// Each mode carries its own rating and its own rank ordering.
type Mode string

const (
	ModeClassic  Mode = "classic"
	ModeInfinity Mode = "infinity"
)

// ParseMode validates a client-supplied mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeClassic:
		return ModeClassic, nil
	case ModeInfinity:
		return ModeInfinity, nil
	default:
		return "", ErrBadMode
	}
}

// Player is the single durable record per device identity.
type Player struct {
	PlayerID          string    `json:"player_id"`
	Username          string    `json:"username"`
	RatingClassic     int       `json:"rating_classic"`
	RatingInfinity    int       `json:"rating_infinity"`
	AchievementsCount int       `json:"achievements_count"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Rating returns the rating for the requested mode.
func (p Player) Rating(mode Mode) int {
	if mode == ModeInfinity {
		return p.RatingInfinity
	}
	return p.RatingClassic
}
