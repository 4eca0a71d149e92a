// Package repository defines the player store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/okian/duorank/internal/domain/model"
)

// Update is a partial patch applied to a player record. Nil fields are
// left untouched on an existing record; on first creation the numeric
// fields fall back to the store's configured baselines.
type Update struct {
	Username          *string
	RatingClassic     *int
	RatingInfinity    *int
	AchievementsCount *int
}

// Defaults holds the baseline values applied when a player record is
// first created. The exact baseline is deployment policy, so it is
// injected rather than hardcoded.
type Defaults struct {
	RatingClassic  int
	RatingInfinity int
}

// Store provides durable keyed access to player records. It is the only
// serialization point in the system: Upsert must be atomic with respect
// to concurrent callers, and a username change inside an Upsert must
// either reserve the name under the case-insensitive uniqueness
// invariant or fail with ErrUsernameConflict.
type Store interface {
	// Get returns the player record, or ErrNotFound.
	Get(ctx context.Context, playerID string) (model.Player, error)

	// Upsert atomically creates or patches a player record.
	// Unspecified fields are preserved; UpdatedAt is refreshed.
	Upsert(ctx context.Context, playerID string, up Update) (model.Player, error)

	// FindByUsername resolves a username case-insensitively, or ErrNotFound.
	FindByUsername(ctx context.Context, username string) (model.Player, error)

	// ScanAll returns every player record, in no particular order.
	ScanAll(ctx context.Context) ([]model.Player, error)

	// Count returns the number of players tracked.
	Count(ctx context.Context) (int, error)

	// Close releases underlying resources.
	Close() error
}

// Apply produces the next record state for an upsert. Shared by the
// backends so patch semantics cannot drift between them.
func Apply(cur *model.Player, playerID string, up Update, now time.Time, defaults Defaults) model.Player {
	var next model.Player
	if cur != nil {
		next = *cur
	} else {
		next = model.Player{
			PlayerID:       playerID,
			RatingClassic:  defaults.RatingClassic,
			RatingInfinity: defaults.RatingInfinity,
			CreatedAt:      now,
		}
	}
	if up.Username != nil {
		next.Username = *up.Username
	}
	if up.RatingClassic != nil {
		next.RatingClassic = *up.RatingClassic
	}
	if up.RatingInfinity != nil {
		next.RatingInfinity = *up.RatingInfinity
	}
	if up.AchievementsCount != nil {
		next.AchievementsCount = *up.AchievementsCount
	}
	next.UpdatedAt = now
	return next
}
