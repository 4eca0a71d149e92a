// Package ranking defines the canonical total order over players and
// the rank computations derived from it.
//
// Ordering: rating for the requested mode DESC, then achievements DESC,
// then createdAt ASC (earlier registration wins ties), then playerID
// ASC. The final playerID leg guarantees a strict total order even when
// createdAt collides, so no two distinct players ever compare equal.
//
// Rank is always the 1-based index into the full sorted order. There is
// deliberately no second rank computation method: the "count strictly
// better players" shortcut can silently disagree with the listing under
// duplicate-rating ties, so it exists only as a cross-check in tests.
package ranking

import (
	"sort"

	"github.com/okian/duorank/internal/domain/model"
	"github.com/okian/duorank/internal/domain/types"
)

// Less reports whether a ranks strictly before b under mode.
func Less(a, b model.Player, mode model.Mode) bool {
	if a.Rating(mode) != b.Rating(mode) {
		return a.Rating(mode) > b.Rating(mode)
	}
	if a.AchievementsCount != b.AchievementsCount {
		return a.AchievementsCount > b.AchievementsCount
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.PlayerID < b.PlayerID
}

// FullOrder returns every player sorted by the canonical order, with
// 1-based ranks assigned. The input slice is not modified.
func FullOrder(players []model.Player, mode model.Mode) []types.Entry {
	sorted := make([]model.Player, len(players))
	copy(sorted, players)
	sort.Slice(sorted, func(i, j int) bool {
		return Less(sorted[i], sorted[j], mode)
	})

	out := make([]types.Entry, len(sorted))
	for i, p := range sorted {
		out[i] = toEntry(p, mode, i+1)
	}
	return out
}

// Rank returns the 1-based position of playerID within FullOrder, and
// false if the player is not in the set. Computing it via the full
// order keeps the "me" view consistent with the listing by construction.
func Rank(players []model.Player, mode model.Mode, playerID string) (types.Entry, bool) {
	for _, e := range FullOrder(players, mode) {
		if e.PlayerID == playerID {
			return e, true
		}
	}
	return types.Entry{}, false
}

// Around returns the window of entries whose rank lies within
// [rank(playerID)-radius, rank(playerID)+radius], clipped to the valid
// rank range. It fails with ErrPlayerNotFound if the player is absent.
func Around(players []model.Player, mode model.Mode, playerID string, radius int) ([]types.Entry, error) {
	if radius < 0 {
		radius = 0
	}
	order := FullOrder(players, mode)
	idx := -1
	for i, e := range order {
		if e.PlayerID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, model.ErrPlayerNotFound
	}

	lo := idx - radius
	if lo < 0 {
		lo = 0
	}
	hi := idx + radius + 1
	if hi > len(order) {
		hi = len(order)
	}
	window := make([]types.Entry, hi-lo)
	copy(window, order[lo:hi])
	return window, nil
}

func toEntry(p model.Player, mode model.Mode, rank int) types.Entry {
	return types.Entry{
		Rank:              rank,
		PlayerID:          p.PlayerID,
		Username:          p.Username,
		Rating:            p.Rating(mode),
		AchievementsCount: p.AchievementsCount,
		CreatedAt:         p.CreatedAt,
	}
}
