package seed

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/okian/duorank/pkg/logger"
)

// Constants for random number generation.
const (
	ratingBandDivisor = 6
)

// Constants for rating generation bands.
const (
	averageRatingMin   = 900
	averageRatingRange = 400
	strongRatingMin    = 1300
	strongRatingRange  = 500
	weakRatingMin      = 200
	weakRatingRange    = 700
	eliteRatingMin     = 1800
	eliteRatingRange   = 700
	wideRatingMin      = 0
	wideRatingRange    = 2500
	maxAchievements    = 200
)

// Constants for rating band cases.
const (
	caseAveragePlayer = 0
	caseStrongPlayer  = 1
	caseWeakPlayer    = 2
	caseElitePlayer   = 3
	caseWideRange     = 4
)

// randomInt returns a random int in [0, n) using crypto/rand.
func randomInt(n int64) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(n))
	return int(v.Int64())
}

// generateScores creates one score submission per player with unique
// player IDs and a varied rating distribution.
func generateScores(ctx context.Context, config *Config, stats *Stats) ([]Score, error) {
	logger.Get().Info(ctx, "generating score submissions with unique player IDs", logger.Int("numPlayers", config.NumPlayers))

	scores := make([]Score, config.NumPlayers)

	// Pre-allocate player IDs to ensure uniqueness
	playerIDs := make([]string, config.NumPlayers)
	for i := 0; i < config.NumPlayers; i++ {
		playerIDs[i] = uuid.New().String()
	}

	// Generate submissions concurrently
	type scoreResult struct {
		index int
		score Score
		err   error
	}

	resultChan := make(chan scoreResult, config.NumPlayers)

	// Use worker pool for generation
	workerCount := minInt(config.Workers, config.NumPlayers)
	scoresPerWorker := config.NumPlayers / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * scoresPerWorker
		end := start + scoresPerWorker
		if worker == workerCount-1 {
			end = config.NumPlayers // Last worker gets the remainder
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- scoreResult{index: i, err: ctx.Err()}
					return
				default:
					score := generateSingleScore(config.Mode, playerIDs[i])
					resultChan <- scoreResult{index: i, score: score, err: nil}
				}
			}
		}(start, end)
	}

	// Collect results
	for i := 0; i < config.NumPlayers; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during score generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate score %d: %w", result.index, result.err)
			}
			scores[result.index] = result.score
		}
	}

	stats.ScoresGenerated = len(scores)
	logger.Get().Info(ctx, "generated score submissions successfully", logger.Int("count", len(scores)))

	return scores, nil
}

// generateSingleScore creates a submission for the given player.
func generateSingleScore(mode, playerID string) Score {
	return Score{
		PlayerID:          playerID,
		Mode:              mode,
		Rating:            generateVariedRating(),
		AchievementsTotal: randomInt(maxAchievements + 1),
	}
}

// generateVariedRating creates a rating with a varied distribution so
// the resulting leaderboard has realistic spread and ties.
func generateVariedRating() int {
	switch randomInt(ratingBandDivisor) {
	case caseAveragePlayer:
		// Average players (900 - 1300) - most common
		return averageRatingMin + randomInt(averageRatingRange)
	case caseStrongPlayer:
		// Strong players (1300 - 1800)
		return strongRatingMin + randomInt(strongRatingRange)
	case caseWeakPlayer:
		// Weak players (200 - 900)
		return weakRatingMin + randomInt(weakRatingRange)
	case caseElitePlayer:
		// Elite players (1800 - 2500) - rare
		return eliteRatingMin + randomInt(eliteRatingRange)
	case caseWideRange:
		// Random across the full range (0 - 2500)
		return wideRatingMin + randomInt(wideRatingRange)
	default:
		return wideRatingMin + randomInt(wideRatingRange)
	}
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
