package seed

import (
	"fmt"
	"log"
	"sort"
)

// verifyResults checks the rank order the service handed back.
func verifyResults(config *Config, ranks, leaderboard []Entry, stats *Stats) error {
	log.Println("🔍 Verifying results...")

	if len(ranks) == 0 {
		return fmt.Errorf("no ranks to verify")
	}

	// Sort the per-player cards by their reported rank
	sortedRanks := make([]Entry, len(ranks))
	copy(sortedRanks, ranks)
	sort.Slice(sortedRanks, func(i, j int) bool {
		return sortedRanks[i].Rank < sortedRanks[j].Rank
	})

	// Verify leaderboard consistency if we have leaderboard data
	if len(leaderboard) > 0 {
		if err := verifyLeaderboardConsistency(sortedRanks, leaderboard); err != nil {
			log.Printf("⚠️  Leaderboard consistency warning: %v", err)
		} else {
			log.Println("✅ Leaderboard consistency verified")
		}
	}

	// Display top players
	displayTopPlayers(sortedRanks, leaderboard, config.Verbose)

	log.Println("✅ Result verification completed")
	return nil
}

// verifyLeaderboardConsistency checks the leaderboard against the
// per-player rank cards and the documented ordering rules.
func verifyLeaderboardConsistency(sortedRanks, leaderboard []Entry) error {
	if len(leaderboard) == 0 {
		return fmt.Errorf("empty leaderboard")
	}

	// The top leaderboard entry must be the player that reports rank 1
	topRank := sortedRanks[0]
	topLeaderboard := leaderboard[0]

	if topRank.Rank == 1 && topRank.PlayerID != topLeaderboard.PlayerID {
		return fmt.Errorf("top leaderboard entry (%s) does not match rank-1 player (%s)",
			topLeaderboard.PlayerID, topRank.PlayerID)
	}

	// Ranks must be the contiguous sequence 1..n
	for i, entry := range leaderboard {
		if entry.Rank != i+1 {
			return fmt.Errorf("leaderboard entry %d reports rank %d", i, entry.Rank)
		}
	}

	// Rating descends; ties break on achievements descending
	for i := 1; i < len(leaderboard); i++ {
		prev, cur := leaderboard[i-1], leaderboard[i]
		if cur.Rating > prev.Rating {
			return fmt.Errorf("leaderboard not sorted by rating: entry %d outranks entry %d", i, i-1)
		}
		if cur.Rating == prev.Rating && cur.AchievementsCount > prev.AchievementsCount {
			return fmt.Errorf("achievements tie-break violated between entries %d and %d", i-1, i)
		}
	}

	// Each rank card must agree with the leaderboard row for that player
	rows := make(map[string]Entry, len(leaderboard))
	for _, entry := range leaderboard {
		rows[entry.PlayerID] = entry
	}
	for _, card := range sortedRanks {
		row, ok := rows[card.PlayerID]
		if !ok {
			continue // below the fetched window
		}
		if row.Rank != card.Rank {
			return fmt.Errorf("player %s reports rank %d but the leaderboard shows %d",
				card.PlayerID, card.Rank, row.Rank)
		}
	}

	return nil
}

// displayTopPlayers shows the top players from ranks and leaderboard.
func displayTopPlayers(sortedRanks, leaderboard []Entry, verbose bool) {
	topN := 10
	if len(sortedRanks) < topN {
		topN = len(sortedRanks)
	}

	log.Printf("🏆 Top %d players from rank cards:", topN)
	for i := 0; i < topN; i++ {
		entry := sortedRanks[i]
		log.Printf("   %d. %s (%s) - Rating: %d, Achievements: %d",
			entry.Rank, entry.Username, entry.PlayerID, entry.Rating, entry.AchievementsCount)
	}

	if len(leaderboard) > 0 {
		leaderboardTopN := topN
		if len(leaderboard) < leaderboardTopN {
			leaderboardTopN = len(leaderboard)
		}

		log.Printf("🥇 Top %d players from leaderboard:", leaderboardTopN)
		for i := 0; i < leaderboardTopN; i++ {
			entry := leaderboard[i]
			log.Printf("   %d. %s (%s) - Rating: %d, Achievements: %d",
				entry.Rank, entry.Username, entry.PlayerID, entry.Rating, entry.AchievementsCount)
		}
	}

	if verbose {
		// Show some statistics
		if len(sortedRanks) > 0 {
			avgRating := calculateAverageRating(sortedRanks)
			maxRating := sortedRanks[0].Rating
			minRating := sortedRanks[len(sortedRanks)-1].Rating

			log.Printf(`📊 Rating statistics:
   Average: %.1f
   Maximum: %d
   Minimum: %d
`, avgRating, maxRating, minRating)
		}
	}
}

// calculateAverageRating calculates the average rating from rank cards.
func calculateAverageRating(ranks []Entry) float64 {
	if len(ranks) == 0 {
		return 0
	}

	sum := 0
	for _, entry := range ranks {
		sum += entry.Rating
	}

	return float64(sum) / float64(len(ranks))
}
