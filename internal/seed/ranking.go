package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// retrieveRanks retrieves rank cards for all seeded players concurrently.
func retrieveRanks(ctx context.Context, config *Config, scores []Score, stats *Stats) ([]Entry, error) {
	log.Printf("🏆 Retrieving ranks for %d players with %d workers...", len(scores), config.Workers)

	client := newHTTPClient(config.Timeout, config.Secret)

	playerIDs := make([]string, len(scores))
	for i, score := range scores {
		playerIDs[i] = score.PlayerID
	}

	// Results storage
	ranks := make([]Entry, len(playerIDs))
	var (
		retrieved int64
		failed    int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool; send indices so results land in place
	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
					playerID := playerIDs[index]
					entry, err := retrieveSingleRank(ctx, client, config.BaseURL, config.Mode, playerID)

					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Failed to get rank for %s: %v", playerID, err)
						}
					} else {
						ranks[index] = entry
						atomic.AddInt64(&retrieved, 1)
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&retrieved) + atomic.LoadInt64(&failed)
						ret := atomic.LoadInt64(&retrieved)
						fail := atomic.LoadInt64(&failed)

						log.Printf("🏆 Ranks: %d/%d retrieved (success: %d, failed: %d)",
							total, len(playerIDs), ret, fail)
					}
				}
			}
		}()
	}

	// Send indices to workers
	go func() {
		defer close(indexChan)
		for i := range playerIDs {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Filter out empty entries (failed retrievals)
	validRanks := make([]Entry, 0, len(ranks))
	for _, entry := range ranks {
		if entry.PlayerID != "" { // Empty PlayerID indicates failed retrieval
			validRanks = append(validRanks, entry)
		}
	}

	// Update stats
	stats.RanksRetrieved = len(validRanks)

	log.Printf(`✅ Rank retrieval completed:
   Retrieved: %d
   Failed: %d
`, len(validRanks), int(atomic.LoadInt64(&failed)))

	return validRanks, nil
}

// retrieveSingleRank retrieves the rank card for a single player.
func retrieveSingleRank(ctx context.Context, client *HTTPClient, baseURL, mode, playerID string) (Entry, error) {
	url := fmt.Sprintf("%s/me/%s/%s", baseURL, mode, playerID)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return Entry{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return Entry{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var view MeView
	if err := json.Unmarshal(body, &view); err != nil {
		return Entry{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if view.Me == nil {
		return Entry{}, fmt.Errorf("player %s not found after seeding", playerID)
	}

	return *view.Me, nil
}

// getLeaderboard retrieves the top N leaderboard entries.
func getLeaderboard(ctx context.Context, config *Config, stats *Stats) ([]Entry, error) {
	log.Printf("🥇 Getting top %d leaderboard entries...", config.TopN)

	client := newHTTPClient(config.Timeout, config.Secret)
	url := fmt.Sprintf("%s/leaderboard/%s?limit=%d", config.BaseURL, config.Mode, config.TopN)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var leaderboard []Entry
	if err := json.Unmarshal(body, &leaderboard); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	stats.LeaderboardEntries = len(leaderboard)
	log.Printf("✅ Retrieved %d leaderboard entries", len(leaderboard))

	return leaderboard, nil
}
