package seed

import "time"

// Config holds configuration for the seed run
type Config struct {
	BaseURL    string        // Base URL of the service
	NumPlayers int           // Number of players to register
	TopN       int           // Number of top entries to fetch
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	Mode       string        // Game mode to seed and verify
	Secret     string        // Shared secret for mutating requests
	OutputFile string        // Output file for submissions
	LogFile    string        // Log file for run output
	Verbose    bool          // Enable verbose logging
}

// Score represents a score submission
type Score struct {
	PlayerID          string `json:"player_id"`
	Mode              string `json:"mode"`
	Rating            int    `json:"rating"`
	AchievementsTotal int    `json:"achievements_total"`
}

// Entry represents a leaderboard entry
type Entry struct {
	Rank              int    `json:"rank"`
	PlayerID          string `json:"player_id"`
	Username          string `json:"username"`
	Rating            int    `json:"rating"`
	AchievementsCount int    `json:"achievements_count"`
}

// MeView represents the single-player rank response
type MeView struct {
	Me   *Entry `json:"me"`
	Rank *int   `json:"rank"`
}

// Stats holds seed run statistics
type Stats struct {
	ScoresGenerated    int
	ScoresSubmitted    int
	ScoresSuccessful   int
	ScoresFailed       int
	RanksRetrieved     int
	LeaderboardEntries int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
