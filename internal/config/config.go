// Package config defines service configuration structures and loading hooks.
package config

// Store backend identifiers.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Store selects the player store backend: memory, redis, postgres.
	Store string `koanf:"store"`

	// RedisURL is the Redis connection URL when Store is "redis".
	RedisURL string `koanf:"redis_url"`

	// PostgresDSN is the connection string when Store is "postgres".
	PostgresDSN string `koanf:"postgres_dsn"`

	// DefaultRatingClassic and DefaultRatingInfinity are the baseline
	// ratings applied on first player creation. The baseline differs
	// between deployments, so it lives here rather than in code.
	DefaultRatingClassic  int `koanf:"default_rating_classic"`
	DefaultRatingInfinity int `koanf:"default_rating_infinity"`

	// Username rules.
	UsernameMinLen   int    `koanf:"username_min_len"`
	UsernameMaxLen   int    `koanf:"username_max_len"`
	UsernamePrefix   string `koanf:"username_prefix"`
	UsernameAttempts int    `koanf:"username_attempts"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// AuthSecret is the shared secret required on mutating requests.
	// An empty value disables the gate (local development only).
	AuthSecret string `koanf:"auth_secret"`

	// AuthProtectReads extends the secret gate to read-only queries.
	AuthProtectReads bool `koanf:"auth_protect_reads"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":9080",
		Store:                 StoreMemory,
		RedisURL:              "redis://localhost:6379",
		PostgresDSN:           "",
		DefaultRatingClassic:  1000,
		DefaultRatingInfinity: 1000,
		UsernameMinLen:        3,
		UsernameMaxLen:        20,
		UsernamePrefix:        "player",
		UsernameAttempts:      5,
		MaxLeaderboardLimit:   100,
		AuthSecret:            "",
		AuthProtectReads:      false,
	}
}
