package redisstore

import (
	"fmt"
	"strings"
)

// Key prefix for all player data
const keyPrefix = "duorank"

// playerKey returns the Redis key for a player record
func playerKey(playerID string) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, playerID)
}

// playerKeyPattern matches every player record key
func playerKeyPattern() string {
	return keyPrefix + ":player:*"
}

// usernameIndexKey returns the Redis key for the username -> player_id index.
// The username is case-folded so uniqueness is case-insensitive.
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:uname:%s", keyPrefix, strings.ToLower(username))
}
