// Package redisstore provides the Redis-backed player store backend.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/duorank/internal/adapters/repository"
	"github.com/okian/duorank/internal/dependencies/clock"
	"github.com/okian/duorank/internal/domain/model"
)

const (
	connectTimeout = 5 * time.Second
	// upsertRetries bounds the optimistic WATCH/MULTI loop; a retry only
	// happens when another writer touched the same keys mid-transaction.
	upsertRetries = 8
)

// Config holds Redis connection settings.
type Config struct {
	// URL is the Redis connection URL (e.g. redis://localhost:6379)
	URL string

	PoolSize     int
	MinIdleConns int
}

// DefaultConfig returns sensible defaults for Redis configuration.
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
	}
}

// Store is a Redis-backed implementation of the player store.
type Store struct {
	client   *redis.Client
	defaults repository.Defaults
	clock    clock.Clock
}

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithDefaults sets the baseline values applied on record creation.
func WithDefaults(d repository.Defaults) Option {
	return func(s *Store) {
		s.defaults = d
	}
}

// WithClock sets the time source used for created/updated timestamps.
func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// New creates a new Redis store instance and verifies the connection.
func New(cfg Config, opts ...Option) (*Store, error) {
	ropts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	ropts.PoolSize = cfg.PoolSize
	ropts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(ropts)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	}

	return NewWithClient(client, opts...), nil
}

// NewWithClient creates a Redis store with an existing client (for testing).
func NewWithClient(client *redis.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		clock:  clock.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure Store implements the interface.
var _ repository.Store = (*Store)(nil)

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// Get implements repository.Store.
func (s *Store) Get(ctx context.Context, playerID string) (model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Player{}, repository.ErrNotFound
		}
		return model.Player{}, wrapUnavailable(err)
	}
	return decodePlayer(data)
}

// Upsert implements repository.Store. The read, the uniqueness check,
// and the writes run inside a WATCH/MULTI transaction on the player key
// and the target username index key, so a concurrent claim of the same
// name aborts the transaction instead of overwriting it.
func (s *Store) Upsert(ctx context.Context, playerID string, up repository.Update) (model.Player, error) {
	var out model.Player

	watched := []string{playerKey(playerID)}
	if up.Username != nil {
		watched = append(watched, usernameIndexKey(*up.Username))
	}

	txf := func(tx *redis.Tx) error {
		var cur *model.Player
		data, err := tx.Get(ctx, playerKey(playerID)).Bytes()
		switch {
		case err == nil:
			p, derr := decodePlayer(data)
			if derr != nil {
				return derr
			}
			cur = &p
		case errors.Is(err, redis.Nil):
			// first contact; created below
		default:
			return wrapUnavailable(err)
		}

		var oldIndexKey string
		if up.Username != nil {
			owner, err := tx.Get(ctx, usernameIndexKey(*up.Username)).Result()
			if err == nil && owner != playerID {
				return repository.ErrUsernameConflict
			}
			if err != nil && !errors.Is(err, redis.Nil) {
				return wrapUnavailable(err)
			}
			if cur != nil && cur.Username != "" && !strings.EqualFold(cur.Username, *up.Username) {
				oldIndexKey = usernameIndexKey(cur.Username)
			}
		}

		next := repository.Apply(cur, playerID, up, s.clock.Now(), s.defaults)
		encoded, err := json.Marshal(next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, playerKey(playerID), encoded, 0)
			if up.Username != nil {
				pipe.Set(ctx, usernameIndexKey(*up.Username), playerID, 0)
			}
			if oldIndexKey != "" {
				pipe.Del(ctx, oldIndexKey)
			}
			return nil
		})
		if err != nil {
			return err
		}
		out = next
		return nil
	}

	for i := 0; i < upsertRetries; i++ {
		err := s.client.Watch(ctx, txf, watched...)
		if errors.Is(err, redis.TxFailedErr) {
			continue // another writer raced us; re-read and retry
		}
		if err != nil {
			if errors.Is(err, repository.ErrUsernameConflict) {
				return model.Player{}, err
			}
			return model.Player{}, wrapUnavailable(err)
		}
		return out, nil
	}
	return model.Player{}, fmt.Errorf("%w: upsert contention not resolved after %d attempts", repository.ErrUnavailable, upsertRetries)
}

// FindByUsername implements repository.Store.
func (s *Store) FindByUsername(ctx context.Context, username string) (model.Player, error) {
	playerID, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Player{}, repository.ErrNotFound
		}
		return model.Player{}, wrapUnavailable(err)
	}
	return s.Get(ctx, playerID)
}

// ScanAll implements repository.Store.
func (s *Store) ScanAll(ctx context.Context) ([]model.Player, error) {
	var out []model.Player
	iter := s.client.Scan(ctx, 0, playerKeyPattern(), 0).Iterator()
	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // deleted between scan and get
			}
			return nil, wrapUnavailable(err)
		}
		p, err := decodePlayer(data)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := iter.Err(); err != nil {
		return nil, wrapUnavailable(err)
	}
	return out, nil
}

// Count implements repository.Store.
func (s *Store) Count(ctx context.Context) (int, error) {
	n := 0
	iter := s.client.Scan(ctx, 0, playerKeyPattern(), 0).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, wrapUnavailable(err)
	}
	return n, nil
}

func decodePlayer(data []byte) (model.Player, error) {
	var p model.Player
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Player{}, fmt.Errorf("decode player record: %w", err)
	}
	return p, nil
}

// wrapUnavailable tags driver/transport failures with the store
// unavailability kind so callers never see them as generic bugs.
func wrapUnavailable(err error) error {
	if errors.Is(err, repository.ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
}
