// Package memory provides the in-memory player store backend.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/okian/duorank/internal/adapters/repository"
	"github.com/okian/duorank/internal/dependencies/clock"
	"github.com/okian/duorank/internal/domain/model"
)

// Store is an in-memory implementation of the player store. A single
// RWMutex covers both the record map and the username index, which is
// what makes a username change inside Upsert atomic.
type Store struct {
	mu sync.RWMutex

	players map[string]model.Player
	// usernameIndex maps lowercased username -> playerID.
	usernameIndex map[string]string

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

// New creates a new in-memory store instance.
func New(opts ...Option) *Store {
	s := &Store{
		players:       make(map[string]model.Player),
		usernameIndex: make(map[string]string),
		clock:         clock.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure Store implements the interface.
var _ repository.Store = (*Store)(nil)

// Get implements repository.Store.
func (s *Store) Get(ctx context.Context, playerID string) (model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[playerID]
	if !ok {
		return model.Player{}, repository.ErrNotFound
	}
	return p, nil
}

// Upsert implements repository.Store. The uniqueness check and the
// write happen under one lock; concurrent attempts to claim the same
// name serialize here and exactly one wins.
func (s *Store) Upsert(ctx context.Context, playerID string, up repository.Update) (model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cur *model.Player
	if p, ok := s.players[playerID]; ok {
		cur = &p
	}

	if up.Username != nil {
		folded := strings.ToLower(*up.Username)
		if owner, taken := s.usernameIndex[folded]; taken && owner != playerID {
			return model.Player{}, repository.ErrUsernameConflict
		}
		if cur != nil && cur.Username != "" {
			delete(s.usernameIndex, strings.ToLower(cur.Username))
		}
		s.usernameIndex[folded] = playerID
	}

	next := repository.Apply(cur, playerID, up, s.clock.Now(), s.defaults)
	s.players[playerID] = next
	return next, nil
}

// FindByUsername implements repository.Store.
func (s *Store) FindByUsername(ctx context.Context, username string) (model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[strings.ToLower(username)]
	if !ok {
		return model.Player{}, repository.ErrNotFound
	}
	return s.players[id], nil
}

// ScanAll implements repository.Store.
func (s *Store) ScanAll(ctx context.Context) ([]model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, p)
	}
	return out, nil
}

// Count implements repository.Store.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players), nil
}

// Close implements repository.Store.
func (s *Store) Close() error {
	return nil
}
