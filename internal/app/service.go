// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/okian/duorank/internal/adapters/repository"
	"github.com/okian/duorank/internal/adapters/repository/memory"
	"github.com/okian/duorank/internal/domain/model"
	"github.com/okian/duorank/internal/domain/ranking"
	"github.com/okian/duorank/internal/domain/types"
	"github.com/okian/duorank/internal/domain/username"
	"github.com/okian/duorank/pkg/logger"
	"github.com/okian/duorank/pkg/metrics"
)

// Service orchestrates the player store, the username registry, and the
// ranking engine. It holds no ranking caches: every rank query reads
// the current player set from the store and computes order fresh, so
// the store's atomicity is the only serialization point.
type Service struct {
	mu sync.RWMutex

	store    repository.Store
	registry *username.Registry

	// Configuration
	defaults     repository.Defaults
	registryOpts []username.Option
	maxLimit     int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore injects the player store backend. The service takes over
// the store's lifecycle and closes it on Stop.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithDefaults sets the baseline ratings used when the service has to
// construct its own fallback store.
func WithDefaults(d repository.Defaults) Option {
	return func(s *Service) {
		s.defaults = d
	}
}

// WithRegistryOptions forwards options to the username registry.
func WithRegistryOptions(opts ...username.Option) Option {
	return func(s *Service) {
		s.registryOpts = append(s.registryOpts, opts...)
	}
}

// WithMaxLeaderboardLimit caps the limit accepted by Top.
func WithMaxLeaderboardLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxLimit = limit
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		defaults: repository.Defaults{RatingClassic: 1000, RatingInfinity: 1000},
		maxLimit: 100,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.store == nil {
		s.store = memory.New(memory.WithDefaults(s.defaults))
		s.logger.Info(ctx, "no store injected; using in-memory store")
	}
	s.registry = username.New(s.store, s.registryOpts...)

	s.started = true
	s.logger.Info(ctx, "leaderboard service started",
		logger.Int("maxLeaderboardLimit", s.maxLimit),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error(context.Background(), "store close failed", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "leaderboard service stopped")
}

// SubmitScore records a rating and achievement total for one mode,
// creating the player with a generated username on first contact.
// Resubmitting identical values leaves the record's fields unchanged
// apart from the refreshed UpdatedAt.
func (s *Service) SubmitScore(ctx context.Context, playerID, mode string, rating, achievementsTotal int) (model.Player, error) {
	if playerID == "" {
		return model.Player{}, ErrEmptyPlayerID
	}
	m, err := model.ParseMode(mode)
	if err != nil {
		return model.Player{}, err
	}
	if achievementsTotal < 0 {
		achievementsTotal = 0
	}

	if err := s.ensure(ctx, playerID); err != nil {
		return model.Player{}, err
	}

	up := repository.Update{AchievementsCount: &achievementsTotal}
	if m == model.ModeInfinity {
		up.RatingInfinity = &rating
	} else {
		up.RatingClassic = &rating
	}

	p, err := s.upsert(ctx, playerID, up)
	if err != nil {
		return model.Player{}, err
	}
	s.logger.Debug(ctx, "score submitted",
		logger.String("playerID", playerID),
		logger.String("mode", string(m)),
		logger.Int("rating", rating),
	)
	return p, nil
}

// RegisterOrUpdate is the general upsert: nil fields are left unchanged
// on an existing record; on first creation omitted numeric fields take
// the configured baselines. A requested username is validated before
// any store access and reserved atomically with the write.
func (s *Service) RegisterOrUpdate(ctx context.Context, playerID string, uname *string, ratingClassic, ratingInfinity, achievementsCount *int) (model.Player, error) {
	if playerID == "" {
		return model.Player{}, ErrEmptyPlayerID
	}
	if uname != nil {
		if err := s.registry.Validate(*uname); err != nil {
			return model.Player{}, err
		}
	}
	if achievementsCount != nil && *achievementsCount < 0 {
		zero := 0
		achievementsCount = &zero
	}

	if uname == nil {
		// No name supplied: guarantee the record exists with a
		// generated username before patching the numeric fields.
		if err := s.ensure(ctx, playerID); err != nil {
			return model.Player{}, err
		}
	}

	return s.upsert(ctx, playerID, repository.Update{
		Username:          uname,
		RatingClassic:     ratingClassic,
		RatingInfinity:    ratingInfinity,
		AchievementsCount: achievementsCount,
	})
}

// CheckUsername reports availability for a candidate name. Read-only.
func (s *Service) CheckUsername(ctx context.Context, name string) (username.Availability, error) {
	return s.registry.CheckAvailable(ctx, name)
}

// Leaderboard returns the full ranked listing for a mode.
func (s *Service) Leaderboard(ctx context.Context, mode string) ([]types.Entry, error) {
	m, err := model.ParseMode(mode)
	if err != nil {
		return nil, err
	}
	players, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}
	return s.fullOrder(players, m), nil
}

// Top returns the first limit entries of the full order.
func (s *Service) Top(ctx context.Context, mode string, limit int) ([]types.Entry, error) {
	if limit < 1 || limit > s.maxLimit {
		return nil, ErrInvalidLimit
	}
	entries, err := s.Leaderboard(ctx, mode)
	if err != nil {
		return nil, err
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Me returns the player's card and rank. An unknown player yields null
// fields, not an error.
func (s *Service) Me(ctx context.Context, playerID, mode string) (types.MeView, error) {
	m, err := model.ParseMode(mode)
	if err != nil {
		return types.MeView{}, err
	}
	players, err := s.scan(ctx)
	if err != nil {
		return types.MeView{}, err
	}
	entry, ok := ranking.Rank(players, m, playerID)
	if !ok {
		return types.MeView{}, nil
	}
	rank := entry.Rank
	return types.MeView{Me: &entry, Rank: &rank}, nil
}

// AroundPlayer returns the rank window of the given radius centered on
// the player, clipped to the valid rank range.
func (s *Service) AroundPlayer(ctx context.Context, playerID, mode string, radius int) ([]types.Entry, error) {
	if radius < 0 {
		return nil, ErrInvalidRadius
	}
	m, err := model.ParseMode(mode)
	if err != nil {
		return nil, err
	}
	players, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}
	return ranking.Around(players, m, playerID, radius)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":  s.started,
		"maxLimit": s.maxLimit,
	}
	if s.started {
		if n, err := s.store.Count(context.Background()); err == nil {
			stats["totalPlayers"] = n
			metrics.UpdatePlayersTotal(n)
		}
	}
	return stats
}

// ensure guarantees a player record exists, generating a username on
// first contact. Exhaustion of the generation retry budget is the
// documented degenerate case and is surfaced, never swallowed.
func (s *Service) ensure(ctx context.Context, playerID string) error {
	_, err := s.registry.EnsurePlayer(ctx, playerID)
	if errors.Is(err, model.ErrCouldNotAssignUsername) {
		metrics.RecordUsernameExhaustion()
	}
	return err
}

func (s *Service) upsert(ctx context.Context, playerID string, up repository.Update) (model.Player, error) {
	start := time.Now()
	p, err := s.store.Upsert(ctx, playerID, up)
	metrics.RecordStoreOpLatency("upsert", float64(time.Since(start).Milliseconds()))
	if err != nil {
		if errors.Is(err, repository.ErrUsernameConflict) {
			metrics.RecordUsernameConflict()
			metrics.RecordStoreError("username_conflict")
		} else {
			metrics.RecordStoreError("upsert")
		}
		return model.Player{}, repository.TranslateError(err)
	}
	if up.Username != nil {
		metrics.RecordUsernameAssignment()
	}
	return p, nil
}

func (s *Service) scan(ctx context.Context) ([]model.Player, error) {
	start := time.Now()
	players, err := s.store.ScanAll(ctx)
	metrics.RecordStoreOpLatency("scan_all", float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordStoreError("scan_all")
		return nil, repository.TranslateError(err)
	}
	return players, nil
}

func (s *Service) fullOrder(players []model.Player, m model.Mode) []types.Entry {
	start := time.Now()
	entries := ranking.FullOrder(players, m)
	metrics.RecordRankingComputeDuration(float64(time.Since(start).Milliseconds()))
	return entries
}
