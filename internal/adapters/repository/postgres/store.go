// Package postgres provides the PostgreSQL-backed player store backend.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/okian/duorank/internal/adapters/repository"
	"github.com/okian/duorank/internal/dependencies/clock"
	"github.com/okian/duorank/internal/domain/model"
)

const (
	connectTimeout = 5 * time.Second

	// uniqueViolation is the Postgres error code raised when the
	// LOWER(username) unique index rejects a write.
	uniqueViolation = "23505"
)

// Store is a PostgreSQL implementation of the player store. The unique
// index on LOWER(username) is what closes the concurrent-registration
// race: two writers claiming the same name hit the index, and exactly
// one insert/update commits.
type Store struct {
	db       *sql.DB
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

// New opens a connection pool, verifies it, and ensures the schema.
func New(dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	}

	s := NewWithDB(db, opts...)
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB creates a Store over an existing pool (for testing).
func NewWithDB(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:    db,
		clock: clock.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure Store implements the interface.
var _ repository.Store = (*Store)(nil)

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return wrapUnavailable(err)
	}
	return nil
}

const selectColumns = `player_id, COALESCE(username, ''), rating_classic, rating_infinity, achievements_count, created_at, updated_at`

// Get implements repository.Store.
func (s *Store) Get(ctx context.Context, playerID string) (model.Player, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM players WHERE player_id = $1`, playerID)
	return scanPlayer(row)
}

// Upsert implements repository.Store. A single INSERT ... ON CONFLICT
// statement carries both the creation baseline and the partial-patch
// semantics; NULL arguments mean "leave unchanged".
func (s *Store) Upsert(ctx context.Context, playerID string, up repository.Update) (model.Player, error) {
	now := s.clock.Now()

	username := sql.NullString{}
	if up.Username != nil {
		username = sql.NullString{String: *up.Username, Valid: true}
	}
	ratingClassic := nullInt(up.RatingClassic)
	ratingInfinity := nullInt(up.RatingInfinity)
	achievements := nullInt(up.AchievementsCount)

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO players (player_id, username, rating_classic, rating_infinity, achievements_count, created_at, updated_at)
		VALUES ($1, $2, COALESCE($3, $6), COALESCE($4, $7), COALESCE($5, 0), $8, $8)
		ON CONFLICT (player_id) DO UPDATE SET
			username           = COALESCE(EXCLUDED.username, players.username),
			rating_classic     = COALESCE($3, players.rating_classic),
			rating_infinity    = COALESCE($4, players.rating_infinity),
			achievements_count = COALESCE($5, players.achievements_count),
			updated_at         = EXCLUDED.updated_at
		RETURNING `+selectColumns,
		playerID, username, ratingClassic, ratingInfinity, achievements,
		s.defaults.RatingClassic, s.defaults.RatingInfinity, now)

	p, err := scanPlayer(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return model.Player{}, repository.ErrUsernameConflict
		}
		return model.Player{}, err
	}
	return p, nil
}

// FindByUsername implements repository.Store.
func (s *Store) FindByUsername(ctx context.Context, username string) (model.Player, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM players WHERE LOWER(username) = LOWER($1)`, username)
	return scanPlayer(row)
}

// ScanAll implements repository.Store.
func (s *Store) ScanAll(ctx context.Context) ([]model.Player, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM players`)
	if err != nil {
		return nil, wrapUnavailable(err)
	}
	defer rows.Close()

	var out []model.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapUnavailable(err)
	}
	return out, nil
}

// Count implements repository.Store.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&n); err != nil {
		return 0, wrapUnavailable(err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (model.Player, error) {
	var p model.Player
	err := row.Scan(&p.PlayerID, &p.Username, &p.RatingClassic, &p.RatingInfinity,
		&p.AchievementsCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Player{}, repository.ErrNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return model.Player{}, err // SQL-state errors keep their identity for the caller
		}
		return model.Player{}, wrapUnavailable(err)
	}
	return p, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func wrapUnavailable(err error) error {
	if errors.Is(err, repository.ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
}
