package redisstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/okian/duorank/internal/adapters/repository"
)

type StoreSuite struct {
	suite.Suite
	mini  *miniredis.Miniredis
	store *Store
	ctx   context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.store = NewWithClient(client, WithDefaults(repository.Defaults{
		RatingClassic:  1000,
		RatingInfinity: 1000,
	}))
	s.ctx = context.Background()
}

func (s *StoreSuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

// Upsert tests

func (s *StoreSuite) TestUpsertCreatesWithBaselines() {
	p, err := s.store.Upsert(s.ctx, "p1", repository.Update{})
	s.Require().NoError(err)
	s.Equal("p1", p.PlayerID)
	s.Equal(1000, p.RatingClassic)
	s.Equal(1000, p.RatingInfinity)
	s.Equal(0, p.AchievementsCount)
	s.False(p.CreatedAt.IsZero())
}

func (s *StoreSuite) TestUpsertPreservesUnspecifiedFields() {
	_, err := s.store.Upsert(s.ctx, "p1", repository.Update{
		Username:      strPtr("keeper"),
		RatingClassic: intPtr(1500),
	})
	s.Require().NoError(err)

	p, err := s.store.Upsert(s.ctx, "p1", repository.Update{RatingInfinity: intPtr(700)})
	s.Require().NoError(err)
	s.Equal("keeper", p.Username)
	s.Equal(1500, p.RatingClassic)
	s.Equal(700, p.RatingInfinity)
}

func (s *StoreSuite) TestUpsertKeepsCreatedAt() {
	created, err := s.store.Upsert(s.ctx, "p1", repository.Update{})
	s.Require().NoError(err)

	updated, err := s.store.Upsert(s.ctx, "p1", repository.Update{RatingClassic: intPtr(1234)})
	s.Require().NoError(err)
	s.Equal(created.CreatedAt, updated.CreatedAt)
	s.False(updated.UpdatedAt.Before(created.UpdatedAt))
}

func (s *StoreSuite) TestUsernameConflict() {
	_, err := s.store.Upsert(s.ctx, "p1", repository.Update{Username: strPtr("highlander")})
	s.Require().NoError(err)

	_, err = s.store.Upsert(s.ctx, "p2", repository.Update{Username: strPtr("highlander")})
	s.ErrorIs(err, repository.ErrUsernameConflict)

	// Case-variant claims hit the same index key
	_, err = s.store.Upsert(s.ctx, "p2", repository.Update{Username: strPtr("HIGHLANDER")})
	s.ErrorIs(err, repository.ErrUsernameConflict)

	// The losing upsert must not have created a record
	_, err = s.store.Get(s.ctx, "p2")
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *StoreSuite) TestOwnNameRenameIsNoConflict() {
	_, err := s.store.Upsert(s.ctx, "p1", repository.Update{Username: strPtr("keeper")})
	s.Require().NoError(err)

	p, err := s.store.Upsert(s.ctx, "p1", repository.Update{Username: strPtr("keeper")})
	s.Require().NoError(err)
	s.Equal("keeper", p.Username)
}

func (s *StoreSuite) TestRenameReleasesOldName() {
	_, err := s.store.Upsert(s.ctx, "p1", repository.Update{Username: strPtr("before")})
	s.Require().NoError(err)
	_, err = s.store.Upsert(s.ctx, "p1", repository.Update{Username: strPtr("after")})
	s.Require().NoError(err)

	_, err = s.store.FindByUsername(s.ctx, "before")
	s.ErrorIs(err, repository.ErrNotFound)

	p, err := s.store.Upsert(s.ctx, "p2", repository.Update{Username: strPtr("before")})
	s.Require().NoError(err)
	s.Equal("before", p.Username)
}

// Lookup tests

func (s *StoreSuite) TestGetNotFound() {
	_, err := s.store.Get(s.ctx, "nonexistent")
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *StoreSuite) TestFindByUsernameCaseInsensitive() {
	_, err := s.store.Upsert(s.ctx, "p1", repository.Update{Username: strPtr("CamelCase")})
	s.Require().NoError(err)

	p, err := s.store.FindByUsername(s.ctx, "camelcase")
	s.Require().NoError(err)
	s.Equal("p1", p.PlayerID)

	p, err = s.store.FindByUsername(s.ctx, "CAMELCASE")
	s.Require().NoError(err)
	s.Equal("p1", p.PlayerID)
}

func (s *StoreSuite) TestFindByUsernameNotFound() {
	_, err := s.store.FindByUsername(s.ctx, "nobody")
	s.ErrorIs(err, repository.ErrNotFound)
}

// Scan tests

func (s *StoreSuite) TestScanAllAndCount() {
	for i := 0; i < 5; i++ {
		_, err := s.store.Upsert(s.ctx, fmt.Sprintf("p%d", i), repository.Update{})
		s.Require().NoError(err)
	}

	players, err := s.store.ScanAll(s.ctx)
	s.Require().NoError(err)
	s.Len(players, 5)

	seen := make(map[string]bool)
	for _, p := range players {
		seen[p.PlayerID] = true
	}
	s.Len(seen, 5)

	n, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(5, n)
}

func (s *StoreSuite) TestScanIgnoresIndexKeys() {
	_, err := s.store.Upsert(s.ctx, "p1", repository.Update{Username: strPtr("named")})
	s.Require().NoError(err)

	players, err := s.store.ScanAll(s.ctx)
	s.Require().NoError(err)
	s.Len(players, 1)

	n, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, n)
}

func (s *StoreSuite) TestScanAllEmpty() {
	players, err := s.store.ScanAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

// Availability tests

func (s *StoreSuite) TestUnavailableBackend() {
	s.mini.Close()

	_, err := s.store.Get(s.ctx, "p1")
	s.ErrorIs(err, repository.ErrUnavailable)

	_, err = s.store.Upsert(s.ctx, "p1", repository.Update{})
	s.ErrorIs(err, repository.ErrUnavailable)

	_, err = s.store.ScanAll(s.ctx)
	s.ErrorIs(err, repository.ErrUnavailable)
}

// Key tests

func TestKeys(t *testing.T) {
	if got := playerKey("abc"); got != "duorank:player:abc" {
		t.Errorf("playerKey = %q", got)
	}
	if got := usernameIndexKey("MiXeD"); got != "duorank:uname:mixed" {
		t.Errorf("usernameIndexKey = %q", got)
	}
	if got := playerKeyPattern(); got != "duorank:player:*" {
		t.Errorf("playerKeyPattern = %q", got)
	}
}
