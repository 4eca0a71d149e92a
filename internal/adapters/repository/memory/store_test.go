package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/duorank/internal/adapters/repository"
	"github.com/okian/duorank/internal/dependencies/clock"
)

// stubClock returns a fixed sequence of instants.
type stubClock struct {
	mu    sync.Mutex
	now   time.Time
	step  time.Duration
	calls int
}

func (c *stubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now.Add(time.Duration(c.calls) * c.step)
	c.calls++
	return t
}

var _ clock.Clock = (*stubClock)(nil)

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }

func TestUpsert(t *testing.T) {
	convey.Convey("Given an in-memory store with baselines", t, func() {
		ctx := context.Background()
		base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
		store := New(
			WithDefaults(repository.Defaults{RatingClassic: 1000, RatingInfinity: 1000}),
			WithClock(&stubClock{now: base, step: time.Second}),
		)

		convey.Convey("When creating a player with an empty patch", func() {
			p, err := store.Upsert(ctx, "p1", repository.Update{})

			convey.Convey("Then baselines and timestamps are applied", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(p.PlayerID, convey.ShouldEqual, "p1")
				convey.So(p.RatingClassic, convey.ShouldEqual, 1000)
				convey.So(p.RatingInfinity, convey.ShouldEqual, 1000)
				convey.So(p.AchievementsCount, convey.ShouldEqual, 0)
				convey.So(p.CreatedAt, convey.ShouldEqual, base)
				convey.So(p.UpdatedAt, convey.ShouldEqual, base)
			})
		})

		convey.Convey("When patching one field of an existing player", func() {
			_, err := store.Upsert(ctx, "p1", repository.Update{
				Username:      strPtr("keeper"),
				RatingClassic: intPtr(1500),
			})
			convey.So(err, convey.ShouldBeNil)

			p, err := store.Upsert(ctx, "p1", repository.Update{RatingInfinity: intPtr(700)})

			convey.Convey("Then unspecified fields are preserved", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(p.Username, convey.ShouldEqual, "keeper")
				convey.So(p.RatingClassic, convey.ShouldEqual, 1500)
				convey.So(p.RatingInfinity, convey.ShouldEqual, 700)
			})

			convey.Convey("And CreatedAt is stable while UpdatedAt moves", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(p.CreatedAt, convey.ShouldEqual, base)
				convey.So(p.UpdatedAt.After(p.CreatedAt), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When two players want the same username", func() {
			_, err := store.Upsert(ctx, "p1", repository.Update{Username: strPtr("highlander")})
			convey.So(err, convey.ShouldBeNil)

			_, err = store.Upsert(ctx, "p2", repository.Update{Username: strPtr("highlander")})

			convey.Convey("Then the second claim conflicts", func() {
				convey.So(errors.Is(err, repository.ErrUsernameConflict), convey.ShouldBeTrue)
			})

			convey.Convey("And a case-variant claim conflicts too", func() {
				_, err := store.Upsert(ctx, "p2", repository.Update{Username: strPtr("HIGHLANDER")})
				convey.So(errors.Is(err, repository.ErrUsernameConflict), convey.ShouldBeTrue)
			})

			convey.Convey("And the conflicting upsert leaves no record behind", func() {
				_, err := store.Get(ctx, "p2")
				convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
			})

			convey.Convey("And the owner renaming to its own name succeeds", func() {
				p, err := store.Upsert(ctx, "p1", repository.Update{Username: strPtr("highlander")})
				convey.So(err, convey.ShouldBeNil)
				convey.So(p.Username, convey.ShouldEqual, "highlander")
			})
		})

		convey.Convey("When a player renames", func() {
			_, err := store.Upsert(ctx, "p1", repository.Update{Username: strPtr("before")})
			convey.So(err, convey.ShouldBeNil)
			_, err = store.Upsert(ctx, "p1", repository.Update{Username: strPtr("after")})
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the old name is released", func() {
				_, err := store.FindByUsername(ctx, "before")
				convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)

				p, err := store.Upsert(ctx, "p2", repository.Update{Username: strPtr("before")})
				convey.So(err, convey.ShouldBeNil)
				convey.So(p.Username, convey.ShouldEqual, "before")
			})
		})
	})
}

func TestFindByUsername(t *testing.T) {
	convey.Convey("Given a store with a named player", t, func() {
		ctx := context.Background()
		store := New()
		_, err := store.Upsert(ctx, "p1", repository.Update{Username: strPtr("CamelCase")})
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When looking up with different case", func() {
			p, err := store.FindByUsername(ctx, "camelcase")

			convey.Convey("Then the lookup is case-insensitive", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(p.PlayerID, convey.ShouldEqual, "p1")
			})
		})

		convey.Convey("When looking up an unknown name", func() {
			_, err := store.FindByUsername(ctx, "nobody")

			convey.Convey("Then it is not found", func() {
				convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
			})
		})
	})
}

func TestScanAllAndCount(t *testing.T) {
	convey.Convey("Given a store with several players", t, func() {
		ctx := context.Background()
		store := New()
		for i := 0; i < 5; i++ {
			_, err := store.Upsert(ctx, fmt.Sprintf("p%d", i), repository.Update{})
			convey.So(err, convey.ShouldBeNil)
		}

		convey.Convey("When scanning", func() {
			players, err := store.ScanAll(ctx)

			convey.Convey("Then every record is returned", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(players, convey.ShouldHaveLength, 5)
			})
		})

		convey.Convey("When counting", func() {
			n, err := store.Count(ctx)

			convey.Convey("Then the count matches", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(n, convey.ShouldEqual, 5)
			})
		})
	})
}

func TestConcurrentUsernameClaims(t *testing.T) {
	convey.Convey("Given many players racing for one username", t, func() {
		ctx := context.Background()
		store := New()

		const contenders = 32
		var wg sync.WaitGroup
		var winners int64
		var conflicts int64
		var mu sync.Mutex

		for i := 0; i < contenders; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				name := "the_one"
				_, err := store.Upsert(ctx, fmt.Sprintf("p%d", id), repository.Update{Username: &name})
				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					winners++
				} else if errors.Is(err, repository.ErrUsernameConflict) {
					conflicts++
				}
			}(i)
		}
		wg.Wait()

		convey.Convey("Then exactly one claim wins", func() {
			convey.So(winners, convey.ShouldEqual, 1)
			convey.So(conflicts, convey.ShouldEqual, contenders-1)

			p, err := store.FindByUsername(ctx, "the_one")
			convey.So(err, convey.ShouldBeNil)
			convey.So(p.Username, convey.ShouldEqual, "the_one")
		})
	})
}
