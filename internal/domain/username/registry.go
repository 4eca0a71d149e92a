// Package username enforces the case-insensitive username uniqueness
// invariant on top of the player store.
//
// The registry never does a bare check-then-write: the uniqueness check
// and the write are one atomic store upsert, and the store's conflict
// signal is translated to ErrUsernameTaken. The only retry loop is the
// bounded generated-name fallback, which retries exclusively on that
// conflict kind.
package username

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/okian/duorank/internal/adapters/repository"
	"github.com/okian/duorank/internal/dependencies/random"
	"github.com/okian/duorank/internal/domain/model"
)

// Availability reason codes reported by CheckAvailable.
const (
	ReasonBadFormat = "bad_format"
	ReasonTaken     = "taken"
)

// usernameCharset is the fixed charset rule; length bounds are applied
// separately so they stay configurable per deployment.
var usernameCharset = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Availability is the result of a read-only availability check.
type Availability struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// Registry validates, checks, and assigns usernames.
type Registry struct {
	store repository.Store
	rand  random.Random

	minLen       int
	maxLen       int
	prefix       string
	suffixDigits int
	maxAttempts  int
}

// New constructs a Registry with default configuration.
func New(store repository.Store, opts ...Option) *Registry {
	r := &Registry{
		store:        store,
		rand:         random.New(),
		minLen:       3,
		maxLen:       20,
		prefix:       "player",
		suffixDigits: 6,
		maxAttempts:  5,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Validate applies the charset and length rule. It touches no storage.
func (r *Registry) Validate(name string) error {
	if len(name) < r.minLen || len(name) > r.maxLen {
		return model.ErrBadFormat
	}
	if !usernameCharset.MatchString(name) {
		return model.ErrBadFormat
	}
	return nil
}

// CheckAvailable reports whether name could currently be assigned.
// Format is checked first; only then is storage consulted. Read-only.
func (r *Registry) CheckAvailable(ctx context.Context, name string) (Availability, error) {
	if err := r.Validate(name); err != nil {
		return Availability{Available: false, Reason: ReasonBadFormat}, nil
	}
	_, err := r.store.FindByUsername(ctx, name)
	switch {
	case err == nil:
		return Availability{Available: false, Reason: ReasonTaken}, nil
	case errors.Is(err, repository.ErrNotFound):
		return Availability{Available: true}, nil
	default:
		return Availability{}, repository.TranslateError(err)
	}
}

// Assign sets the player's username. With a requested name it validates
// format and performs one atomic check-and-reserve upsert; a conflict
// surfaces as ErrUsernameTaken (a player renaming to their own current
// name does not conflict with itself). With no requested name it
// generates candidates and retries conflicts up to the configured
// bound, then fails with ErrCouldNotAssignUsername.
func (r *Registry) Assign(ctx context.Context, playerID, requestedName string) (model.Player, error) {
	if requestedName != "" {
		if err := r.Validate(requestedName); err != nil {
			return model.Player{}, err
		}
		p, err := r.store.Upsert(ctx, playerID, repository.Update{Username: &requestedName})
		if err != nil {
			return model.Player{}, repository.TranslateError(err)
		}
		return p, nil
	}

	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		candidate := fmt.Sprintf("%s%s", r.prefix, r.rand.Digits(r.suffixDigits))
		p, err := r.store.Upsert(ctx, playerID, repository.Update{Username: &candidate})
		if err == nil {
			return p, nil
		}
		if errors.Is(err, repository.ErrUsernameConflict) {
			continue // collision under username-space pressure; try another suffix
		}
		return model.Player{}, repository.TranslateError(err)
	}
	return model.Player{}, model.ErrCouldNotAssignUsername
}

// EnsurePlayer guarantees a record exists for playerID, generating a
// username on first contact. Existing records pass through untouched.
func (r *Registry) EnsurePlayer(ctx context.Context, playerID string) (model.Player, error) {
	p, err := r.store.Get(ctx, playerID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return model.Player{}, repository.TranslateError(err)
	}
	return r.Assign(ctx, playerID, "")
}
