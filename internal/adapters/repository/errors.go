package repository

import (
	"errors"

	"github.com/okian/duorank/internal/domain/model"
)

// Sentinel kinds for player store errors.
var (
	ErrNotFound         = errors.New("player not found in store")
	ErrUsernameConflict = errors.New("username uniqueness conflict")
	ErrUnavailable      = errors.New("store unavailable")
)

// TranslateError maps store sentinels onto the core error taxonomy.
// Unrecognized errors propagate unchanged, never swallowed.
func TranslateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return model.ErrPlayerNotFound
	case errors.Is(err, ErrUsernameConflict):
		return model.ErrUsernameTaken
	case errors.Is(err, ErrUnavailable):
		return model.ErrStoreUnavailable
	default:
		return err
	}
}
