// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/duorank/internal/domain/username"
)

// UsernameDependencies defines the interface for username checks.
type UsernameDependencies interface {
	CheckUsername(ctx context.Context, name string) (username.Availability, error)
}

// UsernameHandler handles username availability requests.
type UsernameHandler struct {
	deps UsernameDependencies
}

// NewUsernameHandler creates a new username handler.
func NewUsernameHandler(deps UsernameDependencies) *UsernameHandler {
	return &UsernameHandler{deps: deps}
}

// HandleCheck handles GET /username/check?name= requests. Always
// read-only; a malformed name is reported in the body, not as an
// HTTP error, so clients can show inline validation.
func (h *UsernameHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	availability, err := h.deps.CheckUsername(r.Context(), name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, availability)
}
