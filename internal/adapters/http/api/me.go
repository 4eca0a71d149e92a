// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/duorank/internal/domain/types"
)

// defaultAroundRadius applies when GET /around omits ?radius=.
const defaultAroundRadius = 2

// MeDependencies defines the interface for single-player rank reads.
type MeDependencies interface {
	Me(ctx context.Context, playerID, mode string) (types.MeView, error)
	AroundPlayer(ctx context.Context, playerID, mode string, radius int) ([]Entry, error)
}

// MeHandler handles "me" and "around" requests.
type MeHandler struct {
	deps MeDependencies
}

// NewMeHandler creates a new me handler.
func NewMeHandler(deps MeDependencies) *MeHandler {
	return &MeHandler{deps: deps}
}

// HandleGetMe handles GET /me/{mode}/{player_id} requests. An unknown
// player yields a body with null me/rank, not an error.
func (h *MeHandler) HandleGetMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	mode, playerID, ok := splitModePlayer(r.URL.Path, "/me/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	view, err := h.deps.Me(r.Context(), playerID, mode)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleGetAround handles GET /around/{mode}/{player_id}?radius=N.
// The window is clipped to the valid rank range; a missing player is a
// 404, unlike the "me" view.
func (h *MeHandler) HandleGetAround(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	mode, playerID, ok := splitModePlayer(r.URL.Path, "/around/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	radius := defaultAroundRadius
	if radiusStr := r.URL.Query().Get("radius"); radiusStr != "" {
		n, err := strconv.Atoi(radiusStr)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		radius = n
	}

	entries, err := h.deps.AroundPlayer(r.Context(), playerID, mode, radius)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// splitModePlayer extracts {mode}/{player_id} after the route prefix.
func splitModePlayer(path, prefix string) (mode, playerID string, ok bool) {
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
