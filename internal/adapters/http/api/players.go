// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/duorank/internal/domain/model"
)

// PlayersDependencies defines the interface for player mutations.
type PlayersDependencies interface {
	SubmitScore(ctx context.Context, playerID, mode string, rating, achievementsTotal int) (model.Player, error)
	RegisterOrUpdate(ctx context.Context, playerID string, uname *string, ratingClassic, ratingInfinity, achievementsCount *int) (model.Player, error)
}

// PlayersHandler handles player registration and score submission.
type PlayersHandler struct {
	deps PlayersDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayersDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// upsertPlayerRequest mirrors the OpenAPI schema for POST /players.
// Pointer fields distinguish "omitted" from "zero": an omitted field
// is never reset on an existing record.
type upsertPlayerRequest struct {
	PlayerID          string  `json:"player_id"`
	Username          *string `json:"username"`
	RatingClassic     *int    `json:"rating_classic"`
	RatingInfinity    *int    `json:"rating_infinity"`
	AchievementsCount *int    `json:"achievements_count"`
}

func (req upsertPlayerRequest) validate() error {
	if strings.TrimSpace(req.PlayerID) == "" {
		return errors.New("missing player_id")
	}
	return nil
}

// submitScoreRequest mirrors the OpenAPI schema for POST /scores.
type submitScoreRequest struct {
	PlayerID          string `json:"player_id"`
	Mode              string `json:"mode"`
	Rating            int    `json:"rating"`
	AchievementsTotal int    `json:"achievements_total"`
}

func (req submitScoreRequest) validate() error {
	switch {
	case strings.TrimSpace(req.PlayerID) == "":
		return errors.New("missing player_id")
	case strings.TrimSpace(req.Mode) == "":
		return errors.New("missing mode")
	}
	return nil
}

// HandleUpsertPlayer handles POST /players requests.
func (h *PlayersHandler) HandleUpsertPlayer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req upsertPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	p, err := h.deps.RegisterOrUpdate(r.Context(), req.PlayerID, req.Username,
		req.RatingClassic, req.RatingInfinity, req.AchievementsCount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleSubmitScore handles POST /scores requests.
func (h *PlayersHandler) HandleSubmitScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req submitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	p, err := h.deps.SubmitScore(r.Context(), req.PlayerID, req.Mode, req.Rating, req.AchievementsTotal)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
