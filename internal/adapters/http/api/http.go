// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/duorank/internal/app"
	"github.com/okian/duorank/internal/domain/model"
	"github.com/okian/duorank/internal/domain/types"
	"github.com/okian/duorank/internal/domain/username"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SubmitScore(ctx context.Context, playerID, mode string, rating, achievementsTotal int) (model.Player, error)
	RegisterOrUpdate(ctx context.Context, playerID string, uname *string, ratingClassic, ratingInfinity, achievementsCount *int) (model.Player, error)
	CheckUsername(ctx context.Context, name string) (username.Availability, error)
	Leaderboard(ctx context.Context, mode string) ([]Entry, error)
	Top(ctx context.Context, mode string, limit int) ([]Entry, error)
	Me(ctx context.Context, playerID, mode string) (types.MeView, error)
	AroundPlayer(ctx context.Context, playerID, mode string, radius int) ([]Entry, error)
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	usernameHandler    *UsernameHandler
	playersHandler     *PlayersHandler
	leaderboardHandler *LeaderboardHandler
	meHandler          *MeHandler

	secret       string
	protectReads bool
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*Server)

// WithSecret arms the shared-secret gate for mutating routes.
// An empty secret leaves the gate open (local development only).
func WithSecret(secret string) ServerOption {
	return func(s *Server) {
		s.secret = secret
	}
}

// WithProtectReads extends the secret gate to read-only routes.
func WithProtectReads(protect bool) ServerOption {
	return func(s *Server) {
		s.protectReads = protect
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		usernameHandler:    NewUsernameHandler(deps),
		playersHandler:     NewPlayersHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		meHandler:          NewMeHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	gate := SecretGate(s.secret)
	readGate := func(next http.HandlerFunc) http.HandlerFunc { return next }
	if s.protectReads {
		readGate = gate
	}

	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(readGate(s.statsHandler.HandleStats), "stats"))
	mux.HandleFunc("/username/check", MetricsMiddleware(readGate(s.usernameHandler.HandleCheck), "username_check"))
	mux.HandleFunc("/players", MetricsMiddleware(gate(s.playersHandler.HandleUpsertPlayer), "players"))
	mux.HandleFunc("/scores", MetricsMiddleware(gate(s.playersHandler.HandleSubmitScore), "scores"))
	mux.HandleFunc("/leaderboard/", MetricsMiddleware(readGate(s.leaderboardHandler.HandleGetLeaderboard), "leaderboard"))
	mux.HandleFunc("/me/", MetricsMiddleware(readGate(s.meHandler.HandleGetMe), "me"))
	mux.HandleFunc("/around/", MetricsMiddleware(readGate(s.meHandler.HandleGetAround), "around"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates core error kinds to stable reason codes.
// Every kind keeps its identity over the wire; nothing is collapsed
// into an anonymous internal error unless it really is unrecognized.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrBadFormat):
		writeError(w, http.StatusBadRequest, "bad_format", err)
	case errors.Is(err, model.ErrBadMode):
		writeError(w, http.StatusBadRequest, "bad_mode", err)
	case errors.Is(err, model.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "taken", err)
	case errors.Is(err, model.ErrCouldNotAssignUsername):
		writeError(w, http.StatusConflict, "could_not_assign_username", err)
	case errors.Is(err, model.ErrPlayerNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, model.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", err)
	case errors.Is(err, model.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, service.ErrInvalidLimit),
		errors.Is(err, service.ErrInvalidRadius),
		errors.Is(err, service.ErrEmptyPlayerID),
		errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
