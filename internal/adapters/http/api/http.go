// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	InteractionDependencies
	RecommendationDependencies
	ScoresDependencies
	StatsProvider
}

// Entry mirrors the read shape returned by the scores view.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler          *HealthHandler
	statsHandler           *StatsHandler
	interactionsHandler    *InteractionsHandler
	recommendationsHandler *RecommendationsHandler
	scoresHandler          *ScoresHandler
}

// NewServer creates a new API server with all handlers. maxLimit caps the
// ?limit parameter of the read endpoints.
func NewServer(deps Dependencies, maxLimit int) *Server {
	return &Server{
		healthHandler:          NewHealthHandler(),
		statsHandler:           NewStatsHandler(deps),
		interactionsHandler:    NewInteractionsHandler(deps),
		recommendationsHandler: NewRecommendationsHandler(deps, maxLimit),
		scoresHandler:          NewScoresHandler(deps, maxLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/interactions", MetricsMiddleware(s.interactionsHandler.HandlePostInteractions, "interactions"))
	mux.HandleFunc("/recommendations", MetricsMiddleware(s.recommendationsHandler.HandleGetRecommendations, "recommendations"))
	mux.HandleFunc("/scores", MetricsMiddleware(s.scoresHandler.HandleGetScores, "scores"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type recommendationsResponse struct {
	Recommendations []model.Recommendation `json:"recommendations"`
}

type scoresResponse struct {
	Entries []Entry `json:"entries"`
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
