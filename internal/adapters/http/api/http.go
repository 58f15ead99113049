// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Sonar-glitch/sonar-match/internal/adapters/ticketing"
	"github.com/Sonar-glitch/sonar-match/internal/domain/dedupe"
	"github.com/Sonar-glitch/sonar-match/internal/domain/model"
	"github.com/Sonar-glitch/sonar-match/internal/domain/profile"
	"github.com/Sonar-glitch/sonar-match/internal/domain/types"
	"github.com/Sonar-glitch/sonar-match/internal/enhance"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes an event for async enhancement. Returns false on
	// backpressure.
	Enqueue(ctx context.Context, event model.Event) bool

	// Ingest pulls listings from the ticketing source and enqueues them.
	Ingest(ctx context.Context, q ticketing.Query) (queued, duplicates int, err error)

	// EnhanceAll drives a batch enhancement run over pending events.
	EnhanceAll(ctx context.Context, limit int) (enhance.Summary, error)

	// Read operations expose personalized scoring.
	Recommendations(ctx context.Context, userID string, limit int) ([]types.Recommendation, error)
	ScoreEvent(ctx context.Context, eventID, userID string) (types.ScoreResult, error)
	TasteProfile(ctx context.Context, userID string) profile.Profile
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler         *HealthHandler
	statsHandler          *StatsHandler
	eventsHandler         *EventsHandler
	ingestHandler         *IngestHandler
	enhanceHandler        *EnhanceHandler
	recommendationHandler *RecommendationHandler
	scoreHandler          *ScoreHandler
	profileHandler        *ProfileHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:         NewHealthHandler(),
		statsHandler:          NewStatsHandler(statsProvider),
		eventsHandler:         NewEventsHandler(deps),
		ingestHandler:         NewIngestHandler(deps),
		enhanceHandler:        NewEnhanceHandler(deps),
		recommendationHandler: NewRecommendationHandler(deps, defaultMaxLimit),
		scoreHandler:          NewScoreHandler(deps),
		profileHandler:        NewProfileHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	register := func(pattern string, handler http.HandlerFunc, endpoint string) {
		mux.HandleFunc(pattern, RequestIDMiddleware(MetricsMiddleware(handler, endpoint)))
	}
	register("/healthz", s.healthHandler.HandleHealth, "healthz")
	register("/stats", s.statsHandler.HandleStats, "stats")
	register("/events", s.eventsHandler.HandlePostEvent, "events")
	register("/ingest", s.ingestHandler.HandleIngest, "ingest")
	register("/enhance", s.enhanceHandler.HandleEnhance, "enhance")
	register("/recommendations", s.recommendationHandler.HandleGetRecommendations, "recommendations")
	register("/score", s.scoreHandler.HandleGetScore, "score")
	register("/profile", s.profileHandler.HandleGetProfile, "profile")
}

// validateEvent checks the minimum shape an ingested event must carry.
func validateEvent(e model.Event) error {
	switch {
	case strings.TrimSpace(e.Source) == "":
		return errors.New("missing source")
	case strings.TrimSpace(e.SourceID) == "":
		return errors.New("missing source_id")
	case strings.TrimSpace(e.Name) == "":
		return errors.New("missing name")
	}
	return nil
}

// stripDerived clears the pipeline-owned fields so clients cannot inject
// pre-enhanced data.
func stripDerived(e model.Event) model.Event {
	e.ArtistMetadata = nil
	e.EnhancedGenres = nil
	e.Sound = nil
	e.IsMusicEvent = false
	e.Enhancement = model.Enhancement{}
	return e
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
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
