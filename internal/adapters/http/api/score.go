// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Sonar-glitch/sonar-match/internal/adapters/repository"
	"github.com/Sonar-glitch/sonar-match/internal/domain/types"
)

// ScoreDependencies defines the interface for single-event scoring.
type ScoreDependencies interface {
	ScoreEvent(ctx context.Context, eventID, userID string) (types.ScoreResult, error)
}

// ScoreHandler handles single-event score queries.
type ScoreHandler struct {
	deps ScoreDependencies
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps ScoreDependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

// HandleGetScore handles GET /score?event_id=&user_id= requests.
func (h *ScoreHandler) HandleGetScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_score"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	eventID := r.URL.Query().Get("event_id")
	userID := r.URL.Query().Get("user_id")
	if eventID == "" || userID == "" {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%s: %w: event_id and user_id are required", op, ErrBadRequest))
		return
	}

	result, err := h.deps.ScoreEvent(r.Context(), eventID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}
