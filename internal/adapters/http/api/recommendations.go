// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Sonar-glitch/sonar-match/internal/domain/types"
)

const (
	defaultLimit    = 20
	defaultMaxLimit = 100
)

// RecommendationDependencies defines the interface for the ranked read.
type RecommendationDependencies interface {
	Recommendations(ctx context.Context, userID string, limit int) ([]types.Recommendation, error)
}

// RecommendationHandler handles ranked event queries.
type RecommendationHandler struct {
	deps     RecommendationDependencies
	maxLimit int
}

// NewRecommendationHandler creates a new recommendation handler.
func NewRecommendationHandler(deps RecommendationDependencies, maxLimit int) *RecommendationHandler {
	return &RecommendationHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetRecommendations handles GET /recommendations?user_id=&limit=N
// requests. user_id is required; an unknown user still gets results, ranked
// against the default profile.
func (h *RecommendationHandler) HandleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_recommendations"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: missing user_id", op, ErrBadRequest))
		return
	}

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: invalid limit", op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%s: %w: limit exceeds %d", op, ErrBadRequest, h.maxLimit))
			return
		}
		limit = n
	}

	entries, err := h.deps.Recommendations(r.Context(), userID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
