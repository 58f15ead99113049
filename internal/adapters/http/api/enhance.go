// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Sonar-glitch/sonar-match/internal/enhance"
)

// EnhanceDependencies defines the interface for batch enhancement runs.
type EnhanceDependencies interface {
	EnhanceAll(ctx context.Context, limit int) (enhance.Summary, error)
}

// EnhanceHandler triggers batch enhancement runs.
type EnhanceHandler struct {
	deps EnhanceDependencies
}

// NewEnhanceHandler creates a new enhance handler.
func NewEnhanceHandler(deps EnhanceDependencies) *EnhanceHandler {
	return &EnhanceHandler{deps: deps}
}

// HandleEnhance handles POST /enhance?limit=N requests. limit is optional;
// absent means "process everything pending".
func (h *EnhanceHandler) HandleEnhance(w http.ResponseWriter, r *http.Request) {
	const op = "api.enhance"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: invalid limit", op, ErrBadRequest))
			return
		}
		limit = n
	}

	summary, err := h.deps.EnhanceAll(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
