// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Sonar-glitch/sonar-match/internal/domain/profile"
)

// ProfileDependencies defines the interface for taste-profile reads.
type ProfileDependencies interface {
	TasteProfile(ctx context.Context, userID string) profile.Profile
}

// ProfileHandler handles taste-profile queries.
type ProfileHandler struct {
	deps ProfileDependencies
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(deps ProfileDependencies) *ProfileHandler {
	return &ProfileHandler{deps: deps}
}

// HandleGetProfile handles GET /profile?user_id= requests. Users without
// listening history get the default profile, flagged as such.
func (h *ProfileHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_profile"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: missing user_id", op, ErrBadRequest))
		return
	}

	writeJSON(w, http.StatusOK, h.deps.TasteProfile(r.Context(), userID))
}
