// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Sonar-glitch/sonar-match/internal/adapters/ticketing"
)

// IngestDependencies defines the interface for pull-ingestion dependencies.
type IngestDependencies interface {
	Ingest(ctx context.Context, q ticketing.Query) (queued, duplicates int, err error)
}

// IngestHandler triggers a pull from the ticketing source.
type IngestHandler struct {
	deps IngestDependencies
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(deps IngestDependencies) *IngestHandler {
	return &IngestHandler{deps: deps}
}

// ingestRequest mirrors the POST /ingest body.
type ingestRequest struct {
	City     string  `json:"city"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	RadiusKm int     `json:"radius_km"`
	Keyword  string  `json:"keyword"`
	Size     int     `json:"size"`
}

type ingestResponse struct {
	Queued     int `json:"queued"`
	Duplicates int `json:"duplicates"`
}

// HandleIngest handles POST /ingest requests.
func (h *IngestHandler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	const op = "api.ingest"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %v", op, ErrBadRequest, err))
		return
	}
	if req.City == "" && req.Lat == 0 && req.Lon == 0 && req.Keyword == "" {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%s: %w: need a city, coordinates or keyword", op, ErrBadRequest))
		return
	}

	queued, duplicates, err := h.deps.Ingest(r.Context(), ticketing.Query{
		City:           req.City,
		Lat:            req.Lat,
		Lon:            req.Lon,
		RadiusKm:       req.RadiusKm,
		Keyword:        req.Keyword,
		Classification: "music",
		Size:           req.Size,
	})
	if err != nil {
		writeError(w, http.StatusBadGateway, "upstream_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusOK, ingestResponse{Queued: queued, Duplicates: duplicates})
}
