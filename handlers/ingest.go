package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"reelist/api"
	"reelist/models"
	"reelist/services/ingest"
	"reelist/services/metadata"
	"reelist/services/watchlist"
)

type ingestService interface {
	AddFromLink(ctx context.Context, owner, rawURL string) (*models.WatchlistEntry, error)
}

var _ ingestService = (*ingest.Pipeline)(nil)

type IngestHandler struct {
	Pipeline ingestService
}

func NewIngestHandler(pipeline ingestService) *IngestHandler {
	return &IngestHandler{Pipeline: pipeline}
}

// RegisterRoutes mounts the link ingestion route on the router. Each request
// triggers a page scrape and a model call, so the route is wrapped with the
// per-IP limiter when one is supplied.
func (h *IngestHandler) RegisterRoutes(r *mux.Router, limiter *api.IPRateLimiter) {
	var route http.Handler = http.HandlerFunc(h.AddFromLink)
	if limiter != nil {
		route = api.RateLimitHandler(limiter, route)
	}
	r.Handle("/api/users/{userID}/watchlist/from-link", route).Methods(http.MethodPost)
}

func (h *IngestHandler) AddFromLink(w http.ResponseWriter, r *http.Request) {
	owner := mux.Vars(r)["userID"]

	var body struct {
		Link string `json:"link"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(body.Link) == "" {
		writeError(w, http.StatusBadRequest, "link is required")
		return
	}

	entry, err := h.Pipeline.AddFromLink(r.Context(), owner, body.Link)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrInvalidLink):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, watchlist.ErrDuplicate):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, metadata.ErrNoResults):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ingest.ErrUpstream), errors.Is(err, ingest.ErrExtraction), errors.Is(err, metadata.ErrUpstream):
			writeUpstreamError(w, r, err)
		case watchlist.IsValidationError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeInternalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}
