package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"reelist/models"
	"reelist/services/metadata"
)

type metadataService interface {
	Search(ctx context.Context, query string) ([]models.MediaSummary, error)
	Details(ctx context.Context, kind models.MediaKind, tmdbID int64) (*models.MediaDetails, error)
}

var _ metadataService = (*metadata.Service)(nil)

// membershipService reports list membership for the details view.
type membershipService interface {
	Membership(owner string, tmdbID int64) (bool, models.WatchState, error)
}

type MetadataHandler struct {
	Metadata  metadataService
	Watchlist membershipService
}

func NewMetadataHandler(metadataSvc metadataService, watchlistSvc membershipService) *MetadataHandler {
	return &MetadataHandler{Metadata: metadataSvc, Watchlist: watchlistSvc}
}

// RegisterRoutes mounts the media discovery routes on the router.
func (h *MetadataHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/users/{userID}/media/search", h.Search).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{userID}/media/details/{tmdbID}/{mediaType}", h.Details).Methods(http.MethodGet)
	r.HandleFunc("/api/media/filters", h.FilterOptions).Methods(http.MethodGet)
}

func (h *MetadataHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	results, err := h.Metadata.Search(r.Context(), query)
	if err != nil {
		if errors.Is(err, metadata.ErrUpstream) {
			writeUpstreamError(w, r, err)
			return
		}
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

func (h *MetadataHandler) Details(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	owner := vars["userID"]

	tmdbID, err := strconv.ParseInt(vars["tmdbID"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tmdb id")
		return
	}

	var kind models.MediaKind
	switch vars["mediaType"] {
	case "movie":
		kind = models.MediaKindMovie
	// "tv" is accepted as an alias so provider-shaped clients work unchanged
	case "tv", "series":
		kind = models.MediaKindSeries
	default:
		writeError(w, http.StatusBadRequest, "media type must be movie or series")
		return
	}

	details, err := h.Metadata.Details(r.Context(), kind, tmdbID)
	if err != nil {
		if errors.Is(err, metadata.ErrUpstream) {
			writeUpstreamError(w, r, err)
			return
		}
		writeInternalError(w, r, err)
		return
	}

	// Membership is an enrichment; the details view stays useful without it
	inList, status, err := h.Watchlist.Membership(owner, tmdbID)
	if err != nil {
		log.Printf("[metadata] membership lookup failed for owner=%s tmdbId=%d: %v", owner, tmdbID, err)
	} else {
		details.IsInList = inList
		details.Status = status
	}

	writeJSON(w, http.StatusOK, details)
}

// FilterOptions returns the fixed vocabularies the list view filters on.
func (h *MetadataHandler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	genres := make([]models.FilterOption, 0)
	for _, name := range metadata.GenreNames() {
		genres = append(genres, models.FilterOption{Value: name, Label: name})
	}

	options := models.FilterOptions{
		MediaTypes: []models.FilterOption{
			{Value: string(models.MediaKindMovie), Label: "Movies"},
			{Value: string(models.MediaKindSeries), Label: "Series"},
		},
		Genres: genres,
		StatusOptions: []models.FilterOption{
			{Value: string(models.WatchStateWatched), Label: "Watched"},
			{Value: string(models.WatchStateUnwatched), Label: "Unwatched"},
		},
	}
	writeJSON(w, http.StatusOK, options)
}
