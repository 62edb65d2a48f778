package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"reelist/models"
	"reelist/services/watchlist"
)

type watchlistService interface {
	Add(owner string, input models.WatchlistAdd) (*models.WatchlistEntry, error)
	List(owner string, q models.ListQuery) (*models.WatchlistPage, error)
	UpdateStatus(owner string, tmdbID int64, state models.WatchState) (*models.WatchlistEntry, error)
	Remove(owner string, tmdbID int64) error
}

var _ watchlistService = (*watchlist.Service)(nil)

type WatchlistHandler struct {
	Service watchlistService
}

func NewWatchlistHandler(service watchlistService) *WatchlistHandler {
	return &WatchlistHandler{Service: service}
}

// RegisterRoutes mounts the watchlist routes on the router.
func (h *WatchlistHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/users/{userID}/watchlist", h.List).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{userID}/watchlist", h.Add).Methods(http.MethodPost)
	r.HandleFunc("/api/users/{userID}/watchlist/{tmdbID}", h.UpdateStatus).Methods(http.MethodPut)
	r.HandleFunc("/api/users/{userID}/watchlist/{tmdbID}", h.Remove).Methods(http.MethodDelete)
}

func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := mux.Vars(r)["userID"]

	q, err := parseListQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.Service.List(owner, q)
	if err != nil {
		if watchlist.IsValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	owner := mux.Vars(r)["userID"]

	var body models.WatchlistAdd
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.Service.Add(owner, body)
	if err != nil {
		switch {
		case watchlist.IsValidationError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, watchlist.ErrDuplicate):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeInternalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (h *WatchlistHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	owner := mux.Vars(r)["userID"]

	tmdbID, err := strconv.ParseInt(mux.Vars(r)["tmdbID"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tmdb id")
		return
	}

	var body struct {
		Status models.WatchState `json:"status"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.Service.UpdateStatus(owner, tmdbID, body.Status)
	if err != nil {
		switch {
		case watchlist.IsValidationError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, watchlist.ErrNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeInternalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	owner := mux.Vars(r)["userID"]

	tmdbID, err := strconv.ParseInt(mux.Vars(r)["tmdbID"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tmdb id")
		return
	}

	if err := h.Service.Remove(owner, tmdbID); err != nil {
		switch {
		case watchlist.IsValidationError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, watchlist.ErrNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeInternalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "entry removed from watchlist"})
}

// parseListQuery maps list query parameters onto models.ListQuery. Numeric
// parameters must parse when present; genres accepts repeated params and
// comma-separated values.
func parseListQuery(r *http.Request) (models.ListQuery, error) {
	var q models.ListQuery
	values := r.URL.Query()

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New("invalid page parameter")
		}
		q.Page = page
	}
	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New("invalid limit parameter")
		}
		q.Limit = limit
	}

	for _, raw := range values["genres"] {
		for _, genre := range strings.Split(raw, ",") {
			if genre = strings.TrimSpace(genre); genre != "" {
				q.Genres = append(q.Genres, genre)
			}
		}
	}

	// "tv" is accepted as an alias here as on the details route
	if kind := values.Get("mediaType"); kind == "tv" {
		q.MediaKind = models.MediaKindSeries
	} else {
		q.MediaKind = models.MediaKind(kind)
	}
	q.Status = models.WatchState(values.Get("status"))
	q.SortBy = values.Get("sortBy")
	q.SortOrder = values.Get("sortOrder")
	q.Search = values.Get("search")
	return q, nil
}
