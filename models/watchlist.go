package models

import "time"

// WatchlistEntry is a persisted watchlist row. All MediaSummary fields are
// copied at add time as a local cache, not a live join against the provider.
// A soft-deleted entry keeps its row (Active=false) so re-adding reuses the
// cached metadata instead of re-fetching it.
type WatchlistEntry struct {
	Owner string `json:"-"`
	MediaSummary
	Status    WatchState `json:"status"`
	Active    bool       `json:"isActive"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// WatchlistAdd captures the data required to add a title to a watchlist.
// Status is optional and defaults to unwatched.
type WatchlistAdd struct {
	MediaSummary
	Status WatchState `json:"status,omitempty"`
	Notes  string     `json:"notes,omitempty"`
}

// ListQuery is a filter/sort/pagination specification for a watchlist view.
// Page numbers are 1-indexed.
type ListQuery struct {
	Page      int
	Limit     int
	Genres    []string
	MediaKind MediaKind
	Status    WatchState
	SortBy    string
	SortOrder string
	Search    string
}

// Pagination describes the page window of a list response. Total counts every
// matching row regardless of the requested window.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// WatchlistPage is a single page of watchlist entries.
type WatchlistPage struct {
	Items      []WatchlistEntry `json:"items"`
	Pagination Pagination       `json:"pagination"`
}

// FilterOption is a value/label pair for the filter dropdowns.
type FilterOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FilterOptions enumerates the supported media kinds, genres and watch states.
type FilterOptions struct {
	MediaTypes    []FilterOption `json:"mediaTypes"`
	Genres        []FilterOption `json:"genres"`
	StatusOptions []FilterOption `json:"statusOptions"`
}
