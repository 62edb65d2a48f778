package models

// MediaKind distinguishes single-feature movies from multi-episode series.
type MediaKind string

const (
	MediaKindMovie  MediaKind = "movie"
	MediaKindSeries MediaKind = "series"
)

// Valid reports whether the kind is one of the two supported values.
func (k MediaKind) Valid() bool {
	return k == MediaKindMovie || k == MediaKindSeries
}

// WatchState tracks whether the user has watched an entry yet.
type WatchState string

const (
	WatchStateWatched   WatchState = "watched"
	WatchStateUnwatched WatchState = "unwatched"
)

// Valid reports whether the state is one of the two supported values.
func (s WatchState) Valid() bool {
	return s == WatchStateWatched || s == WatchStateUnwatched
}

// MediaSummary is the canonical shape for a title coming from the metadata
// provider, shared by search results and watchlist entries. Image paths are
// stored as the provider's relative fragments; absolute URLs are built at the
// response boundary so callers pick the served size.
type MediaSummary struct {
	TMDBID           int64     `json:"tmdbId"`
	Title            string    `json:"title"`
	OriginalTitle    string    `json:"originalTitle,omitempty"`
	MediaKind        MediaKind `json:"mediaType"`
	Year             int       `json:"year,omitempty"`
	EndYear          int       `json:"endYear,omitempty"`
	PosterPath       string    `json:"posterPath,omitempty"`
	BackdropPath     string    `json:"backdropPath,omitempty"`
	Overview         string    `json:"overview,omitempty"`
	VoteAverage      float64   `json:"voteAverage"`
	VoteCount        int       `json:"voteCount"`
	Popularity       float64   `json:"popularity"`
	OriginalLanguage string    `json:"originalLanguage,omitempty"`
	Genres           []string  `json:"genres"`
}
