package metadata

import (
	"errors"
	"strconv"

	"reelist/models"
)

// ErrInvalidResult marks a provider result that cannot be normalized: it has
// neither a movie title nor a series name, or an unsupported media kind.
var ErrInvalidResult = errors.New("provider result is not usable")

// normalizeResult maps a heterogeneous provider result (movie- or
// series-shaped) into the canonical MediaSummary. Image paths stay as the
// provider's relative fragments; unknown genre ids are dropped.
func normalizeResult(r tmdbResult) (models.MediaSummary, error) {
	var kind models.MediaKind
	switch r.MediaType {
	case "movie":
		kind = models.MediaKindMovie
	case "tv":
		kind = models.MediaKindSeries
	default:
		return models.MediaSummary{}, ErrInvalidResult
	}

	title := r.Title
	if title == "" {
		title = r.Name
	}
	if title == "" {
		return models.MediaSummary{}, ErrInvalidResult
	}

	originalTitle := r.OriginalTitle
	if originalTitle == "" {
		originalTitle = r.OriginalName
	}

	summary := models.MediaSummary{
		TMDBID:           r.ID,
		Title:            title,
		OriginalTitle:    originalTitle,
		MediaKind:        kind,
		Year:             parseYear(r.ReleaseDate, r.FirstAirDate),
		PosterPath:       r.PosterPath,
		BackdropPath:     r.BackdropPath,
		Overview:         r.Overview,
		VoteAverage:      r.VoteAverage,
		VoteCount:        r.VoteCount,
		Popularity:       r.Popularity,
		OriginalLanguage: r.OriginalLanguage,
		Genres:           resolveGenres(r.GenreIDs),
	}

	if kind == models.MediaKindSeries {
		summary.EndYear = parseYear(r.LastAirDate, "")
	}

	return summary, nil
}

// parseYear extracts the year component from a provider date, preferring the
// first date that carries one.
func parseYear(primary, fallback string) int {
	for _, date := range []string{primary, fallback} {
		if len(date) < 4 {
			continue
		}
		if year, err := strconv.Atoi(date[:4]); err == nil {
			return year
		}
	}
	return 0
}
