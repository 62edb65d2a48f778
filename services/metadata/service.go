package metadata

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/sourcegraph/conc"

	"reelist/models"
	"reelist/utils"
)

var (
	// ErrNoResults is returned when a search matches nothing.
	ErrNoResults = errors.New("no matching titles found")
	// ErrUpstream wraps provider call failures so callers never see raw
	// transport errors.
	ErrUpstream = errors.New("metadata provider unavailable")
)

// netflixProviderID is TMDB's provider id for Netflix, used for the
// "available on Netflix" flag on the details view.
const netflixProviderID = 8

// Image size tokens for the details view. Stored records keep relative
// fragments; only this ephemeral view builds absolute URLs.
const (
	posterSize   = "w500"
	backdropSize = "original"
	profileSize  = "w185"
)

// Service is the external metadata gateway plus the normalizer on top of it.
type Service struct {
	tmdb *tmdbClient
}

// NewService creates a metadata service backed by the TMDB API.
func NewService(apiKey string, httpc *http.Client) *Service {
	return &Service{tmdb: newTMDBClient(apiKey, httpc)}
}

// Search runs a free-text multi search and returns normalized summaries.
// Results that are neither movies nor series (people, collections) are
// filtered out.
func (s *Service) Search(ctx context.Context, query string) ([]models.MediaSummary, error) {
	results, err := s.tmdb.searchMulti(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", ErrUpstream, err)
	}

	summaries := []models.MediaSummary{}
	for _, r := range results {
		summary, err := normalizeResult(r)
		if err != nil {
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// BestMatch searches with a kind hint and returns the first result. The
// ingestion pipeline uses this after text extraction; category is the
// extractor's "movie"/"tv" guess and falls back to a multi search when it is
// anything else.
func (s *Service) BestMatch(ctx context.Context, title string, year int, category string) (models.MediaSummary, error) {
	var (
		results []tmdbResult
		err     error
	)
	switch category {
	case "movie":
		results, err = s.tmdb.searchByKind(ctx, models.MediaKindMovie, title, year)
	case "tv", "series":
		results, err = s.tmdb.searchByKind(ctx, models.MediaKindSeries, title, year)
	default:
		results, err = s.tmdb.searchMulti(ctx, title)
	}
	if err != nil {
		return models.MediaSummary{}, fmt.Errorf("%w: search: %v", ErrUpstream, err)
	}

	for _, r := range results {
		summary, err := normalizeResult(r)
		if err != nil {
			continue
		}
		return summary, nil
	}
	return models.MediaSummary{}, ErrNoResults
}

// Details fetches core details, watch providers, videos and credits
// concurrently and composes the details view. The core details fetch is
// required; the other three degrade to absent/empty on failure.
func (s *Service) Details(ctx context.Context, kind models.MediaKind, tmdbID int64) (*models.MediaDetails, error) {
	var (
		core    *tmdbDetails
		coreErr error
		prov    *tmdbProvidersResponse
		vids    *tmdbVideosResponse
		creds   *tmdbCreditsResponse
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		core, coreErr = s.tmdb.details(ctx, kind, tmdbID)
	})
	wg.Go(func() {
		v, err := s.tmdb.providers(ctx, kind, tmdbID)
		if err != nil {
			log.Printf("[metadata] providers fetch failed for %s/%d: %v", mediaPath(kind), tmdbID, err)
			return
		}
		prov = v
	})
	wg.Go(func() {
		v, err := s.tmdb.videos(ctx, kind, tmdbID)
		if err != nil {
			log.Printf("[metadata] videos fetch failed for %s/%d: %v", mediaPath(kind), tmdbID, err)
			return
		}
		vids = v
	})
	wg.Go(func() {
		v, err := s.tmdb.credits(ctx, kind, tmdbID)
		if err != nil {
			log.Printf("[metadata] credits fetch failed for %s/%d: %v", mediaPath(kind), tmdbID, err)
			return
		}
		creds = v
	})
	wg.Wait()

	if coreErr != nil {
		return nil, fmt.Errorf("%w: details: %v", ErrUpstream, coreErr)
	}

	title := core.Title
	if title == "" {
		title = core.Name
	}

	runtime := core.Runtime
	if runtime == 0 && len(core.EpisodeRunTime) > 0 {
		runtime = core.EpisodeRunTime[0]
	}

	genres := []string{}
	for _, g := range core.Genres {
		genres = append(genres, g.Name)
	}

	countries := []string{}
	for _, c := range core.ProductionCountries {
		countries = append(countries, c.Name)
	}

	details := &models.MediaDetails{
		TMDBID:              core.ID,
		Title:               title,
		MediaKind:           kind,
		Year:                parseYear(core.ReleaseDate, core.FirstAirDate),
		Overview:            core.Overview,
		PosterPath:          utils.ImageURL(core.PosterPath, posterSize),
		BackdropPath:        utils.ImageURL(core.BackdropPath, backdropSize),
		Providers:           map[string]models.TerritoryProviders{},
		RuntimeMinutes:      runtime,
		OriginalLanguage:    core.OriginalLanguage,
		ProductionCountries: countries,
		Genres:              genres,
		VoteAverage:         core.VoteAverage,
		VoteCount:           core.VoteCount,
		Popularity:          core.Popularity,
		Adult:               core.Adult,
		Directors:           []models.Person{},
		Cast:                []models.CastMember{},
		Status:              models.WatchStateUnwatched,
	}

	if vids != nil {
		for _, v := range vids.Results {
			if v.Type == "Trailer" && v.Site == "YouTube" {
				details.Trailer = "https://www.youtube.com/watch?v=" + v.Key
				break
			}
		}
	}

	if prov != nil {
		for territory, offers := range prov.Results {
			details.Providers[territory] = convertTerritory(offers)
			for _, p := range offers.Flatrate {
				if p.ProviderID == netflixProviderID {
					details.AvailableOnNetflix = true
				}
			}
		}
	}

	if creds != nil {
		for _, crew := range creds.Crew {
			if crew.Job != "Director" {
				continue
			}
			details.Directors = append(details.Directors, models.Person{
				ID:          crew.ID,
				Name:        crew.Name,
				ProfilePath: utils.ImageURL(crew.ProfilePath, profileSize),
			})
		}

		cast := creds.Cast
		if len(cast) > 10 {
			cast = cast[:10]
		}
		for _, member := range cast {
			details.Cast = append(details.Cast, models.CastMember{
				ID:          member.ID,
				Name:        member.Name,
				Character:   member.Character,
				ProfilePath: utils.ImageURL(member.ProfilePath, profileSize),
			})
		}
	}

	return details, nil
}

func convertTerritory(t tmdbTerritoryProviders) models.TerritoryProviders {
	return models.TerritoryProviders{
		Link:     t.Link,
		Flatrate: convertProviders(t.Flatrate),
		Rent:     convertProviders(t.Rent),
		Buy:      convertProviders(t.Buy),
	}
}

func convertProviders(providers []tmdbProvider) []models.Provider {
	if len(providers) == 0 {
		return nil
	}
	out := make([]models.Provider, 0, len(providers))
	for _, p := range providers {
		out = append(out, models.Provider{
			ProviderID:   p.ProviderID,
			ProviderName: p.ProviderName,
			LogoPath:     p.LogoPath,
		})
	}
	return out
}
