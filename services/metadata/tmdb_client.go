package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"

	"reelist/models"
)

// Minimal TMDB v3 client (search, details, credits, providers, videos)

const tmdbBaseURL = "https://api.themoviedb.org/3"

type tmdbClient struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
}

func newTMDBClient(apiKey string, httpc *http.Client) *tmdbClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &tmdbClient{
		apiKey:  apiKey,
		baseURL: tmdbBaseURL,
		httpc:   httpc,
	}
}

// tmdbResult is one entry of a TMDB search response. Movie results carry
// title/original_title/release_date; series results carry the name/
// original_name/first_air_date variants instead.
type tmdbResult struct {
	ID               int64   `json:"id"`
	MediaType        string  `json:"media_type"`
	Title            string  `json:"title"`
	Name             string  `json:"name"`
	OriginalTitle    string  `json:"original_title"`
	OriginalName     string  `json:"original_name"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	FirstAirDate     string  `json:"first_air_date"`
	LastAirDate      string  `json:"last_air_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	OriginalLanguage string  `json:"original_language"`
	GenreIDs         []int   `json:"genre_ids"`
}

type tmdbSearchResponse struct {
	Page         int          `json:"page"`
	Results      []tmdbResult `json:"results"`
	TotalPages   int          `json:"total_pages"`
	TotalResults int          `json:"total_results"`
}

type tmdbGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type tmdbProductionCountry struct {
	ISO  string `json:"iso_3166_1"`
	Name string `json:"name"`
}

type tmdbDetails struct {
	ID                  int64                   `json:"id"`
	Title               string                  `json:"title"`
	Name                string                  `json:"name"`
	PosterPath          string                  `json:"poster_path"`
	BackdropPath        string                  `json:"backdrop_path"`
	Overview            string                  `json:"overview"`
	Runtime             int                     `json:"runtime"`
	EpisodeRunTime      []int                   `json:"episode_run_time"`
	ReleaseDate         string                  `json:"release_date"`
	FirstAirDate        string                  `json:"first_air_date"`
	OriginalLanguage    string                  `json:"original_language"`
	ProductionCountries []tmdbProductionCountry `json:"production_countries"`
	Genres              []tmdbGenre             `json:"genres"`
	VoteAverage         float64                 `json:"vote_average"`
	VoteCount           int                     `json:"vote_count"`
	Popularity          float64                 `json:"popularity"`
	Adult               bool                    `json:"adult"`
}

type tmdbProvider struct {
	ProviderID   int64  `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path"`
}

type tmdbTerritoryProviders struct {
	Link     string         `json:"link"`
	Flatrate []tmdbProvider `json:"flatrate"`
	Rent     []tmdbProvider `json:"rent"`
	Buy      []tmdbProvider `json:"buy"`
}

type tmdbProvidersResponse struct {
	ID      int64                             `json:"id"`
	Results map[string]tmdbTerritoryProviders `json:"results"`
}

type tmdbVideo struct {
	Key  string `json:"key"`
	Site string `json:"site"`
	Type string `json:"type"`
}

type tmdbVideosResponse struct {
	ID      int64       `json:"id"`
	Results []tmdbVideo `json:"results"`
}

type tmdbCastMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

type tmdbCrewMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	ProfilePath string `json:"profile_path"`
}

type tmdbCreditsResponse struct {
	ID   int64            `json:"id"`
	Cast []tmdbCastMember `json:"cast"`
	Crew []tmdbCrewMember `json:"crew"`
}

// mediaPath maps the canonical media kind to TMDB's URL segment.
func mediaPath(kind models.MediaKind) string {
	if kind == models.MediaKindSeries {
		return "tv"
	}
	return "movie"
}

// getJSON performs a GET against the TMDB API with bounded retries on
// transient failures (network errors, 429, 5xx).
func (c *tmdbClient) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}

			resp, err := c.httpc.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				io.Copy(io.Discard, resp.Body)
				return fmt.Errorf("tmdb request failed: status %d", resp.StatusCode)
			}
			if resp.StatusCode >= 400 {
				body, _ := io.ReadAll(resp.Body)
				return retry.Unrecoverable(fmt.Errorf("tmdb API error %d: %s", resp.StatusCode, string(body)))
			}

			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return retry.Unrecoverable(fmt.Errorf("decode tmdb response: %w", err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}

func (c *tmdbClient) searchMulti(ctx context.Context, query string) ([]tmdbResult, error) {
	params := url.Values{}
	params.Set("query", query)

	var resp tmdbSearchResponse
	if err := c.getJSON(ctx, "/search/multi", params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// searchByKind hits the kind-specific search endpoint, which ranks better
// than multi search when the kind is already known. Kind-specific results
// omit media_type, so it is stamped on before returning.
func (c *tmdbClient) searchByKind(ctx context.Context, kind models.MediaKind, query string, year int) ([]tmdbResult, error) {
	params := url.Values{}
	params.Set("query", query)
	if year > 0 {
		if kind == models.MediaKindSeries {
			params.Set("first_air_date_year", strconv.Itoa(year))
		} else {
			params.Set("year", strconv.Itoa(year))
		}
	}

	var resp tmdbSearchResponse
	if err := c.getJSON(ctx, "/search/"+mediaPath(kind), params, &resp); err != nil {
		return nil, err
	}

	mediaType := "movie"
	if kind == models.MediaKindSeries {
		mediaType = "tv"
	}
	for i := range resp.Results {
		resp.Results[i].MediaType = mediaType
	}
	return resp.Results, nil
}

func (c *tmdbClient) details(ctx context.Context, kind models.MediaKind, id int64) (*tmdbDetails, error) {
	var resp tmdbDetails
	if err := c.getJSON(ctx, fmt.Sprintf("/%s/%d", mediaPath(kind), id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *tmdbClient) providers(ctx context.Context, kind models.MediaKind, id int64) (*tmdbProvidersResponse, error) {
	var resp tmdbProvidersResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/%s/%d/watch/providers", mediaPath(kind), id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *tmdbClient) videos(ctx context.Context, kind models.MediaKind, id int64) (*tmdbVideosResponse, error) {
	var resp tmdbVideosResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/%s/%d/videos", mediaPath(kind), id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *tmdbClient) credits(ctx context.Context, kind models.MediaKind, id int64) (*tmdbCreditsResponse, error) {
	var resp tmdbCreditsResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/%s/%d/credits", mediaPath(kind), id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
