package models

// Person is a crew member on the details view (currently directors only).
type Person struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ProfilePath string `json:"profilePath,omitempty"`
}

// CastMember is a billed cast member on the details view.
type CastMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character,omitempty"`
	ProfilePath string `json:"profilePath,omitempty"`
}

// Provider is a single streaming/rental provider offering a title.
type Provider struct {
	ProviderID   int64  `json:"providerId"`
	ProviderName string `json:"providerName"`
	LogoPath     string `json:"logoPath,omitempty"`
}

// TerritoryProviders groups provider availability by offer tier for one
// territory.
type TerritoryProviders struct {
	Link     string     `json:"link,omitempty"`
	Flatrate []Provider `json:"flatrate,omitempty"`
	Rent     []Provider `json:"rent,omitempty"`
	Buy      []Provider `json:"buy,omitempty"`
}

// MediaDetails is the composed details-page payload: core provider details
// enriched with trailer, availability, credits and the caller's own list
// membership. Trailer, providers and credits degrade to empty when their
// fetch fails; the core details fetch is required.
type MediaDetails struct {
	TMDBID              int64                         `json:"tmdbId"`
	Title               string                        `json:"title"`
	MediaKind           MediaKind                     `json:"mediaType"`
	Year                int                           `json:"year,omitempty"`
	Overview            string                        `json:"overview,omitempty"`
	PosterPath          string                        `json:"posterPath,omitempty"`
	BackdropPath        string                        `json:"backdropPath,omitempty"`
	Trailer             string                        `json:"trailer,omitempty"`
	AvailableOnNetflix  bool                          `json:"availableOnNetflix"`
	Providers           map[string]TerritoryProviders `json:"providers"`
	RuntimeMinutes      int                           `json:"runtime,omitempty"`
	OriginalLanguage    string                        `json:"originalLanguage,omitempty"`
	ProductionCountries []string                      `json:"productionCountries"`
	Genres              []string                      `json:"genres"`
	VoteAverage         float64                       `json:"voteAverage"`
	VoteCount           int                           `json:"voteCount"`
	Popularity          float64                       `json:"popularity"`
	Adult               bool                          `json:"adult"`
	Directors           []Person                      `json:"directors"`
	Cast                []CastMember                  `json:"cast"`
	IsInList            bool                          `json:"isInList"`
	Status              WatchState                    `json:"status"`
}
