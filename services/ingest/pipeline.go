package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"

	"reelist/models"
	"reelist/services/metadata"
	"reelist/services/watchlist"
)

type captionFetcher interface {
	Caption(ctx context.Context, code string) (string, error)
}

type titleExtractor interface {
	Extract(ctx context.Context, caption string) (Extraction, error)
}

type titleSearcher interface {
	BestMatch(ctx context.Context, title string, year int, category string) (models.MediaSummary, error)
}

type listAdder interface {
	Add(owner string, input models.WatchlistAdd) (*models.WatchlistEntry, error)
}

var _ captionFetcher = (*CaptionScraper)(nil)
var _ titleExtractor = (*TitleExtractor)(nil)
var _ titleSearcher = (*metadata.Service)(nil)
var _ listAdder = (*watchlist.Service)(nil)

// Pipeline turns a shared post link into a watchlist entry: scrape the
// caption, extract the title it mentions, look the title up, and add the
// match to the owner's list.
type Pipeline struct {
	scraper   captionFetcher
	extractor titleExtractor
	searcher  titleSearcher
	list      listAdder
}

func NewPipeline(scraper captionFetcher, extractor titleExtractor, searcher titleSearcher, list listAdder) *Pipeline {
	return &Pipeline{
		scraper:   scraper,
		extractor: extractor,
		searcher:  searcher,
		list:      list,
	}
}

// AddFromLink runs the full pipeline for a raw post URL. Each stage
// short-circuits: a failure surfaces with that stage's error and nothing
// after it runs.
func (p *Pipeline) AddFromLink(ctx context.Context, owner, rawURL string) (*models.WatchlistEntry, error) {
	code, err := ExtractPostCode(rawURL)
	if err != nil {
		return nil, err
	}

	caption, err := p.scraper.Caption(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("fetch caption for %s: %w", code, err)
	}

	extraction, err := p.extractor.Extract(ctx, caption)
	if err != nil {
		return nil, fmt.Errorf("extract title from caption: %w", err)
	}
	log.Printf("[ingest] extracted %q (%s, %d) from post %s", extraction.Title, extraction.Category, extraction.Year, code)

	summary, err := p.searcher.BestMatch(ctx, extraction.Title, extraction.Year, extraction.Category)
	if err != nil {
		if errors.Is(err, metadata.ErrNoResults) {
			return nil, fmt.Errorf("%w: no match found for %q", metadata.ErrNoResults, extraction.Title)
		}
		return nil, fmt.Errorf("search for %q: %w", extraction.Title, err)
	}

	entry, err := p.list.Add(owner, models.WatchlistAdd{MediaSummary: summary})
	if err != nil {
		if errors.Is(err, watchlist.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %q is already in your watchlist", watchlist.ErrDuplicate, summary.Title)
		}
		return nil, err
	}
	return entry, nil
}
