package ingest

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/net/html"
)

const instagramBaseURL = "https://www.instagram.com"

// The page is fetched with a desktop browser user agent; the anonymous HTML
// shell still carries the Open Graph tags we need.
const scraperUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36"

// og:description embeds the first comment as `<author>: "<text>"`.
var captionPattern = regexp.MustCompile(`:\s*"([^"]+)"`)

// CaptionScraper fetches a post page and pulls the caption text out of its
// Open Graph description tag.
type CaptionScraper struct {
	baseURL string
	httpc   *http.Client
}

// NewCaptionScraper creates a scraper for public post pages.
func NewCaptionScraper(httpc *http.Client) *CaptionScraper {
	if httpc == nil {
		httpc = &http.Client{Timeout: 20 * time.Second}
	}
	return &CaptionScraper{
		baseURL: instagramBaseURL,
		httpc:   httpc,
	}
}

// Caption returns the caption text of the post with the given code. All
// failure modes surface as ErrUpstream; this collaborator is best-effort by
// nature and the caller reports it generically.
func (s *CaptionScraper) Caption(ctx context.Context, code string) (string, error) {
	endpoint := fmt.Sprintf("%s/p/%s/", s.baseURL, code)

	var doc *html.Node
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("User-Agent", scraperUserAgent)

			resp, err := s.httpc.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return fmt.Errorf("post fetch failed: status %d", resp.StatusCode)
			}
			if resp.StatusCode >= 400 {
				return retry.Unrecoverable(fmt.Errorf("post fetch failed: status %d", resp.StatusCode))
			}

			parsed, err := html.Parse(resp.Body)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("parse post page: %w", err))
			}
			doc = parsed
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	description := findOGDescription(doc)
	if description == "" {
		return "", fmt.Errorf("%w: post has no open graph description", ErrUpstream)
	}

	match := captionPattern.FindStringSubmatch(description)
	if match == nil {
		return "", fmt.Errorf("%w: no caption found in post description", ErrUpstream)
	}
	return match[1], nil
}

// findOGDescription walks the parsed document for
// <meta property="og:description" content="...">.
func findOGDescription(doc *html.Node) string {
	var result string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if result != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "meta" {
			var property, content string
			for _, attr := range n.Attr {
				switch attr.Key {
				case "property":
					property = attr.Val
				case "content":
					content = attr.Val
				}
			}
			if property == "og:description" {
				result = strings.TrimSpace(content)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return result
}
