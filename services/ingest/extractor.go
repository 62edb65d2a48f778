package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Extraction is the extractor's best guess for the title a post caption is
// talking about. Category is the provider's "movie"/"tv" classification.
type Extraction struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Year     int    `json:"year"`
}

// TitleExtractor asks a language model to turn free caption text into a
// structured title guess.
type TitleExtractor struct {
	apiKey  string
	baseURL string
	httpc   *http.Client

	throttleMu  sync.Mutex
	lastRequest time.Time
	minInterval time.Duration
}

// NewTitleExtractor creates an extraction client.
func NewTitleExtractor(apiKey string, httpc *http.Client) *TitleExtractor {
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	return &TitleExtractor{
		apiKey:      strings.TrimSpace(apiKey),
		baseURL:     geminiBaseURL,
		httpc:       httpc,
		minInterval: 100 * time.Millisecond,
	}
}

// IsConfigured reports whether an API key is set.
func (c *TitleExtractor) IsConfigured() bool {
	return c.apiKey != ""
}

type extractorRequest struct {
	Contents         []extractorContent `json:"contents"`
	GenerationConfig *generationConfig  `json:"generationConfig,omitempty"`
}

type extractorContent struct {
	Parts []extractorPart `json:"parts"`
}

type extractorPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type extractorResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error,omitempty"`
}

const extractionPrompt = `You are a movie expert with deep knowledge of titles in many languages and their English equivalents. Extract the movie or TV show a text is talking about, following these rules:
1. If the title corresponds to a known movie, use its exact English title; do not translate titles that are already English.
2. If no exact match exists, translate the title into English.
3. Classify the category as "movie" or "tv" based on context.
4. If the year is not mentioned, make an educated guess from the known release date.
5. Respond with ONLY a valid JSON object, no other text, with exactly these fields:
- "title": the exact English title
- "category": "movie" or "tv"
- "year": release year (integer, educated guess if not given)

Text:
%s`

// Extract turns caption text into a structured title guess. Transport
// failures surface as ErrUpstream; responses that cannot be parsed into the
// expected shape surface as ErrExtraction.
func (c *TitleExtractor) Extract(ctx context.Context, caption string) (Extraction, error) {
	if !c.IsConfigured() {
		return Extraction{}, fmt.Errorf("%w: extractor api key not configured", ErrUpstream)
	}

	// Rate limiting
	c.throttleMu.Lock()
	since := time.Since(c.lastRequest)
	if since < c.minInterval {
		time.Sleep(c.minInterval - since)
	}
	c.lastRequest = time.Now()
	c.throttleMu.Unlock()

	endpoint := fmt.Sprintf("%s/models/gemma-3n-e4b-it:generateContent?key=%s", c.baseURL, c.apiKey)

	reqBody := extractorRequest{
		Contents: []extractorContent{
			{Parts: []extractorPart{{Text: fmt.Sprintf(extractionPrompt, caption)}}},
		},
		GenerationConfig: &generationConfig{
			Temperature:     0,
			MaxOutputTokens: 100,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return Extraction{}, fmt.Errorf("marshal extractor request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return Extraction{}, fmt.Errorf("create extractor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// Retry with backoff on transient failures
	var lastErr error
	backoff := 500 * time.Millisecond
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		resp, err := c.httpc.Do(req)
		if err != nil {
			lastErr = err
			log.Printf("[extractor] http error (attempt %d/3): %v", attempt+1, err)
			time.Sleep(backoff)
			backoff *= 2
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("extractor request failed: status %d", resp.StatusCode)
			log.Printf("[extractor] rate limited or server error (attempt %d/3): status %d", attempt+1, resp.StatusCode)
			time.Sleep(backoff)
			backoff *= 2
			continue
		}

		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(resp.Body)
			return Extraction{}, fmt.Errorf("%w: extractor API error %d: %s", ErrUpstream, resp.StatusCode, string(body))
		}

		var apiResp extractorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
			return Extraction{}, fmt.Errorf("%w: decode extractor response: %v", ErrExtraction, err)
		}

		if apiResp.Error != nil {
			return Extraction{}, fmt.Errorf("%w: extractor API error: %s", ErrUpstream, apiResp.Error.Message)
		}

		if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
			return Extraction{}, fmt.Errorf("%w: extractor returned empty response", ErrExtraction)
		}

		return parseExtraction(apiResp.Candidates[0].Content.Parts[0].Text)
	}

	return Extraction{}, fmt.Errorf("%w: extractor request failed after 3 attempts: %v", ErrUpstream, lastErr)
}

// parseExtraction parses the model output, tolerating a markdown code fence
// around the JSON object.
func parseExtraction(text string) (Extraction, error) {
	var result Extraction
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		cleaned := strings.TrimSpace(text)
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
		if err2 := json.Unmarshal([]byte(cleaned), &result); err2 != nil {
			return Extraction{}, fmt.Errorf("%w: parse extraction: %v", ErrExtraction, err)
		}
	}

	if result.Title == "" || result.Category == "" {
		return Extraction{}, fmt.Errorf("%w: missing title or category", ErrExtraction)
	}
	return result, nil
}
