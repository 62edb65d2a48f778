package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func extractorReply(text string) string {
	part, _ := json.Marshal(text)
	return fmt.Sprintf(`{"candidates": [{"content": {"parts": [{"text": %s}]}}]}`, part)
}

func newTestExtractor(handler http.Handler) (*TitleExtractor, *httptest.Server) {
	srv := httptest.NewServer(handler)
	extractor := NewTitleExtractor("test-key", srv.Client())
	extractor.baseURL = srv.URL
	extractor.minInterval = 0
	return extractor, srv
}

func TestExtractParsesPlainJSON(t *testing.T) {
	extractor, srv := newTestExtractor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		var req extractorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || len(req.Contents[0].Parts) == 0 {
			t.Fatalf("unexpected request shape: %+v", req)
		}
		fmt.Fprint(w, extractorReply(`{"title": "Heat", "category": "movie", "year": 1995}`))
	}))
	defer srv.Close()

	got, err := extractor.Extract(context.Background(), "rewatching this classic tonight")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if got.Title != "Heat" || got.Category != "movie" || got.Year != 1995 {
		t.Errorf("unexpected extraction: %+v", got)
	}
}

func TestExtractStripsMarkdownFence(t *testing.T) {
	extractor, srv := newTestExtractor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, extractorReply("```json\n{\"title\": \"The Bear\", \"category\": \"tv\", \"year\": 2022}\n```"))
	}))
	defer srv.Close()

	got, err := extractor.Extract(context.Background(), "yes chef")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if got.Title != "The Bear" || got.Category != "tv" || got.Year != 2022 {
		t.Errorf("unexpected extraction: %+v", got)
	}
}

func TestExtractMissingFieldsIsExtractionError(t *testing.T) {
	extractor, srv := newTestExtractor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, extractorReply(`{"title": "", "category": "movie"}`))
	}))
	defer srv.Close()

	if _, err := extractor.Extract(context.Background(), "caption"); !errors.Is(err, ErrExtraction) {
		t.Errorf("expected ErrExtraction, got %v", err)
	}
}

func TestExtractNonJSONIsExtractionError(t *testing.T) {
	extractor, srv := newTestExtractor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, extractorReply("I could not determine the movie from this caption."))
	}))
	defer srv.Close()

	if _, err := extractor.Extract(context.Background(), "caption"); !errors.Is(err, ErrExtraction) {
		t.Errorf("expected ErrExtraction, got %v", err)
	}
}

func TestExtractClientErrorIsUpstream(t *testing.T) {
	extractor, srv := newTestExtractor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "invalid key", "code": 403}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := extractor.Extract(context.Background(), "caption"); !errors.Is(err, ErrUpstream) {
		t.Errorf("expected ErrUpstream, got %v", err)
	}
}

func TestExtractRetriesServerErrors(t *testing.T) {
	attempts := 0
	extractor, srv := newTestExtractor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, extractorReply(`{"title": "Heat", "category": "movie", "year": 1995}`))
	}))
	defer srv.Close()

	got, err := extractor.Extract(context.Background(), "caption")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if got.Title != "Heat" {
		t.Errorf("unexpected extraction: %+v", got)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestExtractWithoutKey(t *testing.T) {
	extractor := NewTitleExtractor("", nil)
	if extractor.IsConfigured() {
		t.Fatal("expected unconfigured extractor")
	}
	if _, err := extractor.Extract(context.Background(), "caption"); !errors.Is(err, ErrUpstream) {
		t.Errorf("expected ErrUpstream, got %v", err)
	}
}
