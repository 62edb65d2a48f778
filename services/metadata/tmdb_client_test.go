package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reelist/models"
)

func newTestClient(handler http.Handler) (*tmdbClient, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := newTMDBClient("test-key", srv.Client())
	client.baseURL = srv.URL
	return client, srv
}

func TestSearchMultiSendsAPIKeyAndQuery(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/multi" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("api_key"); got != "test-key" {
			t.Errorf("api_key = %q", got)
		}
		if got := r.URL.Query().Get("query"); got != "heat" {
			t.Errorf("query = %q", got)
		}
		fmt.Fprint(w, `{"page": 1, "results": [{"id": 949, "media_type": "movie", "title": "Heat"}], "total_pages": 1, "total_results": 1}`)
	}))
	defer srv.Close()

	results, err := client.searchMulti(context.Background(), "heat")
	if err != nil {
		t.Fatalf("searchMulti returned error: %v", err)
	}
	if len(results) != 1 || results[0].ID != 949 || results[0].MediaType != "movie" {
		t.Errorf("unexpected results %+v", results)
	}
}

func TestSearchByKindStampsMediaTypeAndYearParam(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/search/movie"):
			if got := r.URL.Query().Get("year"); got != "1995" {
				t.Errorf("movie year param = %q", got)
			}
			fmt.Fprint(w, `{"results": [{"id": 949, "title": "Heat"}]}`)
		case strings.HasPrefix(r.URL.Path, "/search/tv"):
			if got := r.URL.Query().Get("first_air_date_year"); got != "2008" {
				t.Errorf("tv year param = %q", got)
			}
			if got := r.URL.Query().Get("year"); got != "" {
				t.Errorf("tv search should not send year, got %q", got)
			}
			fmt.Fprint(w, `{"results": [{"id": 1396, "name": "Breaking Bad"}]}`)
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	movies, err := client.searchByKind(context.Background(), models.MediaKindMovie, "Heat", 1995)
	if err != nil {
		t.Fatalf("movie search returned error: %v", err)
	}
	if len(movies) != 1 || movies[0].MediaType != "movie" {
		t.Errorf("unexpected movie results %+v", movies)
	}

	series, err := client.searchByKind(context.Background(), models.MediaKindSeries, "Breaking Bad", 2008)
	if err != nil {
		t.Fatalf("tv search returned error: %v", err)
	}
	if len(series) != 1 || series[0].MediaType != "tv" {
		t.Errorf("unexpected tv results %+v", series)
	}
}

func TestGetJSONRetriesTransientFailures(t *testing.T) {
	attempts := 0
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"results": []}`)
	}))
	defer srv.Close()

	if _, err := client.searchMulti(context.Background(), "heat"); err != nil {
		t.Fatalf("searchMulti returned error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestGetJSONDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, `{"status_message": "invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	if _, err := client.searchMulti(context.Background(), "heat"); err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestDetailsEndpointsUseKindSegment(t *testing.T) {
	var paths []string
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		fmt.Fprint(w, `{"id": 1396}`)
	}))
	defer srv.Close()

	ctx := context.Background()
	if _, err := client.details(ctx, models.MediaKindSeries, 1396); err != nil {
		t.Fatalf("details: %v", err)
	}
	if _, err := client.providers(ctx, models.MediaKindSeries, 1396); err != nil {
		t.Fatalf("providers: %v", err)
	}
	if _, err := client.videos(ctx, models.MediaKindMovie, 949); err != nil {
		t.Fatalf("videos: %v", err)
	}
	if _, err := client.credits(ctx, models.MediaKindMovie, 949); err != nil {
		t.Fatalf("credits: %v", err)
	}

	want := []string{"/tv/1396", "/tv/1396/watch/providers", "/movie/949/videos", "/movie/949/credits"}
	if len(paths) != len(want) {
		t.Fatalf("got paths %v", paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("path %d = %q, want %q", i, paths[i], want[i])
		}
	}
}
