package utils

import "testing"

func TestImageURL(t *testing.T) {
	if got := ImageURL("", "w500"); got != "" {
		t.Fatalf("expected empty URL for empty path, got %q", got)
	}
	if got := ImageURL("/poster.jpg", "w500"); got != "https://image.tmdb.org/t/p/w500/poster.jpg" {
		t.Fatalf("unexpected poster URL: %s", got)
	}
	if got := ImageURL("/backdrop.jpg", "original"); got != "https://image.tmdb.org/t/p/original/backdrop.jpg" {
		t.Fatalf("unexpected backdrop URL: %s", got)
	}
}
