package utils

import "testing"

func TestIsAllowedOrigin(t *testing.T) {
	allowed := []string{"https://watch.example.com"}

	tests := []struct {
		origin string
		want   bool
	}{
		{"http://localhost", true},
		{"http://localhost:3000", true},
		{"http://127.0.0.1:3000", true},
		{"https://watch.example.com", true},
		{"https://WATCH.example.com", true},
		{"https://evil.com", false},
		{"http://watch.example.com.evil.com", false},
		{"", false},
		{"not a url", false},
	}
	for _, tc := range tests {
		if got := IsAllowedOrigin(tc.origin, allowed); got != tc.want {
			t.Fatalf("IsAllowedOrigin(%q) = %v, want %v", tc.origin, got, tc.want)
		}
	}
}
