package ingest

import (
	"regexp"
	"strings"
)

// Post links come in a few shapes: /reel/<code>, /p/<code>, or the bare
// 11-character share code itself.
var (
	reelPattern = regexp.MustCompile(`/reel/([A-Za-z0-9_-]+)`)
	postPattern = regexp.MustCompile(`/p/([A-Za-z0-9_-]+)`)
	barePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// ExtractPostCode pulls the post identifier out of a social link. Returns
// ErrInvalidLink when no supported pattern matches.
func ExtractPostCode(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidLink
	}

	if m := reelPattern.FindStringSubmatch(raw); m != nil {
		return m[1], nil
	}
	if m := postPattern.FindStringSubmatch(raw); m != nil {
		return m[1], nil
	}
	if barePattern.MatchString(raw) {
		return raw, nil
	}
	return "", ErrInvalidLink
}
