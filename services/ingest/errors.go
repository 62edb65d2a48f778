package ingest

import "errors"

var (
	// ErrInvalidLink is returned when no post code can be extracted from
	// the submitted URL.
	ErrInvalidLink = errors.New("unsupported social link format")

	// ErrUpstream is returned when the post page or the extraction service
	// cannot be reached, or the post carries no caption.
	ErrUpstream = errors.New("social post could not be fetched")

	// ErrExtraction is returned when the extraction service responds but
	// its output is not usable as a title guess.
	ErrExtraction = errors.New("could not extract a title from the post")
)
