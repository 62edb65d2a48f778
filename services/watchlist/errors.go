package watchlist

import "errors"

// Validation failures: malformed or missing input, user-correctable.
var (
	ErrOwnerRequired     = errors.New("owner id is required")
	ErrTMDBIDRequired    = errors.New("tmdbId is required")
	ErrTitleRequired     = errors.New("title is required")
	ErrInvalidMediaKind  = errors.New("mediaType must be movie or series")
	ErrInvalidWatchState = errors.New("status must be watched or unwatched")
)

var (
	// ErrDuplicate is returned when a title is already actively tracked.
	// A conflicting add is user-correctable state, not a system fault.
	ErrDuplicate = errors.New("title is already in the watchlist")

	// ErrNotFound is returned when the targeted entry is absent or
	// soft-deleted. Removed entries are invisible to updates and removals.
	ErrNotFound = errors.New("watchlist entry not found")
)

// IsValidationError reports whether err belongs to the validation class, so
// the transport layer can map the whole class to a single status code.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrOwnerRequired) ||
		errors.Is(err, ErrTMDBIDRequired) ||
		errors.Is(err, ErrTitleRequired) ||
		errors.Is(err, ErrInvalidMediaKind) ||
		errors.Is(err, ErrInvalidWatchState)
}
