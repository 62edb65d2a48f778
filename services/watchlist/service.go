package watchlist

import (
	"errors"
	"fmt"
	"log"
	"math"

	"reelist/internal/database"
	"reelist/models"
)

// Store is the persistence boundary the reconciliation engine runs against.
// Implemented by database.WatchlistRepository; injected so the engine carries
// no hidden global state.
type Store interface {
	FindByOwnerAndTMDBID(owner string, tmdbID int64) (*models.WatchlistEntry, error)
	Insert(entry *models.WatchlistEntry) error
	Reactivate(owner string, tmdbID int64) (*models.WatchlistEntry, error)
	UpdateWatchState(owner string, tmdbID int64, state models.WatchState) (*models.WatchlistEntry, error)
	Deactivate(owner string, tmdbID int64) error
	Query(owner string, q models.ListQuery) ([]models.WatchlistEntry, int, error)
}

var _ Store = (*database.WatchlistRepository)(nil)

const defaultPageLimit = 60

// Service is the list reconciliation engine: it decides whether an add
// creates, reactivates or is rejected, and serves filtered list views.
type Service struct {
	store Store
}

// NewService creates a reconciliation engine on top of a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Add tracks a title for the owner. When the pair was never tracked a new
// entry is created; when it exists but was removed, the existing row is
// reactivated with its cached metadata untouched (even if the request
// carries fresher data); when it is already active the add is rejected as a
// duplicate.
func (s *Service) Add(owner string, input models.WatchlistAdd) (*models.WatchlistEntry, error) {
	if owner == "" {
		return nil, ErrOwnerRequired
	}
	if input.TMDBID == 0 {
		return nil, ErrTMDBIDRequired
	}
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if !input.MediaKind.Valid() {
		return nil, ErrInvalidMediaKind
	}

	status := input.Status
	if status == "" {
		status = models.WatchStateUnwatched
	}
	if !status.Valid() {
		return nil, ErrInvalidWatchState
	}

	existing, err := s.store.FindByOwnerAndTMDBID(owner, input.TMDBID)
	if err != nil {
		return nil, fmt.Errorf("add lookup failed: %w", err)
	}

	if existing != nil {
		if existing.Active {
			return nil, ErrDuplicate
		}
		reactivated, err := s.store.Reactivate(owner, input.TMDBID)
		if err != nil {
			return nil, fmt.Errorf("reactivate failed: %w", err)
		}
		return reactivated, nil
	}

	entry := &models.WatchlistEntry{
		Owner:        owner,
		MediaSummary: input.MediaSummary,
		Status:       status,
		Notes:        input.Notes,
	}
	if entry.Genres == nil {
		entry.Genres = []string{}
	}

	if err := s.store.Insert(entry); err != nil {
		// Two adds for the same pair can race between the lookup and the
		// insert; the uniqueness constraint fails the loser closed.
		if errors.Is(err, database.ErrConflict) {
			log.Printf("[watchlist] concurrent add for owner=%s tmdbId=%d rejected by constraint", owner, input.TMDBID)
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert failed: %w", err)
	}
	return entry, nil
}

// List returns one page of the owner's active entries for a filter spec.
func (s *Service) List(owner string, q models.ListQuery) (*models.WatchlistPage, error) {
	if owner == "" {
		return nil, ErrOwnerRequired
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageLimit
	}
	if q.MediaKind != "" && !q.MediaKind.Valid() {
		return nil, ErrInvalidMediaKind
	}
	if q.Status != "" && !q.Status.Valid() {
		return nil, ErrInvalidWatchState
	}

	items, total, err := s.store.Query(owner, q)
	if err != nil {
		return nil, fmt.Errorf("list query failed: %w", err)
	}

	return &models.WatchlistPage{
		Items: items,
		Pagination: models.Pagination{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(q.Limit))),
		},
	}, nil
}

// UpdateStatus flips the watch state of an active entry. Status is the only
// mutable field on an active entry; removed entries are not updatable.
func (s *Service) UpdateStatus(owner string, tmdbID int64, state models.WatchState) (*models.WatchlistEntry, error) {
	if owner == "" {
		return nil, ErrOwnerRequired
	}
	if tmdbID == 0 {
		return nil, ErrTMDBIDRequired
	}
	if !state.Valid() {
		return nil, ErrInvalidWatchState
	}

	entry, err := s.store.UpdateWatchState(owner, tmdbID, state)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("status update failed: %w", err)
	}
	return entry, nil
}

// Remove soft-deletes an active entry. The row and its cached metadata are
// retained so a later re-add reactivates instead of re-fetching.
func (s *Service) Remove(owner string, tmdbID int64) error {
	if owner == "" {
		return ErrOwnerRequired
	}
	if tmdbID == 0 {
		return ErrTMDBIDRequired
	}

	if err := s.store.Deactivate(owner, tmdbID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("remove failed: %w", err)
	}
	return nil
}

// Membership reports whether the owner actively tracks the title and with
// which watch state. Absent or removed entries report unwatched.
func (s *Service) Membership(owner string, tmdbID int64) (bool, models.WatchState, error) {
	entry, err := s.store.FindByOwnerAndTMDBID(owner, tmdbID)
	if err != nil {
		return false, models.WatchStateUnwatched, fmt.Errorf("membership lookup failed: %w", err)
	}
	if entry == nil || !entry.Active {
		return false, models.WatchStateUnwatched, nil
	}
	return true, entry.Status, nil
}
