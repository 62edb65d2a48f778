package watchlist_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"reelist/internal/database"
	"reelist/models"
	"reelist/services/watchlist"
)

func newTestService(t *testing.T) *watchlist.Service {
	t.Helper()
	db, err := database.NewDB(database.Config{DatabasePath: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return watchlist.NewService(db.Watchlist)
}

func matrixAdd() models.WatchlistAdd {
	return models.WatchlistAdd{
		MediaSummary: models.MediaSummary{
			TMDBID:    603,
			Title:     "The Matrix",
			MediaKind: models.MediaKindMovie,
			Year:      1999,
			Genres:    []string{"Action", "Science Fiction"},
		},
	}
}

func TestAddCreatesUnwatchedActiveEntry(t *testing.T) {
	svc := newTestService(t)

	entry, err := svc.Add("alice", matrixAdd())
	if err != nil {
		t.Fatalf("add returned error: %v", err)
	}
	if entry.Status != models.WatchStateUnwatched {
		t.Fatalf("expected default status unwatched, got %q", entry.Status)
	}
	if !entry.Active {
		t.Fatal("expected entry to be active")
	}
	if entry.CreatedAt.IsZero() {
		t.Fatal("expected createdAt to be set")
	}
}

func TestAddRejectsDuplicate(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Add("alice", matrixAdd()); err != nil {
		t.Fatalf("first add returned error: %v", err)
	}

	_, err := svc.Add("alice", matrixAdd())
	if !errors.Is(err, watchlist.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// The store must be unchanged by the rejected add.
	page, err := svc.List("alice", models.ListQuery{})
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if page.Pagination.Total != 1 {
		t.Fatalf("expected 1 entry after duplicate rejection, got %d", page.Pagination.Total)
	}
}

func TestAddRemoveReAddReactivatesSameRow(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Add("alice", matrixAdd())
	if err != nil {
		t.Fatalf("add returned error: %v", err)
	}
	createdAt := created.CreatedAt

	if err := svc.Remove("alice", 603); err != nil {
		t.Fatalf("remove returned error: %v", err)
	}

	// Removed entries disappear from listings but the row survives.
	page, _ := svc.List("alice", models.ListQuery{})
	if page.Pagination.Total != 0 {
		t.Fatalf("expected empty list after removal, got %d", page.Pagination.Total)
	}

	// Re-add with different metadata: the cached fields must win.
	time.Sleep(10 * time.Millisecond)
	readd := matrixAdd()
	readd.Title = "The Matrix (Remastered)"
	readd.VoteAverage = 9.9

	reactivated, err := svc.Add("alice", readd)
	if err != nil {
		t.Fatalf("re-add returned error: %v", err)
	}
	if !reactivated.Active {
		t.Fatal("expected reactivated entry to be active")
	}
	if !reactivated.CreatedAt.Equal(createdAt) {
		t.Fatalf("expected original createdAt %v to survive, got %v", createdAt, reactivated.CreatedAt)
	}
	if reactivated.Title != "The Matrix" {
		t.Fatalf("expected cached title to survive reactivation, got %q", reactivated.Title)
	}
	if reactivated.VoteAverage == 9.9 {
		t.Fatal("expected cached rating to survive reactivation")
	}
}

func TestAddValidation(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name  string
		owner string
		input models.WatchlistAdd
		want  error
	}{
		{"missing owner", "", matrixAdd(), watchlist.ErrOwnerRequired},
		{"missing tmdb id", "alice", models.WatchlistAdd{MediaSummary: models.MediaSummary{Title: "X", MediaKind: "movie"}}, watchlist.ErrTMDBIDRequired},
		{"missing title", "alice", models.WatchlistAdd{MediaSummary: models.MediaSummary{TMDBID: 1, MediaKind: "movie"}}, watchlist.ErrTitleRequired},
		{"bad kind", "alice", models.WatchlistAdd{MediaSummary: models.MediaSummary{TMDBID: 1, Title: "X", MediaKind: "podcast"}}, watchlist.ErrInvalidMediaKind},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Add(tc.owner, tc.input)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !watchlist.IsValidationError(err) {
				t.Fatalf("expected %v to be a validation error", err)
			}
		})
	}

	bad := matrixAdd()
	bad.Status = "maybe"
	if _, err := svc.Add("alice", bad); !errors.Is(err, watchlist.ErrInvalidWatchState) {
		t.Fatalf("expected ErrInvalidWatchState, got %v", err)
	}
}

func TestUpdateStatusOnActiveEntry(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Add("alice", matrixAdd()); err != nil {
		t.Fatalf("add returned error: %v", err)
	}

	updated, err := svc.UpdateStatus("alice", 603, models.WatchStateWatched)
	if err != nil {
		t.Fatalf("update returned error: %v", err)
	}
	if updated.Status != models.WatchStateWatched {
		t.Fatalf("expected watched, got %q", updated.Status)
	}

	if _, err := svc.UpdateStatus("alice", 603, "seen-twice"); !errors.Is(err, watchlist.ErrInvalidWatchState) {
		t.Fatalf("expected ErrInvalidWatchState, got %v", err)
	}
}

func TestUpdateStatusNeverTouchesInactiveEntry(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Add("alice", matrixAdd()); err != nil {
		t.Fatalf("add returned error: %v", err)
	}
	if err := svc.Remove("alice", 603); err != nil {
		t.Fatalf("remove returned error: %v", err)
	}

	if _, err := svc.UpdateStatus("alice", 603, models.WatchStateWatched); !errors.Is(err, watchlist.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on inactive entry, got %v", err)
	}

	// The failed update must not have reactivated the row.
	inList, _, err := svc.Membership("alice", 603)
	if err != nil {
		t.Fatalf("membership returned error: %v", err)
	}
	if inList {
		t.Fatal("expected entry to stay removed after failed update")
	}
}

func TestRemoveMissingEntry(t *testing.T) {
	svc := newTestService(t)

	if err := svc.Remove("alice", 999); !errors.Is(err, watchlist.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListScenarioTitleSort(t *testing.T) {
	svc := newTestService(t)

	for i, title := range []string{"B", "A", "C"} {
		add := models.WatchlistAdd{MediaSummary: models.MediaSummary{
			TMDBID:    int64(i + 1),
			Title:     title,
			MediaKind: models.MediaKindMovie,
		}}
		if _, err := svc.Add("alice", add); err != nil {
			t.Fatalf("add %q returned error: %v", title, err)
		}
	}

	page, err := svc.List("alice", models.ListQuery{
		MediaKind: models.MediaKindMovie,
		Status:    models.WatchStateUnwatched,
		SortBy:    "title",
		SortOrder: "asc",
		Page:      1,
		Limit:     2,
	})
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}

	if len(page.Items) != 2 || page.Items[0].Title != "A" || page.Items[1].Title != "B" {
		t.Fatalf("unexpected first page: %+v", page.Items)
	}
	if page.Pagination.Total != 3 {
		t.Fatalf("expected total 3, got %d", page.Pagination.Total)
	}
	if page.Pagination.TotalPages != 2 {
		t.Fatalf("expected 2 total pages, got %d", page.Pagination.TotalPages)
	}
}

func TestListDefaultsAndValidation(t *testing.T) {
	svc := newTestService(t)

	page, err := svc.List("alice", models.ListQuery{Page: -3})
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if page.Pagination.Page != 1 {
		t.Fatalf("expected page clamped to 1, got %d", page.Pagination.Page)
	}
	if page.Pagination.Limit != 60 {
		t.Fatalf("expected default limit 60, got %d", page.Pagination.Limit)
	}
	if page.Pagination.TotalPages != 0 {
		t.Fatalf("expected 0 total pages for empty list, got %d", page.Pagination.TotalPages)
	}

	if _, err := svc.List("alice", models.ListQuery{MediaKind: "book"}); !errors.Is(err, watchlist.ErrInvalidMediaKind) {
		t.Fatalf("expected ErrInvalidMediaKind, got %v", err)
	}
	if _, err := svc.List("", models.ListQuery{}); !errors.Is(err, watchlist.ErrOwnerRequired) {
		t.Fatalf("expected ErrOwnerRequired, got %v", err)
	}
}

func TestMembership(t *testing.T) {
	svc := newTestService(t)

	inList, state, err := svc.Membership("alice", 603)
	if err != nil {
		t.Fatalf("membership returned error: %v", err)
	}
	if inList || state != models.WatchStateUnwatched {
		t.Fatalf("expected absent title to report unwatched non-membership, got %v/%q", inList, state)
	}

	if _, err := svc.Add("alice", matrixAdd()); err != nil {
		t.Fatalf("add returned error: %v", err)
	}
	if _, err := svc.UpdateStatus("alice", 603, models.WatchStateWatched); err != nil {
		t.Fatalf("update returned error: %v", err)
	}

	inList, state, err = svc.Membership("alice", 603)
	if err != nil {
		t.Fatalf("membership returned error: %v", err)
	}
	if !inList || state != models.WatchStateWatched {
		t.Fatalf("expected watched membership, got %v/%q", inList, state)
	}

	if err := svc.Remove("alice", 603); err != nil {
		t.Fatalf("remove returned error: %v", err)
	}
	inList, state, _ = svc.Membership("alice", 603)
	if inList || state != models.WatchStateUnwatched {
		t.Fatalf("expected removed title to report unwatched non-membership, got %v/%q", inList, state)
	}
}
