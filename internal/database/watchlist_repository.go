package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"reelist/models"
)

var (
	// ErrConflict is returned when an insert would violate the
	// (owner, tmdb_id) uniqueness constraint.
	ErrConflict = errors.New("watchlist entry already exists")
	// ErrNotFound is returned when the targeted entry does not exist or is
	// not in the state the operation requires.
	ErrNotFound = errors.New("watchlist entry not found")
)

// WatchlistRepository persists watchlist entries. At most one row exists per
// (owner, tmdb_id) pair regardless of the is_active flag; removal flips the
// flag instead of deleting the row so re-adds keep the cached metadata.
type WatchlistRepository struct {
	db *sql.DB
}

// NewWatchlistRepository creates a watchlist repository.
func NewWatchlistRepository(db *sql.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

const entryColumns = `owner, tmdb_id, title, original_title, media_type, year, end_year,
	poster_path, backdrop_path, overview, vote_average, vote_count, popularity,
	original_language, genres, status, is_active, notes, created_at, updated_at`

// FindByOwnerAndTMDBID returns the entry for the pair regardless of its
// active flag, or nil when no row exists.
func (r *WatchlistRepository) FindByOwnerAndTMDBID(owner string, tmdbID int64) (*models.WatchlistEntry, error) {
	row := r.db.QueryRow(`SELECT `+entryColumns+` FROM watchlist_entries WHERE owner = ? AND tmdb_id = ?`,
		owner, tmdbID)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find watchlist entry: %w", err)
	}
	return entry, nil
}

// Insert stores a new entry. Timestamps are set here; callers only provide
// the cached metadata, status and notes. A uniqueness violation surfaces as
// ErrConflict so racing adds fail closed.
func (r *WatchlistRepository) Insert(entry *models.WatchlistEntry) error {
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	entry.Active = true

	genres, err := json.Marshal(entry.Genres)
	if err != nil {
		return fmt.Errorf("failed to encode genres: %w", err)
	}

	_, err = r.db.Exec(`INSERT INTO watchlist_entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Owner, entry.TMDBID, entry.Title, entry.OriginalTitle, string(entry.MediaKind),
		entry.Year, entry.EndYear, entry.PosterPath, entry.BackdropPath, entry.Overview,
		entry.VoteAverage, entry.VoteCount, entry.Popularity, entry.OriginalLanguage,
		string(genres), string(entry.Status), boolToInt(entry.Active), entry.Notes,
		entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrConflict
		}
		return fmt.Errorf("failed to insert watchlist entry: %w", err)
	}
	return nil
}

// Reactivate flips an existing entry back to active and refreshes only the
// updated_at timestamp. Cached metadata, notes, status and created_at are
// left untouched.
func (r *WatchlistRepository) Reactivate(owner string, tmdbID int64) (*models.WatchlistEntry, error) {
	res, err := r.db.Exec(`UPDATE watchlist_entries SET is_active = 1, updated_at = ?
		WHERE owner = ? AND tmdb_id = ?`,
		time.Now().UTC(), owner, tmdbID)
	if err != nil {
		return nil, fmt.Errorf("failed to reactivate watchlist entry: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByOwnerAndTMDBID(owner, tmdbID)
}

// UpdateWatchState sets the watch state of an active entry. Inactive entries
// are not updatable and report ErrNotFound.
func (r *WatchlistRepository) UpdateWatchState(owner string, tmdbID int64, state models.WatchState) (*models.WatchlistEntry, error) {
	res, err := r.db.Exec(`UPDATE watchlist_entries SET status = ?, updated_at = ?
		WHERE owner = ? AND tmdb_id = ? AND is_active = 1`,
		string(state), time.Now().UTC(), owner, tmdbID)
	if err != nil {
		return nil, fmt.Errorf("failed to update watch state: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByOwnerAndTMDBID(owner, tmdbID)
}

// Deactivate soft-deletes an active entry. The row is retained so a later
// re-add reuses the cached metadata.
func (r *WatchlistRepository) Deactivate(owner string, tmdbID int64) error {
	res, err := r.db.Exec(`UPDATE watchlist_entries SET is_active = 0, updated_at = ?
		WHERE owner = ? AND tmdb_id = ? AND is_active = 1`,
		time.Now().UTC(), owner, tmdbID)
	if err != nil {
		return fmt.Errorf("failed to deactivate watchlist entry: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Query returns one page of active entries matching the filter spec plus the
// total match count computed independently of the page window. Ordering is
// deterministic: ties on the primary sort key are broken by tmdb_id.
func (r *WatchlistRepository) Query(owner string, q models.ListQuery) ([]models.WatchlistEntry, int, error) {
	where := []string{"owner = ?", "is_active = 1"}
	args := []interface{}{owner}

	if len(q.Genres) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(q.Genres)), ", ")
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM json_each(watchlist_entries.genres) WHERE json_each.value IN (%s))",
			placeholders))
		for _, g := range q.Genres {
			args = append(args, g)
		}
	}
	if q.MediaKind != "" {
		where = append(where, "media_type = ?")
		args = append(args, string(q.MediaKind))
	}
	if q.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(q.Status))
	}
	if q.Search != "" {
		pattern := "%" + escapeLike(q.Search) + "%"
		where = append(where, `(title LIKE ? ESCAPE '\' OR original_title LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM watchlist_entries WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count watchlist entries: %w", err)
	}

	orderClause := sortClause(q.SortBy, q.SortOrder)

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 60
	}
	offset := (page - 1) * limit

	queryArgs := append(args, limit, offset)
	rows, err := r.db.Query(`SELECT `+entryColumns+` FROM watchlist_entries WHERE `+whereClause+
		` ORDER BY `+orderClause+` LIMIT ? OFFSET ?`, queryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query watchlist entries: %w", err)
	}
	defer rows.Close()

	entries := []models.WatchlistEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan watchlist entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate watchlist entries: %w", err)
	}

	return entries, total, nil
}

// sortClause maps a sort spec to a deterministic ORDER BY clause. Unknown
// sort keys fall back to rating descending. Year is a numeric column, so
// year sorting compares numerically rather than lexicographically.
func sortClause(sortBy, sortOrder string) string {
	direction := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		direction = "ASC"
	}

	var column string
	switch sortBy {
	case "title":
		column = "title COLLATE NOCASE"
	case "year":
		column = "year"
	case "rating":
		column = "vote_average"
	default:
		column = "vote_average"
		direction = "DESC"
	}

	return column + " " + direction + ", tmdb_id ASC"
}

// escapeLike escapes LIKE wildcards in user-supplied search text.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*models.WatchlistEntry, error) {
	var entry models.WatchlistEntry
	var mediaType, status, genres string
	var active int

	err := row.Scan(&entry.Owner, &entry.TMDBID, &entry.Title, &entry.OriginalTitle, &mediaType,
		&entry.Year, &entry.EndYear, &entry.PosterPath, &entry.BackdropPath, &entry.Overview,
		&entry.VoteAverage, &entry.VoteCount, &entry.Popularity, &entry.OriginalLanguage,
		&genres, &status, &active, &entry.Notes, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return nil, err
	}

	entry.MediaKind = models.MediaKind(mediaType)
	entry.Status = models.WatchState(status)
	entry.Active = active != 0
	if err := json.Unmarshal([]byte(genres), &entry.Genres); err != nil {
		return nil, fmt.Errorf("failed to decode genres: %w", err)
	}
	return &entry, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
