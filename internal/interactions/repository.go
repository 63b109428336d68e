package interactions

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/hameddjf/movie-api/internal/catalog"
)

const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == pqUniqueViolation
}

// listTable restricts the membership queries to the two simple list tables.
type listTable string

const (
	tableWatchlist listTable = "watchlist_items"
	tableFavorites listTable = "favorite_items"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Add inserts a membership. A duplicate is not an error: the existing row is
// re-read and returned with created=false.
func (r *Repository) Add(table listTable, userID int64, ref catalog.ContentRef) (*Item, bool, error) {
	it := Item{UserID: userID, Content: ref}
	err := r.db.QueryRow(`
		INSERT INTO `+string(table)+` (user_id, content_kind, content_id)
		VALUES ($1, $2, $3)
		RETURNING id, added_at`,
		userID, ref.Kind, ref.ID,
	).Scan(&it.ID, &it.AddedAt)
	if err == nil {
		return &it, true, nil
	}
	if !isUniqueViolation(err) {
		return nil, false, err
	}

	err = r.db.QueryRow(`
		SELECT id, added_at FROM `+string(table)+`
		WHERE user_id = $1 AND content_kind = $2 AND content_id = $3`,
		userID, ref.Kind, ref.ID,
	).Scan(&it.ID, &it.AddedAt)
	if err != nil {
		return nil, false, err
	}
	return &it, false, nil
}

func (r *Repository) List(table listTable, userID int64) ([]Item, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, content_kind, content_id, added_at
		FROM `+string(table)+`
		WHERE user_id = $1
		ORDER BY added_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.UserID, &it.Content.Kind, &it.Content.ID, &it.AddedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Remove deletes one membership by row id, scoped to the owner. Absent rows
// are not an error; the caller gets told whether anything went away.
func (r *Repository) Remove(table listTable, userID, id int64) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM `+string(table)+` WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// RemoveByContent deletes the membership addressing a content item.
func (r *Repository) RemoveByContent(table listTable, userID int64, ref catalog.ContentRef) (bool, error) {
	res, err := r.db.Exec(`
		DELETE FROM `+string(table)+`
		WHERE user_id = $1 AND content_kind = $2 AND content_id = $3`,
		userID, ref.Kind, ref.ID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Touch upserts the watch-history row for (user, content): the timestamp
// always moves to now; progress is overwritten only when the caller supplied
// the field, so an explicit null clears it while an omitted one keeps the
// stored value.
func (r *Repository) Touch(userID int64, ref catalog.ContentRef, progress *int, setProgress bool) (*HistoryItem, bool, error) {
	it := HistoryItem{UserID: userID, Content: ref}

	query := `
		INSERT INTO recently_watched_items (user_id, content_kind, content_id, watched_at, progress_seconds)
		VALUES ($1, $2, $3, NOW(), $4)
		ON CONFLICT (user_id, content_kind, content_id)
		DO UPDATE SET watched_at = NOW(), progress_seconds = recently_watched_items.progress_seconds
		RETURNING id, watched_at, progress_seconds, (xmax = 0)`
	if setProgress {
		query = `
		INSERT INTO recently_watched_items (user_id, content_kind, content_id, watched_at, progress_seconds)
		VALUES ($1, $2, $3, NOW(), $4)
		ON CONFLICT (user_id, content_kind, content_id)
		DO UPDATE SET watched_at = NOW(), progress_seconds = EXCLUDED.progress_seconds
		RETURNING id, watched_at, progress_seconds, (xmax = 0)`
	}

	var created bool
	err := r.db.QueryRow(query, userID, ref.Kind, ref.ID, progress).
		Scan(&it.ID, &it.WatchedAt, &it.ProgressSeconds, &created)
	if err != nil {
		return nil, false, err
	}
	return &it, created, nil
}

func (r *Repository) ListHistory(userID int64) ([]HistoryItem, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, content_kind, content_id, watched_at, progress_seconds
		FROM recently_watched_items
		WHERE user_id = $1
		ORDER BY watched_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []HistoryItem
	for rows.Next() {
		var it HistoryItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.Content.Kind, &it.Content.ID, &it.WatchedAt, &it.ProgressSeconds); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *Repository) RemoveHistory(userID, id int64) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM recently_watched_items WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *Repository) RemoveHistoryByContent(userID int64, ref catalog.ContentRef) (bool, error) {
	res, err := r.db.Exec(`
		DELETE FROM recently_watched_items
		WHERE user_id = $1 AND content_kind = $2 AND content_id = $3`,
		userID, ref.Kind, ref.ID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
