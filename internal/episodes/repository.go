package episodes

import (
	"database/sql"
	"errors"

	"github.com/hameddjf/movie-api/internal/slugify"
)

var ErrNotFound = errors.New("not found")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// pairQuery drives the grouped projection. Rows come back ordered the way the
// projector emits them: title, then season with unset seasons last, then
// quality in ascending rendition order.
const pairQuery = `
	SELECT m.id, m.title, m.kind, e.season, q.quality,
	       e.id, e.title, COALESCE(e.slug, ''), e.created_at, e.updated_at
	FROM episode_qualities q
	JOIN episodes e ON e.id = q.episode_id
	JOIN movies m ON m.id = e.movie_id`

const pairOrder = `
	ORDER BY m.title,
	         e.season NULLS LAST,
	         CASE q.quality
	             WHEN '480p' THEN 0
	             WHEN '720p' THEN 1
	             WHEN '1080p' THEN 2
	             ELSE 3
	         END,
	         e.id`

// ListPairs returns every (episode, quality) row in projection order.
func (r *Repository) ListPairs() ([]Pair, error) {
	return r.queryPairs(pairQuery+pairOrder)
}

// ListPairsForMovie narrows the projection to a single content item.
func (r *Repository) ListPairsForMovie(movieID int64) ([]Pair, error) {
	return r.queryPairs(pairQuery+" WHERE m.id = $1"+pairOrder, movieID)
}

func (r *Repository) queryPairs(query string, args ...interface{}) ([]Pair, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []Pair
	for rows.Next() {
		var p Pair
		if err := rows.Scan(
			&p.MovieID, &p.MovieTitle, &p.MovieKind, &p.Season, &p.Quality,
			&p.Episode.ID, &p.Episode.Title, &p.Episode.Slug,
			&p.Episode.CreatedAt, &p.Episode.UpdatedAt,
		); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

// CreateEpisode inserts an episode, deriving the slug from the title when the
// caller left it blank.
func (r *Repository) CreateEpisode(e *Episode) error {
	if e.Slug == "" {
		e.Slug = slugify.Make(e.Title)
	}
	return r.db.QueryRow(`
		INSERT INTO episodes (movie_id, season, title, slug)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		e.MovieID, e.Season, e.Title, e.Slug,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *Repository) GetEpisode(id int64) (*Episode, error) {
	var e Episode
	err := r.db.QueryRow(`
		SELECT id, movie_id, season, title, COALESCE(slug, ''), created_at, updated_at
		FROM episodes WHERE id = $1`, id,
	).Scan(&e.ID, &e.MovieID, &e.Season, &e.Title, &e.Slug, &e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) CreateQuality(q *EpisodeQuality) error {
	return r.db.QueryRow(`
		INSERT INTO episode_qualities (episode_id, quality, file)
		VALUES ($1, $2, $3)
		RETURNING id`,
		q.EpisodeID, q.Quality, q.File,
	).Scan(&q.ID)
}
