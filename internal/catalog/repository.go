package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/hameddjf/movie-api/internal/slugify"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateSlug = errors.New("slug already in use")
)

const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Genres

func (r *Repository) CreateGenre(g *Genre) error {
	if g.Slug == "" {
		source := g.TranslatedName
		if source == "" || source == "None" {
			source = g.Name
		}
		g.Slug = slugify.Make(source)
	}
	err := r.db.QueryRow(`
		INSERT INTO genres (name, translated_name, slug, tmdb_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		g.Name, g.TranslatedName, g.Slug, g.TMDBID,
	).Scan(&g.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("genre %q: %w", g.Slug, ErrDuplicateSlug)
	}
	return err
}

func (r *Repository) ListGenres(search string) ([]Genre, error) {
	query := `
		SELECT id, name, translated_name, COALESCE(slug, ''), tmdb_id
		FROM genres`
	var args []interface{}
	if search != "" {
		query += " WHERE name ILIKE $1 OR slug ILIKE $1"
		args = append(args, "%"+search+"%")
	}
	query += " ORDER BY name"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Genre
	for rows.Next() {
		var g Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.TranslatedName, &g.Slug, &g.TMDBID); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *Repository) GetGenreBySlug(slug string) (*Genre, error) {
	g := &Genre{}
	err := r.db.QueryRow(`
		SELECT id, name, translated_name, COALESCE(slug, ''), tmdb_id
		FROM genres WHERE slug=$1`, slug,
	).Scan(&g.ID, &g.Name, &g.TranslatedName, &g.Slug, &g.TMDBID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Types (category tree)

func (r *Repository) CreateType(t *Type) error {
	if t.Slug == "" {
		t.Slug = slugify.Make(t.Name)
	}
	err := r.db.QueryRow(`
		INSERT INTO types (parent_id, name, slug)
		VALUES ($1, $2, $3)
		RETURNING id`,
		t.ParentID, t.Name, t.Slug,
	).Scan(&t.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("type %q: %w", t.Slug, ErrDuplicateSlug)
	}
	return err
}

func (r *Repository) GetTypeBySlug(slug string) (*Type, error) {
	t := &Type{}
	err := r.db.QueryRow(`
		SELECT id, parent_id, name, slug FROM types WHERE slug=$1
		ORDER BY parent_id NULLS FIRST LIMIT 1`, slug,
	).Scan(&t.ID, &t.ParentID, &t.Name, &t.Slug)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// getOrCreateType backs the movie/series type invariants: a missing builtin
// category row is created on demand.
func (r *Repository) getOrCreateType(slug string) (int64, error) {
	var id int64
	err := r.db.QueryRow("SELECT id FROM types WHERE slug=$1 AND parent_id IS NULL", slug).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}
	err = r.db.QueryRow(`
		INSERT INTO types (name, slug) VALUES ($1, $1)
		ON CONFLICT ((COALESCE(parent_id, 0)), slug) DO UPDATE SET slug=EXCLUDED.slug
		RETURNING id`, slug,
	).Scan(&id)
	return id, err
}

func (r *Repository) ListRootTypes() ([]Type, error) {
	rows, err := r.db.Query(`
		SELECT id, parent_id, name, slug FROM types
		WHERE parent_id IS NULL ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Type
	for rows.Next() {
		var t Type
		if err := rows.Scan(&t.ID, &t.ParentID, &t.Name, &t.Slug); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// DescendantSlugs returns the slug of the named category and of every
// category below it in the tree.
func (r *Repository) DescendantSlugs(slug string) ([]string, error) {
	rows, err := r.db.Query(`
		WITH RECURSIVE subtree AS (
			SELECT id, slug FROM types WHERE slug=$1
			UNION ALL
			SELECT t.id, t.slug FROM types t
			JOIN subtree s ON t.parent_id = s.id
		)
		SELECT slug FROM subtree`, slug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Movies

// applyKindInvariants runs on every save: a plain movie gets the "movie"
// category when none is set, a series always gets the "series" category.
func (r *Repository) applyKindInvariants(m *Movie) error {
	if !m.Kind.Valid() {
		m.Kind = KindMovie
	}
	if m.Slug == "" {
		m.Slug = slugify.Make(m.Title)
	}
	switch m.Kind {
	case KindSeries:
		id, err := r.getOrCreateType("series")
		if err != nil {
			return fmt.Errorf("series type: %w", err)
		}
		m.TypeID = &id
		if m.Series == nil {
			m.Series = &SeriesInfo{NumberOfSeasons: 1}
		}
		if m.Series.NumberOfSeasons == 0 {
			m.Series.NumberOfSeasons = 1
		}
		if m.Series.SeriesStatus == nil {
			status := SeriesOngoing
			m.Series.SeriesStatus = &status
		}
	default:
		if m.TypeID == nil {
			id, err := r.getOrCreateType("movie")
			if err != nil {
				return fmt.Errorf("movie type: %w", err)
			}
			m.TypeID = &id
		}
	}
	return nil
}

func (r *Repository) CreateMovie(m *Movie) error {
	if err := r.applyKindInvariants(m); err != nil {
		return err
	}
	var seasons, episodes *int
	var seriesStatus *SeriesStatus
	if m.Series != nil {
		seasons = &m.Series.NumberOfSeasons
		episodes = m.Series.EpisodeCount
		seriesStatus = m.Series.SeriesStatus
	}
	err := r.db.QueryRow(`
		INSERT INTO movies (kind, title, slug, status, type_id, release_date, description,
		       imdb_id, tmdb_id, imdb_rating, duration, poster, trailer, production_country,
		       language, network, is_dubbed, is_subtitled, tmdb_user_score, tmdb_popularity,
		       number_of_seasons, episode_count, series_status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
		RETURNING id, created_at, updated_at`,
		m.Kind, m.Title, m.Slug, m.Status, m.TypeID, m.ReleaseDate, m.Description,
		m.IMDBID, m.TMDBID, m.IMDBRating, m.Duration, m.Poster, m.Trailer, m.ProductionCountry,
		m.Language, m.Network, m.IsDubbed, m.IsSubtitled, m.TMDBUserScore, m.TMDBPopularity,
		seasons, episodes, seriesStatus,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("movie %q: %w", m.Title, ErrDuplicateSlug)
	}
	return err
}

func (r *Repository) UpdateMovie(m *Movie) error {
	if err := r.applyKindInvariants(m); err != nil {
		return err
	}
	var seasons, episodes *int
	var seriesStatus *SeriesStatus
	if m.Series != nil {
		seasons = &m.Series.NumberOfSeasons
		episodes = m.Series.EpisodeCount
		seriesStatus = m.Series.SeriesStatus
	}
	_, err := r.db.Exec(`
		UPDATE movies SET kind=$2, title=$3, slug=$4, status=$5, type_id=$6, release_date=$7,
		       description=$8, imdb_id=$9, tmdb_id=$10, imdb_rating=$11, duration=$12,
		       poster=$13, trailer=$14, production_country=$15, language=$16, network=$17,
		       is_dubbed=$18, is_subtitled=$19, tmdb_user_score=$20, tmdb_popularity=$21,
		       number_of_seasons=$22, episode_count=$23, series_status=$24, updated_at=NOW()
		WHERE id=$1`,
		m.ID, m.Kind, m.Title, m.Slug, m.Status, m.TypeID, m.ReleaseDate,
		m.Description, m.IMDBID, m.TMDBID, m.IMDBRating, m.Duration,
		m.Poster, m.Trailer, m.ProductionCountry, m.Language, m.Network,
		m.IsDubbed, m.IsSubtitled, m.TMDBUserScore, m.TMDBPopularity,
		seasons, episodes, seriesStatus)
	if isUniqueViolation(err) {
		return fmt.Errorf("movie %q: %w", m.Title, ErrDuplicateSlug)
	}
	return err
}

func (r *Repository) SetGenres(movieID int64, genreIDs []int64) error {
	if _, err := r.db.Exec("DELETE FROM movie_genres WHERE movie_id=$1", movieID); err != nil {
		return err
	}
	for _, gid := range genreIDs {
		if _, err := r.db.Exec(
			"INSERT INTO movie_genres (movie_id, genre_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			movieID, gid); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) AddActor(movieID, actorID int64) error {
	_, err := r.db.Exec(
		"INSERT INTO movie_actors (movie_id, actor_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		movieID, actorID)
	return err
}

func (r *Repository) AddDirector(movieID, directorID int64) error {
	_, err := r.db.Exec(
		"INSERT INTO movie_directors (movie_id, director_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		movieID, directorID)
	return err
}

const movieColumns = `
	m.id, m.kind, m.title, COALESCE(m.slug, ''), m.status, m.type_id, t.slug,
	m.release_date, m.description, m.imdb_id, m.tmdb_id, m.imdb_rating, m.duration,
	m.poster, m.trailer, m.production_country, m.language, m.network,
	m.is_dubbed, m.is_subtitled, m.tmdb_user_score, m.tmdb_popularity,
	m.number_of_seasons, m.episode_count, m.series_status,
	(SELECT COALESCE(array_agg(g.slug ORDER BY g.slug), '{}')
	   FROM movie_genres mg JOIN genres g ON g.id = mg.genre_id
	  WHERE mg.movie_id = m.id),
	m.created_at, m.updated_at`

func scanMovie(row interface{ Scan(...interface{}) error }) (*Movie, error) {
	m := &Movie{}
	var seasons, episodes *int
	var seriesStatus *SeriesStatus
	err := row.Scan(&m.ID, &m.Kind, &m.Title, &m.Slug, &m.Status, &m.TypeID, &m.TypeSlug,
		&m.ReleaseDate, &m.Description, &m.IMDBID, &m.TMDBID, &m.IMDBRating, &m.Duration,
		&m.Poster, &m.Trailer, &m.ProductionCountry, &m.Language, &m.Network,
		&m.IsDubbed, &m.IsSubtitled, &m.TMDBUserScore, &m.TMDBPopularity,
		&seasons, &episodes, &seriesStatus,
		pq.Array(&m.Genres), &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if m.Kind == KindSeries {
		m.Series = &SeriesInfo{EpisodeCount: episodes, SeriesStatus: seriesStatus}
		if seasons != nil {
			m.Series.NumberOfSeasons = *seasons
		}
	}
	return m, nil
}

func (r *Repository) GetByID(id int64) (*Movie, error) {
	row := r.db.QueryRow(`
		SELECT `+movieColumns+`
		FROM movies m LEFT JOIN types t ON t.id = m.type_id
		WHERE m.id=$1`, id)
	m, err := scanMovie(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load movie %d: %w", id, err)
	}
	if err := r.loadCredits(m); err != nil {
		return nil, err
	}
	return m, nil
}

// GetByIdentifier resolves a raw identifier that may be a numeric id, a slug
// or an exact title. Numeric identifiers are looked up by primary key only; a
// well-formed id that matches no row is a miss, it does not fall through to
// the slug/title path.
func (r *Repository) GetByIdentifier(raw string) (*Movie, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrNotFound
	}
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return r.GetByID(id)
	}
	row := r.db.QueryRow(`
		SELECT `+movieColumns+`
		FROM movies m LEFT JOIN types t ON t.id = m.type_id
		WHERE m.slug=$1 OR m.title=$1
		ORDER BY m.id LIMIT 1`, raw)
	m, err := scanMovie(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load movie %q: %w", raw, err)
	}
	return m, nil
}

// RefByID returns the ContentRef for a content row, carrying the row's own
// kind. Used when a URL has been resolved to a primary key.
func (r *Repository) RefByID(id int64) (ContentRef, error) {
	var kind Kind
	err := r.db.QueryRow("SELECT kind FROM movies WHERE id=$1", id).Scan(&kind)
	if err == sql.ErrNoRows {
		return ContentRef{}, ErrNotFound
	}
	if err != nil {
		return ContentRef{}, err
	}
	return ContentRef{Kind: kind, ID: id}, nil
}

func (r *Repository) loadCredits(m *Movie) error {
	rows, err := r.db.Query(`
		SELECT a.name FROM movie_actors ma
		JOIN actors a ON a.id = ma.actor_id
		WHERE ma.movie_id=$1 ORDER BY a.name`, m.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		m.Actors = append(m.Actors, name)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.db.Query(`
		SELECT d.full_name FROM movie_directors md
		JOIN directors d ON d.id = md.director_id
		WHERE md.movie_id=$1 ORDER BY d.full_name`, m.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		m.Directors = append(m.Directors, name)
	}
	return rows.Err()
}

type Filters struct {
	TypeSlug       string
	MovieType      string // "movie" or "series" shorthand
	GenreSlug      string
	Search         string
	Country        string
	Language       string
	Ordering       string
	Status         *bool
	IsDubbed       *bool
	IsSubtitled    *bool
	ReleaseYear    *int
	ReleaseYearGte *int
	ReleaseYearLte *int
	RatingGte      *float64
	RatingLte      *float64
}

var orderings = map[string]string{
	"title":           "m.title",
	"release_date":    "m.release_date",
	"imdb_rating":     "m.imdb_rating",
	"created_at":      "m.created_at",
	"tmdb_popularity": "m.tmdb_popularity",
	"type_name":       "t.name",
}

func orderClause(ordering string) string {
	dir := "ASC"
	field := ordering
	if strings.HasPrefix(ordering, "-") {
		dir = "DESC"
		field = ordering[1:]
	}
	if col, ok := orderings[field]; ok {
		return fmt.Sprintf("ORDER BY %s %s NULLS LAST, m.title", col, dir)
	}
	return "ORDER BY m.release_date DESC NULLS LAST, m.title"
}

// List returns content rows matching the filters. Non-staff callers only see
// published rows regardless of the Status filter.
func (r *Repository) List(f Filters, staff bool) ([]*Movie, error) {
	var where []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if !staff {
		where = append(where, "m.status = TRUE")
	} else if f.Status != nil {
		where = append(where, "m.status = "+arg(*f.Status))
	}

	typeSlug := strings.ToLower(f.TypeSlug)
	if typeSlug == "" && f.MovieType != "" {
		switch strings.ToLower(f.MovieType) {
		case "movie":
			typeSlug = "movie"
		case "series":
			typeSlug = "series"
		}
	}
	if typeSlug != "" {
		// A category covers its whole subtree.
		slugs, err := r.DescendantSlugs(typeSlug)
		if err != nil {
			return nil, err
		}
		if len(slugs) == 0 {
			slugs = []string{typeSlug}
		}
		where = append(where, "t.slug = ANY("+arg(pq.Array(slugs))+")")
	}
	if f.GenreSlug != "" {
		where = append(where, `EXISTS (
			SELECT 1 FROM movie_genres mg JOIN genres g ON g.id = mg.genre_id
			WHERE mg.movie_id = m.id AND g.slug = `+arg(f.GenreSlug)+")")
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		where = append(where, `(m.title ILIKE `+arg(pattern)+`
			OR m.description ILIKE `+arg(pattern)+`
			OR m.imdb_id = `+arg(f.Search)+`
			OR EXISTS (SELECT 1 FROM movie_actors ma JOIN actors a ON a.id = ma.actor_id
			           WHERE ma.movie_id = m.id AND a.name ILIKE `+arg(pattern)+`)
			OR EXISTS (SELECT 1 FROM movie_directors md JOIN directors d ON d.id = md.director_id
			           WHERE md.movie_id = m.id AND d.full_name ILIKE `+arg(pattern)+"))")
	}
	if f.Country != "" {
		where = append(where, "m.production_country ILIKE "+arg("%"+f.Country+"%"))
	}
	if f.Language != "" {
		where = append(where, "m.language ILIKE "+arg("%"+f.Language+"%"))
	}
	if f.IsDubbed != nil {
		where = append(where, "m.is_dubbed = "+arg(*f.IsDubbed))
	}
	if f.IsSubtitled != nil {
		where = append(where, "m.is_subtitled = "+arg(*f.IsSubtitled))
	}
	if f.ReleaseYear != nil {
		where = append(where, "EXTRACT(YEAR FROM m.release_date) = "+arg(*f.ReleaseYear))
	}
	if f.ReleaseYearGte != nil {
		where = append(where, "EXTRACT(YEAR FROM m.release_date) >= "+arg(*f.ReleaseYearGte))
	}
	if f.ReleaseYearLte != nil {
		where = append(where, "EXTRACT(YEAR FROM m.release_date) <= "+arg(*f.ReleaseYearLte))
	}
	if f.RatingGte != nil {
		where = append(where, "m.imdb_rating >= "+arg(*f.RatingGte))
	}
	if f.RatingLte != nil {
		where = append(where, "m.imdb_rating <= "+arg(*f.RatingLte))
	}

	query := "SELECT " + movieColumns + `
		FROM movies m LEFT JOIN types t ON t.id = m.type_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " " + orderClause(f.Ordering)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Latest returns the ten most recently released items, newest first.
func (r *Repository) Latest(typeSlug string, staff bool) ([]*Movie, error) {
	query := "SELECT " + movieColumns + `
		FROM movies m LEFT JOIN types t ON t.id = m.type_id`
	var where []string
	var args []interface{}
	if !staff {
		where = append(where, "m.status = TRUE")
	}
	if typeSlug != "" {
		args = append(args, strings.ToLower(typeSlug))
		where = append(where, "t.slug = $"+strconv.Itoa(len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY m.release_date DESC NULLS LAST, m.created_at DESC LIMIT 10"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
