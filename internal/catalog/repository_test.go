package catalog

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var movieCols = []string{
	"id", "kind", "title", "slug", "status", "type_id", "type_slug",
	"release_date", "description", "imdb_id", "tmdb_id", "imdb_rating", "duration",
	"poster", "trailer", "production_country", "language", "network",
	"is_dubbed", "is_subtitled", "tmdb_user_score", "tmdb_popularity",
	"number_of_seasons", "episode_count", "series_status",
	"genre_slugs", "created_at", "updated_at",
}

func movieRow(id int64, kind, title, slug string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(movieCols).AddRow(
		id, kind, title, slug, true, int64(1), kind,
		nil, "", nil, nil, nil, nil,
		nil, nil, nil, nil, nil,
		false, false, nil, nil,
		nil, nil, nil,
		"{}", now, now,
	)
}

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestGetByIdentifierNumericUsesPrimaryKey(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("FROM movies m LEFT JOIN types t").
		WithArgs(int64(3)).
		WillReturnRows(movieRow(3, "movie", "Seven", "seven"))
	mock.ExpectQuery("FROM movie_actors").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}))
	mock.ExpectQuery("FROM movie_directors").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	m, err := repo.GetByIdentifier("3")
	require.NoError(t, err)
	assert.Equal(t, int64(3), m.ID)
	assert.Equal(t, KindMovie, m.Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIdentifierNumericMissDoesNotFallBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("FROM movies m LEFT JOIN types t").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByIdentifier("99")
	assert.ErrorIs(t, err, ErrNotFound)
	// No second query: a well-formed numeric id never retries as slug/title.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIdentifierSlugOrTitle(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("WHERE m.slug=\\$1 OR m.title=\\$1").
		WithArgs("breaking-bad").
		WillReturnRows(movieRow(5, "series", "Breaking Bad", "breaking-bad"))

	m, err := repo.GetByIdentifier("breaking-bad")
	require.NoError(t, err)
	assert.Equal(t, KindSeries, m.Kind)
	require.NotNil(t, m.Series)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIdentifierBlankIsNotFound(t *testing.T) {
	repo, _ := newMockRepo(t)
	_, err := repo.GetByIdentifier("  ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateGenreDuplicateSlug(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO genres").
		WillReturnError(&pq.Error{Code: pqUniqueViolation})

	err := repo.CreateGenre(&Genre{Name: "Drama", TranslatedName: "درام"})
	assert.ErrorIs(t, err, ErrDuplicateSlug)
}

func TestCreateGenreDerivesSlugFromTranslatedName(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO genres").
		WithArgs("Drama", "درام", "درام", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	g := &Genre{Name: "Drama", TranslatedName: "درام"}
	require.NoError(t, repo.CreateGenre(g))
	assert.Equal(t, "درام", g.Slug)
}

func TestCreateMovieSeriesForcesSeriesType(t *testing.T) {
	repo, mock := newMockRepo(t)

	callerType := int64(42)
	// The caller-supplied type is overridden with the series category.
	mock.ExpectQuery("SELECT id FROM types WHERE slug=\\$1 AND parent_id IS NULL").
		WithArgs("series").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))
	mock.ExpectQuery("INSERT INTO movies").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(10), time.Now(), time.Now()))

	m := &Movie{Kind: KindSeries, Title: "Dark", TypeID: &callerType}
	require.NoError(t, repo.CreateMovie(m))

	require.NotNil(t, m.TypeID)
	assert.Equal(t, int64(2), *m.TypeID)
	assert.Equal(t, "dark", m.Slug)
	require.NotNil(t, m.Series)
	assert.Equal(t, 1, m.Series.NumberOfSeasons)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMoviePlainDefaultsMovieType(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT id FROM types WHERE slug=\\$1 AND parent_id IS NULL").
		WithArgs("movie").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery("INSERT INTO movies").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(11), time.Now(), time.Now()))

	m := &Movie{Title: "Heat"}
	require.NoError(t, repo.CreateMovie(m))
	require.NotNil(t, m.TypeID)
	assert.Equal(t, int64(1), *m.TypeID)
	assert.Nil(t, m.Series)
}

func TestCreateMoviePlainKeepsCallerType(t *testing.T) {
	repo, mock := newMockRepo(t)

	callerType := int64(7)
	mock.ExpectQuery("INSERT INTO movies").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(12), time.Now(), time.Now()))

	m := &Movie{Title: "Anima", TypeID: &callerType}
	require.NoError(t, repo.CreateMovie(m))
	assert.Equal(t, callerType, *m.TypeID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTypeDuplicateWithinParent(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO types").
		WillReturnError(&pq.Error{Code: pqUniqueViolation})

	err := repo.CreateType(&Type{Name: "Anime"})
	assert.ErrorIs(t, err, ErrDuplicateSlug)
}
