package episodes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hameddjf/movie-api/internal/catalog"
)

var movieCols = []string{
	"id", "kind", "title", "slug", "status", "type_id", "type_slug",
	"release_date", "description", "imdb_id", "tmdb_id", "imdb_rating", "duration",
	"poster", "trailer", "production_country", "language", "network",
	"is_dubbed", "is_subtitled", "tmdb_user_score", "tmdb_popularity",
	"number_of_seasons", "episode_count", "series_status",
	"genres", "created_at", "updated_at",
}

func movieRow(id int64, title, slug string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(movieCols).AddRow(
		id, "movie", title, slug, true, int64(1), "movie",
		nil, "", nil, nil, nil, nil,
		nil, nil, nil, nil, nil,
		false, false, nil, nil,
		nil, nil, nil,
		"{}", now, now,
	)
}

func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewHandler(NewRepository(db), catalog.NewRepository(db)), mock
}

func TestGroupedForMovieUnknownIdentifierIs404(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery("FROM movies").WithArgs("no-such-show").
		WillReturnRows(sqlmock.NewRows(movieCols))

	req := httptest.NewRequest(http.MethodGet, "/no-such-show/", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"error"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupedForMovieWithoutEpisodesIsEmptyProjection(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery("FROM movies").WithArgs("heat").
		WillReturnRows(movieRow(4, "Heat", "heat"))
	mock.ExpectQuery("FROM episode_qualities").WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(pairCols))

	req := httptest.NewRequest(http.MethodGet, "/heat/", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","data":{}}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListGroupedByQueryParamResolvesMovie(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery("FROM movies").WithArgs("heat").
		WillReturnRows(movieRow(4, "Heat", "heat"))
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM episode_qualities").WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(pairCols).
			AddRow(int64(4), "Heat", "movie", nil, "720p", int64(9), "heat", "heat", now, now))

	req := httptest.NewRequest(http.MethodGet, "/?movie_slug=heat", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"qualities"`)
	assert.Contains(t, body, `"720p"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
